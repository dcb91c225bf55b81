package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"posts-api/internal/adapters/storage"
	"posts-api/pkg/lambda"
)

// operation names a post operation and its response messages
type operation struct {
	name    string
	success string
	failure string
}

var (
	opGet    = operation{"get", "Successfully retrieved post", "Failed to get post"}
	opCreate = operation{"create", "Successfully created post", "Failed to create post"}
	opUpdate = operation{"update", "Successfully updated post", "Failed to update post"}
	opDelete = operation{"delete", "Successfully deleted post", "Failed to delete post"}
	opList   = operation{"list", "Successfully retrieved posts", "Failed to retrieve posts"}
)

// PostHandler serves the five post operations. Each operation performs one
// store call and keeps no state between invocations.
type PostHandler struct {
	store     storage.ItemStore
	tableName func() string
	logger    *logrus.Logger
}

// NewPostHandler creates a new post handler. tableName is consulted on
// every invocation.
func NewPostHandler(store storage.ItemStore, tableName func() string, logger *logrus.Logger) *PostHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &PostHandler{
		store:     store,
		tableName: tableName,
		logger:    logger,
	}
}

// run is the single failure boundary of every operation: returned errors and
// panics both become a 500 envelope.
func (h *PostHandler) run(op operation, fn func() (*EnvelopeBody, error)) (resp *lambda.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = h.fail(op, errors.Errorf("panic: %v", r))
		}
	}()

	body, err := fn()
	if err != nil {
		return h.fail(op, err)
	}

	body.Message = op.success
	resp, err = success(body).Response()
	if err != nil {
		return h.fail(op, err)
	}
	return resp
}

func (h *PostHandler) fail(op operation, err error) *lambda.Response {
	h.logger.WithFields(logrus.Fields{
		"operation":  op.name,
		"error_kind": kindOf(err),
	}).WithError(err).Error(op.failure)
	return FailureResponse(op.failure, err)
}

// Get handles GET /posts/{postId}
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} EnvelopeBody
// @Failure 500 {object} EnvelopeBody
// @Router /posts/{postId} [get]
func (h *PostHandler) Get(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.run(opGet, func() (*EnvelopeBody, error) {
		item, err := h.store.GetItem(ctx, h.tableName(), storage.KeyFor(req.PathParam("postId")))
		if err != nil {
			return nil, storageError(err)
		}

		data, err := storage.ToPlain(item)
		if err != nil {
			return nil, storageError(err)
		}

		raw := storage.EncodeItem(item)
		h.logger.WithField("item", raw).Info("Retrieved post")

		return &EnvelopeBody{Data: data, RawData: raw}, nil
	})
}

// Create handles POST /posts
// @Summary Create or replace a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body object true "Post including postId"
// @Success 200 {object} EnvelopeBody
// @Failure 500 {object} EnvelopeBody
// @Router /posts [post]
func (h *PostHandler) Create(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.run(opCreate, func() (*EnvelopeBody, error) {
		if !req.HasBody() {
			return nil, invalidInput("Request body cannot be null")
		}

		var fields map[string]interface{}
		if err := json.Unmarshal(req.Body, &fields); err != nil {
			return nil, parseError(err)
		}
		if fields == nil {
			return nil, parseError(fmt.Errorf("body must be a JSON object"))
		}

		item, err := storage.FromPlain(fields)
		if err != nil {
			return nil, storageError(err)
		}

		result, err := h.store.PutItem(ctx, h.tableName(), item)
		if err != nil {
			return nil, storageError(err)
		}

		return &EnvelopeBody{CreateResult: result}, nil
	})
}

// Update handles PUT /posts/{postId}
// @Summary Update post fields
// @Tags posts
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param fields body object true "Fields to set"
// @Success 200 {object} EnvelopeBody
// @Failure 500 {object} EnvelopeBody
// @Router /posts/{postId} [put]
func (h *PostHandler) Update(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.run(opUpdate, func() (*EnvelopeBody, error) {
		if !req.HasBody() {
			return nil, invalidInput("Request body cannot be null")
		}
		if !req.HasPathParams() {
			return nil, invalidInput("Path parameters cannot be null")
		}

		update, err := parseUpdate(req.Body)
		if err != nil {
			return nil, err
		}

		result, err := h.store.UpdateItem(ctx, h.tableName(), storage.KeyFor(req.PathParam("postId")), update)
		if err != nil {
			return nil, storageError(err)
		}

		return &EnvelopeBody{UpdateResult: result}, nil
	})
}

// Delete handles DELETE /posts/{postId}
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} EnvelopeBody
// @Failure 500 {object} EnvelopeBody
// @Router /posts/{postId} [delete]
func (h *PostHandler) Delete(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.run(opDelete, func() (*EnvelopeBody, error) {
		if !req.HasPathParams() {
			return nil, invalidInput("Path parameters cannot be null")
		}

		result, err := h.store.DeleteItem(ctx, h.tableName(), storage.KeyFor(req.PathParam("postId")))
		if err != nil {
			return nil, storageError(err)
		}

		return &EnvelopeBody{DeleteResult: result}, nil
	})
}

// List handles GET /posts. An empty table yields an empty array.
// @Summary List all posts
// @Tags posts
// @Produce json
// @Success 200 {object} EnvelopeBody
// @Failure 500 {object} EnvelopeBody
// @Router /posts [get]
func (h *PostHandler) List(ctx context.Context, req *lambda.Request) *lambda.Response {
	return h.run(opList, func() (*EnvelopeBody, error) {
		items, err := h.store.ScanAll(ctx, h.tableName())
		if err != nil {
			return nil, storageError(err)
		}

		data := make([]map[string]interface{}, 0, len(items))
		for _, item := range items {
			plain, err := storage.ToPlain(item)
			if err != nil {
				return nil, storageError(err)
			}
			data = append(data, plain)
		}

		return &EnvelopeBody{Data: data, Items: storage.EncodeItems(items)}, nil
	})
}

// parseUpdate turns a JSON object into an ordered field list. Fields keep
// their document order; a repeated field keeps its first position and its
// last value.
func parseUpdate(body []byte) (*storage.UpdateRequest, error) {
	if !gjson.ValidBytes(body) {
		return nil, parseError(fmt.Errorf("malformed JSON"))
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, parseError(fmt.Errorf("body must be a JSON object"))
	}

	update := &storage.UpdateRequest{}
	position := map[string]int{}
	var invalid error
	doc.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !finite(value) {
			invalid = parseError(fmt.Errorf("number out of range in field %q", name))
			return false
		}
		if i, seen := position[name]; seen {
			update.Fields[i].Value = value.Value()
			return true
		}
		position[name] = len(update.Fields)
		update.Fields = append(update.Fields, storage.FieldUpdate{Name: name, Value: value.Value()})
		return true
	})
	if invalid != nil {
		return nil, invalid
	}

	if len(update.Fields) == 0 {
		return nil, invalidInput("Request body must contain at least one field")
	}
	return update, nil
}

// finite reports whether every number in value, nested ones included, fits
// in a float64
func finite(value gjson.Result) bool {
	switch {
	case value.Type == gjson.Number:
		return !math.IsInf(value.Num, 0) && !math.IsNaN(value.Num)
	case value.IsObject(), value.IsArray():
		ok := true
		value.ForEach(func(_, v gjson.Result) bool {
			ok = finite(v)
			return ok
		})
		return ok
	}
	return true
}
