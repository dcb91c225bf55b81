package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"posts-api/internal/adapters/storage"
	"posts-api/pkg/lambda"
)

// EnvelopeBody is the JSON body of every post response. Which payload keys
// are set depends on the operation.
type EnvelopeBody struct {
	Message string `json:"message"`

	Data         interface{}            `json:"data,omitempty"`
	RawData      map[string]interface{} `json:"rawData,omitempty"`
	Items        interface{}            `json:"Items,omitempty"`
	CreateResult *storage.WriteResult   `json:"createResult,omitempty"`
	UpdateResult *storage.WriteResult   `json:"updateResult,omitempty"`
	DeleteResult *storage.WriteResult   `json:"deleteResult,omitempty"`

	ErrorMsg   string `json:"errorMsg,omitempty"`
	ErrorStack string `json:"errorStack,omitempty"`
}

// Envelope is the {statusCode, body} pair returned by every operation
type Envelope struct {
	StatusCode int
	Body       *EnvelopeBody
}

func success(body *EnvelopeBody) *Envelope {
	return &Envelope{StatusCode: http.StatusOK, Body: body}
}

// Failure builds the 500 envelope reported for err
func Failure(message string, err error) *Envelope {
	return &Envelope{
		StatusCode: http.StatusInternalServerError,
		Body: &EnvelopeBody{
			Message:    message,
			ErrorMsg:   err.Error(),
			ErrorStack: fmt.Sprintf("%+v", err),
		},
	}
}

// Response serializes the envelope
func (e *Envelope) Response() (*lambda.Response, error) {
	body, err := json.Marshal(e.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}

	return &lambda.Response{
		StatusCode: e.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}, nil
}

// FailureResponse encodes the failure envelope for err. A failure body
// holds only strings, so it always encodes.
func FailureResponse(message string, err error) *lambda.Response {
	resp, _ := Failure(message, err).Response()
	return resp
}
