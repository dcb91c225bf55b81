package server

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"

	"posts-api/internal/handlers"
	"posts-api/pkg/lambda"
)

// Operation selects one post operation from the handler set
type Operation func(h *handlers.PostHandler) lambda.HandlerFunc

// Operations available to Lambda entrypoints
var (
	GetPost    Operation = func(h *handlers.PostHandler) lambda.HandlerFunc { return h.Get }
	CreatePost Operation = func(h *handlers.PostHandler) lambda.HandlerFunc { return h.Create }
	UpdatePost Operation = func(h *handlers.PostHandler) lambda.HandlerFunc { return h.Update }
	DeletePost Operation = func(h *handlers.PostHandler) lambda.HandlerFunc { return h.Delete }
	ListPosts  Operation = func(h *handlers.PostHandler) lambda.HandlerFunc { return h.List }
)

// LambdaHandler builds the API Gateway entrypoint for op. The container is
// resolved through cm on every invocation so a failed cold start is retried;
// that failure is itself reported as a 500 envelope.
func LambdaHandler(cm *ConnectionManager, op Operation, failureMessage string) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		container, err := cm.GetContainer(ctx)
		if err != nil {
			resp := handlers.FailureResponse(failureMessage, errors.Wrap(err, "failed to initialize"))
			return lambda.ToAPIGateway(resp), nil
		}
		return lambda.Adapt(op(container.Posts))(ctx, event)
	}
}
