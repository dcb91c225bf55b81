package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"posts-api/pkg/server"
)

func main() {
	awslambda.Start(server.LambdaHandler(server.GetConnectionManager(), server.UpdatePost, "Failed to update post"))
}
