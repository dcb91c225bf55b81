package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"posts-api/internal/config"
)

func TestConnectionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("ReusesContainer", func(t *testing.T) {
		loads := 0
		cm := NewConnectionManager(func() (*config.Config, error) {
			loads++
			return testConfig("memory"), nil
		})
		defer cm.Cleanup()

		if cm.IsHealthy() {
			t.Error("Manager should not be healthy before first use")
		}

		first, err := cm.GetContainer(ctx)
		if err != nil {
			t.Fatalf("GetContainer failed: %v", err)
		}
		second, err := cm.GetContainer(ctx)
		if err != nil {
			t.Fatalf("GetContainer failed: %v", err)
		}

		if first != second {
			t.Error("Container should be reused across invocations")
		}
		if loads != 1 {
			t.Errorf("Expected config to load once, got %d", loads)
		}
		if !cm.IsHealthy() {
			t.Error("Manager should be healthy after use")
		}
	})

	t.Run("RetriesFailedInit", func(t *testing.T) {
		attempts := 0
		cm := NewConnectionManager(func() (*config.Config, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("missing DYNAMODB_TABLE_NAME")
			}
			return testConfig("memory"), nil
		})
		defer cm.Cleanup()

		if _, err := cm.GetContainer(ctx); err == nil {
			t.Fatal("Expected first initialization to fail")
		}
		if _, err := cm.GetContainer(ctx); err != nil {
			t.Fatalf("Expected second initialization to succeed: %v", err)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		cm := NewConnectionManager(func() (*config.Config, error) { return testConfig("memory"), nil })
		if _, err := cm.GetContainer(ctx); err != nil {
			t.Fatalf("GetContainer failed: %v", err)
		}
		if err := cm.Cleanup(); err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if cm.IsHealthy() {
			t.Error("Manager should not be healthy after cleanup")
		}
	})
}

func TestLambdaHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		cm := NewConnectionManager(func() (*config.Config, error) { return testConfig("memory"), nil })
		defer cm.Cleanup()

		create := LambdaHandler(cm, CreatePost, "Failed to create post")
		resp, err := create(ctx, events.APIGatewayProxyRequest{Body: `{"postId":"p1","title":"Hi"}`})
		if err != nil || resp.StatusCode != http.StatusOK {
			t.Fatalf("Create failed: %v %+v", err, resp)
		}

		get := LambdaHandler(cm, GetPost, "Failed to get post")
		resp, err = get(ctx, events.APIGatewayProxyRequest{PathParameters: map[string]string{"postId": "p1"}})
		if err != nil || resp.StatusCode != http.StatusOK {
			t.Fatalf("Get failed: %v %+v", err, resp)
		}

		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if body.Data["title"] != "Hi" {
			t.Errorf("Unexpected data %v", body.Data)
		}
	})

	t.Run("InitFailure", func(t *testing.T) {
		cm := NewConnectionManager(func() (*config.Config, error) {
			return nil, errors.New("invalid configuration")
		})

		list := LambdaHandler(cm, ListPosts, "Failed to retrieve posts")
		resp, err := list(ctx, events.APIGatewayProxyRequest{})
		if err != nil {
			t.Fatalf("Handler should not return an error, got %v", err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", resp.StatusCode)
		}

		var body map[string]interface{}
		if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if body["message"] != "Failed to retrieve posts" {
			t.Errorf("Unexpected message %v", body["message"])
		}
		if body["errorMsg"] != "failed to initialize: invalid configuration" {
			t.Errorf("Unexpected errorMsg %v", body["errorMsg"])
		}
	})
}
