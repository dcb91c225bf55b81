package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"posts-api/pkg/lambda"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Posts *PostHandler
}

// SetupRoutes mounts the post operations the way API Gateway routes them
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "posts-api",
			"version": "1.0.0",
		})
	})

	v1 := router.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", Gin(config.Posts.Create))
			posts.GET("", Gin(config.Posts.List))
			posts.GET("/:postId", Gin(config.Posts.Get))
			posts.PUT("/:postId", Gin(config.Posts.Update))
			posts.DELETE("/:postId", Gin(config.Posts.Delete))
		}
	}
}

// Gin adapts a lambda handler to gin. Routes without path parameters pass a
// nil map, as API Gateway does.
func Gin(h lambda.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &lambda.Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     map[string]string{},
			QueryParams: map[string]string{},
		}

		for name := range c.Request.Header {
			req.Headers[name] = c.Request.Header.Get(name)
		}
		for name, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				req.QueryParams[name] = values[0]
			}
		}
		if len(c.Params) > 0 {
			req.PathParams = make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				req.PathParams[p.Key] = p.Value
			}
		}
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"message":  "Failed to read request body",
					"errorMsg": err.Error(),
				})
				return
			}
			if len(body) > 0 {
				req.Body = body
			}
		}

		resp := h(c.Request.Context(), req)
		for name, value := range resp.Headers {
			c.Header(name, value)
		}
		c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
	}
}
