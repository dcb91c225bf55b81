package handlers

// @title Posts API
// @version 1.0
// @description CRUD operations on posts backed by DynamoDB
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name posts
// @tag.description Post operations. Failures always return 500 with errorMsg and errorStack.
