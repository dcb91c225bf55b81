package lambda

import "context"

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Headers     map[string]string `json:"headers"`
	QueryParams map[string]string `json:"query_params"`
	Body        []byte            `json:"body"`
	PathParams  map[string]string `json:"path_params"`
}

// HasBody reports whether the request carried a body. API Gateway delivers
// a null body as an empty string, so empty and absent are the same.
func (r *Request) HasBody() bool {
	return len(r.Body) > 0
}

// HasPathParams reports whether any path parameters were supplied
func (r *Request) HasPathParams() bool {
	return r.PathParams != nil
}

// PathParam returns a path parameter, or "" when missing
func (r *Request) PathParam(name string) string {
	return r.PathParams[name]
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler. It reports failures through
// the response rather than a Go error.
type HandlerFunc func(ctx context.Context, req *Request) *Response
