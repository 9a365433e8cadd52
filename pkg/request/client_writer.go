package request

import "net/http"

// ClientWriter wraps a http.ResponseWriter and records the status code that
// was written, so middleware can report it after the handler has run.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code written to the client. Defaults to 200,
	// as net/http does when WriteHeader is never called.
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code and forwards it to the client.
func (c *ClientWriter) WriteHeader(statusCode int) {
	c.statusCode = statusCode
	c.ResponseWriter.WriteHeader(statusCode)
}

// StatusCode returns the status code written to the client.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
