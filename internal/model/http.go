package model

import (
	"net/http"
	"time"
)

// Request is a backend-neutral HTTP request.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is what a WebClient backend hands back after a request completes.
// StatusCode is whatever the server sent; callers decide what counts as success.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
