package filesync

import (
	"context"
)

// FilePart is the binary part of a multipart request.
type FilePart struct {
	FieldName string
	FileName  string
	Content   []byte
}

// Request is a transport independent description of one api call.
type Request struct {
	Method string
	Path   string
	Header map[string]string
	Form   map[string]string
	File   *FilePart
}

// SetHeader sets a request header, allocating the map on first use.
func (r *Request) SetHeader(key, value string) {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[key] = value
}

// Response is a completed round trip, whatever its status code.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// Transport sends a request over an existing connection. A timeout must be
// reported as an error that ClassifyError maps to ErrorKindTimeout.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Authorizer attaches credentials to a request.
type Authorizer interface {
	Authorize(req *Request)
}

// ResponseFormatter turns a response into a human readable status line.
type ResponseFormatter interface {
	Format(resp *Response) string
}

type noopAuthorizer struct{}

func (noopAuthorizer) Authorize(*Request) {}
