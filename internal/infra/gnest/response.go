package gnest

import "net/http"

// Responder marks a value that is already a finished response.
type Responder interface {
	IsResponse()
}

// Record is an ORM entity that can serialize itself to a plain mapping.
type Record interface {
	ToMap() map[string]any
}

// Collection is a sequence of records that can serialize itself.
type Collection interface {
	ToSlice() []any
}

// Normalize prepares a value a middleware answered with. Records and
// collections are flattened; everything else is returned unchanged.
func Normalize(v any) any {
	switch r := v.(type) {
	case Responder:
		return r
	case Record:
		return r.ToMap()
	case Collection:
		return r.ToSlice()
	}
	return v
}

// Response is a finished response a middleware or controller can return
// to set the status and headers explicitly.
type Response struct {
	Status int
	Header http.Header
	Body   any
}

func (*Response) IsResponse() {}

// NewResponse builds a Response with an empty header set.
func NewResponse(status int, body any) *Response {
	return &Response{Status: status, Header: make(http.Header), Body: body}
}

// WithHeader sets a header and returns r.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}
