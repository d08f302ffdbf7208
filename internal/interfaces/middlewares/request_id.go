package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"gnest/internal/infra/gnest"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID tags the request context with the incoming X-Request-ID, or a
// fresh uuid when there is none.
type RequestID struct{}

func (RequestID) Process(req *http.Request, next gnest.Next, _ ...string) (any, error) {
	id := req.Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	return next(req.WithContext(context.WithValue(req.Context(), requestIDKey{}, id)))
}

// RequestIDFrom returns the id RequestID stored, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
