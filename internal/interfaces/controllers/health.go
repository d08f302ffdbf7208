package controllers

import (
	"context"
	"net/http"
	"time"

	"gnest/internal/infra/gnest"
)

// Pinger is any backing service that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports the process and each configured backend.
type Health struct {
	Checks map[string]Pinger
}

func (h *Health) Invoke(ctx context.Context) any {
	status := map[string]string{"app": "ok"}
	code := http.StatusOK
	for name, p := range h.Checks {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := p.Ping(cctx); err != nil {
			status[name] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status[name] = "ok"
		}
		cancel()
	}
	return gnest.NewResponse(code, status)
}
