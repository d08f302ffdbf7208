package middlewares

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"gnest/internal/infra/gnest"
	"gnest/internal/infra/logger"
)

const (
	defaultLimit   = 60
	defaultWindow  = time.Minute
	throttlePrefix = "gnest:throttle:"
)

// Counter counts hits in fixed windows. The redis client implements it.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Throttle rejects a client once it exceeds limit requests per window on a
// path: "throttle:10,60" allows 10 requests per 60 seconds.
type Throttle struct {
	Counter Counter
	Logger  *logger.LoggerService
}

func (m *Throttle) Process(req *http.Request, next gnest.Next, args ...string) (any, error) {
	limit, window := throttleArgs(args)
	key := throttlePrefix + clientIP(req) + ":" + req.URL.Path
	n, err := m.Counter.Incr(req.Context(), key, window)
	if err != nil {
		// fail open
		if m.Logger != nil {
			m.Logger.Log.Warn("throttle counter unavailable", zap.Error(err))
		}
		return next(req)
	}
	if n > int64(limit) {
		return deny(http.StatusTooManyRequests, "too many requests").
			WithHeader("Retry-After", strconv.Itoa(int(window.Seconds()))), nil
	}
	return next(req)
}

func throttleArgs(args []string) (int, time.Duration) {
	limit, window := defaultLimit, defaultWindow
	if len(args) > 0 {
		if n, err := cast.ToIntE(args[0]); err == nil && n > 0 {
			limit = n
		}
	}
	if len(args) > 1 {
		if s, err := cast.ToIntE(args[1]); err == nil && s > 0 {
			window = time.Duration(s) * time.Second
		}
	}
	return limit, window
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

// sweepEvery is how often MemoryCounter drops expired windows.
const sweepEvery = time.Minute

// MemoryCounter is an in-process Counter for single instance deployments.
type MemoryCounter struct {
	mu        sync.Mutex
	now       func() time.Time
	windows   map[string]memoryWindow
	lastSweep time.Time
}

type memoryWindow struct {
	count   int64
	expires time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{now: time.Now, windows: make(map[string]memoryWindow)}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= sweepEvery {
		c.sweep(now)
	}
	w := c.windows[key]
	if !now.Before(w.expires) {
		w = memoryWindow{expires: now.Add(window)}
	}
	w.count++
	c.windows[key] = w
	return w.count, nil
}

// Len returns the number of live and not yet swept windows.
func (c *MemoryCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}

func (c *MemoryCounter) sweep(now time.Time) {
	for k, w := range c.windows {
		if !now.Before(w.expires) {
			delete(c.windows, k)
		}
	}
	c.lastSweep = now
}
