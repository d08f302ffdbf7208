package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gnest/internal/domain/user"
	"gnest/internal/infra/gnest"
	"gnest/internal/infra/logger"
)

const DefaultAuditTopic = "gnest.audit"

// AuditTopic is the configured default topic, injected into Audit.
type AuditTopic string

// Publisher sends an event to a topic. The kafka producer implements it.
type Publisher interface {
	Publish(topic string, v interface{}) error
}

type AuditEvent struct {
	RequestID string    `json:"requestId,omitempty"`
	User      string    `json:"user,omitempty"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Outcome   string    `json:"outcome"`
	At        time.Time `json:"at"`
}

// Audit publishes one event per request that reaches it, after the rest of
// the pipeline has run: "audit:users.read" picks the topic. A failed
// publish is logged and never fails the request.
type Audit struct {
	Publisher Publisher
	Topic     AuditTopic
	Logger    *logger.LoggerService
}

func (m *Audit) Process(req *http.Request, next gnest.Next, args ...string) (any, error) {
	topic := DefaultAuditTopic
	switch {
	case len(args) > 0 && args[0] != "":
		topic = args[0]
	case m.Topic != "":
		topic = string(m.Topic)
	}
	res, err := next(req)

	ev := AuditEvent{
		RequestID: RequestIDFrom(req.Context()),
		Method:    req.Method,
		Path:      req.URL.Path,
		Outcome:   outcome(res, err),
		At:        time.Now().UTC(),
	}
	if f, ok := gnest.IsFallthrough(res); ok && f.Request != nil {
		req = f.Request
	}
	if claims, ok := user.ClaimsFrom(req.Context()); ok {
		ev.User = claims.Subject
	}
	if perr := m.Publisher.Publish(topic, ev); perr != nil && m.Logger != nil {
		m.Logger.Log.Warn("audit publish failed", zap.String("topic", topic), zap.Error(perr))
	}
	return res, err
}

func outcome(res any, err error) string {
	if err != nil {
		return "error"
	}
	if _, ok := gnest.IsFallthrough(res); ok {
		return "passed"
	}
	if r, ok := res.(*gnest.Response); ok {
		return fmt.Sprintf("answered %d", r.Status)
	}
	return "answered"
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	Logger *logger.LoggerService
}

func (p *LogPublisher) Publish(topic string, v interface{}) error {
	p.Logger.Log.Info("audit", zap.String("topic", topic), zap.Any("event", v))
	return nil
}
