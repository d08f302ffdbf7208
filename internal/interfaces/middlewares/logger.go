package middlewares

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gnest/internal/infra/gnest"
	"gnest/internal/infra/logger"
)

// ========================
// ResponseWriter 封装
// ========================
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// maxLoggedBody caps how much of a request or response body is logged.
const maxLoggedBody = 2048

// ========================
// Gin access log
// ========================
func AccessLog(log *logger.LoggerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		blw := &bodyLogWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = blw

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.String()),
			zap.String("ip", c.ClientIP()),
			zap.String("duration", time.Since(start).String()),
			zap.String("request", truncate(reqBody)),
			zap.String("response", truncate(blw.body.Bytes())),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// 按状态码分级
		switch {
		case status >= 500:
			log.Log.Error("HTTP Request", fields...)
		case status >= 400:
			log.Log.Warn("HTTP Request", fields...)
		default:
			log.Log.Info("HTTP Request", fields...)
		}
	}
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}

// Log traces a request through the dispatch pipeline: how long the stages
// after it took and whether one of them answered.
type Log struct {
	Logger *logger.LoggerService
}

func (m *Log) Process(req *http.Request, next gnest.Next, _ ...string) (any, error) {
	start := time.Now()
	res, err := next(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", RequestIDFrom(req.Context())),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("outcome", outcome(res, err)),
	}
	if err != nil {
		m.Logger.Log.Warn("dispatch", append(fields, zap.Error(err))...)
	} else {
		m.Logger.Log.Debug("dispatch", fields...)
	}
	return res, err
}
