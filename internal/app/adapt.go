package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gnest/internal/infra/gnest"
	"gnest/internal/pkg/response"
)

// Adapt turns an action spec into a gin handler. Path parameters are
// passed to the controllers as extra arguments, in route order.
func (a *App) Adapt(action any) gin.HandlerFunc {
	return func(c *gin.Context) {
		extra := make([]any, len(c.Params))
		for i, p := range c.Params {
			extra[i] = p.Value
		}
		res, err := a.Actionner.Dispatch(c.Request, action, extra...)
		if err != nil {
			a.fail(c, err)
			return
		}
		a.render(c, res)
	}
}

func (a *App) fail(c *gin.Context, err error) {
	code, msg := response.StatusOf(err)
	if code >= http.StatusInternalServerError {
		a.Log.Log.Error("dispatch failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, response.Fail(code, msg))
}

// render maps a dispatch result onto the matching gin response.
func (a *App) render(c *gin.Context, res any) {
	if c.IsAborted() || c.Writer.Written() {
		return
	}

	switch v := gnest.Normalize(res).(type) {
	case *gnest.Response:
		for k, vals := range v.Header {
			for _, val := range vals {
				c.Writer.Header().Add(k, val)
			}
		}
		switch body := v.Body.(type) {
		case nil:
			c.Status(v.Status)
		case string:
			c.String(v.Status, body)
		default:
			c.JSON(v.Status, body)
		}
	case Render:
		c.HTML(http.StatusOK, v.Name, v.Data)
	case RedirectResult:
		code := v.Code
		if code == 0 {
			code = http.StatusFound
		}
		c.Redirect(code, v.Location)
	case DataResult:
		c.Data(http.StatusOK, v.ContentType, v.Data)
	case FileResult:
		if v.FileName != "" {
			c.FileAttachment(v.FilePath, v.FileName)
		} else {
			c.File(v.FilePath)
		}
	case string: // 返回纯字符串
		c.String(http.StatusOK, v)
	case []byte: // 返回原始字节
		c.Data(http.StatusOK, "application/octet-stream", v)
	case nil:
		c.Status(http.StatusNoContent)
	default:
		// 默认返回 JSON
		c.JSON(http.StatusOK, response.OK(v))
	}
}
