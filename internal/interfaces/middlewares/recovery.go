package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gnest/internal/infra/logger"
	"gnest/internal/pkg/response"
)

func Recovery(log *logger.LoggerService) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			response.Fail(http.StatusInternalServerError, "internal server error"))
	})
}
