package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edutainment-backend/internal/http/response"
	"github.com/yungbote/edutainment-backend/internal/platform/apierr"
	"github.com/yungbote/edutainment-backend/internal/platform/ctxutil"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

// Recovery turns a handler panic into the generic 500 error envelope and
// logs the panic value and stack through log instead of stderr.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		if log != nil {
			fields := append(ctxutil.LogFields(c.Request.Context()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			log.Error("handler panic recovered", fields...)
		}
		response.RespondError(c, http.StatusInternalServerError, apierr.MsgInternal, fmt.Errorf("panic: %v", rec))
	})
}
