package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edutainment-backend/internal/platform/apierr"
)

// ErrorBody is the only error shape clients see.
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondError writes {"error": msg} and aborts the chain. err is attached to
// the gin context for the request logger; it is never sent to the client.
func RespondError(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// RespondAPIError unwraps an *apierr.Error for its status and public message.
// Anything else is a 500.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		RespondError(c, ae.Status, ae.Public(), err)
		return
	}
	RespondError(c, http.StatusInternalServerError, apierr.MsgInternal, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
