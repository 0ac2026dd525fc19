package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edutainment-backend/internal/http/response"
	"github.com/yungbote/edutainment-backend/internal/learning/narration"
	"github.com/yungbote/edutainment-backend/internal/platform/apierr"
	"github.com/yungbote/edutainment-backend/internal/platform/logger"
)

type NarrationHandler struct {
	log   *logger.Logger
	store narration.Store
}

func NewNarrationHandler(log *logger.Logger, store narration.Store) *NarrationHandler {
	return &NarrationHandler{log: log.With("handler", "NarrationHandler"), store: store}
}

// GET /narration/*filename
func (h *NarrationHandler) Serve(c *gin.Context) {
	file := strings.TrimPrefix(c.Param("filename"), "/")
	name, err := narration.CleanName(narration.Dir + "/" + file)
	if err != nil || file == "" || !strings.HasPrefix(name, narration.Dir+"/") {
		response.RespondAPIError(c, apierr.NotFound(fmt.Errorf("narration %q", file)))
		return
	}

	rc, info, err := h.store.Open(c.Request.Context(), name)
	if errors.Is(err, narration.ErrNotFound) {
		response.RespondAPIError(c, apierr.NotFound(err))
		return
	}
	if err != nil {
		h.log.Error("open narration failed", "file", name, "error", err)
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	defer rc.Close()

	size := info.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, info.ContentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", path.Base(name)),
	})
}
