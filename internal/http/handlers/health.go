package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// GET /test
func (h *HealthHandler) Test(c *gin.Context) {
	c.String(http.StatusOK, "Hello!")
}
