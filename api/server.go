package api

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()
	SetupRoutes(r, h)
	return r
}
