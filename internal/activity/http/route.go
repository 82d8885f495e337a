package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *ActivityHandler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/activities")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List) // List activities
	}
}
