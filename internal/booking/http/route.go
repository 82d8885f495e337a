package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Authenticated Routes ===
	slots := g.Group("/slots")
	slots.Use(authMiddleware)
	{
		slots.GET("", h.ListSlots) // Export slots
	}

	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", h.Create) // Find and book
	}
}
