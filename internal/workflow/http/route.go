package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/workflows")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("/club-booking", h.ClubBooking) // Recurring club booking
	}
}
