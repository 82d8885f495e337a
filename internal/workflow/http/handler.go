package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingHttp "github.com/nekogravitycat/slot-booker/internal/booking/http"
	"github.com/nekogravitycat/slot-booker/internal/pkg/response"
	"github.com/nekogravitycat/slot-booker/internal/workflow"
)

type Handler struct {
	service workflow.Service
}

func NewHandler(service workflow.Service) *Handler {
	return &Handler{service: service}
}

// ClubBooking runs the recurring club booking for the week's location.
func (h *Handler) ClubBooking(c *gin.Context) {
	var body ClubBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.ClubBooking(c.Request.Context(), body.ClubRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(bookingHttp.ResultStatus(result), result)
}
