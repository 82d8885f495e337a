package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/slot-booker/internal/booking"
	"github.com/nekogravitycat/slot-booker/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// ListSlots exports the timetable for a span of days.
func (h *Handler) ListSlots(c *gin.Context) {
	var req ListSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	slots, err := h.service.FetchSlots(c.Request.Context(), req.Query())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotListResponse(slots))
}

// Create books the earliest available slot in the requested window.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.FindAndBook(c.Request.Context(), body.FindRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(ResultStatus(result), result)
}

// ResultStatus maps a booking outcome to the HTTP status it is reported with.
func ResultStatus(r *booking.Result) int {
	switch r.Outcome {
	case booking.OutcomeBooked:
		return http.StatusCreated
	case booking.OutcomeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}
