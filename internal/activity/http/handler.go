package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/slot-booker/internal/activity"
	"github.com/nekogravitycat/slot-booker/internal/pkg/response"
)

type ActivityHandler struct {
	service activity.Service
}

func NewHandler(service activity.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// List enumerates the activities offered at the centre, one page at a time.
func (h *ActivityHandler) List(c *gin.Context) {
	var req ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	entries, err := h.service.List(c.Request.Context(), activity.Filter{LocationID: req.LocationID})
	if err != nil {
		response.Error(c, err)
		return
	}

	start, end := req.Bounds(len(entries))
	items := make([]ActivityResponse, 0, end-start)
	for _, e := range entries[start:end] {
		items = append(items, NewActivityResponse(e))
	}

	resp := response.NewPageResponse(items, req.Page, req.PageSize, len(entries))
	c.JSON(http.StatusOK, resp)
}
