package http

import (
	"github.com/nekogravitycat/slot-booker/internal/booking"
	"github.com/nekogravitycat/slot-booker/internal/site"
)

// ListSlotsRequest defines query parameters for exporting slots.
type ListSlotsRequest struct {
	DaysAhead  int `form:"days_ahead" binding:"min=0"`
	Days       int `form:"days,default=3" binding:"min=1,max=14"`
	ActivityID int `form:"activity_id" binding:"omitempty,min=1"`
	LocationID int `form:"location_id" binding:"omitempty,min=1"`
}

func (r ListSlotsRequest) Query() booking.SlotQuery {
	return booking.SlotQuery{
		DaysAhead:  r.DaysAhead,
		Days:       r.Days,
		ActivityID: r.ActivityID,
		LocationID: r.LocationID,
	}
}

type SlotListResponse struct {
	Items []site.Slot `json:"items"`
	Total int         `json:"total"`
}

func NewSlotListResponse(slots []site.Slot) SlotListResponse {
	if slots == nil {
		slots = make([]site.Slot, 0)
	}
	return SlotListResponse{Items: slots, Total: len(slots)}
}

type CreateBookingBody struct {
	ActivityID  int    `json:"activity_id" binding:"required,min=1"`
	DaysAhead   *int   `json:"days_ahead" binding:"required,min=0"`
	WindowStart string `json:"window_start" binding:"required"`
	WindowEnd   string `json:"window_end" binding:"required"`
	DryRun      bool   `json:"dry_run"`
	LocationID  int    `json:"location_id" binding:"omitempty,min=1"`
}

func (b CreateBookingBody) FindRequest() booking.FindRequest {
	return booking.FindRequest{
		ActivityID:  b.ActivityID,
		DaysAhead:   *b.DaysAhead,
		WindowStart: b.WindowStart,
		WindowEnd:   b.WindowEnd,
		DryRun:      b.DryRun,
		LocationID:  b.LocationID,
	}
}
