package http

import (
	"github.com/nekogravitycat/slot-booker/internal/workflow"
)

type ClubBookingBody struct {
	WindowStart string `json:"window_start" binding:"required"`
	WindowEnd   string `json:"window_end" binding:"required"`
	DaysAhead   *int   `json:"days_ahead" binding:"omitempty,min=0"`
	DryRun      bool   `json:"dry_run"`
}

func (b ClubBookingBody) ClubRequest() workflow.ClubRequest {
	return workflow.ClubRequest{
		WindowStart: b.WindowStart,
		WindowEnd:   b.WindowEnd,
		DaysAhead:   b.DaysAhead,
		DryRun:      b.DryRun,
	}
}
