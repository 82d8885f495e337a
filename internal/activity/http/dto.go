package http

import (
	"github.com/nekogravitycat/slot-booker/internal/activity"
	"github.com/nekogravitycat/slot-booker/internal/pkg/request"
)

// ListActivitiesRequest defines query parameters for listing activities.
type ListActivitiesRequest struct {
	request.ListParams
	LocationID int `form:"location_id" binding:"omitempty,min=1"`
}

type ActivityResponse struct {
	ActivityID   int    `json:"activity_id"`
	ActivityName string `json:"activity_name"`
	LocationID   int    `json:"location_id"`
	LocationName string `json:"location_name"`
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
}

func NewActivityResponse(e activity.Entry) ActivityResponse {
	return ActivityResponse{
		ActivityID:   e.ActivityID,
		ActivityName: e.ActivityName,
		LocationID:   e.LocationID,
		LocationName: e.LocationName,
		CategoryID:   e.CategoryID,
		CategoryName: e.CategoryName,
	}
}
