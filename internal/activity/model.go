package activity

// Entry is one bookable activity as offered at one location.
type Entry struct {
	ActivityID   int    `json:"ActivityId"`
	ActivityName string `json:"ActivityName"`
	LocationID   int    `json:"LocationId"`
	LocationName string `json:"LocationName"`
	CategoryID   int    `json:"CategoryId"`
	CategoryName string `json:"CategoryName"`
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	LocationID int
}
