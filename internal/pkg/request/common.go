package request

// ListParams is embedded by list endpoints that page over their results.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// Bounds returns the [start, end) slice indexes of the requested page within total items.
func (p ListParams) Bounds(total int) (int, int) {
	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}
