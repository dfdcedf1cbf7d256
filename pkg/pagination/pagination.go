package pagination

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds normalized paging inputs
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse normalizes page/limit query values. Invalid or missing values fall
// back to page 1 and the default page size; limit is capped at MaxPageSize.
func Parse(pageStr, limitStr string) Params {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Meta describes the page position within the full result set
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Page is the paginated response envelope
type Page struct {
	Data       interface{} `json:"data"`
	Pagination Meta        `json:"pagination"`
}

// NewPage wraps data with its pagination metadata
func NewPage(data interface{}, total int64, p Params) Page {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Page{
		Data: data,
		Pagination: Meta{
			CurrentPage: p.Page,
			PerPage:     p.Limit,
			TotalItems:  total,
			TotalPages:  totalPages,
			HasNext:     p.Page < totalPages,
			HasPrev:     p.Page > 1,
		},
	}
}
