package domain

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// NewPagination describes one page of an already paginated result. totalPages is taken
// as given; an empty collection is still page 1 of 1.
func NewPagination(page, perPage, totalPages int, totalItems int64) *Pagination {
	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: totalItems,
	}
}

func (p *Pagination) HasPrev() bool {
	return p != nil && p.Page > 1
}

func (p *Pagination) HasNext() bool {
	return p != nil && p.Page < p.TotalPages
}
