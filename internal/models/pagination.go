package models

// PaginationMetadata describes a returned slice of a larger filtered set.
// TotalCount is the size of the filtered set before paging is applied.
type PaginationMetadata struct {
	TotalCount  int64 `json:"total_count"`
	PageSize    int   `json:"page_size"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
}

// NewPaginationMetadata computes pagination metadata for a filtered result set
func NewPaginationMetadata(totalCount int64, pageSize, currentPage int) PaginationMetadata {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}

	return PaginationMetadata{
		TotalCount:  totalCount,
		PageSize:    pageSize,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
	}
}
