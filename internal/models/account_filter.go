package models

// Sort fields accepted by account listings. Closed set: the source system
// resolved these via reflection on property names, which is replaced here by
// an explicit lookup.
const (
	SortByCreatedDate = "CreatedDate"
	SortByUpdatedDate = "UpdatedDate"
	SortByName        = "Name"
	SortByBalance     = "Balance"

	SortOrderAsc  = "Asc"
	SortOrderDesc = "Desc"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// AccountsFilter contains paging, sorting, and filter criteria for account listings
type AccountsFilter struct {
	PageNumber int
	PageSize   int
	SortBy     string
	SortOrder  string
	SearchTerm string
	Active     *bool
}

// NewAccountsFilter returns a filter populated with the listing defaults:
// first page of 10, newest accounts first, no search term, both active and
// inactive accounts.
func NewAccountsFilter() AccountsFilter {
	return AccountsFilter{
		PageNumber: 1,
		PageSize:   DefaultPageSize,
		SortBy:     SortByCreatedDate,
		SortOrder:  SortOrderDesc,
	}
}

// Normalize clamps out-of-range paging values and fills empty sort fields
// with the defaults
func (f *AccountsFilter) Normalize() {
	if f.PageNumber < 1 {
		f.PageNumber = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.SortBy == "" {
		f.SortBy = SortByCreatedDate
	}
	if f.SortOrder == "" {
		f.SortOrder = SortOrderDesc
	}
}

// Offset returns the number of rows to skip before the requested page
func (f AccountsFilter) Offset() int {
	return f.PageSize * (f.PageNumber - 1)
}

// IsValidSortBy checks if the sort field is in the accepted set
func IsValidSortBy(sortBy string) bool {
	switch sortBy {
	case SortByCreatedDate, SortByUpdatedDate, SortByName, SortByBalance:
		return true
	default:
		return false
	}
}

// IsValidSortOrder checks if the sort direction is in the accepted set
func IsValidSortOrder(sortOrder string) bool {
	switch sortOrder {
	case SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// SortColumn maps a sort field to its accounts column
func SortColumn(sortBy string) string {
	switch sortBy {
	case SortByUpdatedDate:
		return "updated_at"
	case SortByName:
		return "name"
	case SortByBalance:
		return "balance"
	default:
		return "created_at"
	}
}
