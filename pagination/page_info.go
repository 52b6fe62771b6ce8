package pagination

// PageInfo carries page metadata as lazily evaluated functions so that
// renderers only pay for what they display.
type PageInfo struct {
	// TotalCount returns the total number of rows, or nil when not counted.
	TotalCount func() (*int, error)

	// PageCount returns the number of pages, or nil when not counted.
	PageCount func() (*int, error)

	HasNextPage     func() (bool, error)
	HasPreviousPage func() (bool, error)
}

// NewPageInfo returns page metadata for a counted result set.
func NewPageInfo(pageSize int, totalCount int64, page int) PageInfo {
	count := int(totalCount)
	pages := LastPage(pageSize, totalCount)

	return PageInfo{
		TotalCount:      func() (*int, error) { return &count, nil },
		PageCount:       func() (*int, error) { return &pages, nil },
		HasNextPage:     func() (bool, error) { return page < pages, nil },
		HasPreviousPage: func() (bool, error) { return page > 1, nil },
	}
}

// NewUncountedPageInfo returns page metadata when only the presence of a next
// page is known.
func NewUncountedPageInfo(page int, hasNext bool) PageInfo {
	return PageInfo{
		TotalCount:      func() (*int, error) { return nil, nil },
		PageCount:       func() (*int, error) { return nil, nil },
		HasNextPage:     func() (bool, error) { return hasNext, nil },
		HasPreviousPage: func() (bool, error) { return page > 1, nil },
	}
}

// NewEmptyPageInfo returns an empty instance of PageInfo.
func NewEmptyPageInfo() *PageInfo {
	return &PageInfo{
		TotalCount:      func() (*int, error) { return nil, nil },
		PageCount:       func() (*int, error) { return nil, nil },
		HasNextPage:     func() (bool, error) { return false, nil },
		HasPreviousPage: func() (bool, error) { return false, nil },
	}
}

// LastPage returns the number of the last page, which is at least 1.
func LastPage(pageSize int, totalCount int64) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 1
	}
	pages := int(totalCount) / pageSize
	if int(totalCount)%pageSize != 0 {
		pages++
	}
	return pages
}

// Offset returns the row offset of a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	return (page - 1) * pageSize
}
