package query

// Page is one slice of a filtered result set. Total counts the full filtered
// set, not just the returned slice.
type Page struct {
	Items    []map[string]any
	Total    int64
	Page     int
	PageSize int
}

// LastPage returns the number of the last page for this total and page size.
func (p *Page) LastPage() int {
	if p.PageSize <= 0 {
		return 1
	}
	last := int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
	if last < 1 {
		last = 1
	}
	return last
}
