package store

// Page selects one page of a list. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Result is one page of items plus the total number of matching rows.
type Result[T any] struct {
	Items []T
	Count int
}

// HasNext reports whether a page follows p.
func (r *Result[T]) HasNext(p Page) bool {
	return p.Offset()+len(r.Items) < r.Count
}

// CheckPage rejects pages past the end. The first page is always valid, even
// when there is nothing to show.
func CheckPage(p Page, count int) error {
	if p.Number < 1 || p.Size < 1 {
		return ErrInvalidPage
	}
	if p.Number > 1 && p.Offset() >= count {
		return ErrInvalidPage
	}
	return nil
}
