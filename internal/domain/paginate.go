package domain

// Paginate returns the 1-indexed page [(page-1)*size, page*size) of items and
// the total page count. Pages outside the range yield an empty slice.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		return []T{}, 0
	}
	totalPages := (len(items) + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if page < 1 || start >= len(items) {
		return []T{}, totalPages
	}
	end := min(start+pageSize, len(items))
	return items[start:end], totalPages
}
