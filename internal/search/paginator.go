package search

// Paginate returns the requested page of items together with the size of the
// whole set. Pages past the end are empty.
func Paginate[T any](items []T, pageNumber, pageSize int) ([]T, int) {
	total := len(items)
	if pageNumber < 1 || pageSize < 1 {
		return []T{}, total
	}

	if pageNumber-1 > total/pageSize {
		return []T{}, total
	}
	offset := (pageNumber - 1) * pageSize
	if offset >= total {
		return []T{}, total
	}

	end := offset + pageSize
	if end > total {
		end = total
	}
	return items[offset:end], total
}
