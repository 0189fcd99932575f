// Package paging считает окно страницы для offset-пагинации.
package paging

// Window: параметры одной страницы после нормализации.
type Window struct {
	Page       int
	TotalPages int
	Offset     int
	Limit      int
}

// Compute возвращает окно для total записей. total_pages = max(1, ceil(total/pageSize)),
// page зажимается в диапазон [1, total_pages]. pageSize < 1 считается равным 1.
func Compute(total, page, pageSize int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := max(1, (total+pageSize-1)/pageSize)
	page = max(1, min(page, totalPages))

	return Window{
		Page:       page,
		TotalPages: totalPages,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	}
}

// Slice возвращает элементы окна w из уже загруженного списка.
func Slice[T any](items []T, w Window) []T {
	if w.Offset >= len(items) {
		return []T{}
	}
	end := min(w.Offset+w.Limit, len(items))
	return items[w.Offset:end]
}
