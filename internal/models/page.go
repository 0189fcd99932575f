package models

// Page: одна страница выборки вместе с параметрами пагинации.
// Page всегда лежит в диапазоне [1, TotalPages].
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}
