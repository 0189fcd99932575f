package models

// Link: ссылка доступа к VPN. UserID == nil означает, что ссылка свободна.
type Link struct {
	ID          int64  `json:"id"`
	LinkAddress string `json:"link_address"`
	UserID      *int64 `json:"user_id"`
}

// IsFree сообщает, что ссылка ещё никому не выдана.
func (l *Link) IsFree() bool {
	return l.UserID == nil
}

// LinkFilter ограничивает выборку ссылок. Пустой фильтр возвращает все ссылки.
type LinkFilter struct {
	UserID *int64
}

// DummyLink используется для приёма данных ссылки из JSON-запроса
// на создание или полную замену записи. Длина адреса проверяется сервисом после обрезки пробелов.
type DummyLink struct {
	LinkAddress string `json:"link_address" validate:"required"`
	UserID      *int64 `json:"user_id,omitempty"`
}

// DummyAssign: тело запроса на выдачу ссылок пользователю.
// Count == nil означает выдачу ровно одной случайной ссылки.
type DummyAssign struct {
	Count *int `json:"count,omitempty" validate:"omitempty,min=1,max=100"`
}
