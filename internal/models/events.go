package models

// LinksAssigned публикуется в очередь после успешной выдачи ссылок пользователю.
type LinksAssigned struct {
	UserID    int64    `json:"user_id"`
	Addresses []string `json:"addresses"`
}
