// Package models содержит доменные структуры дашборда: пользователей VPN,
// ссылки доступа, страницы выборок, результаты рассылки и события,
// а также общие ошибки, по которым транспортный слой выбирает HTTP-статус.
package models

// User представляет пользователя VPN. UserID назначается снаружи
// (это chat id в Telegram) и не меняется.
type User struct {
	UserID         int64   `json:"user_id"`
	UserName       *string `json:"username"`
	EndDate        *Date   `json:"end_date"`
	EndTrialPeriod *Date   `json:"trial_end"`
}
