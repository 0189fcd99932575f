package models

// DummyBroadcast: тело запроса на рассылку сообщения пользователям.
// Пустой список получателей допустим и даёт пустой итог.
type DummyBroadcast struct {
	UserIDs []int64 `json:"user_ids" validate:"dive,ne=0"`
	Text    string  `json:"text" validate:"max=4096"`
}

// RecipientError описывает неудачную доставку одному получателю.
type RecipientError struct {
	UserID int64  `json:"user_id"`
	Error  string `json:"error"`
}

// BroadcastResult: итог рассылки. Частичный отказ: штатный исход,
// поэтому ошибки по получателям собираются, а не возвращаются.
type BroadcastResult struct {
	Sent   int              `json:"sent"`
	Failed int              `json:"failed"`
	Errors []RecipientError `json:"errors"`
}
