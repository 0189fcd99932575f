// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель: единообразно формировать структурированные поля лога
// для ошибок и имени операции.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Для nil возвращает пустую строку, чтобы вызов был безопасен в defer-ветках.
//
// Пример:
//
//	log.Error("failed to assign link", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op возвращает slog.Attr с именем операции, как в const op = "pkg.Func".
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
