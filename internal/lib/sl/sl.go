// Package sl содержит вспомогательные функции для структурированного
// логирования через slog: единообразные атрибуты для ошибок и
// идентификаторов пользователей Telegram.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Warn("failed to persist snapshot", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// UserID возвращает slog.Attr с ключом "user_id" для идентификатора
// пользователя Telegram. Используется во всех обработчиках бота.
func UserID(id string) slog.Attr {
	return slog.Attr{
		Key:   "user_id",
		Value: slog.StringValue(id),
	}
}
