// Package cache предоставляет key-value кеш для состояния диалогов
// бота: redis-реализацию для продакшена и in-memory реализацию для
// локального запуска и тестов.
package cache

import "time"

// Cache описывает методы кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}
