package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data     []byte
	deadline time.Time // нулевое значение — без срока
}

// Memory — реализация Cache в памяти процесса. Используется, когда
// redis не настроен, и в тестах. Значения проходят через JSON, чтобы
// семантика совпадала с redis-реализацией.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory создаёт пустой кеш в памяти.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get читает значение по ключу, просроченные записи отбрасываются.
func (c *Memory) Get(key string, result any) (bool, error) {
	const op = "cache.Memory.Get"
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.deadline.IsZero() && time.Now().After(entry.deadline) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение с временем жизни, ноль — без срока.
func (c *Memory) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var deadline time.Time
	if expiration > 0 {
		deadline = time.Now().Add(expiration)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, deadline: deadline}
	c.mu.Unlock()
	return nil
}

// Invalidate удаляет значение по ключу.
func (c *Memory) Invalidate(key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
