package infrastructure

import (
	"sync"
	"time"
)

// DefaultCacheTTL время жизни записей справочников
const DefaultCacheTTL = 30 * time.Minute

// ttlCache кэш в оперативной памяти с временем истечения записей.
// Доступ синхронизирован мьютексом.
type ttlCache[T any] struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	value  T
	expiry time.Time
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ttlCache[T]{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]cacheEntry[T]),
	}
}

// Get возвращает значение, если запись есть и не истекла. Истёкшая запись удаляется.
func (c *ttlCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	entry, exists := c.data[key]
	if !exists {
		return zero, false
	}

	if c.now().After(entry.expiry) {
		delete(c.data, key)
		return zero, false
	}

	return entry.value, true
}

// Set сохраняет значение на ttl
func (c *ttlCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheEntry[T]{value: value, expiry: c.now().Add(c.ttl)}
}

// Delete удаляет запись, пустой ключ очищает весь кэш
func (c *ttlCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		c.data = make(map[string]cacheEntry[T])
		return
	}
	delete(c.data, key)
}

// DeleteMatching удаляет записи, ключ которых подходит под условие
func (c *ttlCache[T]) DeleteMatching(match func(key string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.data {
		if match(key) {
			delete(c.data, key)
		}
	}
}
