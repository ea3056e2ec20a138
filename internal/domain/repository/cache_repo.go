package repository

import (
	"context"
	"time"
)

// CacheRepository определяет контракт кеша снимков таблицы вопросов
type CacheRepository interface {
	// SetJSON сохраняет структуру JSON в кеше с ограниченным временем жизни
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// GetJSON получает структуру JSON из кеша; ErrNotFound при промахе
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error
}
