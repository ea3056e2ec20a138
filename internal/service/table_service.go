package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
	"github.com/yourusername/practice-quiz/internal/domain/repository"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

// TableService загружает таблицу вопросов через QuestionSource и кеширует
// снимок на ограниченное время. Кеш необязателен (cache может быть nil).
type TableService struct {
	source   repository.QuestionSource
	cache    repository.CacheRepository
	cacheTTL time.Duration
	cacheKey string
}

// NewTableService создает сервис таблицы вопросов
func NewTableService(source repository.QuestionSource, cache repository.CacheRepository, cacheTTL time.Duration, cacheKey string) *TableService {
	return &TableService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		cacheKey: cacheKey,
	}
}

// Load возвращает таблицу вопросов. При force кеш сбрасывается и таблица
// перечитывается из источника — так старт и перезапуск сессии видят внешние
// правки счётчиков. Ошибки кеша не фатальны и приводят к чтению источника.
func (s *TableService) Load(ctx context.Context, force bool) (*entity.Table, error) {
	if s.cache != nil {
		if force {
			if err := s.cache.Delete(ctx, s.cacheKey); err != nil {
				log.Printf("Failed to invalidate table cache: %v", err)
			}
		} else {
			var table entity.Table
			err := s.cache.GetJSON(ctx, s.cacheKey, &table)
			if err == nil {
				return &table, nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				log.Printf("Failed to read table cache, falling back to source: %v", err)
			}
		}
	}

	table, err := s.source.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load question table: %w", err)
	}
	for _, issue := range table.Issues {
		log.Printf("Question table: %s", issue)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, s.cacheKey, table, s.cacheTTL); err != nil {
			log.Printf("Failed to cache question table: %v", err)
		}
	}
	return table, nil
}
