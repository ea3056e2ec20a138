package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

const testCacheKey = "quiz:table:test"

func TestTableService_CacheHitSkipsSource(t *testing.T) {
	// Arrange: кеш возвращает снимок таблицы
	source := new(MockQuestionSource)
	cache := new(MockCacheRepo)
	cache.On("GetJSON", mock.Anything, testCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*entity.Table)
			*dest = *freshTable()
		}).
		Return(nil)

	svc := NewTableService(source, cache, 10*time.Minute, testCacheKey)

	// Act
	table, err := svc.Load(context.Background(), false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	source.AssertNotCalled(t, "LoadAll", mock.Anything)
}

func TestTableService_CacheMissLoadsAndCaches(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("LoadAll", mock.Anything).Return(freshTable(), nil)
	cache := new(MockCacheRepo)
	cache.On("GetJSON", mock.Anything, testCacheKey, mock.Anything).Return(apperrors.ErrNotFound)
	cache.On("SetJSON", mock.Anything, testCacheKey, mock.Anything, 10*time.Minute).Return(nil)

	svc := NewTableService(source, cache, 10*time.Minute, testCacheKey)

	// Act
	table, err := svc.Load(context.Background(), false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	source.AssertNumberOfCalls(t, "LoadAll", 1)
	cache.AssertCalled(t, "SetJSON", mock.Anything, testCacheKey, mock.Anything, 10*time.Minute)
}

func TestTableService_ForceBypassesCache(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("LoadAll", mock.Anything).Return(freshTable(), nil)
	cache := new(MockCacheRepo)
	cache.On("Delete", mock.Anything, testCacheKey).Return(nil)
	cache.On("SetJSON", mock.Anything, testCacheKey, mock.Anything, 10*time.Minute).Return(nil)

	svc := NewTableService(source, cache, 10*time.Minute, testCacheKey)

	// Act
	_, err := svc.Load(context.Background(), true)

	// Assert: кеш сброшен, источник прочитан, кеш наполнен заново
	require.NoError(t, err)
	cache.AssertCalled(t, "Delete", mock.Anything, testCacheKey)
	cache.AssertNotCalled(t, "GetJSON", mock.Anything, mock.Anything, mock.Anything)
	source.AssertNumberOfCalls(t, "LoadAll", 1)
}

func TestTableService_SourceErrorIsFatal(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("LoadAll", mock.Anything).Return(nil, apperrors.ErrUnavailable)

	svc := NewTableService(source, nil, 0, testCacheKey)

	// Act
	table, err := svc.Load(context.Background(), false)

	// Assert: частичные данные никогда не возвращаются
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.Nil(t, table)
}

func TestTableService_WorksWithoutCache(t *testing.T) {
	// Arrange
	source := new(MockQuestionSource)
	source.On("LoadAll", mock.Anything).Return(freshTable(), nil)

	svc := NewTableService(source, nil, 10*time.Minute, testCacheKey)

	// Act
	table, err := svc.Load(context.Background(), false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}
