package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

var availableChapters = []int{1, 2, 3, 5, 8}

func TestParseChapterExpression_All(t *testing.T) {
	// Act
	selected, err := ParseChapterExpression("all", availableChapters)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, availableChapters, selected, "'all' должен возвращать все главы таблицы")
}

func TestParseChapterExpression_Range(t *testing.T) {
	// Act
	selected, err := ParseChapterExpression("2-5", availableChapters)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 5}, selected, "Диапазон должен пересекаться с существующими главами")
}

func TestParseChapterExpression_EmptyRangeIsValid(t *testing.T) {
	// Act: диапазон без единого совпадения — валидный, хоть и бесполезный
	selected, err := ParseChapterExpression("10-20", availableChapters)

	// Assert
	require.NoError(t, err, "Пустое пересечение диапазона не является ошибкой разбора")
	assert.Empty(t, selected)
}

func TestParseChapterExpression_CommaList(t *testing.T) {
	// Act
	selected, err := ParseChapterExpression(" 3, 1 ,3,2 ", availableChapters)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, selected, "Список должен сохранять порядок ввода и убирать дубликаты")
}

func TestParseChapterExpression_Errors(t *testing.T) {
	cases := []struct {
		name string
		expr string
	}{
		{"пустой ввод", "   "},
		{"нечисловой токен", "1,x,3"},
		{"несуществующая глава", "1,7"},
		{"нечисловая граница диапазона", "2-x"},
		{"диапазон без начала", "-5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			selected, err := ParseChapterExpression(tc.expr, availableChapters)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation, "Ошибка разбора должна быть ошибкой валидации")
			assert.Nil(t, selected)
		})
	}
}

func TestParseChapterExpression_SubsetProperty(t *testing.T) {
	exists := make(map[int]bool)
	for _, ch := range availableChapters {
		exists[ch] = true
	}

	for _, expr := range []string{"all", "1-8", "2,5", "1", "3-3"} {
		// Act
		selected, err := ParseChapterExpression(expr, availableChapters)
		require.NoError(t, err, "Выражение %q должно разбираться", expr)

		// Assert: подмножество без дубликатов
		seen := make(map[int]bool)
		for _, ch := range selected {
			assert.True(t, exists[ch], "Глава %d из %q должна существовать", ch, expr)
			assert.False(t, seen[ch], "Глава %d из %q не должна повторяться", ch, expr)
			seen[ch] = true
		}
	}
}
