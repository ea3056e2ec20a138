package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
)

// filterTable: глава 1 — строки 0..2, глава 2 — строки 3..4
func filterTable() *entity.Table {
	return &entity.Table{Questions: []entity.Question{
		{Row: 0, Chapter: 1, Correct: "A"},
		{Row: 1, Chapter: 1, Correct: "B"},
		{Row: 2, Chapter: 1, Correct: "C"},
		{Row: 3, Chapter: 2, Correct: "D"},
		{Row: 4, Chapter: 2, Correct: "A"},
	}}
}

func TestCountsFor(t *testing.T) {
	// Arrange: строка 0 не тронута, строка 1 отвечена с ошибкой, строка 2 отвечена верно
	table := filterTable()
	attempted := map[int]int{0: 0, 1: 2, 2: 1, 3: 0, 4: 0}
	incorrect := map[int]int{0: 0, 1: 1, 2: 0, 3: 0, 4: 0}

	// Act
	counts := CountsFor(table, []int{1}, attempted, incorrect)

	// Assert
	assert.Equal(t, 3, counts.Total)
	assert.Equal(t, 1, counts.Incorrect, "Неверно отвеченные — со счётчиком Incorrect > 0")
	assert.Equal(t, 1, counts.New, "Новые — со счётчиком Attempted == 0")
}

func TestPoolFor_ModeSubsets(t *testing.T) {
	// Arrange
	table := filterTable()
	attempted := map[int]int{0: 0, 1: 2, 2: 1, 3: 0, 4: 3}
	incorrect := map[int]int{0: 0, 1: 1, 2: 0, 3: 0, 4: 2}
	chapters := []int{1, 2}

	// Act
	normal := PoolFor(table, chapters, entity.ModeNormal, attempted, incorrect)
	newOnly := PoolFor(table, chapters, entity.ModeNew, attempted, incorrect)
	incorrectOnly := PoolFor(table, chapters, entity.ModeIncorrect, attempted, incorrect)

	// Assert
	assert.Equal(t, []int{0, 1, 2, 3, 4}, normal, "Режим normal — весь пул выбранных глав")
	assert.Equal(t, []int{0, 3}, newOnly, "Режим new — ровно вопросы с Attempted == 0")
	assert.Equal(t, []int{1, 4}, incorrectOnly, "Режим incorrect — ровно вопросы с Incorrect > 0")

	inNormal := make(map[int]bool)
	for _, row := range normal {
		inNormal[row] = true
	}
	for _, row := range append(append([]int(nil), newOnly...), incorrectOnly...) {
		assert.True(t, inNormal[row], "Пулы режимов должны быть подмножествами пула normal")
	}
}

func TestPoolFor_ChapterFilter(t *testing.T) {
	// Arrange
	table := filterTable()
	attempted := map[int]int{}
	incorrect := map[int]int{}

	// Act
	pool := PoolFor(table, []int{2}, entity.ModeNormal, attempted, incorrect)

	// Assert
	require.Equal(t, []int{3, 4}, pool, "Пул должен содержать только вопросы выбранных глав")
}

func TestPoolFor_EmptySelection(t *testing.T) {
	// Act
	pool := PoolFor(filterTable(), nil, entity.ModeNormal, map[int]int{}, map[int]int{})

	// Assert
	assert.Empty(t, pool, "Пустой выбор глав должен давать пустой пул")
}
