package service

import "github.com/yourusername/practice-quiz/internal/domain/entity"

// Counts — сводка доступности вопросов для выбранных глав
type Counts struct {
	Total     int
	Incorrect int
	New       int
}

// CountsFor считает сводку по вопросам выбранных глав, используя текущие
// (сессионные) счётчики. Чистая функция, без побочных эффектов.
func CountsFor(table *entity.Table, chapters []int, attempted, incorrect map[int]int) Counts {
	inChapters := chapterSet(chapters)

	var counts Counts
	for i := range table.Questions {
		q := &table.Questions[i]
		if !inChapters[q.Chapter] {
			continue
		}
		counts.Total++
		if incorrect[q.Row] > 0 {
			counts.Incorrect++
		}
		if attempted[q.Row] == 0 {
			counts.New++
		}
	}
	return counts
}

// PoolFor возвращает упорядоченный список позиций вопросов, подходящих под
// выбранные главы и режим практики. Чистая функция.
func PoolFor(table *entity.Table, chapters []int, mode entity.PracticeMode, attempted, incorrect map[int]int) []int {
	inChapters := chapterSet(chapters)

	var pool []int
	for i := range table.Questions {
		q := &table.Questions[i]
		if !inChapters[q.Chapter] {
			continue
		}
		switch mode {
		case entity.ModeIncorrect:
			if incorrect[q.Row] <= 0 {
				continue
			}
		case entity.ModeNew:
			if attempted[q.Row] != 0 {
				continue
			}
		}
		pool = append(pool, q.Row)
	}
	return pool
}

func chapterSet(chapters []int) map[int]bool {
	set := make(map[int]bool, len(chapters))
	for _, ch := range chapters {
		set[ch] = true
	}
	return set
}
