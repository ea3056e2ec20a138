package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

// Имена колонок внешней таблицы. Разрешаются по живой строке заголовка,
// поэтому порядок колонок на листе значения не имеет.
const (
	ColChapter   = "Chapter"
	ColNumber    = "Question No."
	ColQuestion  = "Question"
	ColOptionA   = "Option A"
	ColOptionB   = "Option B"
	ColOptionC   = "Option C"
	ColOptionD   = "Option D"
	ColCorrect   = "Correct Answer"
	ColReason    = "Reason"
	ColAttempted = "Attempted"
	ColIncorrect = "Incorrect attempt"
)

// DefaultHeader — полный заголовок таблицы в порядке по умолчанию.
// Используется утилитой init-sheet при создании пустой книги.
var DefaultHeader = []string{
	ColChapter, ColNumber, ColQuestion,
	ColOptionA, ColOptionB, ColOptionC, ColOptionD,
	ColCorrect, ColReason, ColAttempted, ColIncorrect,
}

// requiredColumns — колонки, без которых таблица непригодна
var requiredColumns = []string{
	ColChapter, ColQuestion,
	ColOptionA, ColOptionB, ColOptionC, ColOptionD,
	ColCorrect, ColReason, ColAttempted, ColIncorrect,
}

// RowIssue описывает одну проблему валидации, найденную при разборе таблицы.
// Row = -1 означает проблему уровня таблицы (например, отсутствующую необязательную колонку).
type RowIssue struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (i RowIssue) String() string {
	if i.Row < 0 {
		return i.Message
	}
	return fmt.Sprintf("row %d: %s", i.Row, i.Message)
}

// Table — типизированный снимок таблицы вопросов вместе с диагностикой разбора
type Table struct {
	Questions []Question `json:"questions"`
	Issues    []RowIssue `json:"issues,omitempty"`
}

// Len возвращает количество пригодных вопросов
func (t *Table) Len() int {
	return len(t.Questions)
}

// Get возвращает вопрос по его позиции на листе
func (t *Table) Get(row int) (*Question, bool) {
	for i := range t.Questions {
		if t.Questions[i].Row == row {
			return &t.Questions[i], true
		}
	}
	return nil, false
}

// Chapters возвращает отсортированный список уникальных номеров глав
func (t *Table) Chapters() []int {
	seen := make(map[int]bool)
	var chapters []int
	for i := range t.Questions {
		ch := t.Questions[i].Chapter
		if !seen[ch] {
			seen[ch] = true
			chapters = append(chapters, ch)
		}
	}
	sort.Ints(chapters)
	return chapters
}

// ParseTable превращает сырые строки листа в типизированную таблицу.
// header — строка заголовка, rows — строки данных (позиция в rows и есть Row вопроса).
// Колонки разрешаются по именам; ошибка возвращается только если отсутствует
// обязательная колонка. Проблемы отдельных строк собираются в Issues:
// некорректные счётчики приводятся к 0, строки без главы или без валидной
// метки правильного ответа пропускаются, но никогда молча.
func ParseTable(header []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: header row is missing required columns: %s",
			apperrors.ErrUnavailable, strings.Join(missing, ", "))
	}

	table := &Table{}
	_, hasNumber := index[ColNumber]
	if !hasNumber {
		table.Issues = append(table.Issues, RowIssue{
			Row:     -1,
			Column:  ColNumber,
			Message: fmt.Sprintf("column %q not found; question numbers fall back to row position + 1", ColNumber),
		})
	}

	cell := func(row []string, column string) string {
		idx := index[column]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for rowIdx, raw := range rows {
		if isBlankRow(raw) {
			continue
		}

		chapter, err := parseInt(cell(raw, ColChapter))
		if err != nil {
			table.Issues = append(table.Issues, RowIssue{
				Row:     rowIdx,
				Column:  ColChapter,
				Message: fmt.Sprintf("invalid chapter value %q, row skipped", cell(raw, ColChapter)),
			})
			continue
		}

		correct, ok := NormalizeLabel(cell(raw, ColCorrect))
		if !ok {
			table.Issues = append(table.Issues, RowIssue{
				Row:     rowIdx,
				Column:  ColCorrect,
				Message: fmt.Sprintf("correct answer %q is not one of A/B/C/D, row skipped", cell(raw, ColCorrect)),
			})
			continue
		}

		q := Question{
			Row:     rowIdx,
			Chapter: chapter,
			Text:    cell(raw, ColQuestion),
			Correct: correct,
			Reason:  cell(raw, ColReason),
		}
		q.Options[0] = cell(raw, ColOptionA)
		q.Options[1] = cell(raw, ColOptionB)
		q.Options[2] = cell(raw, ColOptionC)
		q.Options[3] = cell(raw, ColOptionD)

		// Номер вопроса необязателен: нечисловое или отсутствующее значение
		// заменяется на позицию строки + 1
		q.Number = rowIdx + 1
		if hasNumber {
			if n, err := parseInt(cell(raw, ColNumber)); err == nil && n >= 0 {
				q.Number = n
			}
		}

		q.Attempted = coerceCounter(table, rowIdx, ColAttempted, cell(raw, ColAttempted))
		q.Incorrect = coerceCounter(table, rowIdx, ColIncorrect, cell(raw, ColIncorrect))

		table.Questions = append(table.Questions, q)
	}

	return table, nil
}

// coerceCounter приводит значение счётчика к неотрицательному целому.
// Пустые и нечисловые значения становятся 0 (с диагностикой для нечисловых),
// отрицательные обрезаются до 0.
func coerceCounter(table *Table, row int, column, value string) int {
	if value == "" {
		return 0
	}
	n, err := parseInt(value)
	if err != nil {
		table.Issues = append(table.Issues, RowIssue{
			Row:     row,
			Column:  column,
			Message: fmt.Sprintf("non-numeric %s value %q coerced to 0", column, value),
		})
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// parseInt разбирает целое число, допуская хвост вида "3.0" после экспорта таблиц
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
