package xlsx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/practice-quiz/internal/config"
	"github.com/yourusername/practice-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

// QuestionSource реализует repository.QuestionSource поверх локальной книги Excel.
// Файл открывается заново на каждую операцию, чтобы внешние правки книги
// были видны при следующей загрузке.
type QuestionSource struct {
	path       string
	worksheet  string
	headerRows int

	// защищает файл от конкурентной перезаписи внутри процесса
	mu sync.Mutex
}

// NewQuestionSource создает источник вопросов для файла .xlsx
func NewQuestionSource(cfg config.SheetConfig) *QuestionSource {
	return &QuestionSource{
		path:       cfg.Path,
		worksheet:  cfg.Worksheet,
		headerRows: cfg.HeaderRows,
	}
}

// LoadAll читает весь лист и разбирает его в таблицу
func (s *QuestionSource) LoadAll(ctx context.Context) (*entity.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", apperrors.ErrUnavailable, s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.worksheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read worksheet %q of %s: %v", apperrors.ErrUnavailable, s.worksheet, s.path, err)
	}
	if len(rows) < s.headerRows {
		return nil, fmt.Errorf("%w: worksheet %q has no header row", apperrors.ErrUnavailable, s.worksheet)
	}

	return entity.ParseTable(rows[s.headerRows-1], rows[s.headerRows:])
}

// UpdateCell перезаписывает одну ячейку и сохраняет книгу.
// Колонка разрешается по живой строке заголовка при каждой записи.
func (s *QuestionSource) UpdateCell(ctx context.Context, row int, column string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: open workbook %s: %v", apperrors.ErrUnavailable, s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.worksheet)
	if err != nil {
		return fmt.Errorf("%w: read worksheet %q of %s: %v", apperrors.ErrUnavailable, s.worksheet, s.path, err)
	}
	if len(rows) < s.headerRows {
		return fmt.Errorf("%w: worksheet %q has no header row", apperrors.ErrUnavailable, s.worksheet)
	}

	colIdx := -1
	for i, name := range rows[s.headerRows-1] {
		if strings.TrimSpace(name) == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return fmt.Errorf("%w: column %q not found in header row of worksheet %q", apperrors.ErrNotFound, column, s.worksheet)
	}

	cell, err := excelize.CoordinatesToCellName(colIdx+1, row+s.headerRows+1)
	if err != nil {
		return fmt.Errorf("resolve cell for row %d column %q: %w", row, column, err)
	}
	if err := f.SetCellValue(s.worksheet, cell, value); err != nil {
		return fmt.Errorf("%w: set cell %s: %v", apperrors.ErrUnavailable, cell, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("%w: save workbook %s: %v", apperrors.ErrUnavailable, s.path, err)
	}
	return nil
}
