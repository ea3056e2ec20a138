package gsheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/yourusername/practice-quiz/internal/config"
	"github.com/yourusername/practice-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

// QuestionSource реализует repository.QuestionSource поверх Google Sheets
type QuestionSource struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	headerRows    int
}

// NewQuestionSource создает источник вопросов для книги Google Sheets.
// Авторизация — через файл сервисного аккаунта либо Application Default Credentials.
func NewQuestionSource(ctx context.Context, cfg config.SheetConfig) (*QuestionSource, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Sheets client: %w", err)
	}

	return &QuestionSource{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		headerRows:    cfg.HeaderRows,
	}, nil
}

// LoadAll выгружает весь лист одним запросом и разбирает его в таблицу
func (s *QuestionSource) LoadAll(ctx context.Context) (*entity.Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read worksheet %q of spreadsheet %s: %v",
			apperrors.ErrUnavailable, s.worksheet, s.spreadsheetID, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows = append(rows, row)
	}

	if len(rows) < s.headerRows {
		return nil, fmt.Errorf("%w: worksheet %q has no header row", apperrors.ErrUnavailable, s.worksheet)
	}

	return entity.ParseTable(rows[s.headerRows-1], rows[s.headerRows:])
}

// UpdateCell перезаписывает одну ячейку. Колонка разрешается по живой строке
// заголовка при каждой записи, поэтому перестановка колонок на листе безопасна.
func (s *QuestionSource) UpdateCell(ctx context.Context, row int, column string, value int) error {
	headerRange := fmt.Sprintf("%s!%d:%d", s.worksheet, s.headerRows, s.headerRows)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: read header row of worksheet %q: %v", apperrors.ErrUnavailable, s.worksheet, err)
	}
	if len(resp.Values) == 0 {
		return fmt.Errorf("%w: worksheet %q has no header row", apperrors.ErrUnavailable, s.worksheet)
	}

	colIdx := -1
	for i, cell := range resp.Values[0] {
		if strings.TrimSpace(cellString(cell)) == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return fmt.Errorf("%w: column %q not found in header row of worksheet %q", apperrors.ErrNotFound, column, s.worksheet)
	}

	// Внешняя нумерация 1-based: строка данных row идёт после headerRows строк заголовка
	cell := fmt.Sprintf("%s!%s%d", s.worksheet, columnLetter(colIdx+1), row+s.headerRows+1)
	valueRange := &sheets.ValueRange{Values: [][]interface{}{{value}}}

	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cell, valueRange).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: update cell %s: %v", apperrors.ErrUnavailable, cell, err)
	}
	return nil
}

// columnLetter преобразует 1-based номер колонки в буквенную нотацию A1 (1 -> A, 27 -> AA)
func columnLetter(n int) string {
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
