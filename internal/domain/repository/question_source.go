package repository

import (
	"context"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
)

// QuestionSource определяет контракт доступа к внешней таблице вопросов.
// Реализации: internal/repository/gsheets (Google Sheets) и
// internal/repository/xlsx (локальная книга Excel).
type QuestionSource interface {
	// LoadAll выгружает весь лист и разбирает его в типизированную таблицу.
	// Ошибка транспорта или авторизации возвращается как есть; частичные
	// данные никогда не возвращаются молча.
	LoadAll(ctx context.Context) (*entity.Table, error)

	// UpdateCell перезаписывает одну ячейку. row — позиция вопроса в данных
	// листа (0-based), column — имя колонки, разрешаемое по живой строке
	// заголовка. Неизвестная колонка — явная ошибка.
	UpdateCell(ctx context.Context, row int, column string, value int) error
}
