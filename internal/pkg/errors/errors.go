package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись, сессия или колонка таблицы не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации пользовательского ввода
	// (выражение глав, режим практики, количество вопросов, вариант ответа).
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется, когда операция не соответствует текущему этапу сессии
	// (например, попытка отправить ответ до старта викторины).
	ErrConflict = errors.New("resource state conflict")

	// ErrUnavailable используется, когда внешняя таблица недоступна
	// (транспорт, авторизация, отсутствующий лист). Неудачная загрузка фатальна для сессии.
	ErrUnavailable = errors.New("question store unavailable")
)
