package service

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

// ParseChapterExpression разбирает пользовательское выражение выбора глав.
// Грамматика в порядке приоритета:
//  1. "all" — все главы таблицы;
//  2. токен с "-" — диапазон "start-end" включительно (пересечение с
//     существующими главами может быть пустым, это валидный результат);
//  3. иначе — список целых через запятую, каждая глава обязана существовать.
//
// Возвращает упорядоченный список без дубликатов либо ошибку валидации
// с подсказкой ожидаемого формата. Повторный запрос ввода — забота вызывающего.
func ParseChapterExpression(expr string, available []int) ([]int, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: chapter selection is empty: use comma-separated numbers (e.g. '1,2,4'), a range (e.g. '2-5') or 'all'",
			apperrors.ErrValidation)
	}

	if trimmed == "all" {
		return append([]int(nil), available...), nil
	}

	if strings.Contains(trimmed, "-") {
		parts := strings.SplitN(trimmed, "-", 2)
		start, errStart := strconv.Atoi(strings.TrimSpace(parts[0]))
		end, errEnd := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errStart != nil || errEnd != nil {
			return nil, fmt.Errorf("%w: invalid range %q: use 'start-end' (e.g. '2-5')", apperrors.ErrValidation, trimmed)
		}
		var selected []int
		for _, ch := range available {
			if ch >= start && ch <= end {
				selected = append(selected, ch)
			}
		}
		return selected, nil
	}

	exists := make(map[int]bool, len(available))
	for _, ch := range available {
		exists[ch] = true
	}

	seen := make(map[int]bool)
	var selected []int
	for _, token := range strings.Split(trimmed, ",") {
		ch, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid chapter %q: use comma-separated numbers (e.g. '1,2,4'), a range (e.g. '2-5') or 'all'",
				apperrors.ErrValidation, strings.TrimSpace(token))
		}
		if !exists[ch] {
			return nil, fmt.Errorf("%w: chapter %d does not exist in the question table", apperrors.ErrValidation, ch)
		}
		if !seen[ch] {
			seen[ch] = true
			selected = append(selected, ch)
		}
	}
	return selected, nil
}
