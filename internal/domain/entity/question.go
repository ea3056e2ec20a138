package entity

import "strings"

// PracticeMode определяет фильтр пула вопросов для тренировки
type PracticeMode string

const (
	// ModeNormal — все вопросы выбранных глав
	ModeNormal PracticeMode = "normal"
	// ModeIncorrect — только вопросы, отвеченные неверно (счётчик Incorrect > 0)
	ModeIncorrect PracticeMode = "incorrect"
	// ModeNew — только непройденные вопросы (счётчик Attempted == 0)
	ModeNew PracticeMode = "new"
)

// ParsePracticeMode разбирает строку режима практики (без учёта регистра)
func ParsePracticeMode(s string) (PracticeMode, bool) {
	switch PracticeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNormal:
		return ModeNormal, true
	case ModeIncorrect:
		return ModeIncorrect, true
	case ModeNew:
		return ModeNew, true
	}
	return "", false
}

// OptionLabels — метки четырёх вариантов ответа в порядке отображения
var OptionLabels = []string{"A", "B", "C", "D"}

// NormalizeLabel приводит метку варианта к каноническому виду (верхний регистр).
// Возвращает false, если метка не является одной из A/B/C/D.
func NormalizeLabel(s string) (string, bool) {
	label := strings.ToUpper(strings.TrimSpace(s))
	for _, known := range OptionLabels {
		if label == known {
			return label, true
		}
	}
	return "", false
}

// Question представляет один вопрос внешней таблицы.
// Идентичность вопроса — его позиция Row (0-based) в данных листа;
// она стабильна и используется для адресации обратной записи счётчиков.
type Question struct {
	Row       int       `json:"row"`
	Chapter   int       `json:"chapter"`
	Number    int       `json:"number"`
	Text      string    `json:"text"`
	Options   [4]string `json:"options"`
	Correct   string    `json:"correct"`
	Reason    string    `json:"reason"`
	Attempted int       `json:"attempted"`
	Incorrect int       `json:"incorrect"`
}

// IsCorrect проверяет, совпадает ли выбранная метка с правильным ответом.
// Сравнение без учёта регистра.
func (q *Question) IsCorrect(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), q.Correct)
}

// Option возвращает текст варианта по метке (A–D); пустая строка для неизвестной метки
func (q *Question) Option(label string) string {
	normalized, ok := NormalizeLabel(label)
	if !ok {
		return ""
	}
	return q.Options[int(normalized[0]-'A')]
}
