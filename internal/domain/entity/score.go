package entity

import "fmt"

// ScoreBand — полоса итогового результата для раскраски финального экрана
type ScoreBand string

const (
	// BandHigh — 80% и выше (зелёный)
	BandHigh ScoreBand = "high"
	// BandMedium — от 70% до 80% (оранжевый)
	BandMedium ScoreBand = "medium"
	// BandLow — ниже 70% (красный)
	BandLow ScoreBand = "low"
)

// Percentage возвращает долю правильных ответов в процентах; 0 при пустой викторине
func Percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// BandFor возвращает полосу результата для процента правильных ответов
func BandFor(percentage float64) ScoreBand {
	switch {
	case percentage >= 80:
		return BandHigh
	case percentage >= 70:
		return BandMedium
	default:
		return BandLow
	}
}

// ScoreText форматирует итоговый счёт, например "1 / 2 (50.00%)"
func ScoreText(correct, total int) string {
	return fmt.Sprintf("%d / %d (%.2f%%)", correct, total, Percentage(correct, total))
}
