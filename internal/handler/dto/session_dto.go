package dto

import (
	"github.com/yourusername/practice-quiz/internal/domain/entity"
	"github.com/yourusername/practice-quiz/internal/service"
)

// ChaptersRequest — выражение выбора глав ('1,2,4', '2-5' или 'all')
type ChaptersRequest struct {
	Expression string `json:"expression" binding:"required"`
}

// ModeRequest — выбранный режим практики
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// CountRequest — запрошенное количество вопросов
type CountRequest struct {
	Count int `json:"count" binding:"required"`
}

// AnswerRequest — выбранный вариант ответа (A–D)
type AnswerRequest struct {
	Option string `json:"option" binding:"required"`
}

// ScreenResponse представляет текущий экран сессии.
// Заполнена ровно одна из вложенных секций, соответствующая stage.
type ScreenResponse struct {
	SessionID string `json:"session_id"`
	Stage     string `json:"stage"`

	ChapterSelection *ChapterSelectionView `json:"chapter_selection,omitempty"`
	ModeSelection    *ModeSelectionView    `json:"mode_selection,omitempty"`
	CountSelection   *CountSelectionView   `json:"count_selection,omitempty"`
	InProgress       *InProgressView       `json:"in_progress,omitempty"`
	Finished         *FinishedView         `json:"finished,omitempty"`
}

// ChapterSelectionView — экран выбора глав
type ChapterSelectionView struct {
	AvailableChapters []int       `json:"available_chapters"`
	Issues            []IssueView `json:"issues,omitempty"`
}

// IssueView — одна проблема валидации таблицы
type IssueView struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// ModeSelectionView — экран выбора режима практики
type ModeSelectionView struct {
	SelectedChapters []int      `json:"selected_chapters"`
	Counts           CountsView `json:"counts"`
	AvailableModes   []string   `json:"available_modes"`
}

// CountsView — сводка доступности вопросов в выбранных главах
type CountsView struct {
	Total     int `json:"total"`
	Incorrect int `json:"incorrect"`
	New       int `json:"new"`
}

// CountSelectionView — экран выбора количества вопросов
type CountSelectionView struct {
	Mode           string `json:"mode"`
	PoolSize       int    `json:"pool_size"`
	SuggestedCount int    `json:"suggested_count"`
}

// InProgressView — экран текущего вопроса
type InProgressView struct {
	Position  int          `json:"position"`
	Total     int          `json:"total"`
	Remaining int          `json:"remaining"`
	Question  QuestionView `json:"question"`
}

// QuestionView — вопрос в формате для клиента.
// Правильный ответ и объяснение намеренно не включаются.
type QuestionView struct {
	Number  int          `json:"number"`
	Text    string       `json:"text"`
	Options []OptionView `json:"options"`
}

// OptionView — один вариант ответа
type OptionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// FinishedView — итоговый экран
type FinishedView struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	ScoreText  string  `json:"score_text"`
	Percentage float64 `json:"percentage"`
	Band       string  `json:"band"`
}

// AnswerResponse — обратная связь по одному ответу
type AnswerResponse struct {
	Correct       bool     `json:"correct"`
	Selected      string   `json:"selected"`
	CorrectOption string   `json:"correct_option"`
	Reason        string   `json:"reason,omitempty"`
	Score         int      `json:"score"`
	Position      int      `json:"position"`
	Total         int      `json:"total"`
	Finished      bool     `json:"finished"`
	Warnings      []string `json:"warnings,omitempty"`
}

// NewScreenResponse создает DTO экрана из снимка сессии
func NewScreenResponse(screen *service.Screen) *ScreenResponse {
	resp := &ScreenResponse{
		SessionID: screen.SessionID,
		Stage:     string(screen.Stage),
	}

	switch screen.Stage {
	case service.StageChapterSelection:
		view := &ChapterSelectionView{AvailableChapters: screen.AvailableChapters}
		for _, issue := range screen.Issues {
			view.Issues = append(view.Issues, IssueView{Row: issue.Row, Column: issue.Column, Message: issue.Message})
		}
		resp.ChapterSelection = view
	case service.StageModeSelection:
		view := &ModeSelectionView{
			SelectedChapters: screen.SelectedChapters,
			Counts: CountsView{
				Total:     screen.Counts.Total,
				Incorrect: screen.Counts.Incorrect,
				New:       screen.Counts.New,
			},
		}
		for _, mode := range screen.AvailableModes {
			view.AvailableModes = append(view.AvailableModes, string(mode))
		}
		resp.ModeSelection = view
	case service.StageCountSelection:
		resp.CountSelection = &CountSelectionView{
			Mode:           string(screen.Mode),
			PoolSize:       screen.PoolSize,
			SuggestedCount: screen.SuggestedCount,
		}
	case service.StageInProgress:
		view := &InProgressView{
			Position:  screen.Position,
			Total:     screen.Total,
			Remaining: screen.Total - screen.Position,
		}
		if screen.Question != nil {
			view.Question = newQuestionView(screen.Question)
		}
		resp.InProgress = view
	case service.StageFinished:
		resp.Finished = &FinishedView{
			Correct:    screen.Correct,
			Total:      screen.Total,
			ScoreText:  screen.ScoreText,
			Percentage: screen.Percentage,
			Band:       string(screen.Band),
		}
	}
	return resp
}

// NewAnswerResponse создает DTO обратной связи по ответу
func NewAnswerResponse(feedback *service.AnswerFeedback) *AnswerResponse {
	return &AnswerResponse{
		Correct:       feedback.IsCorrect,
		Selected:      feedback.Selected,
		CorrectOption: feedback.CorrectLabel,
		Reason:        feedback.Reason,
		Score:         feedback.Score,
		Position:      feedback.Position,
		Total:         feedback.Total,
		Finished:      feedback.Finished,
		Warnings:      feedback.Warnings,
	}
}

func newQuestionView(q *entity.Question) QuestionView {
	view := QuestionView{
		Number: q.Number,
		Text:   q.Text,
	}
	for i, label := range entity.OptionLabels {
		view.Options = append(view.Options, OptionView{Label: label, Text: q.Options[i]})
	}
	return view
}
