package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
	"github.com/yourusername/practice-quiz/internal/domain/repository"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
)

// Screen — снимок текущего экрана сессии для слоя представления.
// Заполняются только поля, относящиеся к текущему этапу.
type Screen struct {
	SessionID string
	Stage     Stage

	// ChapterSelection
	AvailableChapters []int
	Issues            []entity.RowIssue

	// ModeSelection
	SelectedChapters []int
	Counts           Counts
	AvailableModes   []entity.PracticeMode

	// CountSelection
	Mode           entity.PracticeMode
	PoolSize       int
	SuggestedCount int

	// InProgress
	Position int // 1-based номер текущего вопроса
	Total    int
	Question *entity.Question

	// Finished
	Correct    int
	ScoreText  string
	Percentage float64
	Band       entity.ScoreBand
}

// AnswerFeedback — результат оценки одного ответа
type AnswerFeedback struct {
	Row          int
	Selected     string
	CorrectLabel string
	IsCorrect    bool
	Reason       string // текст объяснения, только при неверном ответе
	Score        int
	Position     int // 1-based номер отвеченного вопроса
	Total        int
	Finished     bool
	Warnings     []string // нефатальные сбои записи счётчиков
}

// QuizService владеет сессиями практики и проводит их через этапы:
// выбор глав -> выбор режима -> выбор количества -> вопросы -> итог.
// Записи счётчиков идут через QuestionSource строго последовательно.
type QuizService struct {
	tables *TableService
	source repository.QuestionSource

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewQuizService создает новый сервис практики
func NewQuizService(tables *TableService, source repository.QuestionSource) *QuizService {
	return &QuizService{
		tables:   tables,
		source:   source,
		sessions: make(map[string]*Session),
	}
}

// StartSession создает сессию поверх принудительно перечитанной таблицы.
// Ошибка загрузки фатальна: сессия не создается.
func (s *QuizService) StartSession(ctx context.Context) (*Screen, error) {
	table, err := s.tables.Load(ctx, true)
	if err != nil {
		return nil, err
	}

	sess := newSession(table)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	screen := buildScreen(sess)
	s.mu.Unlock()

	log.Printf("Session %s started: %d questions, chapters %v", sess.ID, table.Len(), table.Chapters())
	return screen, nil
}

// Screen возвращает снимок текущего экрана сессии
func (s *QuizService) Screen(sessionID string) (*Screen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return buildScreen(sess), nil
}

// SelectChapters разбирает выражение глав и переводит сессию к выбору режима.
// При ошибке разбора или пустом результате сессия остается на выборе глав.
func (s *QuizService) SelectChapters(sessionID, expression string) (*Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage != StageChapterSelection {
		return nil, fmt.Errorf("%w: chapters can only be selected at the chapter selection stage (current: %s)",
			apperrors.ErrConflict, sess.Stage)
	}

	chapters, err := ParseChapterExpression(expression, sess.table.Chapters())
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: expression %q matches no chapters", apperrors.ErrValidation, expression)
	}

	sess.chapters = chapters
	sess.Stage = StageModeSelection
	return buildScreen(sess), nil
}

// SelectMode фиксирует режим практики и переводит сессию к выбору количества.
// Режим с пустым пулом недоступен.
func (s *QuizService) SelectMode(sessionID, mode string) (*Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage != StageModeSelection {
		return nil, fmt.Errorf("%w: mode can only be selected at the mode selection stage (current: %s)",
			apperrors.ErrConflict, sess.Stage)
	}

	parsed, ok := entity.ParsePracticeMode(mode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown practice mode %q: use 'normal', 'incorrect' or 'new'", apperrors.ErrValidation, mode)
	}

	available := false
	for _, m := range sess.availableModes() {
		if m == parsed {
			available = true
			break
		}
	}
	if !available {
		return nil, fmt.Errorf("%w: no questions available for mode %q in the selected chapters", apperrors.ErrValidation, parsed)
	}

	sess.mode = parsed
	sess.Stage = StageCountSelection
	return buildScreen(sess), nil
}

// StartQuiz отбирает count вопросов из пула и запускает викторину.
// count обязан лежать в 1..размер пула; при count == размеру пула пул
// используется целиком без рандомизации.
func (s *QuizService) StartQuiz(sessionID string, count int) (*Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage != StageCountSelection {
		return nil, fmt.Errorf("%w: the quiz can only be started at the count selection stage (current: %s)",
			apperrors.ErrConflict, sess.Stage)
	}

	pool := sess.pool()
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: no questions available for mode %q, go back and pick another mode", apperrors.ErrValidation, sess.mode)
	}
	if count < 1 || count > len(pool) {
		return nil, fmt.Errorf("%w: question count must be between 1 and %d, got %d", apperrors.ErrValidation, len(pool), count)
	}

	sess.quiz = sampleQuestions(pool, count)
	sess.cursor = 0
	sess.correct = 0
	sess.Stage = StageInProgress
	return buildScreen(sess), nil
}

// SubmitAnswer оценивает ответ на текущий вопрос и продвигает курсор.
// Порядок согласован с внешней таблицей: сначала инкремент Attempted и его
// запись, затем сравнение и запись Incorrect. Сбой записи не откатывает
// локальные счётчики и не прерывает сессию — он попадает в Warnings.
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID, option string) (*AnswerFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Stage != StageInProgress {
		return nil, fmt.Errorf("%w: answers can only be submitted while a quiz is in progress (current: %s)",
			apperrors.ErrConflict, sess.Stage)
	}

	label, ok := entity.NormalizeLabel(option)
	if !ok {
		return nil, fmt.Errorf("%w: answer %q is not one of A, B, C, D", apperrors.ErrValidation, option)
	}

	question, ok := sess.currentQuestion()
	if !ok {
		return nil, fmt.Errorf("%w: no current question", apperrors.ErrConflict)
	}
	row := question.Row

	feedback := &AnswerFeedback{
		Row:          row,
		Selected:     label,
		CorrectLabel: question.Correct,
		Position:     sess.cursor + 1,
		Total:        len(sess.quiz),
	}

	sess.attempted[row]++
	s.persistCounter(ctx, feedback, row, entity.ColAttempted, sess.attempted[row])

	if question.IsCorrect(label) {
		feedback.IsCorrect = true
		sess.correct++
		if sess.incorrect[row] != 0 {
			sess.incorrect[row] = 0
			s.persistCounter(ctx, feedback, row, entity.ColIncorrect, 0)
		}
	} else {
		feedback.Reason = question.Reason
		sess.incorrect[row]++
		s.persistCounter(ctx, feedback, row, entity.ColIncorrect, sess.incorrect[row])
	}

	feedback.Score = sess.correct
	sess.cursor++
	if sess.cursor >= len(sess.quiz) {
		sess.Stage = StageFinished
		feedback.Finished = true
	}
	return feedback, nil
}

// Back возвращает сессию на предыдущий этап: с выбора режима к выбору глав,
// с выбора количества к выбору режима.
func (s *QuizService) Back(sessionID string) (*Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	switch sess.Stage {
	case StageModeSelection:
		sess.chapters = nil
		sess.Stage = StageChapterSelection
	case StageCountSelection:
		sess.mode = ""
		sess.Stage = StageModeSelection
	default:
		return nil, fmt.Errorf("%w: cannot go back from stage %s", apperrors.ErrConflict, sess.Stage)
	}
	return buildScreen(sess), nil
}

// Restart принудительно перечитывает таблицу (чтобы подхватить внешние правки
// счётчиков) и сбрасывает сессию к выбору глав. Ошибка загрузки оставляет
// сессию нетронутой.
func (s *QuizService) Restart(ctx context.Context, sessionID string) (*Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	table, err := s.tables.Load(ctx, true)
	if err != nil {
		return nil, err
	}

	sess.resetFromTable(table)
	log.Printf("Session %s restarted with a fresh table snapshot", sess.ID)
	return buildScreen(sess), nil
}

// DeleteSession удаляет брошенную сессию
func (s *QuizService) DeleteSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	delete(s.sessions, sessionID)
	return nil
}

// session возвращает сессию по ID; вызывается под мьютексом
func (s *QuizService) session(sessionID string) (*Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
	}
	return sess, nil
}

// persistCounter пишет счётчик во внешнюю таблицу. Сбой записи нефатален:
// локальные счётчики остаются авторитетными до конца сессии, расхождение
// не устраняется автоматически.
func (s *QuizService) persistCounter(ctx context.Context, feedback *AnswerFeedback, row int, column string, value int) {
	if err := s.source.UpdateCell(ctx, row, column, value); err != nil {
		warning := fmt.Sprintf("failed to persist %s=%d for question row %d: %v", column, value, row, err)
		log.Printf("Session write failure: %s", warning)
		feedback.Warnings = append(feedback.Warnings, warning)
	}
}

// buildScreen собирает снимок текущего экрана; вызывается под мьютексом
func buildScreen(sess *Session) *Screen {
	screen := &Screen{
		SessionID: sess.ID,
		Stage:     sess.Stage,
	}

	switch sess.Stage {
	case StageChapterSelection:
		screen.AvailableChapters = sess.table.Chapters()
		screen.Issues = sess.table.Issues
	case StageModeSelection:
		screen.SelectedChapters = append([]int(nil), sess.chapters...)
		screen.Counts = sess.counts()
		screen.AvailableModes = sess.availableModes()
	case StageCountSelection:
		screen.Mode = sess.mode
		screen.PoolSize = len(sess.pool())
		screen.SuggestedCount = screen.PoolSize
		if screen.SuggestedCount > suggestedCountCap {
			screen.SuggestedCount = suggestedCountCap
		}
	case StageInProgress:
		screen.Position = sess.cursor + 1
		screen.Total = len(sess.quiz)
		if q, ok := sess.currentQuestion(); ok {
			screen.Question = q
		}
	case StageFinished:
		screen.Correct = sess.correct
		screen.Total = len(sess.quiz)
		screen.Percentage = entity.Percentage(sess.correct, len(sess.quiz))
		screen.ScoreText = entity.ScoreText(sess.correct, len(sess.quiz))
		screen.Band = entity.BandFor(screen.Percentage)
	}
	return screen
}
