package service

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
)

// Stage — этап конечного автомата сессии
type Stage string

const (
	StageChapterSelection Stage = "chapter_selection"
	StageModeSelection    Stage = "mode_selection"
	StageCountSelection   Stage = "count_selection"
	StageInProgress       Stage = "in_progress"
	StageFinished         Stage = "finished"
)

// suggestedCountCap — предлагаемое по умолчанию количество вопросов на экране выбора
const suggestedCountCap = 10

// Session — состояние одной интерактивной сессии практики.
// Таблица и её счётчики зеркалируются в локальные словари по позиции строки;
// каждое изменение счётчика сразу же пишется обратно во внешнюю таблицу.
// Доступ к полям сессии сериализуется мьютексом QuizService.
type Session struct {
	ID        string
	Stage     Stage
	CreatedAt time.Time

	table     *entity.Table
	chapters  []int
	mode      entity.PracticeMode
	quiz      []int // позиции отобранных вопросов в порядке показа
	cursor    int
	correct   int
	attempted map[int]int
	incorrect map[int]int
}

func newSession(table *entity.Table) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
	s.resetFromTable(table)
	return s
}

// resetFromTable сбрасывает сессию к начальному этапу поверх свежего снимка таблицы
func (s *Session) resetFromTable(table *entity.Table) {
	s.Stage = StageChapterSelection
	s.table = table
	s.chapters = nil
	s.mode = ""
	s.quiz = nil
	s.cursor = 0
	s.correct = 0
	s.attempted = make(map[int]int, len(table.Questions))
	s.incorrect = make(map[int]int, len(table.Questions))
	for i := range table.Questions {
		q := &table.Questions[i]
		s.attempted[q.Row] = q.Attempted
		s.incorrect[q.Row] = q.Incorrect
	}
}

// counts возвращает сводку доступности для выбранных глав
func (s *Session) counts() Counts {
	return CountsFor(s.table, s.chapters, s.attempted, s.incorrect)
}

// pool возвращает пул вопросов для выбранных глав и режима
func (s *Session) pool() []int {
	return PoolFor(s.table, s.chapters, s.mode, s.attempted, s.incorrect)
}

// availableModes возвращает режимы с непустым пулом в порядке показа
func (s *Session) availableModes() []entity.PracticeMode {
	counts := s.counts()
	var modes []entity.PracticeMode
	if counts.Total > 0 {
		modes = append(modes, entity.ModeNormal)
	}
	if counts.Incorrect > 0 {
		modes = append(modes, entity.ModeIncorrect)
	}
	if counts.New > 0 {
		modes = append(modes, entity.ModeNew)
	}
	return modes
}

// currentQuestion возвращает вопрос под курсором
func (s *Session) currentQuestion() (*entity.Question, bool) {
	if s.Stage != StageInProgress || s.cursor >= len(s.quiz) {
		return nil, false
	}
	return s.table.Get(s.quiz[s.cursor])
}

// sampleQuestions отбирает n различных позиций из пула равновероятно и без
// возвращения. При n == len(pool) пул используется целиком в исходном порядке,
// без лишней рандомизации.
func sampleQuestions(pool []int, n int) []int {
	if n >= len(pool) {
		return append([]int(nil), pool...)
	}
	perm := rand.Perm(len(pool))
	sampled := make([]int, n)
	for i := 0; i < n; i++ {
		sampled[i] = pool[perm[i]]
	}
	return sampled
}
