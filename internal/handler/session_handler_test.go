package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/practice-quiz/internal/domain/entity"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
	"github.com/yourusername/practice-quiz/internal/handler/dto"
	"github.com/yourusername/practice-quiz/internal/service"
)

// MockSourceForHandler реализует repository.QuestionSource
type MockSourceForHandler struct {
	mock.Mock
}

func (m *MockSourceForHandler) LoadAll(ctx context.Context) (*entity.Table, error) {
	args := m.Called(ctx)
	if table := args.Get(0); table != nil {
		return table.(*entity.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSourceForHandler) UpdateCell(ctx context.Context, row int, column string, value int) error {
	args := m.Called(ctx, row, column, value)
	return args.Error(0)
}

func handlerTable() *entity.Table {
	return &entity.Table{Questions: []entity.Question{
		{Row: 0, Chapter: 1, Number: 1, Text: "единственный вопрос", Options: [4]string{"a", "b", "c", "d"}, Correct: "B", Reason: "объяснение"},
	}}
}

func setupRouter(source *MockSourceForHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)

	tables := service.NewTableService(source, nil, 0, "test:table")
	quizService := service.NewQuizService(tables, source)
	sessionHandler := NewSessionHandler(quizService)

	router := gin.New()
	api := router.Group("/api")
	sessions := api.Group("/sessions")
	sessions.POST("", sessionHandler.StartSession)
	sessionWithID := sessions.Group("/:id")
	sessionWithID.GET("", sessionHandler.GetSession)
	sessionWithID.POST("/chapters", sessionHandler.SelectChapters)
	sessionWithID.POST("/mode", sessionHandler.SelectMode)
	sessionWithID.POST("/count", sessionHandler.StartQuiz)
	sessionWithID.POST("/answer", sessionHandler.SubmitAnswer)
	sessionWithID.POST("/back", sessionHandler.Back)
	sessionWithID.POST("/restart", sessionHandler.Restart)
	sessionWithID.DELETE("", sessionHandler.DeleteSession)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeScreen(t *testing.T, recorder *httptest.ResponseRecorder) dto.ScreenResponse {
	t.Helper()
	var screen dto.ScreenResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &screen))
	return screen
}

func TestSessionHandler_FullFlow(t *testing.T) {
	// Arrange
	source := new(MockSourceForHandler)
	source.On("LoadAll", mock.Anything).Return(handlerTable(), nil)
	source.On("UpdateCell", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	router := setupRouter(source)

	// Act: старт сессии
	recorder := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	screen := decodeScreen(t, recorder)
	require.Equal(t, "chapter_selection", screen.Stage)
	require.NotNil(t, screen.ChapterSelection)
	assert.Equal(t, []int{1}, screen.ChapterSelection.AvailableChapters)
	base := "/api/sessions/" + screen.SessionID

	// Невалидное выражение глав — 400, этап не меняется
	recorder = doJSON(t, router, http.MethodPost, base+"/chapters", dto.ChaptersRequest{Expression: "1,x"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "error", "Отклоненный ввод обязан дать видимое сообщение")

	// Выбор глав
	recorder = doJSON(t, router, http.MethodPost, base+"/chapters", dto.ChaptersRequest{Expression: "all"})
	require.Equal(t, http.StatusOK, recorder.Code)
	screen = decodeScreen(t, recorder)
	require.Equal(t, "mode_selection", screen.Stage)
	require.NotNil(t, screen.ModeSelection)
	assert.Equal(t, 1, screen.ModeSelection.Counts.Total)
	assert.Contains(t, screen.ModeSelection.AvailableModes, "new")

	// Неизвестный режим — 400
	recorder = doJSON(t, router, http.MethodPost, base+"/mode", dto.ModeRequest{Mode: "bogus"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Выбор режима
	recorder = doJSON(t, router, http.MethodPost, base+"/mode", dto.ModeRequest{Mode: "normal"})
	require.Equal(t, http.StatusOK, recorder.Code)
	screen = decodeScreen(t, recorder)
	require.Equal(t, "count_selection", screen.Stage)
	require.NotNil(t, screen.CountSelection)
	assert.Equal(t, 1, screen.CountSelection.PoolSize)

	// Количество вне границ — 400
	recorder = doJSON(t, router, http.MethodPost, base+"/count", dto.CountRequest{Count: 5})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Старт викторины
	recorder = doJSON(t, router, http.MethodPost, base+"/count", dto.CountRequest{Count: 1})
	require.Equal(t, http.StatusOK, recorder.Code)
	screen = decodeScreen(t, recorder)
	require.Equal(t, "in_progress", screen.Stage)
	require.NotNil(t, screen.InProgress)
	assert.Equal(t, 1, screen.InProgress.Position)
	assert.Len(t, screen.InProgress.Question.Options, 4)

	// Правильный ответ и объяснение не должны утекать на экран вопроса
	assert.NotContains(t, recorder.Body.String(), "correct_option")
	assert.NotContains(t, recorder.Body.String(), "объяснение")

	// Невалидная метка — 400
	recorder = doJSON(t, router, http.MethodPost, base+"/answer", dto.AnswerRequest{Option: "E"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Верный ответ
	recorder = doJSON(t, router, http.MethodPost, base+"/answer", dto.AnswerRequest{Option: "b"})
	require.Equal(t, http.StatusOK, recorder.Code)
	var answer dto.AnswerResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &answer))
	assert.True(t, answer.Correct)
	assert.Equal(t, "B", answer.CorrectOption)
	assert.Equal(t, 1, answer.Score)
	assert.True(t, answer.Finished)

	// Итоговый экран
	recorder = doJSON(t, router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	screen = decodeScreen(t, recorder)
	require.Equal(t, "finished", screen.Stage)
	require.NotNil(t, screen.Finished)
	assert.Equal(t, "1 / 1 (100.00%)", screen.Finished.ScoreText)
	assert.Equal(t, "high", screen.Finished.Band)

	// Перезапуск перечитывает таблицу и возвращает к выбору глав
	recorder = doJSON(t, router, http.MethodPost, base+"/restart", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	screen = decodeScreen(t, recorder)
	assert.Equal(t, "chapter_selection", screen.Stage)
	source.AssertNumberOfCalls(t, "LoadAll", 2)

	// Удаление сессии
	recorder = doJSON(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSessionHandler_LoadFailure(t *testing.T) {
	// Arrange: источник недоступен — сессия не может начаться
	source := new(MockSourceForHandler)
	source.On("LoadAll", mock.Anything).Return(nil, fmt.Errorf("%w: credentials rejected", apperrors.ErrUnavailable))
	router := setupRouter(source)

	// Act
	recorder := doJSON(t, router, http.MethodPost, "/api/sessions", nil)

	// Assert: причина видна пользователю
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "credentials rejected")
}

func TestSessionHandler_StageConflictReturns409(t *testing.T) {
	// Arrange
	source := new(MockSourceForHandler)
	source.On("LoadAll", mock.Anything).Return(handlerTable(), nil)
	router := setupRouter(source)

	recorder := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	base := "/api/sessions/" + decodeScreen(t, recorder).SessionID

	// Act: ответ до старта викторины
	recorder = doJSON(t, router, http.MethodPost, base+"/answer", dto.AnswerRequest{Option: "A"})

	// Assert
	assert.Equal(t, http.StatusConflict, recorder.Code)
}
