package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/practice-quiz/internal/handler/dto"
	apperrors "github.com/yourusername/practice-quiz/internal/pkg/errors"
	"github.com/yourusername/practice-quiz/internal/service"
)

// SessionHandler обрабатывает запросы жизненного цикла сессии практики
type SessionHandler struct {
	quizService *service.QuizService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(quizService *service.QuizService) *SessionHandler {
	return &SessionHandler{
		quizService: quizService,
	}
}

// StartSession создает новую сессию поверх свежезагруженной таблицы вопросов
func (h *SessionHandler) StartSession(c *gin.Context) {
	screen, err := h.quizService.StartSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewScreenResponse(screen))
}

// GetSession возвращает текущий экран сессии
func (h *SessionHandler) GetSession(c *gin.Context) {
	screen, err := h.quizService.Screen(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScreenResponse(screen))
}

// SelectChapters принимает выражение выбора глав
func (h *SessionHandler) SelectChapters(c *gin.Context) {
	var req dto.ChaptersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expression is required"})
		return
	}

	screen, err := h.quizService.SelectChapters(c.Param("id"), req.Expression)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScreenResponse(screen))
}

// SelectMode принимает режим практики
func (h *SessionHandler) SelectMode(c *gin.Context) {
	var req dto.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}

	screen, err := h.quizService.SelectMode(c.Param("id"), req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScreenResponse(screen))
}

// StartQuiz принимает количество вопросов и запускает викторину
func (h *SessionHandler) StartQuiz(c *gin.Context) {
	var req dto.CountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count is required"})
		return
	}

	screen, err := h.quizService.StartQuiz(c.Param("id"), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScreenResponse(screen))
}

// SubmitAnswer оценивает ответ на текущий вопрос
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option is required"})
		return
	}

	feedback, err := h.quizService.SubmitAnswer(c.Request.Context(), c.Param("id"), req.Option)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerResponse(feedback))
}

// Back возвращает сессию на предыдущий этап
func (h *SessionHandler) Back(c *gin.Context) {
	screen, err := h.quizService.Back(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScreenResponse(screen))
}

// Restart перечитывает таблицу и сбрасывает сессию к выбору глав
func (h *SessionHandler) Restart(c *gin.Context) {
	screen, err := h.quizService.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewScreenResponse(screen))
}

// DeleteSession удаляет брошенную сессию
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.quizService.DeleteSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError переводит ошибки сервиса в HTTP статусы.
// Каждая отклоненная операция получает видимое описание причины.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
