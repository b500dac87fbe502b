package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizcheck-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
	"github.com/yourusername/quizcheck-api/internal/service"
)

// AttemptHandler обрабатывает запросы жизненного цикла попытки:
// старт, навигацию по вопросам, выбор вариантов, обзор, отправку и итоги.
type AttemptHandler struct {
	attemptService *service.AttemptService
	resultService  *service.ResultService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(
	attemptService *service.AttemptService,
	resultService *service.ResultService,
) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		resultService:  resultService,
	}
}

// StartAttempt создает новую попытку по категории.
// Пустой пул вопросов — 409, попытка не создается.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	attempt, err := h.attemptService.Start(userID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	answerIDs := make([]uint, 0, len(attempt.Answers))
	for _, answer := range attempt.Answers {
		answerIDs = append(answerIDs, answer.ID)
	}

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt, answerIDs))
}

// ListAttempts возвращает последние завершенные попытки пользователя
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 5
	}

	attempts, err := h.resultService.RecentCompleted(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListAttemptResponse(attempts))
}

// GetAttempt возвращает попытку с последовательностью ID ее ответов
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	attempt, answerIDs, err := h.attemptService.GetAttempt(userID, attemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt, answerIDs))
}

// GetAnswer возвращает один ответ попытки с метаданными навигации
func (h *AttemptHandler) GetAnswer(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	answerID := c.MustGet("answerID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	nav, err := h.attemptService.GetAnswer(userID, attemptID, answerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnswerResponse(nav))
}

// SelectionRequest представляет запрос на замену выбора вариантов.
// Пустой список снимает выбор целиком.
type SelectionRequest struct {
	OptionIDs []uint `json:"option_ids"`
}

// SetSelection целиком заменяет набор выбранных вариантов ответа
func (h *AttemptHandler) SetSelection(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	answerID := c.MustGet("answerID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.attemptService.SetSelection(userID, attemptID, answerID, req.OptionIDs); err != nil {
		respondError(c, err)
		return
	}

	// Возвращаем обновленный ответ с навигацией
	nav, err := h.attemptService.GetAnswer(userID, attemptID, answerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnswerResponse(nav))
}

// ToggleFlag переключает флажок "на проверку" и возвращает новое значение
func (h *AttemptHandler) ToggleFlag(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	answerID := c.MustGet("answerID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	flagged, err := h.attemptService.ToggleFlag(userID, attemptID, answerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer_id": answerID, "is_flagged": flagged})
}

// Review возвращает сводку по всем ответам попытки без раскрытия правильности
func (h *AttemptHandler) Review(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	items, err := h.attemptService.ReviewSummary(userID, attemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempt_id": attemptID, "answers": items})
}

// Submit завершает попытку и возвращает итоговый балл.
// Отправка уже завершенной попытки возвращает сохраненный результат.
func (h *AttemptHandler) Submit(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	attempt, err := h.resultService.Submit(userID, attemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt, nil))
}

// Results возвращает разбор завершенной попытки с раскрытыми правильными
// вариантами. Для незавершенной попытки — 409.
func (h *AttemptHandler) Results(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthorized)
		return
	}

	attempt, results, err := h.resultService.Results(userID, attemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultsResponse(attempt, results))
}
