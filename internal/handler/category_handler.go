package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizcheck-api/internal/handler/dto"
	"github.com/yourusername/quizcheck-api/internal/service"
)

// CategoryHandler обрабатывает запросы каталога: категории и вопросы
type CategoryHandler struct {
	catalogService *service.CatalogService
}

// NewCategoryHandler создает новый обработчик каталога
func NewCategoryHandler(catalogService *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

// ListCategories возвращает список всех категорий
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListCategoryResponse(categories))
}

// GetCategory возвращает категорию по ID
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	category, err := h.catalogService.GetCategory(categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCategoryResponse(category))
}

// CategoryRequest представляет запрос на создание или изменение категории
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// CreateCategory обрабатывает запрос на создание категории (только админ)
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalogService.CreateCategory(req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCategoryResponse(category))
}

// UpdateCategory обрабатывает запрос на изменение категории (только админ)
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalogService.UpdateCategory(categoryID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCategoryResponse(category))
}

// DeleteCategory обрабатывает запрос на удаление категории (только админ).
// Категория с историей попыток не удаляется — 409.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	if err := h.catalogService.DeleteCategory(categoryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// CreateQuestionRequest представляет запрос на создание вопроса с вариантами
type CreateQuestionRequest struct {
	Text    string `json:"text" binding:"required,min=3,max=2000"`
	Type    string `json:"type" binding:"omitempty,oneof=single multiple"`
	Options []struct {
		Text      string `json:"text" binding:"required,min=1,max=500"`
		IsCorrect bool   `json:"is_correct"`
	} `json:"options" binding:"required,min=2"`
}

// CreateQuestion обрабатывает запрос на создание вопроса в категории (только админ)
func (h *CategoryHandler) CreateQuestion(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.QuestionInput{Text: req.Text, Type: req.Type}
	for _, opt := range req.Options {
		input.Options = append(input.Options, service.OptionInput{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
		})
	}

	question, err := h.catalogService.CreateQuestion(categoryID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question))
}

// UpdateQuestionRequest представляет запрос на изменение вопроса.
// Варианты ответа после создания вопроса не редактируются.
type UpdateQuestionRequest struct {
	Text string `json:"text" binding:"required,min=3,max=2000"`
	Type string `json:"type" binding:"omitempty,oneof=single multiple"`
}

// UpdateQuestion обрабатывает запрос на изменение вопроса (только админ)
func (h *CategoryHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.catalogService.UpdateQuestion(questionID, req.Text, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// DeleteQuestion помечает вопрос удаленным (только админ).
// Вопрос пропадает из пула выборки, история попыток сохраняется.
func (h *CategoryHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.catalogService.SoftDeleteQuestion(questionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
