package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	"github.com/yourusername/quizcheck-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

const (
	categoriesCacheKey = "catalog:categories"
	categoriesCacheTTL = 5 * time.Minute
)

// CatalogService предоставляет доступ к категориям и вопросам.
// Для ядра попыток каталог только читается; административный ввод
// (создание категорий и вопросов) проходит через этот же сервис.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
}

// NewCatalogService создает новый сервис каталога
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
	}
}

// ListCategories возвращает все категории. Список кешируется в Redis
// и инвалидируется при административных изменениях каталога.
func (s *CatalogService) ListCategories() ([]entity.Category, error) {
	if s.cacheRepo != nil {
		var cached []entity.Category
		if err := s.cacheRepo.GetJSON(categoriesCacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[CatalogService] Ошибка чтения кеша категорий: %v", err)
		}
	}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(categoriesCacheKey, categories, categoriesCacheTTL); err != nil {
			log.Printf("[CatalogService] Ошибка записи кеша категорий: %v", err)
		}
	}
	return categories, nil
}

// GetCategory возвращает категорию по ID
func (s *CatalogService) GetCategory(categoryID uint) (*entity.Category, error) {
	return s.categoryRepo.GetByID(categoryID)
}

// EligibleQuestions возвращает пул вопросов категории, доступных для выборки:
// все неудаленные вопросы с предзагруженными вариантами, в порядке создания.
// Несуществующая категория — ErrNotFound.
func (s *CatalogService) EligibleQuestions(categoryID uint) ([]entity.Question, error) {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetEligibleByCategory(categoryID)
}

// CreateCategory создает новую категорию (административный ввод)
func (s *CatalogService) CreateCategory(name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	category := &entity.Category{
		Name:        name,
		Description: description,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoriesCache()
	return category, nil
}

// UpdateCategory обновляет имя и описание категории
func (s *CatalogService) UpdateCategory(categoryID uint, name, description string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	category.Name = name
	category.Description = description
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoriesCache()
	return category, nil
}

// DeleteCategory удаляет категорию. Категорию с историей попыток удалить
// нельзя: результаты прошедших викторин должны переживать правки каталога.
func (s *CatalogService) DeleteCategory(categoryID uint) error {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return err
	}

	attempts, err := s.categoryRepo.CountAttempts(categoryID)
	if err != nil {
		return fmt.Errorf("failed to count attempts: %w", err)
	}
	if attempts > 0 {
		return fmt.Errorf("%w: category has %d attempts referencing it", apperrors.ErrConflict, attempts)
	}

	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoriesCache()
	return nil
}

// QuestionInput описывает данные для создания вопроса с вариантами
type QuestionInput struct {
	Text    string
	Type    string
	Options []OptionInput
}

// OptionInput описывает один вариант ответа
type OptionInput struct {
	Text      string
	IsCorrect bool
}

// CreateQuestion создает вопрос с вариантами (административный ввод).
// Инвариант оценивания: у вопроса должен быть хотя бы один правильный вариант.
func (s *CatalogService) CreateQuestion(categoryID uint, input QuestionInput) (*entity.Question, error) {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if input.Type == "" {
		input.Type = entity.QuestionTypeSingle
	}
	if !entity.IsValidQuestionType(input.Type) {
		return nil, fmt.Errorf("%w: invalid question type %q", apperrors.ErrValidation, input.Type)
	}
	if len(input.Options) < 2 {
		return nil, fmt.Errorf("%w: question needs at least two options", apperrors.ErrValidation)
	}

	correctCount := 0
	options := make([]entity.Option, 0, len(input.Options))
	for _, opt := range input.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return nil, fmt.Errorf("%w: option text is required", apperrors.ErrValidation)
		}
		if opt.IsCorrect {
			correctCount++
		}
		options = append(options, entity.Option{Text: opt.Text, IsCorrect: opt.IsCorrect})
	}
	if correctCount == 0 {
		return nil, fmt.Errorf("%w: question needs at least one correct option", apperrors.ErrValidation)
	}
	if input.Type == entity.QuestionTypeSingle && correctCount != 1 {
		return nil, fmt.Errorf("%w: single-type question must have exactly one correct option", apperrors.ErrValidation)
	}

	question := &entity.Question{
		CategoryID: categoryID,
		Text:       input.Text,
		Type:       input.Type,
		Options:    options,
	}
	if err := s.questionRepo.CreateWithOptions(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// UpdateQuestion обновляет текст и тип вопроса. Смена типа меняет семантику
// оценивания, поэтому запрещена, когда на вопрос уже ссылаются ответы.
// Варианты ответа после создания вопроса не редактируются вовсе.
func (s *CatalogService) UpdateQuestion(questionID uint, text, questionType string) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if questionType == "" {
		questionType = question.Type
	}
	if !entity.IsValidQuestionType(questionType) {
		return nil, fmt.Errorf("%w: invalid question type %q", apperrors.ErrValidation, questionType)
	}

	if questionType != question.Type {
		refs, err := s.questionRepo.CountAnswerRefs(questionID)
		if err != nil {
			return nil, fmt.Errorf("failed to count answer refs: %w", err)
		}
		if refs > 0 {
			return nil, fmt.Errorf("%w: question type cannot change after attempts reference it", apperrors.ErrConflict)
		}
	}

	question.Text = text
	question.Type = questionType
	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

// SoftDeleteQuestion помечает вопрос удаленным. Вопрос пропадает из пула
// выборки, но остается доступным для проекции результатов прошлых попыток.
func (s *CatalogService) SoftDeleteQuestion(questionID uint) error {
	if err := s.questionRepo.SoftDelete(questionID, time.Now()); err != nil {
		return err
	}
	log.Printf("[CatalogService] Вопрос #%d помечен удаленным", questionID)
	return nil
}

func (s *CatalogService) invalidateCategoriesCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(categoriesCacheKey); err != nil {
		log.Printf("[CatalogService] Ошибка инвалидации кеша категорий: %v", err)
	}
}
