package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateWithOptions создает вопрос вместе с вариантами в одной транзакции.
// Порядок вариантов в слайсе становится порядком их создания.
func (r *QuestionRepo) CreateWithOptions(question *entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		options := question.Options
		question.Options = nil
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = question.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		question.Options = options
		return nil
	})
}

// GetByID возвращает вопрос с вариантами по ID (включая помеченные удаленными —
// для административных операций и проекции результатов)
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.Preload("Options", optionOrder).First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetEligibleByCategory возвращает все неудаленные вопросы категории
// с предзагруженными вариантами. Фильтр deleted_at IS NULL встроен
// в запрос, а не проверяется по месту вызова.
func (r *QuestionRepo) GetEligibleByCategory(categoryID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Preload("Options", optionOrder).
		Where("category_id = ? AND deleted_at IS NULL", categoryID).
		Order("id").
		Find(&questions).Error
	return questions, err
}

// Update обновляет текст и тип вопроса. Варианты не трогаем:
// их редактирование после начала попыток запрещено на уровне сервиса.
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Model(&entity.Question{}).
		Where("id = ?", question.ID).
		Updates(map[string]interface{}{
			"text": question.Text,
			"type": question.Type,
		}).Error
}

// SoftDelete помечает вопрос удаленным
func (r *QuestionRepo) SoftDelete(id uint, deletedAt time.Time) error {
	result := r.db.Model(&entity.Question{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", deletedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountAnswerRefs возвращает число ответов, ссылающихся на вопрос
func (r *QuestionRepo) CountAnswerRefs(questionID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Answer{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}

// optionOrder сортирует предзагруженные варианты по порядку создания
func optionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("options.id")
}
