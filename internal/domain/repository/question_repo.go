package repository

import (
	"time"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	// CreateWithOptions создает вопрос вместе с вариантами в одной транзакции
	CreateWithOptions(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetEligibleByCategory возвращает все неудаленные вопросы категории
	// с предзагруженными вариантами, в порядке создания.
	GetEligibleByCategory(categoryID uint) ([]entity.Question, error)
	Update(question *entity.Question) error
	// SoftDelete помечает вопрос удаленным, не удаляя строку.
	// Помеченный вопрос перестает попадать в выборку каталога.
	SoftDelete(id uint, deletedAt time.Time) error
	// CountAnswerRefs возвращает число ответов, ссылающихся на вопрос.
	// Вопрос с историей ответов нельзя редактировать.
	CountAnswerRefs(questionID uint) (int64, error)
}
