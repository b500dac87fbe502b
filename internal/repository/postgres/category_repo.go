package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// CategoryRepo реализует repository.CategoryRepository
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo создает новый репозиторий категорий
func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create создает новую категорию
func (r *CategoryRepo) Create(category *entity.Category) error {
	return r.db.Create(category).Error
}

// GetByID возвращает категорию по ID
func (r *CategoryRepo) GetByID(id uint) (*entity.Category, error) {
	var category entity.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List возвращает все категории в алфавитном порядке
func (r *CategoryRepo) List() ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.Order("name").Find(&categories).Error
	return categories, err
}

// Update обновляет категорию
func (r *CategoryRepo) Update(category *entity.Category) error {
	return r.db.Save(category).Error
}

// Delete удаляет категорию вместе с ее вопросами и вариантами ответов
// в одной транзакции. Проверка ссылающихся попыток — на уровне сервиса.
func (r *CategoryRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		questionIDs := tx.Model(&entity.Question{}).
			Select("id").
			Where("category_id = ?", id)
		if err := tx.Where("question_id IN (?)", questionIDs).
			Delete(&entity.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).
			Delete(&entity.Question{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

// CountAttempts возвращает число попыток, ссылающихся на категорию
func (r *CategoryRepo) CountAttempts(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Attempt{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
