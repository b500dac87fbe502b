package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// seedCategoryWithQuestions создает категорию с активным и помеченным
// удаленным вопросом, у каждого по два варианта ответа
func seedCategoryWithQuestions(t *testing.T, db *gorm.DB, name string) entity.Category {
	t.Helper()

	deletedAt := time.Now()
	category := entity.Category{
		Name: name,
		Questions: []entity.Question{
			{
				Text: "Active question",
				Type: entity.QuestionTypeSingle,
				Options: []entity.Option{
					{Text: "Yes", IsCorrect: true},
					{Text: "No"},
				},
			},
			{
				Text:      "Retired question",
				Type:      entity.QuestionTypeSingle,
				DeletedAt: &deletedAt,
				Options: []entity.Option{
					{Text: "Yes", IsCorrect: true},
					{Text: "No"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func TestCategoryRepo_Delete_RemovesQuestionTree(t *testing.T) {
	// Arrange: категория с вопросами, но без попыток
	db := newTestDB(t)
	repo := NewCategoryRepo(db)
	category := seedCategoryWithQuestions(t, db, "Web Development")
	sibling := seedCategoryWithQuestions(t, db, "General Knowledge")

	// Act
	err := repo.Delete(category.ID)

	// Assert: удалены и категория, и ее вопросы с вариантами,
	// включая помеченные удаленными
	require.NoError(t, err, "Категория без попыток должна удаляться")

	var questions int64
	require.NoError(t, db.Model(&entity.Question{}).
		Where("category_id = ?", category.ID).Count(&questions).Error)
	assert.Zero(t, questions, "Вопросы категории должны удаляться вместе с ней")

	var optionIDs []uint
	for _, question := range category.Questions {
		for _, option := range question.Options {
			optionIDs = append(optionIDs, option.ID)
		}
	}
	var options int64
	require.NoError(t, db.Model(&entity.Option{}).
		Where("id IN ?", optionIDs).Count(&options).Error)
	assert.Zero(t, options, "Варианты ответов не должны оставаться без вопросов")

	_, err = repo.GetByID(category.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Соседняя категория не затронута
	var siblingQuestions int64
	require.NoError(t, db.Model(&entity.Question{}).
		Where("category_id = ?", sibling.ID).Count(&siblingQuestions).Error)
	assert.EqualValues(t, 2, siblingQuestions, "Чужие вопросы должны остаться на месте")
}

func TestCategoryRepo_Delete_UnknownCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepo(db)

	err := repo.Delete(999)

	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Несуществующая категория должна давать ErrNotFound")
}
