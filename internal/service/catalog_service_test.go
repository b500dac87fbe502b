package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

func TestCatalogService_ListCategories_CacheMiss(t *testing.T) {
	// Arrange: кеш пуст, список берется из БД и кладется в кеш
	categoryRepo := new(MockCategoryRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewCatalogService(categoryRepo, nil, cacheRepo)

	stored := []entity.Category{{ID: 1, Name: "Алгоритмы"}, {ID: 2, Name: "Сети"}}
	cacheRepo.On("GetJSON", categoriesCacheKey, mock.Anything).Return(apperrors.ErrNotFound)
	categoryRepo.On("List").Return(stored, nil)
	cacheRepo.On("SetJSON", categoriesCacheKey, stored, categoriesCacheTTL).Return(nil)

	// Act
	categories, err := svc.ListCategories()

	// Assert
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	cacheRepo.AssertExpectations(t)
}

func TestCatalogService_ListCategories_CacheHit(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewCatalogService(categoryRepo, nil, cacheRepo)

	cacheRepo.On("GetJSON", categoriesCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*[]entity.Category)
			*dest = []entity.Category{{ID: 1, Name: "Алгоритмы"}}
		}).
		Return(nil)

	categories, err := svc.ListCategories()

	require.NoError(t, err)
	assert.Len(t, categories, 1)
	categoryRepo.AssertNotCalled(t, "List")
}

func TestCatalogService_ListCategories_NoCache(t *testing.T) {
	// Сервис работает и без Redis
	categoryRepo := new(MockCategoryRepository)
	svc := NewCatalogService(categoryRepo, nil, nil)

	categoryRepo.On("List").Return([]entity.Category{{ID: 1}}, nil)

	categories, err := svc.ListCategories()

	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCatalogService_EligibleQuestions_CategoryNotFound(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	questionRepo := new(MockQuestionRepository)
	svc := NewCatalogService(categoryRepo, questionRepo, nil)

	categoryRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.EligibleQuestions(99)

	require.ErrorIs(t, err, apperrors.ErrNotFound)
	questionRepo.AssertNotCalled(t, "GetEligibleByCategory", mock.Anything)
}

func TestCatalogService_CreateCategory_InvalidatesCache(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewCatalogService(categoryRepo, nil, cacheRepo)

	categoryRepo.On("Create", mock.AnythingOfType("*entity.Category")).Return(nil)
	cacheRepo.On("Delete", categoriesCacheKey).Return(nil)

	category, err := svc.CreateCategory("  Базы данных  ", "SQL и около")

	require.NoError(t, err)
	assert.Equal(t, "Базы данных", category.Name, "имя нормализуется")
	cacheRepo.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_EmptyName(t *testing.T) {
	svc := NewCatalogService(new(MockCategoryRepository), nil, nil)

	_, err := svc.CreateCategory("   ", "")

	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalogService_DeleteCategory_WithAttemptsIsConflict(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	svc := NewCatalogService(categoryRepo, nil, nil)

	categoryRepo.On("GetByID", uint(3)).Return(&entity.Category{ID: 3}, nil)
	categoryRepo.On("CountAttempts", uint(3)).Return(int64(12), nil)

	err := svc.DeleteCategory(3)

	require.ErrorIs(t, err, apperrors.ErrConflict,
		"история попыток должна переживать правки каталога")
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestCatalogService_DeleteCategory_Unreferenced(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	svc := NewCatalogService(categoryRepo, nil, nil)

	categoryRepo.On("GetByID", uint(3)).Return(&entity.Category{ID: 3}, nil)
	categoryRepo.On("CountAttempts", uint(3)).Return(int64(0), nil)
	categoryRepo.On("Delete", uint(3)).Return(nil)

	err := svc.DeleteCategory(3)

	require.NoError(t, err)
	categoryRepo.AssertExpectations(t)
}

func validQuestionInput() QuestionInput {
	return QuestionInput{
		Text: "Какая структура данных дает O(1) на доступ по ключу?",
		Type: entity.QuestionTypeSingle,
		Options: []OptionInput{
			{Text: "Хеш-таблица", IsCorrect: true},
			{Text: "Связный список"},
		},
	}
}

func TestCatalogService_CreateQuestion_Valid(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	questionRepo := new(MockQuestionRepository)
	svc := NewCatalogService(categoryRepo, questionRepo, nil)

	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1}, nil)
	questionRepo.On("CreateWithOptions", mock.AnythingOfType("*entity.Question")).Return(nil)

	question, err := svc.CreateQuestion(1, validQuestionInput())

	require.NoError(t, err)
	assert.Equal(t, uint(1), question.CategoryID)
	assert.Len(t, question.Options, 2)
}

func TestCatalogService_CreateQuestion_Validation(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	questionRepo := new(MockQuestionRepository)
	svc := NewCatalogService(categoryRepo, questionRepo, nil)
	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1}, nil)

	cases := []struct {
		name   string
		mutate func(*QuestionInput)
	}{
		{"пустой текст", func(in *QuestionInput) { in.Text = "  " }},
		{"неизвестный тип", func(in *QuestionInput) { in.Type = "essay" }},
		{"один вариант", func(in *QuestionInput) { in.Options = in.Options[:1] }},
		{"ни одного правильного", func(in *QuestionInput) {
			in.Options[0].IsCorrect = false
		}},
		{"два правильных у single", func(in *QuestionInput) {
			in.Options[1].IsCorrect = true
		}},
		{"пустой текст варианта", func(in *QuestionInput) {
			in.Options[1].Text = " "
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validQuestionInput()
			tc.mutate(&input)

			_, err := svc.CreateQuestion(1, input)

			require.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	questionRepo.AssertNotCalled(t, "CreateWithOptions", mock.Anything)
}

func TestCatalogService_CreateQuestion_MultipleAllowsSeveralCorrect(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	questionRepo := new(MockQuestionRepository)
	svc := NewCatalogService(categoryRepo, questionRepo, nil)

	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1}, nil)
	questionRepo.On("CreateWithOptions", mock.AnythingOfType("*entity.Question")).Return(nil)

	input := validQuestionInput()
	input.Type = entity.QuestionTypeMultiple
	input.Options[1].IsCorrect = true

	_, err := svc.CreateQuestion(1, input)

	require.NoError(t, err)
}

func TestCatalogService_UpdateQuestion_TypeChangeBlockedByRefs(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	svc := NewCatalogService(new(MockCategoryRepository), questionRepo, nil)

	questionRepo.On("GetByID", uint(10)).
		Return(&entity.Question{ID: 10, Type: entity.QuestionTypeSingle}, nil)
	questionRepo.On("CountAnswerRefs", uint(10)).Return(int64(4), nil)

	_, err := svc.UpdateQuestion(10, "новый текст", entity.QuestionTypeMultiple)

	require.ErrorIs(t, err, apperrors.ErrConflict,
		"смена типа меняет семантику оценивания прошлых ответов")
	questionRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestCatalogService_UpdateQuestion_TextOnly(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	svc := NewCatalogService(new(MockCategoryRepository), questionRepo, nil)

	questionRepo.On("GetByID", uint(10)).
		Return(&entity.Question{ID: 10, Type: entity.QuestionTypeSingle}, nil)
	questionRepo.On("Update", mock.AnythingOfType("*entity.Question")).Return(nil)

	question, err := svc.UpdateQuestion(10, "уточненный текст", "")

	require.NoError(t, err)
	assert.Equal(t, "уточненный текст", question.Text)
	assert.Equal(t, entity.QuestionTypeSingle, question.Type, "пустой тип сохраняет текущий")
	// Без смены типа проверка ссылок не нужна
	questionRepo.AssertNotCalled(t, "CountAnswerRefs", mock.Anything)
}
