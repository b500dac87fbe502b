package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// completedAttempt строит завершенную попытку с заданным баллом
func completedAttempt(id, userID uint, score float64) *entity.Attempt {
	now := time.Now()
	return &entity.Attempt{
		ID:           id,
		UserID:       userID,
		PassingScore: 70,
		Score:        &score,
		Passed:       score >= 70,
		CompletedAt:  &now,
	}
}

// gradedAnswer строит ответ, правильность которого задается параметром
func gradedAnswer(id uint, correct bool) entity.Answer {
	question := entity.Question{
		ID: id,
		Options: []entity.Option{
			{ID: id*10 + 1, QuestionID: id, IsCorrect: true},
			{ID: id*10 + 2, QuestionID: id},
		},
	}
	answer := entity.Answer{ID: id, QuestionID: id, Question: question}
	if correct {
		answer.SelectedOptions = []entity.Option{question.Options[0]}
	} else {
		answer.SelectedOptions = []entity.Option{question.Options[1]}
	}
	return answer
}

func TestResultService_Submit_ThreeOfFourCorrect(t *testing.T) {
	// Arrange: 4 ответа, 3 правильных, порог 70
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).
		Return(&entity.Attempt{ID: 5, UserID: 7, TotalQuestions: 4, PassingScore: 70}, nil)
	attemptRepo.On("GetAnswers", uint(5)).Return([]entity.Answer{
		gradedAnswer(1, true),
		gradedAnswer(2, true),
		gradedAnswer(3, true),
		gradedAnswer(4, false),
	}, nil)
	attemptRepo.On("Finalize", uint(5), 75.0, true, mock.AnythingOfType("time.Time")).
		Return(true, nil)

	// Act
	attempt, err := svc.Submit(7, 5)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, attempt.Score)
	assert.Equal(t, 75.0, *attempt.Score)
	assert.True(t, attempt.Passed, "75 >= 70 — порог включительно")
	assert.NotNil(t, attempt.CompletedAt)
}

func TestResultService_Submit_HigherThresholdFails(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).
		Return(&entity.Attempt{ID: 5, UserID: 7, TotalQuestions: 4, PassingScore: 80}, nil)
	attemptRepo.On("GetAnswers", uint(5)).Return([]entity.Answer{
		gradedAnswer(1, true),
		gradedAnswer(2, true),
		gradedAnswer(3, true),
		gradedAnswer(4, false),
	}, nil)
	attemptRepo.On("Finalize", uint(5), 75.0, false, mock.AnythingOfType("time.Time")).
		Return(true, nil)

	attempt, err := svc.Submit(7, 5)

	require.NoError(t, err)
	assert.Equal(t, 75.0, *attempt.Score)
	assert.False(t, attempt.Passed, "75 < 80 — попытка не пройдена")
}

func TestResultService_Submit_ExactThresholdPasses(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	// 7 из 10 при пороге 70: граница включительно
	answers := make([]entity.Answer, 0, 10)
	for i := 1; i <= 10; i++ {
		answers = append(answers, gradedAnswer(uint(i), i <= 7))
	}

	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).
		Return(&entity.Attempt{ID: 5, UserID: 7, PassingScore: 70}, nil)
	attemptRepo.On("GetAnswers", uint(5)).Return(answers, nil)
	attemptRepo.On("Finalize", uint(5), 70.0, true, mock.AnythingOfType("time.Time")).
		Return(true, nil)

	attempt, err := svc.Submit(7, 5)

	require.NoError(t, err)
	assert.True(t, attempt.Passed)
}

func TestResultService_Submit_AlreadyCompletedIsIdempotent(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	stored := completedAttempt(5, 7, 75)
	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).Return(stored, nil)

	attempt, err := svc.Submit(7, 5)

	require.NoError(t, err)
	assert.Equal(t, 75.0, *attempt.Score, "повторный submit возвращает сохраненный балл")
	// Никакого пересчета и повторной финализации
	attemptRepo.AssertNotCalled(t, "GetAnswers", mock.Anything)
	attemptRepo.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResultService_Submit_ConcurrentLoserReturnsStored(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	inProgress := &entity.Attempt{ID: 5, UserID: 7, PassingScore: 70}
	finalized := completedAttempt(5, 7, 100)

	// Первый вызов видит незавершенную попытку, но гонку выигрывает конкурент
	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).Return(inProgress, nil).Once()
	attemptRepo.On("GetAnswers", uint(5)).Return([]entity.Answer{gradedAnswer(1, true)}, nil)
	attemptRepo.On("Finalize", uint(5), 100.0, true, mock.AnythingOfType("time.Time")).
		Return(false, nil)
	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).Return(finalized, nil).Once()

	attempt, err := svc.Submit(7, 5)

	require.NoError(t, err)
	assert.NotNil(t, attempt.CompletedAt, "проигравший гонку возвращает результат победителя")
	assert.Equal(t, 100.0, *attempt.Score)
}

func TestResultService_Submit_NoAnswersZeroScore(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).
		Return(&entity.Attempt{ID: 5, UserID: 7, PassingScore: 70}, nil)
	attemptRepo.On("GetAnswers", uint(5)).Return([]entity.Answer{}, nil)
	attemptRepo.On("Finalize", uint(5), 0.0, false, mock.AnythingOfType("time.Time")).
		Return(true, nil)

	attempt, err := svc.Submit(7, 5)

	require.NoError(t, err)
	assert.Equal(t, 0.0, *attempt.Score)
	assert.False(t, attempt.Passed)
}

func TestCalculateScore_Rounding(t *testing.T) {
	// Округление до двух знаков по правилу round-half-up
	cases := []struct {
		name     string
		correct  int
		total    int
		expected float64
	}{
		{"три четверти", 3, 4, 75.0},
		{"одна треть", 1, 3, 33.33},
		{"две трети", 2, 3, 66.67},
		{"одна шестая", 1, 6, 16.67},
		{"все правильные", 5, 5, 100.0},
		{"ни одного", 0, 5, 0.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := make([]entity.Answer, 0, tc.total)
			for i := 1; i <= tc.total; i++ {
				answers = append(answers, gradedAnswer(uint(i), i <= tc.correct))
			}
			assert.Equal(t, tc.expected, calculateScore(answers))
		})
	}
}

func TestResultService_Results_RequiresCompletion(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).
		Return(&entity.Attempt{ID: 5, UserID: 7}, nil)

	_, _, err := svc.Results(7, 5)

	require.ErrorIs(t, err, apperrors.ErrConflict,
		"правильные ответы не раскрываются до отправки")
	attemptRepo.AssertNotCalled(t, "GetAnswers", mock.Anything)
}

func TestResultService_Results_GradedProjection(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	attemptRepo.On("GetByIDForUser", uint(5), uint(7)).Return(completedAttempt(5, 7, 50), nil)
	attemptRepo.On("GetAnswers", uint(5)).Return([]entity.Answer{
		gradedAnswer(1, true),
		gradedAnswer(2, false),
	}, nil)

	attempt, results, err := svc.Results(7, 5)

	require.NoError(t, err)
	assert.True(t, attempt.IsCompleted())
	require.Len(t, results, 2)

	assert.True(t, results[0].IsCorrect)
	require.Len(t, results[0].CorrectOptions, 1)
	assert.True(t, results[0].CorrectOptions[0].IsCorrect)

	assert.False(t, results[1].IsCorrect)
	require.Len(t, results[1].SelectedOptions, 1)
	assert.False(t, results[1].SelectedOptions[0].IsCorrect)
}

func TestResultService_RecentCompleted_DefaultLimit(t *testing.T) {
	attemptRepo := new(MockAttemptRepository)
	svc := NewResultService(attemptRepo)

	attemptRepo.On("ListCompletedByUser", uint(7), 5).Return([]entity.Attempt{}, nil)

	_, err := svc.RecentCompleted(7, 0)

	require.NoError(t, err)
	attemptRepo.AssertExpectations(t)
}
