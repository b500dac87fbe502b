package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	"github.com/yourusername/quizcheck-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// ResultService отвечает за оценивание: подсчет правильности ответов,
// итогового балла и одноразовую финализацию попытки.
type ResultService struct {
	attemptRepo repository.AttemptRepository
}

// NewResultService создает новый сервис результатов
func NewResultService(attemptRepo repository.AttemptRepository) *ResultService {
	return &ResultService{attemptRepo: attemptRepo}
}

// Submit завершает попытку: считает балл по текущему состоянию ответов и
// записывает score/passed/completed_at одной защищенной операцией.
// Повторный submit уже завершенной попытки не пересчитывает ничего и
// возвращает сохраненный результат — исход идемпотентен.
func (s *ResultService) Submit(userID, attemptID uint) (*entity.Attempt, error) {
	attempt, err := s.attemptRepo.GetByIDForUser(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		return attempt, nil
	}

	answers, err := s.attemptRepo.GetAnswers(attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	// Считаем от фактически сохраненных ответов, а не от кешированного
	// total_questions: хранилище — источник истины.
	score := calculateScore(answers)
	passed := score >= float64(attempt.PassingScore)
	completedAt := time.Now()

	won, err := s.attemptRepo.Finalize(attemptID, score, passed, completedAt)
	if err != nil {
		return nil, err
	}
	if !won {
		// Гонка двух submit: завершающую запись выполнил конкурент,
		// возвращаем его результат
		log.Printf("[ResultService] Попытка #%d уже финализирована конкурентным submit", attemptID)
		return s.attemptRepo.GetByIDForUser(attemptID, userID)
	}

	attempt.Score = &score
	attempt.Passed = passed
	attempt.CompletedAt = &completedAt

	log.Printf("[ResultService] Попытка #%d завершена: балл %.2f, порог %d, passed=%t",
		attemptID, score, attempt.PassingScore, passed)
	return attempt, nil
}

// calculateScore возвращает процент правильных ответов, округленный до двух
// знаков по правилу round-half-up. Пустой набор ответов дает 0.
func calculateScore(answers []entity.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	correct := 0
	for i := range answers {
		if answers[i].IsCorrect() {
			correct++
		}
	}
	percentage := 100 * float64(correct) / float64(len(answers))
	return math.Round(percentage*100) / 100
}

// AnswerResult — строка проекции результатов для одного вопроса
type AnswerResult struct {
	Question        entity.Question `json:"question"`
	SelectedOptions []entity.Option `json:"selected_options"`
	CorrectOptions  []entity.Option `json:"correct_options"`
	IsCorrect       bool            `json:"is_correct"`
}

// Results возвращает оцененную проекцию завершенной попытки.
// Для незавершенной попытки — ErrConflict: правильные ответы
// не раскрываются до отправки.
func (s *ResultService) Results(userID, attemptID uint) (*entity.Attempt, []AnswerResult, error) {
	attempt, err := s.attemptRepo.GetByIDForUser(attemptID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !attempt.IsCompleted() {
		return nil, nil, fmt.Errorf("%w: attempt is not submitted yet", apperrors.ErrConflict)
	}

	answers, err := s.attemptRepo.GetAnswers(attemptID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load answers: %w", err)
	}

	results := make([]AnswerResult, 0, len(answers))
	for i := range answers {
		answer := &answers[i]
		correctOptions := make([]entity.Option, 0, len(answer.Question.Options))
		for _, opt := range answer.Question.Options {
			if opt.IsCorrect {
				correctOptions = append(correctOptions, opt)
			}
		}
		results = append(results, AnswerResult{
			Question:        answer.Question,
			SelectedOptions: answer.SelectedOptions,
			CorrectOptions:  correctOptions,
			IsCorrect:       answer.IsCorrect(),
		})
	}
	return attempt, results, nil
}

// RecentCompleted возвращает последние завершенные попытки пользователя
// для панели пользователя
func (s *ResultService) RecentCompleted(userID uint, limit int) ([]entity.Attempt, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.attemptRepo.ListCompletedByUser(userID, limit)
}
