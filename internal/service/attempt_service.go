package service

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	"github.com/yourusername/quizcheck-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// AttemptConfig содержит параметры создания попыток
type AttemptConfig struct {
	QuestionsPerAttempt int // верхняя граница случайной выборки
	PassingScore        int // проходной балл в процентах
	TimeLimitMinutes    int // информационный лимит времени
}

// AttemptService управляет жизненным циклом попытки: случайной выборкой
// вопросов, состоянием ответов (выбор, флажок) и навигацией между ними.
// Источник случайности внедряется явно, чтобы тесты могли передать
// детерминированный генератор.
type AttemptService struct {
	attemptRepo repository.AttemptRepository
	catalog     *CatalogService
	config      AttemptConfig

	mu  sync.Mutex // rand.Rand не потокобезопасен
	rng *rand.Rand
}

// NewAttemptService создает новый сервис попыток
func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	catalog *CatalogService,
	config AttemptConfig,
	rng *rand.Rand,
) *AttemptService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AttemptService{
		attemptRepo: attemptRepo,
		catalog:     catalog,
		config:      config,
		rng:         rng,
	}
}

// Start создает новую попытку для пользователя по категории: равномерная
// выборка без повторений min(QuestionsPerAttempt, |пул|) вопросов и
// атомарное создание попытки вместе с пустыми ответами. Пустой пул —
// ErrNoQuestionsAvailable, ничего не создается.
func (s *AttemptService) Start(userID, categoryID uint) (*entity.Attempt, error) {
	eligible, err := s.catalog.EligibleQuestions(categoryID)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: category #%d", apperrors.ErrNoQuestionsAvailable, categoryID)
	}

	selected := s.sampleQuestions(eligible, s.config.QuestionsPerAttempt)
	questionIDs := make([]uint, 0, len(selected))
	for _, q := range selected {
		questionIDs = append(questionIDs, q.ID)
	}

	attempt := &entity.Attempt{
		UserID:         userID,
		CategoryID:     categoryID,
		TotalQuestions: len(selected),
		PassingScore:   s.config.PassingScore,
		TimeLimit:      s.config.TimeLimitMinutes,
		StartedAt:      time.Now(),
	}
	if err := s.attemptRepo.CreateWithAnswers(attempt, questionIDs); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	log.Printf("[AttemptService] Попытка #%d создана: пользователь %d, категория %d, вопросов %d",
		attempt.ID, userID, categoryID, len(selected))
	return attempt, nil
}

// sampleQuestions выбирает не более n вопросов равномерно и без повторений
// (shuffle-and-take через rng.Perm)
func (s *AttemptService) sampleQuestions(pool []entity.Question, n int) []entity.Question {
	if n > len(pool) {
		n = len(pool)
	}

	s.mu.Lock()
	perm := s.rng.Perm(len(pool))
	s.mu.Unlock()

	selected := make([]entity.Question, 0, n)
	for _, idx := range perm[:n] {
		selected = append(selected, pool[idx])
	}
	return selected
}

// AnswerNav — ответ с вычисленными метаданными навигации.
// Порядок навигации — строго порядок вставки ответов при создании попытки.
type AnswerNav struct {
	Answer   *entity.Answer
	PrevID   *uint // nil на первом ответе
	NextID   *uint // nil на последнем ответе
	IsFirst  bool
	IsLast   bool
	Position int // 1-based позиция в последовательности
	Total    int
}

// GetAnswer возвращает ответ попытки с метаданными навигации.
// Попытка должна принадлежать пользователю, иначе ErrNotFound.
func (s *AttemptService) GetAnswer(userID, attemptID, answerID uint) (*AnswerNav, error) {
	if _, err := s.attemptRepo.GetByIDForUser(attemptID, userID); err != nil {
		return nil, err
	}

	answer, err := s.attemptRepo.GetAnswer(attemptID, answerID)
	if err != nil {
		return nil, err
	}

	ids, err := s.attemptRepo.GetAnswerIDs(attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer sequence: %w", err)
	}

	idx := -1
	for i, id := range ids {
		if id == answerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Ответ найден по (attempt_id, id), но отсутствует в последовательности —
		// рассинхронизация хранилища
		return nil, fmt.Errorf("answer #%d missing from attempt #%d sequence", answerID, attemptID)
	}

	nav := &AnswerNav{
		Answer:   answer,
		IsFirst:  idx == 0,
		IsLast:   idx == len(ids)-1,
		Position: idx + 1,
		Total:    len(ids),
	}
	if idx > 0 {
		nav.PrevID = &ids[idx-1]
	}
	if idx < len(ids)-1 {
		nav.NextID = &ids[idx+1]
	}
	return nav, nil
}

// SetSelection целиком заменяет набор выбранных вариантов ответа.
// Вариант чужого вопроса — ErrInvalidOption, прежний выбор сохраняется.
// Завершенную попытку менять нельзя — ErrAttemptCompleted.
func (s *AttemptService) SetSelection(userID, attemptID, answerID uint, optionIDs []uint) error {
	attempt, err := s.attemptRepo.GetByIDForUser(attemptID, userID)
	if err != nil {
		return err
	}
	if attempt.IsCompleted() {
		return apperrors.ErrAttemptCompleted
	}

	answer, err := s.attemptRepo.GetAnswer(attemptID, answerID)
	if err != nil {
		return err
	}

	return s.attemptRepo.ReplaceSelection(answer.ID, answer.QuestionID, optionIDs)
}

// ToggleFlag переключает флажок "на проверку" и возвращает новое значение.
// Разрешен независимо от завершенности попытки: флажок не влияет на оценку.
func (s *AttemptService) ToggleFlag(userID, attemptID, answerID uint) (bool, error) {
	if _, err := s.attemptRepo.GetByIDForUser(attemptID, userID); err != nil {
		return false, err
	}
	if _, err := s.attemptRepo.GetAnswer(attemptID, answerID); err != nil {
		return false, err
	}
	return s.attemptRepo.ToggleFlag(answerID)
}

// ReviewItem — строка сводки для панели обзора.
// Правильность ответов до отправки намеренно не раскрывается.
type ReviewItem struct {
	AnswerID     uint   `json:"answer_id"`
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text"`
	HasSelection bool   `json:"has_selection"`
	IsFlagged    bool   `json:"is_flagged"`
}

// ReviewSummary возвращает упорядоченную сводку по всем ответам попытки
func (s *AttemptService) ReviewSummary(userID, attemptID uint) ([]ReviewItem, error) {
	if _, err := s.attemptRepo.GetByIDForUser(attemptID, userID); err != nil {
		return nil, err
	}

	answers, err := s.attemptRepo.GetAnswers(attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	items := make([]ReviewItem, 0, len(answers))
	for _, answer := range answers {
		items = append(items, ReviewItem{
			AnswerID:     answer.ID,
			QuestionID:   answer.QuestionID,
			QuestionText: answer.Question.Text,
			HasSelection: answer.HasSelection(),
			IsFlagged:    answer.IsFlagged,
		})
	}
	return items, nil
}

// GetAttempt возвращает попытку пользователя вместе с упорядоченной
// последовательностью ID ее ответов
func (s *AttemptService) GetAttempt(userID, attemptID uint) (*entity.Attempt, []uint, error) {
	attempt, err := s.attemptRepo.GetByIDForUser(attemptID, userID)
	if err != nil {
		return nil, nil, err
	}
	ids, err := s.attemptRepo.GetAnswerIDs(attemptID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load answer sequence: %w", err)
	}
	return attempt, ids, nil
}
