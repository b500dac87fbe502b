package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizcheck-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// CreateWithAnswers атомарно создает попытку и по одному пустому ответу на
// каждый вопрос. Порядок questionIDs задает порядок вставки ответов и,
// следовательно, порядок навигации.
func (r *AttemptRepo) CreateWithAnswers(attempt *entity.Attempt, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("create attempt failed: %w", err)
		}

		now := time.Now()
		answers := make([]entity.Answer, 0, len(questionIDs))
		for _, questionID := range questionIDs {
			answers = append(answers, entity.Answer{
				AttemptID:  attempt.ID,
				QuestionID: questionID,
				AnsweredAt: now,
			})
		}
		if err := tx.Create(&answers).Error; err != nil {
			// Уникальный индекс (attempt_id, question_id) гарантирует
			// не более одного ответа на вопрос в попытке.
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: duplicate question in attempt", apperrors.ErrConflict)
			}
			return fmt.Errorf("create answers failed: %w", err)
		}

		attempt.Answers = answers
		return nil
	})
}

// GetByIDForUser возвращает попытку, принадлежащую пользователю.
// Чужая попытка неотличима от несуществующей: в обоих случаях ErrNotFound.
func (r *AttemptRepo) GetByIDForUser(id, userID uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// GetAnswer возвращает ответ попытки с вопросом, его вариантами и текущим выбором
func (r *AttemptRepo) GetAnswer(attemptID, answerID uint) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.Preload("Question").
		Preload("Question.Options", optionOrder).
		Preload("SelectedOptions").
		Where("id = ? AND attempt_id = ?", answerID, attemptID).
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// GetAnswers возвращает все ответы попытки в порядке вставки
func (r *AttemptRepo) GetAnswers(attemptID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Preload("Question").
		Preload("Question.Options", optionOrder).
		Preload("SelectedOptions").
		Where("attempt_id = ?", attemptID).
		Order("id").
		Find(&answers).Error
	return answers, err
}

// GetAnswerIDs возвращает упорядоченную последовательность ID ответов попытки
func (r *AttemptRepo) GetAnswerIDs(attemptID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Answer{}).
		Where("attempt_id = ?", attemptID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// ReplaceSelection целиком заменяет набор выбранных вариантов ответа.
// Валидация принадлежности вариантов вопросу и замена выполняются в одной
// транзакции: при невалидном варианте прежний выбор не меняется.
func (r *AttemptRepo) ReplaceSelection(answerID, questionID uint, optionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		unique := dedupIDs(optionIDs)

		var options []entity.Option
		if len(unique) > 0 {
			if err := tx.Where("id IN ? AND question_id = ?", unique, questionID).
				Find(&options).Error; err != nil {
				return err
			}
			// Каждый переданный ID обязан указывать на вариант этого вопроса
			if len(options) != len(unique) {
				return apperrors.ErrInvalidOption
			}
		}

		answer := entity.Answer{ID: answerID}
		if err := tx.Model(&answer).Association("SelectedOptions").Replace(&options); err != nil {
			return fmt.Errorf("replace selection failed: %w", err)
		}

		return tx.Model(&entity.Answer{}).
			Where("id = ?", answerID).
			Update("answered_at", time.Now()).Error
	})
}

// ToggleFlag переключает флажок ответа и возвращает новое значение
func (r *AttemptRepo) ToggleFlag(answerID uint) (bool, error) {
	var flagged bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Answer{}).
			Where("id = ?", answerID).
			Updates(map[string]interface{}{
				"is_flagged":  gorm.Expr("NOT is_flagged"),
				"answered_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return tx.Model(&entity.Answer{}).
			Where("id = ?", answerID).
			Pluck("is_flagged", &flagged).Error
	})
	return flagged, err
}

// Finalize записывает итог попытки одной защищенной операцией.
// Условие completed_at IS NULL гарантирует, что при гонке двух submit
// завершающую запись выполнит ровно один из них.
func (r *AttemptRepo) Finalize(attemptID uint, score float64, passed bool, completedAt time.Time) (bool, error) {
	result := r.db.Model(&entity.Attempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Updates(map[string]interface{}{
			"score":        score,
			"passed":       passed,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("finalize attempt #%d failed: %w", attemptID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListCompletedByUser возвращает последние завершенные попытки пользователя
func (r *AttemptRepo) ListCompletedByUser(userID uint, limit int) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// dedupIDs убирает дубликаты, сохраняя порядок первого вхождения
func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
