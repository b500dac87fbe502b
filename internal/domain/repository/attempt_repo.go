package repository

import (
	"time"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками и их ответами.
// Все мутации выполняются в одной транзакции: частично созданная попытка
// (без полного набора ответов) не должна быть наблюдаема.
type AttemptRepository interface {
	// CreateWithAnswers атомарно создает попытку и по одному пустому ответу
	// на каждый вопрос. Порядок questionIDs становится порядком навигации.
	CreateWithAnswers(attempt *entity.Attempt, questionIDs []uint) error

	// GetByIDForUser возвращает попытку, принадлежащую пользователю.
	// Чужая или несуществующая попытка — ErrNotFound.
	GetByIDForUser(id, userID uint) (*entity.Attempt, error)

	// GetAnswer возвращает ответ попытки с предзагруженным вопросом,
	// его вариантами и текущим выбором.
	GetAnswer(attemptID, answerID uint) (*entity.Answer, error)

	// GetAnswers возвращает все ответы попытки в порядке вставки
	// с предзагруженными вопросами, вариантами и выбором.
	GetAnswers(attemptID uint) ([]entity.Answer, error)

	// GetAnswerIDs возвращает упорядоченную последовательность ID ответов попытки
	GetAnswerIDs(attemptID uint) ([]uint, error)

	// ReplaceSelection целиком заменяет набор выбранных вариантов ответа
	// (семантика clear-then-add в одной транзакции). Вариант, не принадлежащий
	// вопросу ответа, — ErrInvalidOption, прежний выбор не меняется.
	ReplaceSelection(answerID, questionID uint, optionIDs []uint) error

	// ToggleFlag переключает флажок ответа и возвращает новое значение
	ToggleFlag(answerID uint) (bool, error)

	// Finalize записывает итог попытки одной защищенной операцией.
	// Возвращает false, если попытка уже была завершена: при гонке двух
	// submit completed_at выигрывает ровно одна запись.
	Finalize(attemptID uint, score float64, passed bool, completedAt time.Time) (bool, error)

	// ListCompletedByUser возвращает последние завершенные попытки пользователя
	ListCompletedByUser(userID uint, limit int) ([]entity.Attempt, error)
}
