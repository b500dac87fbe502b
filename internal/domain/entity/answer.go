package entity

import (
	"time"
)

// Answer представляет состояние ответа пользователя на один вопрос внутри попытки.
// На пару (попытка, вопрос) существует не более одного ответа.
type Answer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AttemptID       uint      `gorm:"not null;uniqueIndex:idx_answers_attempt_question" json:"attempt_id"`
	QuestionID      uint      `gorm:"not null;uniqueIndex:idx_answers_attempt_question" json:"question_id"`
	Question        Question  `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	SelectedOptions []Option  `gorm:"many2many:answer_selected_options" json:"selected_options,omitempty"`
	IsFlagged       bool      `gorm:"not null;default:false" json:"is_flagged"`
	AnsweredAt      time.Time `gorm:"not null" json:"answered_at"` // обновляется при каждой мутации
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}

// HasSelection проверяет, выбран ли хотя бы один вариант
func (a *Answer) HasSelection() bool {
	return len(a.SelectedOptions) > 0
}

// SelectedOptionIDs возвращает ID выбранных вариантов
func (a *Answer) SelectedOptionIDs() []uint {
	ids := make([]uint, 0, len(a.SelectedOptions))
	for _, opt := range a.SelectedOptions {
		ids = append(ids, opt.ID)
	}
	return ids
}

// IsCorrect проверяет правильность ответа: множество выбранных вариантов
// должно в точности совпадать с множеством правильных вариантов вопроса.
// Единое правило для типов single и multiple: single — это просто вопрос,
// у которого ровно один правильный вариант.
// Требует предзагруженных Question.Options и SelectedOptions.
func (a *Answer) IsCorrect() bool {
	correct := a.Question.CorrectOptionIDs()
	selected := a.SelectedOptionIDs()

	// Вопрос без правильных вариантов нарушает инвариант данных,
	// такой ответ не засчитываем.
	if len(correct) == 0 || len(selected) != len(correct) {
		return false
	}

	correctSet := make(map[uint]struct{}, len(correct))
	for _, id := range correct {
		correctSet[id] = struct{}{}
	}
	for _, id := range selected {
		if _, ok := correctSet[id]; !ok {
			return false
		}
	}
	return true
}
