package entity

import (
	"time"
)

// Типы вопросов
const (
	QuestionTypeSingle   = "single"   // ровно один правильный вариант
	QuestionTypeMultiple = "multiple" // несколько правильных вариантов
)

// Question представляет вопрос викторины с вариантами ответов.
// Порядок вариантов — порядок их создания.
type Question struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CategoryID uint       `gorm:"not null;index" json:"category_id"`
	Text       string     `gorm:"type:text;not null" json:"text"`
	Type       string     `gorm:"size:10;not null;default:'single'" json:"type"`
	Options    []Option   `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	DeletedAt  *time.Time `gorm:"index" json:"-"` // nil — вопрос активен
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsDeleted проверяет, помечен ли вопрос удаленным (soft delete).
// Каталог фильтрует такие вопросы на уровне запроса; метод нужен
// только для административных проверок.
func (q *Question) IsDeleted() bool {
	return q.DeletedAt != nil
}

// CorrectOptionIDs возвращает ID всех правильных вариантов вопроса.
// Требует предзагруженных Options.
func (q *Question) CorrectOptionIDs() []uint {
	ids := make([]uint, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// HasCorrectOption проверяет инвариант: у вопроса, участвующего в оценке,
// должен быть хотя бы один правильный вариант.
func (q *Question) HasCorrectOption() bool {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

// IsValidQuestionType проверяет допустимость типа вопроса
func IsValidQuestionType(t string) bool {
	return t == QuestionTypeSingle || t == QuestionTypeMultiple
}
