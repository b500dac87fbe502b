package entity

import (
	"time"
)

// Attempt представляет одну попытку прохождения викторины по категории.
// Набор вопросов фиксируется при создании: ответы никогда не добавляются
// и не удаляются после создания попытки.
type Attempt struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	CategoryID     uint       `gorm:"not null;index" json:"category_id"`
	TotalQuestions int        `gorm:"not null;default:10" json:"total_questions"`
	PassingScore   int        `gorm:"not null;default:70" json:"passing_score"` // проходной балл в процентах
	TimeLimit      int        `gorm:"not null;default:30" json:"time_limit"`    // минуты; информационное поле, не проверяется
	Score          *float64   `gorm:"type:numeric(5,2)" json:"score,omitempty"`
	Passed         bool       `gorm:"not null;default:false" json:"passed"`
	Answers        []Answer   `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
	StartedAt      time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Attempt) TableName() string {
	return "attempts"
}

// IsCompleted проверяет, завершена ли попытка
func (a *Attempt) IsCompleted() bool {
	return a.CompletedAt != nil
}
