package entity

import (
	"time"
)

// Category представляет категорию (предмет) вопросов, например Math, Science, Python.
// Для ядра системы категории неизменяемы: их создает административный ввод.
type Category struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Questions   []Question `gorm:"foreignKey:CategoryID" json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}
