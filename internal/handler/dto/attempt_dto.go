package dto

import (
	"time"

	"github.com/yourusername/quizcheck-api/internal/domain/entity"
	"github.com/yourusername/quizcheck-api/internal/service"
)

// CategoryResponse представляет категорию в формате для ответа клиенту
type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OptionResponse представляет вариант ответа без признака правильности.
// Правильность раскрывается только в GradedOptionResponse после завершения попытки.
type OptionResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Type    string           `json:"type"`
	Options []OptionResponse `json:"options"`
}

// AttemptResponse представляет попытку в формате для ответа клиенту
type AttemptResponse struct {
	ID             uint       `json:"id"`
	CategoryID     uint       `json:"category_id"`
	TotalQuestions int        `json:"total_questions"`
	PassingScore   int        `json:"passing_score"`
	TimeLimit      int        `json:"time_limit"`
	Score          *float64   `json:"score,omitempty"`
	Passed         *bool      `json:"passed,omitempty"` // nil до завершения
	AnswerIDs      []uint     `json:"answer_ids,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// AnswerResponse представляет ответ попытки вместе с метаданными навигации
type AnswerResponse struct {
	ID                uint             `json:"id"`
	AttemptID         uint             `json:"attempt_id"`
	Question          QuestionResponse `json:"question"`
	SelectedOptionIDs []uint           `json:"selected_option_ids"`
	IsFlagged         bool             `json:"is_flagged"`
	Position          int              `json:"position"`
	Total             int              `json:"total"`
	PrevID            *uint            `json:"prev_id,omitempty"`
	NextID            *uint            `json:"next_id,omitempty"`
	IsFirst           bool             `json:"is_first"`
	IsLast            bool             `json:"is_last"`
}

// GradedOptionResponse представляет вариант ответа с раскрытой правильностью
type GradedOptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// ResultRowResponse представляет оцененный ответ на один вопрос
type ResultRowResponse struct {
	Question        QuestionResponse       `json:"question"`
	SelectedOptions []GradedOptionResponse `json:"selected_options"`
	CorrectOptions  []GradedOptionResponse `json:"correct_options"`
	IsCorrect       bool                   `json:"is_correct"`
}

// ResultsResponse представляет итог попытки вместе с разбором по вопросам
type ResultsResponse struct {
	Attempt AttemptResponse     `json:"attempt"`
	Results []ResultRowResponse `json:"results"`
}

// NewCategoryResponse создает DTO для категории
func NewCategoryResponse(category *entity.Category) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// NewListCategoryResponse создает слайс DTO для списка категорий
func NewListCategoryResponse(categories []entity.Category) []*CategoryResponse {
	list := make([]*CategoryResponse, len(categories))
	for i := range categories {
		list[i] = NewCategoryResponse(&categories[i])
	}
	return list
}

// NewQuestionResponse создает DTO для вопроса, не раскрывая правильные варианты
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, opt := range q.Options {
		options[i] = OptionResponse{ID: opt.ID, Text: opt.Text}
	}
	return QuestionResponse{
		ID:      q.ID,
		Text:    q.Text,
		Type:    q.Type,
		Options: options,
	}
}

// NewAttemptResponse создает DTO для попытки. answerIDs может быть nil,
// тогда последовательность ответов в DTO не включается.
func NewAttemptResponse(attempt *entity.Attempt, answerIDs []uint) *AttemptResponse {
	if attempt == nil {
		return nil
	}
	resp := &AttemptResponse{
		ID:             attempt.ID,
		CategoryID:     attempt.CategoryID,
		TotalQuestions: attempt.TotalQuestions,
		PassingScore:   attempt.PassingScore,
		TimeLimit:      attempt.TimeLimit,
		Score:          attempt.Score,
		AnswerIDs:      answerIDs,
		StartedAt:      attempt.StartedAt,
		CompletedAt:    attempt.CompletedAt,
	}
	if attempt.IsCompleted() {
		passed := attempt.Passed
		resp.Passed = &passed
	}
	return resp
}

// NewListAttemptResponse создает слайс DTO для списка попыток
func NewListAttemptResponse(attempts []entity.Attempt) []*AttemptResponse {
	list := make([]*AttemptResponse, len(attempts))
	for i := range attempts {
		list[i] = NewAttemptResponse(&attempts[i], nil)
	}
	return list
}

// NewAnswerResponse создает DTO для ответа с навигацией
func NewAnswerResponse(nav *service.AnswerNav) *AnswerResponse {
	if nav == nil || nav.Answer == nil {
		return nil
	}
	return &AnswerResponse{
		ID:                nav.Answer.ID,
		AttemptID:         nav.Answer.AttemptID,
		Question:          NewQuestionResponse(&nav.Answer.Question),
		SelectedOptionIDs: nav.Answer.SelectedOptionIDs(),
		IsFlagged:         nav.Answer.IsFlagged,
		Position:          nav.Position,
		Total:             nav.Total,
		PrevID:            nav.PrevID,
		NextID:            nav.NextID,
		IsFirst:           nav.IsFirst,
		IsLast:            nav.IsLast,
	}
}

func newGradedOptions(options []entity.Option) []GradedOptionResponse {
	graded := make([]GradedOptionResponse, len(options))
	for i, opt := range options {
		graded[i] = GradedOptionResponse{ID: opt.ID, Text: opt.Text, IsCorrect: opt.IsCorrect}
	}
	return graded
}

// NewResultsResponse создает DTO итога завершенной попытки.
// Правильность вариантов раскрывается: попытка уже оценена.
func NewResultsResponse(attempt *entity.Attempt, results []service.AnswerResult) *ResultsResponse {
	rows := make([]ResultRowResponse, len(results))
	for i, r := range results {
		rows[i] = ResultRowResponse{
			Question:        NewQuestionResponse(&r.Question),
			SelectedOptions: newGradedOptions(r.SelectedOptions),
			CorrectOptions:  newGradedOptions(r.CorrectOptions),
			IsCorrect:       r.IsCorrect,
		}
	}
	return &ResultsResponse{
		Attempt: *NewAttemptResponse(attempt, nil),
		Results: rows,
	}
}
