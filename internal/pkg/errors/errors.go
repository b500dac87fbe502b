package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	// Также возвращается для чужих попыток и ответов, чтобы не раскрывать их существование.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, удаление категории,
	// на которую уже ссылаются попытки).
	ErrConflict = errors.New("resource state conflict")
)

// Ошибки жизненного цикла попытки
var (
	// ErrNoQuestionsAvailable означает, что в категории нет доступных вопросов
	// и попытку начать нельзя.
	ErrNoQuestionsAvailable = errors.New("no questions available for this category")

	// ErrInvalidOption означает, что выбранный вариант не принадлежит вопросу ответа.
	ErrInvalidOption = errors.New("option does not belong to the question")

	// ErrAttemptCompleted означает, что попытка уже завершена и менять ответы нельзя.
	ErrAttemptCompleted = errors.New("attempt is already completed")
)
