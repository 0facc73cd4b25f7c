package schedulingapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBadRequest возвращается при ответе 400
	ErrBadRequest = errors.New("schedulingapi client: bad request")

	// ErrUnauthorized возвращается при ответе 401
	ErrUnauthorized = errors.New("schedulingapi client: unauthorized")

	// ErrForbidden возвращается при ответе 403
	ErrForbidden = errors.New("schedulingapi client: forbidden")

	// ErrNotFound возвращается при ответе 404
	ErrNotFound = errors.New("schedulingapi client: not found")

	// ErrConflict возвращается при ответе 409 (например, слот уже занят)
	ErrConflict = errors.New("schedulingapi client: conflict")

	// ErrUnexpectedStatus возвращается при любом другом не-2xx ответе
	ErrUnexpectedStatus = errors.New("schedulingapi client: unexpected status")

	// ErrSessionInactive возвращается, если сессия пользователя уже недействительна
	ErrSessionInactive = errors.New("schedulingapi client: session is not active")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("schedulingapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от backend
	ErrInvalidResponse = errors.New("schedulingapi client: invalid response")
)

// StatusError ошибка не-2xx ответа backend с текстом для пользователя
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

// NewStatusError создает ошибку для не-2xx ответа, выбирая sentinel по коду
func NewStatusError(statusCode int, message string) *StatusError {
	statusErr := &StatusError{
		StatusCode: statusCode,
		Message:    message,
	}

	// Обработка статус-кодов
	switch statusCode {
	case http.StatusBadRequest:
		statusErr.kind = ErrBadRequest
	case http.StatusUnauthorized:
		statusErr.kind = ErrUnauthorized
	case http.StatusForbidden:
		statusErr.kind = ErrForbidden
	case http.StatusNotFound:
		statusErr.kind = ErrNotFound
	case http.StatusConflict:
		statusErr.kind = ErrConflict
	default:
		statusErr.kind = ErrUnexpectedStatus
	}

	return statusErr
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.StatusCode, e.Message)
}

// Unwrap позволяет сравнивать через errors.Is с ErrNotFound, ErrConflict и т.д.
func (e *StatusError) Unwrap() error {
	return e.kind
}

// MessageOf возвращает сообщение backend из цепочки ошибок, если оно есть
func MessageOf(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return ""
}

// IsClientError возвращает true для ответов 4xx
func IsClientError(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
	}
	return false
}
