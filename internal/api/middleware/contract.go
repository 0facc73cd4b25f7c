package middleware

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// SessionManager восстановление сессий по идентификатору
type SessionManager interface {
	Init(ctx context.Context, id string) (*session.Session, error)
	Forget(id string)
}

// FormDiscarder закрывает формы сессии
type FormDiscarder interface {
	DiscardSession(sessionID string) int
}

// HTTPMetrics учет HTTP запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, seconds float64)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
