package auth

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// Backend публичные эндпоинты авторизации backend
type Backend interface {
	Login(ctx context.Context, req schedulingapi.LoginRequest) (*schedulingapi.LoginResponse, error)
	Register(ctx context.Context, req schedulingapi.RegisterRequest) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
}

// SessionManager жизненный цикл сессий
type SessionManager interface {
	Start(ctx context.Context, token string) (*session.Session, error)
	Clear(ctx context.Context, sess *session.Session)
}

// FormDiscarder закрывает формы сессии при выходе
type FormDiscarder interface {
	DiscardSession(sessionID string) int
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
