package login

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/service/auth"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

type AuthService interface {
	Login(ctx context.Context, input auth.LoginInput) (*session.Session, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
