package register

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/service/auth"
)

type AuthService interface {
	Register(ctx context.Context, input auth.RegisterInput) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
