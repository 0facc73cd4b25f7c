package logout

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/session"
)

type AuthService interface {
	Logout(ctx context.Context, sess *session.Session)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
