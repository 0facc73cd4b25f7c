package verify_email

import "context"

type AuthService interface {
	VerifyEmail(ctx context.Context, token string) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
