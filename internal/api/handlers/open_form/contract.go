package open_form

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/session"
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

type FormRegistry interface {
	Open(ctx context.Context, sess *session.Session) (*bookingForm.Controller, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
