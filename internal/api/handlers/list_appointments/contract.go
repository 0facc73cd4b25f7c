package list_appointments

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

type AppointmentsService interface {
	List(ctx context.Context, sess *session.Session) ([]domain.Appointment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
