package update_appointment_status

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

type AppointmentsService interface {
	UpdateStatus(ctx context.Context, sess *session.Session, appointmentID int64, status domain.AppointmentStatus) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
