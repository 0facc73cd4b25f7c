package appointments

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// Backend вызовы backend для работы с записями
type Backend interface {
	ListAppointments(ctx context.Context) ([]schedulingapi.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID int64, status string) error
}

// BackendProvider возвращает клиента backend, привязанного к сессии
type BackendProvider func(sess *session.Session) Backend

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
