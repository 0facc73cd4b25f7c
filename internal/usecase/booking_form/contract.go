package booking_form

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/internal/service/catalog"
	"github.com/m04kA/SMC-BookingForm/internal/session"
)

// Backend вызовы backend, которые нужны форме
type Backend interface {
	ListProfessionals(ctx context.Context) ([]schedulingapi.Professional, error)
	ListServices(ctx context.Context) ([]schedulingapi.Service, error)
	GetAvailability(ctx context.Context, professionalID int64, date time.Time, durationMinutes int) ([]string, error)
	CreateAppointment(ctx context.Context, req schedulingapi.CreateAppointmentRequest) (*schedulingapi.Appointment, error)
}

// BackendProvider возвращает клиента backend, привязанного к сессии
type BackendProvider func(sess *session.Session) Backend

// CatalogLoader загрузчик каталога профессионалов и услуг
type CatalogLoader interface {
	Load(ctx context.Context, backend catalog.Backend) (*catalog.Catalog, error)
}

// Journal журнал попыток отправки формы
type Journal interface {
	Create(ctx context.Context, submission *domain.Submission) (*domain.Submission, error)
}

// Metrics метрики каскада
type Metrics interface {
	AvailabilityFetchIssued()
	AvailabilityFetchApplied()
	AvailabilityFetchDiscarded()
	AvailabilityFetchFailed()
	SubmissionObserved(outcome string)
	ActiveFormsSet(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) AvailabilityFetchIssued()    {}
func (noopMetrics) AvailabilityFetchApplied()   {}
func (noopMetrics) AvailabilityFetchDiscarded() {}
func (noopMetrics) AvailabilityFetchFailed()    {}
func (noopMetrics) SubmissionObserved(string)   {}
func (noopMetrics) ActiveFormsSet(int)          {}
