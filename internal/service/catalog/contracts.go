package catalog

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
)

// Backend источник каталога
type Backend interface {
	ListProfessionals(ctx context.Context) ([]schedulingapi.Professional, error)
	ListServices(ctx context.Context) ([]schedulingapi.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
