package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
)

// Loader загружает каталог для новой формы
type Loader struct {
	logger Logger
}

// NewLoader создает новый загрузчик каталога
func NewLoader(logger Logger) *Loader {
	return &Loader{logger: logger}
}

// Load параллельно запрашивает профессионалов и услуги.
// Ошибка любого из запросов - ошибка всей загрузки; повторов нет
func (l *Loader) Load(ctx context.Context, backend Backend) (*Catalog, error) {
	var (
		professionals []schedulingapi.Professional
		services      []schedulingapi.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		professionals, err = backend.ListProfessionals(gctx)
		if err != nil {
			return fmt.Errorf("list professionals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		services, err = backend.ListServices(gctx)
		if err != nil {
			return fmt.Errorf("list services: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		l.logger.Error("Load: catalog load failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	catalog := New(toDomainProfessionals(professionals), toDomainServices(services))
	l.logger.Info("Load: catalog loaded (%d professionals, %d services)", len(catalog.professionals), len(catalog.services))
	return catalog, nil
}

func toDomainProfessionals(items []schedulingapi.Professional) []domain.Professional {
	result := make([]domain.Professional, 0, len(items))
	for _, item := range items {
		result = append(result, domain.Professional{
			ID:         item.ID,
			Name:       item.Nome,
			ServiceIDs: item.ServicosIDs,
		})
	}
	return result
}

// toDomainServices неактивные услуги в каталог не попадают
func toDomainServices(items []schedulingapi.Service) []domain.Service {
	result := make([]domain.Service, 0, len(items))
	for _, item := range items {
		if !item.IsActive() {
			continue
		}
		result = append(result, domain.Service{
			ID:              item.ID,
			Name:            item.Nome,
			Price:           item.Preco,
			DurationMinutes: item.DuracaoMinutos,
			Active:          true,
		})
	}
	return result
}
