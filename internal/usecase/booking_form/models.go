package booking_form

import (
	"time"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
	"github.com/m04kA/SMC-BookingForm/internal/integrations/schedulingapi"
	"github.com/m04kA/SMC-BookingForm/pkg/types"
)

// Snapshot снимок формы для отображения
type Snapshot struct {
	FormID     string
	CatalogErr error

	Professionals []domain.Professional
	Professional  *domain.Professional

	ServiceOptions       []domain.Service // услуги выбранного профессионала
	SelectedServices     []domain.Service
	TotalDurationMinutes int

	Date    *time.Time
	MinDate time.Time

	AvailableSlots domain.SlotSet // nil - слоты не запрашивались
	Slot           *types.TimeString
	SlotsLoading   bool
	SlotsErr       error

	Submittable bool
	Submitting  bool
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func findService(services []domain.Service, id int64) (domain.Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Service{}, false
}

// sameServiceSet сравнивает наборы без учета порядка (id уникальны)
func sameServiceSet(a, b []domain.Service) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[int64]struct{}, len(a))
	for _, s := range a {
		ids[s.ID] = struct{}{}
	}
	for _, s := range b {
		if _, ok := ids[s.ID]; !ok {
			return false
		}
	}
	return true
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func serviceIDs(services []domain.Service) []int64 {
	ids := make([]int64, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids
}

func copyProfessional(p *domain.Professional) *domain.Professional {
	if p == nil {
		return nil
	}
	cp := *p
	cp.ServiceIDs = append([]int64(nil), p.ServiceIDs...)
	return &cp
}

// mergeAppointment backend может ответить пустым телом - тогда отдаем то, что отправили
func mergeAppointment(created *schedulingapi.Appointment, fallback *domain.Appointment) *domain.Appointment {
	if created == nil || created.IDAgendamento == 0 {
		return fallback
	}

	result := &domain.Appointment{
		ID:               created.IDAgendamento,
		DateTime:         created.DataHora,
		Status:           domain.AppointmentStatus(created.Status),
		ProfessionalName: created.NomeProfissional,
		ClientName:       created.NomeCliente,
		Services:         created.Servicos,
	}
	if result.DateTime == "" {
		result.DateTime = fallback.DateTime
	}
	if result.Status == "" {
		result.Status = fallback.Status
	}
	if result.ProfessionalName == "" {
		result.ProfessionalName = fallback.ProfessionalName
	}
	if len(result.Services) == 0 {
		result.Services = fallback.Services
	}
	return result
}
