package catalog

import (
	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

// Catalog неизменяемый снимок профессионалов и услуг, загруженный один раз на форму
type Catalog struct {
	professionals []domain.Professional
	services      []domain.Service

	professionalByID map[int64]int
	serviceByID      map[int64]int
}

// New строит каталог и индексы. Срезы копируются
func New(professionals []domain.Professional, services []domain.Service) *Catalog {
	c := &Catalog{
		professionals:    make([]domain.Professional, len(professionals)),
		services:         make([]domain.Service, len(services)),
		professionalByID: make(map[int64]int, len(professionals)),
		serviceByID:      make(map[int64]int, len(services)),
	}

	for i, p := range professionals {
		p.ServiceIDs = append([]int64(nil), p.ServiceIDs...)
		c.professionals[i] = p
		c.professionalByID[p.ID] = i
	}
	copy(c.services, services)
	for i, s := range c.services {
		c.serviceByID[s.ID] = i
	}

	return c
}

// Professionals возвращает копию списка профессионалов в порядке backend
func (c *Catalog) Professionals() []domain.Professional {
	result := make([]domain.Professional, len(c.professionals))
	copy(result, c.professionals)
	return result
}

// Professional ищет профессионала по id
func (c *Catalog) Professional(id int64) (*domain.Professional, bool) {
	idx, ok := c.professionalByID[id]
	if !ok {
		return nil, false
	}
	p := c.professionals[idx]
	return &p, true
}

// Service ищет услугу по id
func (c *Catalog) Service(id int64) (*domain.Service, bool) {
	idx, ok := c.serviceByID[id]
	if !ok {
		return nil, false
	}
	s := c.services[idx]
	return &s, true
}

// ServicesFor возвращает услуги, которые выполняет профессионал,
// в порядке полного каталога. Для nil или профессионала без услуг - пустой срез
func (c *Catalog) ServicesFor(p *domain.Professional) []domain.Service {
	if p == nil || !p.HasServices() {
		return []domain.Service{}
	}

	result := make([]domain.Service, 0, len(p.ServiceIDs))
	for _, s := range c.services {
		if p.Performs(s.ID) {
			result = append(result, s)
		}
	}
	return result
}
