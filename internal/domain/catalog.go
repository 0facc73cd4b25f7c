package domain

// Professional represents a staff member who can be booked for appointments
type Professional struct {
	ID         int64
	Name       string
	ServiceIDs []int64 // services this professional performs
}

// Performs returns true if the professional is linked to the service
func (p *Professional) Performs(serviceID int64) bool {
	for _, id := range p.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// HasServices returns true if the professional has at least one linked service
func (p *Professional) HasServices() bool {
	return len(p.ServiceIDs) > 0
}

// Service represents a bookable offering with a fixed price and duration
type Service struct {
	ID              int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
}
