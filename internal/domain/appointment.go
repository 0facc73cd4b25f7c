package domain

// AppointmentStatus represents the status of an appointment as the backend reports it
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pendente"
	StatusCompleted AppointmentStatus = "Concluído"
	StatusCancelled AppointmentStatus = "Cancelado"
)

// IsValid returns true if the status is one the backend knows
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the status cannot be changed anymore
func (s AppointmentStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a booked appointment
type Appointment struct {
	ID               int64
	DateTime         string // naive local timestamp, e.g. "2025-06-01T09:00:00"
	Status           AppointmentStatus
	ProfessionalName string
	ClientName       string
	Services         []string // service names
}

// CanChangeStatus returns true if the appointment can still be completed or cancelled
func (a *Appointment) CanChangeStatus() bool {
	return a.Status == StatusPending
}
