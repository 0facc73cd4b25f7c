package submit_form

import (
	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
)

// SubmitResponse HTTP response model: созданная запись и уже сброшенная форма
type SubmitResponse struct {
	Message     string                       `json:"message"`
	Appointment handlers.AppointmentResponse `json:"appointment"`
	Form        handlers.FormResponse        `json:"form"`
}
