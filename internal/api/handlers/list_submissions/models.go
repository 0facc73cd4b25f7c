package list_submissions

import (
	"time"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

// SubmissionResponse HTTP response model
type SubmissionResponse struct {
	ID             int64   `json:"id"`
	FormID         string  `json:"formId"`
	ProfessionalID int64   `json:"professionalId"`
	ServiceIDs     []int64 `json:"serviceIds"`
	DateTime       string  `json:"dateTime"`
	Outcome        string  `json:"outcome"`
	Error          *string `json:"error,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// FromDomain конвертирует запись журнала в HTTP response
func FromDomain(s *domain.Submission) SubmissionResponse {
	serviceIDs := s.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}
	return SubmissionResponse{
		ID:             s.ID,
		FormID:         s.FormID,
		ProfessionalID: s.ProfessionalID,
		ServiceIDs:     serviceIDs,
		DateTime:       s.DateTime,
		Outcome:        string(s.Outcome),
		Error:          s.Error,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
