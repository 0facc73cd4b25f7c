package list_submissions

import (
	"context"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

type SubmissionJournal interface {
	ListByUser(ctx context.Context, userSubject string, limit int) ([]*domain.Submission, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
