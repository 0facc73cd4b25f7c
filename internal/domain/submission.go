package domain

import "time"

// SubmissionOutcome represents the result of a create-appointment attempt
type SubmissionOutcome string

const (
	SubmissionCreated  SubmissionOutcome = "created"  // backend accepted the appointment
	SubmissionRejected SubmissionOutcome = "rejected" // backend answered with a 4xx
	SubmissionFailed   SubmissionOutcome = "failed"   // transport error or 5xx
)

// Submission is a journal record of one booking form submission
type Submission struct {
	ID             int64
	FormID         string
	UserSubject    string // "sub" claim of the session token
	ProfessionalID int64
	ServiceIDs     []int64
	DateTime       string // value sent as dataHora
	Outcome        SubmissionOutcome
	Error          *string
	CreatedAt      time.Time
}
