package get_form

import (
	bookingForm "github.com/m04kA/SMC-BookingForm/internal/usecase/booking_form"
)

type FormRegistry interface {
	Get(formID, sessionID string) (*bookingForm.Controller, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
