package domain

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04" // naive local timestamp sent to the backend
)

// Default configuration values
const (
	DefaultTimezone            = "America/Sao_Paulo"
	DefaultFormIdleTTLSeconds  = 1800
	DefaultFetchTimeoutSeconds = 10
)

// Business validation constants
const (
	MaxServicesPerAppointment = 20
	MaxSubmissionsListLimit   = 100
)
