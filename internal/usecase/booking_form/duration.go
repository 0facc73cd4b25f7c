package booking_form

import "github.com/m04kA/SMC-BookingForm/internal/domain"

// TotalDuration суммирует длительности услуг в минутах. Пустой выбор - 0
func TotalDuration(services []domain.Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}
