package set_date

import (
	"time"

	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

// SetDateRequest HTTP request model. null сбрасывает дату
type SetDateRequest struct {
	Date *string `json:"date"` // "2025-06-01"
}

// ParseDate разбирает дату в часовом поясе формы
func (r *SetDateRequest) ParseDate(loc *time.Location) (*time.Time, error) {
	if r.Date == nil {
		return nil, nil
	}
	d, err := time.ParseInLocation(domain.DateFormat, *r.Date, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
