package set_professional

// SetProfessionalRequest HTTP request model. null сбрасывает выбор
type SetProfessionalRequest struct {
	ProfessionalID *int64 `json:"professionalId"`
}
