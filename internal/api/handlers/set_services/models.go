package set_services

// SetServicesRequest HTTP request model. Порядок id - порядок выбора
type SetServicesRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
}
