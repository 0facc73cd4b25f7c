package set_slot

// SetSlotRequest HTTP request model
type SetSlotRequest struct {
	Slot string `json:"slot"` // "14:30"
}
