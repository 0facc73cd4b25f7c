package domain

import "github.com/m04kA/SMC-BookingForm/pkg/types"

// SlotSet is an ordered sequence of bookable start times returned by the backend
type SlotSet []types.TimeString

// Contains returns true if the slot is a member of the set
func (s SlotSet) Contains(slot types.TimeString) bool {
	for _, candidate := range s {
		if candidate == slot {
			return true
		}
	}
	return false
}

// Strings returns the slots as plain strings
func (s SlotSet) Strings() []string {
	result := make([]string, len(s))
	for i, slot := range s {
		result[i] = slot.String()
	}
	return result
}
