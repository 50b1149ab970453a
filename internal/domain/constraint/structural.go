package constraint

import "fmt"

// StructuralCheck detects infeasibility visible from cardinalities alone:
// a slot whose eligible pool is smaller than its required count, or a meet
// whose total seat demand exceeds the roster's capped capacity. Running it
// before the solver turns an opaque search failure into a named constraint.
func (m *Model) StructuralCheck() error {
	for _, slot := range m.Slots {
		if len(slot.Eligible) < slot.Event.Need {
			return &InfeasibleError{
				EventID:  slot.Event.ID,
				Need:     slot.Event.Need,
				Eligible: len(slot.Eligible),
				Reason: fmt.Sprintf("needs %d swimmers but only %d are eligible",
					slot.Event.Need, len(slot.Eligible)),
			}
		}
	}

	var demand int
	for _, slot := range m.Slots {
		demand += slot.Event.Need
	}
	capacity := len(m.Roster.Swimmers) * m.Cap()
	if demand > capacity {
		return &InfeasibleError{
			Need:     demand,
			Eligible: capacity,
			Reason: fmt.Sprintf("%d seats to fill but %d swimmers capped at %d races cover only %d",
				demand, len(m.Roster.Swimmers), m.Cap(), capacity),
		}
	}
	return nil
}
