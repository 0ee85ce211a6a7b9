package domain

// CanContinue is the gating rule of a step: whether the patient may leave it.
// It never fails; an unknown step is simply closed.
func CanContinue(step Step, state SelectionState) bool {
	switch step {
	case StepAvailability:
		return len(state.SelectedSlots) > 0
	case StepPatient:
		return state.ForSelf || state.Beneficiary != nil
	case StepLocation:
		switch state.Location.Type {
		case LocationCabinet:
			return true
		case LocationDomicile:
			return state.Location.HasAddress()
		default:
			return false
		}
	case StepDetails:
		return true
	case StepConfirmation:
		return true
	default:
		return false
	}
}

// firstClosedGate returns the first step before the confirmation whose gate is closed
func firstClosedGate(state SelectionState) (Step, bool) {
	for step := FirstStep; step < LastStep; step++ {
		if !CanContinue(step, state) {
			return step, true
		}
	}
	return 0, false
}
