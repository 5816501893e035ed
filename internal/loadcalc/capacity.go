package loadcalc

const DefaultBodyWeightKg = 70.0

// CarryModifier is the fraction of body weight a participant may carry.
func CarryModifier(t TripType) float64 {
	switch t {
	case TripSki:
		return 0.35
	case TripWater:
		return 0.50
	default:
		return 0.25
	}
}

func MaxCarryKg(p Participant, t TripType) float64 {
	bodyWeight := DefaultBodyWeightKg
	if p.BodyWeightKg != nil {
		bodyWeight = *p.BodyWeightKg
	}
	return bodyWeight * CarryModifier(t)
}
