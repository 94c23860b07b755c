// Package fare computes the porter fare for a booking. The formula
// is a floor per luggage class with linear scaling by weight beyond
// the floor, so small light items still pay a minimum charge.
package fare

import "strings"

// Base rates in rupees per luggage class. Unknown classes fall back
// to the light rate.
const (
	BaseHeavy  = 50
	BaseMedium = 30
	BaseLight  = 20

	// PerKg is the linear rate applied to the luggage weight.
	PerKg = 5
)

// BaseRate returns the minimum fare for a luggage class. Matching is
// case-insensitive; anything that is not heavy or medium is charged
// as light.
func BaseRate(luggageType string) float64 {
	switch strings.ToUpper(strings.TrimSpace(luggageType)) {
	case "HEAVY":
		return BaseHeavy
	case "MEDIUM":
		return BaseMedium
	default:
		return BaseLight
	}
}

// Calculate returns max(BaseRate(luggageType), weight*PerKg). The
// result is always at least the class floor.
func Calculate(weight float64, luggageType string) float64 {
	base := BaseRate(luggageType)
	if byWeight := weight * PerKg; byWeight > base {
		return byWeight
	}
	return base
}
