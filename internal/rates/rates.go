// internal/rates/rates.go
package rates

// CostOracle maps a resolved distance to a per-unit shipping cost. Oracles
// are pure: same distance in, same cost out.
type CostOracle interface {
	PerUnitCost(distanceMiles float64) (float64, error)
}

// FlatRate prices shipping at a fixed rate per unit per 100 distance-units.
type FlatRate struct {
	RatePerUnitPer100Miles float64
}

// PerUnitCost returns distance * rate / 100. It never fails; distance
// resolution problems are handled upstream with a fallback distance.
func (r FlatRate) PerUnitCost(distanceMiles float64) (float64, error) {
	return distanceMiles * r.RatePerUnitPer100Miles / 100, nil
}
