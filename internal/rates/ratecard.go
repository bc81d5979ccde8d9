// internal/rates/ratecard.go
package rates

import (
	"fmt"
	"math"
)

// Dimensional weight divisor used by parcel carriers (in^3 per lb).
const dimFactor = 139.0

// Share of a vehicle's volume and weight that is actually loadable.
const usableFactor = 0.85

// CarrierMode distinguishes how a carrier charges.
type CarrierMode string

const (
	ModeParcel CarrierMode = "Parcel"
	ModeLTL    CarrierMode = "LTL"
	ModeFTL    CarrierMode = "FTL"
)

// Carrier is a shipping provider with distance-banded rates.
type Carrier struct {
	Name string      `json:"name"`
	Mode CarrierMode `json:"mode"`
}

// RateTier is one distance band of a carrier's rate card.
type RateTier struct {
	MinDistance   float64 `json:"min_distance"`
	MaxDistance   float64 `json:"max_distance"`
	RatePerMile   float64 `json:"rate_per_mile"`
	MinimumCharge float64 `json:"minimum_charge"`
	FixedCost     float64 `json:"fixed_cost"`
}

// SKU carries the physical attributes that drive chargeable weight.
type SKU struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	LengthIn  float64 `json:"length_in"`
	WidthIn   float64 `json:"width_in"`
	HeightIn  float64 `json:"height_in"`
	WeightLbs float64 `json:"weight_lbs"`
}

// DimWeight returns the SKU's dimensional weight in pounds.
func (s SKU) DimWeight() float64 {
	return s.LengthIn * s.WidthIn * s.HeightIn / dimFactor
}

// ChargeableWeight is the greater of actual and dimensional weight.
func (s SKU) ChargeableWeight() float64 {
	return math.Max(s.WeightLbs, s.DimWeight())
}

// Vehicle is a truck or trailer used for LTL/FTL moves.
type Vehicle struct {
	Name         string  `json:"name"`
	LengthIn     float64 `json:"length_in"`
	WidthIn      float64 `json:"width_in"`
	HeightIn     float64 `json:"height_in"`
	MaxWeightLbs float64 `json:"max_weight_lbs"`
}

// MaxUnits returns how many units of the SKU fit in the vehicle, limited by
// whichever of usable volume or usable weight runs out first.
func (v Vehicle) MaxUnits(sku SKU) int {
	skuVolume := sku.LengthIn * sku.WidthIn * sku.HeightIn
	usableVolume := v.LengthIn * v.WidthIn * v.HeightIn * usableFactor
	usableWeight := v.MaxWeightLbs * usableFactor

	var byVolume, byWeight float64
	if skuVolume > 0 {
		byVolume = usableVolume / skuVolume
	}
	if sku.WeightLbs > 0 {
		byWeight = usableWeight / sku.WeightLbs
	}

	return int(math.Min(byVolume, byWeight))
}

// CarrierRateCard prices a SKU's shipping using a carrier's banded rates.
// For LTL/FTL the total move cost is spread over the best vehicle fit to get
// a per-unit figure.
type CarrierRateCard struct {
	Carrier  Carrier
	Tiers    []RateTier
	SKU      SKU
	Vehicles []Vehicle
}

// PerUnitCost returns the $/unit cost of moving the SKU over the distance.
func (c CarrierRateCard) PerUnitCost(distanceMiles float64) (float64, error) {
	tier, ok := c.tierFor(distanceMiles)
	if !ok {
		return 0, fmt.Errorf("carrier %s has no rate for distance %.1f mi", c.Carrier.Name, distanceMiles)
	}

	variable := c.SKU.ChargeableWeight() * tier.RatePerMile * distanceMiles / 100
	total := math.Max(tier.MinimumCharge, variable+tier.FixedCost)

	unitsPerVehicle := 1
	if c.Carrier.Mode == ModeLTL || c.Carrier.Mode == ModeFTL {
		if best := c.bestVehicleFit(); best > 0 {
			unitsPerVehicle = best
		}
	}

	return total / float64(unitsPerVehicle), nil
}

func (c CarrierRateCard) tierFor(distanceMiles float64) (RateTier, bool) {
	for _, t := range c.Tiers {
		if t.MinDistance <= distanceMiles && distanceMiles <= t.MaxDistance {
			return t, true
		}
	}
	return RateTier{}, false
}

func (c CarrierRateCard) bestVehicleFit() int {
	best := 0
	for _, v := range c.Vehicles {
		if units := v.MaxUnits(c.SKU); units > best {
			best = units
		}
	}
	return best
}
