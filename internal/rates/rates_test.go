package rates

import (
	"math"
	"testing"
)

func TestFlatRatePerUnitCost(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		distance float64
		want     float64
	}{
		{"tms rate at 100mi", 0.15, 100, 0.15},
		{"tms rate at 450mi", 0.15, 450, 0.675},
		{"fallback distance", 0.15, 500, 0.75},
		{"zero distance", 0.15, 0, 0},
		{"zero rate", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlatRate{RatePerUnitPer100Miles: tt.rate}.PerUnitCost(tt.distance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PerUnitCost(%f) = %f, want %f", tt.distance, got, tt.want)
			}
		})
	}
}

func TestSKUChargeableWeight(t *testing.T) {
	// 12x12x12 = 1728 in^3 -> dim weight 1728/139 = 12.43 lbs.
	light := SKU{LengthIn: 12, WidthIn: 12, HeightIn: 12, WeightLbs: 5}
	if got, want := light.DimWeight(), 1728.0/139.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("DimWeight = %f, want %f", got, want)
	}
	if got := light.ChargeableWeight(); got != light.DimWeight() {
		t.Errorf("bulky-light SKU should charge dim weight, got %f", got)
	}

	dense := SKU{LengthIn: 6, WidthIn: 6, HeightIn: 6, WeightLbs: 50}
	if got := dense.ChargeableWeight(); got != 50 {
		t.Errorf("dense SKU should charge actual weight, got %f", got)
	}
}

func TestVehicleMaxUnits(t *testing.T) {
	sku := SKU{LengthIn: 12, WidthIn: 12, HeightIn: 12, WeightLbs: 30}
	// 53' dry van interior, roughly.
	van := Vehicle{LengthIn: 630, WidthIn: 98, HeightIn: 108, MaxWeightLbs: 45000}

	byVolume := 630.0 * 98 * 108 * 0.85 / 1728.0
	byWeight := 45000.0 * 0.85 / 30.0
	want := int(math.Min(byVolume, byWeight))

	if got := van.MaxUnits(sku); got != want {
		t.Errorf("MaxUnits = %d, want %d", got, want)
	}
}

func TestCarrierRateCardTierSelection(t *testing.T) {
	card := CarrierRateCard{
		Carrier: Carrier{Name: "FastShip", Mode: ModeParcel},
		Tiers: []RateTier{
			{MinDistance: 0, MaxDistance: 500, RatePerMile: 0.02, MinimumCharge: 1},
			{MinDistance: 501, MaxDistance: 2000, RatePerMile: 0.01, MinimumCharge: 2},
		},
		SKU: SKU{LengthIn: 10, WidthIn: 10, HeightIn: 10, WeightLbs: 20},
	}

	// 20 lbs actual > 1000/139 dim weight, so chargeable = 20.
	nearCost, err := card.PerUnitCost(300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 20 * 0.02 * 300 / 100; math.Abs(nearCost-want) > 1e-9 {
		t.Errorf("near tier cost = %f, want %f", nearCost, want)
	}

	farCost, err := card.PerUnitCost(1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 20 * 0.01 * 1500 / 100; math.Abs(farCost-want) > 1e-9 {
		t.Errorf("far tier cost = %f, want %f", farCost, want)
	}
}

func TestCarrierRateCardMinimumCharge(t *testing.T) {
	card := CarrierRateCard{
		Carrier: Carrier{Name: "FastShip", Mode: ModeParcel},
		Tiers: []RateTier{
			{MinDistance: 0, MaxDistance: 500, RatePerMile: 0.001, MinimumCharge: 8},
		},
		SKU: SKU{WeightLbs: 1},
	}

	got, err := card.PerUnitCost(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 8 {
		t.Errorf("expected the minimum charge 8.00, got %f", got)
	}
}

func TestCarrierRateCardSpreadsLoadOverVehicle(t *testing.T) {
	sku := SKU{LengthIn: 12, WidthIn: 12, HeightIn: 12, WeightLbs: 30}
	van := Vehicle{LengthIn: 630, WidthIn: 98, HeightIn: 108, MaxWeightLbs: 45000}
	card := CarrierRateCard{
		Carrier:  Carrier{Name: "Freightline", Mode: ModeFTL},
		Tiers:    []RateTier{{MinDistance: 0, MaxDistance: 3000, RatePerMile: 2.5, FixedCost: 150}},
		SKU:      sku,
		Vehicles: []Vehicle{van},
	}

	perUnit, err := card.PerUnitCost(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	moveCost := sku.ChargeableWeight()*2.5*1000/100 + 150
	want := moveCost / float64(van.MaxUnits(sku))
	if math.Abs(perUnit-want) > 1e-9 {
		t.Errorf("FTL per-unit cost = %f, want %f", perUnit, want)
	}

	// Parcel mode never spreads over a vehicle.
	card.Carrier.Mode = ModeParcel
	parcel, err := card.PerUnitCost(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(parcel-moveCost) > 1e-9 {
		t.Errorf("parcel per-unit cost = %f, want whole move cost %f", parcel, moveCost)
	}
}

func TestCarrierRateCardNoTier(t *testing.T) {
	card := CarrierRateCard{
		Carrier: Carrier{Name: "FastShip", Mode: ModeParcel},
		Tiers:   []RateTier{{MinDistance: 0, MaxDistance: 500, RatePerMile: 0.02}},
		SKU:     SKU{WeightLbs: 1},
	}

	if _, err := card.PerUnitCost(9000); err == nil {
		t.Error("expected an error for a distance outside every tier")
	}
}
