package engine

import (
	"testing"

	"github.com/shipwise/allocator/internal/domain"
)

func TestProjectorAvailable(t *testing.T) {
	projector := NewProjector([]domain.InventoryLedger{
		{
			Warehouse:        "WH1",
			SKU:              "SKU-1",
			OnHand:           100,
			InboundByPeriod:  map[int]float64{2: 50, 4: 25},
			OutboundByPeriod: map[int]float64{3: 80},
		},
		{
			Warehouse: "WH1",
			SKU:       "SKU-2",
			OnHand:    10,
		},
		{
			Warehouse: "WH2",
			SKU:       "SKU-1",
			OnHand:    500,
		},
	})

	tests := []struct {
		name      string
		warehouse string
		period    int
		want      float64
	}{
		{"on hand only", "WH1", 1, 110},
		{"inbound lands in its period", "WH1", 2, 160},
		{"outbound subtracted cumulatively", "WH1", 3, 80},
		{"later inbound accumulates", "WH1", 4, 105},
		{"second warehouse independent", "WH2", 3, 500},
		{"unknown warehouse", "WH9", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projector.Available(tt.warehouse, tt.period); got != tt.want {
				t.Errorf("Available(%s, %d) = %f, want %f", tt.warehouse, tt.period, got, tt.want)
			}
		})
	}
}

func TestProjectorFloorsNegativeAvailabilityPerSKU(t *testing.T) {
	// SKU-1 is over-committed (outbound exceeds stock) and must clamp to zero
	// instead of eating into SKU-2's availability.
	projector := NewProjector([]domain.InventoryLedger{
		{
			Warehouse:        "WH1",
			SKU:              "SKU-1",
			OnHand:           20,
			OutboundByPeriod: map[int]float64{1: 100},
		},
		{
			Warehouse: "WH1",
			SKU:       "SKU-2",
			OnHand:    40,
		},
	})

	if got := projector.Available("WH1", 1); got != 40 {
		t.Errorf("expected the negative SKU floored at zero, got pooled %f", got)
	}
}

func TestProjectorPeriodsAreIndependent(t *testing.T) {
	// Availability is recomputed from the ledger each period, never decremented
	// by what another period consumed.
	projector := NewProjector([]domain.InventoryLedger{
		{Warehouse: "WH1", SKU: "SKU-1", OnHand: 300},
	})

	for period := 1; period <= 4; period++ {
		if got := projector.Available("WH1", period); got != 300 {
			t.Errorf("period %d: expected 300, got %f", period, got)
		}
	}
}
