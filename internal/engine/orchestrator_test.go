package engine

import (
	"math"
	"testing"

	"github.com/shipwise/allocator/internal/domain"
)

func scenarioSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Warehouses: []domain.Warehouse{
			{Name: "WH1", Capacity: 1000},
			{Name: "WH2", Capacity: 1000},
		},
		RouteCosts: []domain.RouteCost{
			{Warehouse: "WH1", Channel: "Amazon", Region: "CA", DistanceMiles: 100, CostPerUnit: 0.10},
			{Warehouse: "WH2", Channel: "Amazon", Region: "CA", DistanceMiles: 900, CostPerUnit: 0.90},
		},
		Demand: []domain.DemandRequirement{
			{Product: "Product A", Channel: "Amazon", Region: "CA", Period: 1, Units: 300},
			{Product: "Product A", Channel: "Amazon", Region: "CA", Period: 2, Units: 400},
		},
		Inventory: []domain.InventoryLedger{
			{Warehouse: "WH1", SKU: "SKU-1", OnHand: 100},
		},
		Periods: []int{1, 2},
	}
}

func TestEngineRunAggregatesPeriods(t *testing.T) {
	eng := New(scenarioSnapshot())

	result := eng.Run(LPStrategy{Eligible: AllWarehouses()})
	if len(result.Periods) != 2 {
		t.Fatalf("expected 2 period outcomes, got %d", len(result.Periods))
	}
	if result.Solved != 2 {
		t.Fatalf("expected both periods solved, got %d", result.Solved)
	}

	// Periods are independent: 100 free units offset shipping in BOTH periods.
	want := (300-100)*0.10 + (400-100)*0.10
	if math.Abs(result.OverallCost-want) > costTolerance {
		t.Errorf("expected overall cost %.2f, got %f", want, result.OverallCost)
	}

	for _, period := range []int{1, 2} {
		outcome, ok := result.OutcomeFor(period)
		if !ok {
			t.Fatalf("missing outcome for period %d", period)
		}
		if outcome.TotalCost == nil {
			t.Errorf("period %d: expected a computed cost", period)
		}
	}
}

func TestEngineRunFailedPeriodIsNotZeroCost(t *testing.T) {
	snap := scenarioSnapshot()
	// Period 2 demand exceeds combined capacity; period 1 remains solvable.
	snap.Demand[1].Units = 5000
	snap.Warehouses[0].Capacity = 400
	snap.Warehouses[1].Capacity = 400

	eng := New(snap)
	result := eng.Run(LPStrategy{Eligible: AllWarehouses()})

	if result.Solved != 1 {
		t.Fatalf("expected exactly one solved period, got %d", result.Solved)
	}

	failed, ok := result.OutcomeFor(2)
	if !ok {
		t.Fatal("missing outcome for period 2")
	}
	if failed.Failure == nil {
		t.Fatal("expected a failure for period 2")
	}
	if failed.Failure.Reason != domain.FailureInfeasible {
		t.Errorf("expected infeasible, got %s", failed.Failure.Reason)
	}
	if failed.TotalCost != nil {
		t.Errorf("failed period must report nil cost, got %f", *failed.TotalCost)
	}

	// The solved period's cost still shows in the aggregate.
	want := (300 - 100) * 0.10
	if math.Abs(result.OverallCost-want) > costTolerance {
		t.Errorf("expected overall cost %.2f from the solved period, got %f", want, result.OverallCost)
	}
}

func TestEngineRunIgnoreCapacity(t *testing.T) {
	snap := scenarioSnapshot()
	snap.Warehouses[0].Capacity = 1
	snap.Warehouses[1].Capacity = 1

	eng := New(snap)

	constrained := eng.Run(LPStrategy{Eligible: AllWarehouses()})
	if constrained.Solved != 0 {
		t.Fatalf("expected no solved periods under 1-unit capacities, got %d", constrained.Solved)
	}

	unconstrained := eng.Run(LPStrategy{Eligible: AllWarehouses(), IgnoreCapacity: true})
	if unconstrained.Solved != 2 {
		t.Fatalf("expected both periods solved with capacity ignored, got %d", unconstrained.Solved)
	}
}

func TestEngineRunPlanCostStrategy(t *testing.T) {
	snap := scenarioSnapshot()
	snap.Plan = []domain.PlanLine{
		{
			Product:   "Product A",
			Warehouse: "WH2",
			Channel:   "Amazon",
			Region:    "CA",
			UnitsByPeriod: map[int]float64{
				1: 300,
				2: 400,
			},
		},
	}

	eng := New(snap)
	result := eng.Run(PlanCostStrategy{})
	if result.Solved != 2 {
		t.Fatalf("expected both periods costed, got %d", result.Solved)
	}

	// WH2 holds no inventory, so the plan ships everything at its rate.
	want := 300*0.90 + 400*0.90
	if math.Abs(result.OverallCost-want) > costTolerance {
		t.Errorf("expected plan cost %.2f, got %f", want, result.OverallCost)
	}

	outcome, _ := result.OutcomeFor(1)
	if len(outcome.Validations) == 0 {
		t.Error("expected coverage validations on the costed plan")
	}
}

func TestEngineRunIsRepeatable(t *testing.T) {
	eng := New(scenarioSnapshot())

	first := eng.Run(LPStrategy{Eligible: AllWarehouses()})
	second := eng.Run(LPStrategy{Eligible: AllWarehouses()})

	if math.Abs(first.OverallCost-second.OverallCost) > costTolerance {
		t.Errorf("re-running the engine changed the result: %f vs %f", first.OverallCost, second.OverallCost)
	}
	if first.Solved != second.Solved {
		t.Errorf("re-running the engine changed solved count: %d vs %d", first.Solved, second.Solved)
	}
}
