// internal/engine/lp.go
package engine

import (
	"errors"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/shipwise/allocator/internal/domain"
)

// Solved units below this floor are numerical noise and dropped silently.
const noiseFloor = 0.01

// demandGroup is one demand equality row: all routes serving the same
// (product, channel, region) must sum to the required units.
type demandGroup struct {
	key    domain.DemandKey
	units  float64
	routes []int
}

// warehouseGroup is one warehouse's ceiling rows: the routes it sources, its
// pooled available inventory, and (if configured) its outbound capacity.
type warehouseGroup struct {
	name      string
	available float64
	capacity  float64
	hasCap    bool
	routes    []int
}

// solveAllocation formulates and solves the period's allocation LP.
//
// Each route's flow is split into an inventory-sourced variable (cost 0) and
// a shipped variable (cost = the route's per-unit cost). The objective
// minimizes total shipping cost subject to:
//
//	demand equality   sum(xInv + xShip) over matching routes = required units
//	inventory ceiling sum(xInv) per warehouse <= available inventory
//	capacity ceiling  sum(xInv + xShip) per warehouse <= capacity (optional)
//
// The two ceiling families become equalities with one slack variable each so
// the program fits gonum's standard form (min c'x s.t. Ax = b, x >= 0).
func solveAllocation(period int, routes []domain.Route, capacities map[string]float64, ignoreCapacity bool) ([]domain.Allocation, float64, *domain.OptimizationFailure) {
	if len(routes) == 0 {
		return nil, 0, nil
	}

	groups := groupDemand(routes)
	warehouses := groupWarehouses(routes, capacities)

	n := len(routes)
	capRows := 0
	if !ignoreCapacity {
		for _, w := range warehouses {
			if w.hasCap {
				capRows++
			}
		}
	}

	rows := len(groups) + len(warehouses) + capRows
	cols := 2*n + len(warehouses) + capRows

	c := make([]float64, cols)
	for i, r := range routes {
		c[n+i] = r.CostPerUnit
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	row := 0
	for _, g := range groups {
		for _, r := range g.routes {
			a.Set(row, r, 1)   // xInv
			a.Set(row, n+r, 1) // xShip
		}
		b[row] = g.units
		row++
	}

	slack := 2 * n
	for _, w := range warehouses {
		for _, r := range w.routes {
			a.Set(row, r, 1)
		}
		a.Set(row, slack, 1)
		b[row] = w.available
		row++
		slack++
	}

	if !ignoreCapacity {
		for _, w := range warehouses {
			if !w.hasCap {
				continue
			}
			for _, r := range w.routes {
				a.Set(row, r, 1)
				a.Set(row, n+r, 1)
			}
			a.Set(row, slack, 1)
			b[row] = w.capacity
			row++
			slack++
		}
	}

	objective, x, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		reason := domain.FailureSolver
		if errors.Is(err, lp.ErrInfeasible) {
			reason = domain.FailureInfeasible
		}
		return nil, 0, &domain.OptimizationFailure{
			Period: period,
			Reason: reason,
			Detail: err.Error(),
		}
	}

	allocations, totalCost := decodeSolution(period, routes, x)

	// The shipped-cost sum must equal the objective value; a divergence
	// beyond tolerance indicates a formulation bug.
	if math.Abs(totalCost-objective) > 1e-6 {
		log.Warn().
			Int("period", period).
			Float64("objective", objective).
			Float64("shipped_cost", totalCost).
			Msg("engine: objective and decoded cost diverge")
	}

	return allocations, totalCost, nil
}

func groupDemand(routes []domain.Route) []demandGroup {
	index := make(map[domain.DemandKey]int)
	var groups []demandGroup
	for i, r := range routes {
		key := domain.DemandKey{Product: r.Product, Channel: r.Channel, Region: r.Region}
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, demandGroup{key: key, units: r.Demand})
		}
		groups[gi].routes = append(groups[gi].routes, i)
	}
	return groups
}

func groupWarehouses(routes []domain.Route, capacities map[string]float64) []warehouseGroup {
	index := make(map[string]int)
	var groups []warehouseGroup
	for i, r := range routes {
		gi, ok := index[r.Warehouse]
		if !ok {
			gi = len(groups)
			index[r.Warehouse] = gi
			capUnits, hasCap := capacities[r.Warehouse]
			groups = append(groups, warehouseGroup{
				name:      r.Warehouse,
				available: r.AvailableInventory,
				capacity:  capUnits,
				hasCap:    hasCap,
			})
		}
		groups[gi].routes = append(groups[gi].routes, i)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

func decodeSolution(period int, routes []domain.Route, x []float64) ([]domain.Allocation, float64) {
	n := len(routes)
	allocations := make([]domain.Allocation, 0, n)
	var totalCost float64

	for i, r := range routes {
		inv := x[i]
		shipped := x[n+i]
		if inv+shipped < noiseFloor {
			continue
		}

		cost := shipped * r.CostPerUnit
		totalCost += cost

		allocations = append(allocations, domain.Allocation{
			Product:            r.Product,
			Warehouse:          r.Warehouse,
			Channel:            r.Channel,
			Region:             r.Region,
			Period:             period,
			UnitsFromInventory: inv,
			UnitsShipped:       shipped,
			CostPerUnit:        r.CostPerUnit,
			TotalCost:          cost,
		})
	}

	return allocations, totalCost
}
