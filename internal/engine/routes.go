// internal/engine/routes.go
package engine

import (
	"fmt"
	"sort"

	"github.com/shipwise/allocator/internal/domain"
)

type costKey struct {
	warehouse string
	channel   string
	region    string
}

type demandPointKey struct {
	channel string
	region  string
}

// costIndex is a hash join over the resolved cost matrix, keyed both by the
// full (warehouse, channel, region) triple and by demand point.
type costIndex struct {
	byTriple      map[costKey]domain.RouteCost
	byDemandPoint map[demandPointKey][]domain.RouteCost
}

func newCostIndex(costs []domain.RouteCost) *costIndex {
	idx := &costIndex{
		byTriple:      make(map[costKey]domain.RouteCost, len(costs)),
		byDemandPoint: make(map[demandPointKey][]domain.RouteCost),
	}
	for _, c := range costs {
		tk := costKey{warehouse: c.Warehouse, channel: c.Channel, region: c.Region}
		idx.byTriple[tk] = c

		dk := demandPointKey{channel: c.Channel, region: c.Region}
		idx.byDemandPoint[dk] = append(idx.byDemandPoint[dk], c)
	}

	// Deterministic fan-out order regardless of input ordering.
	for _, rows := range idx.byDemandPoint {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Warehouse < rows[j].Warehouse })
	}

	return idx
}

func (idx *costIndex) lookup(warehouse, channel, region string) (domain.RouteCost, bool) {
	c, ok := idx.byTriple[costKey{warehouse: warehouse, channel: channel, region: region}]
	return c, ok
}

// EligibleSet is the subset of warehouses permitted to serve demand in a
// scenario: every warehouse for the optimized solution, a caller-chosen
// subset for the customer baseline.
type EligibleSet struct {
	all   bool
	names map[string]struct{}
}

// AllWarehouses allows every configured warehouse.
func AllWarehouses() EligibleSet {
	return EligibleSet{all: true}
}

// WarehouseSubset allows only the named warehouses.
func WarehouseSubset(names ...string) EligibleSet {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return EligibleSet{names: set}
}

// Contains reports whether the warehouse may serve demand.
func (e EligibleSet) Contains(warehouse string) bool {
	if e.all {
		return true
	}
	_, ok := e.names[warehouse]
	return ok
}

// RouteBuilder cross-joins demand requirements with eligible warehouses to
// produce the flat per-period candidate set the solver works on.
type RouteBuilder struct {
	costs     *costIndex
	projector *Projector
}

// NewRouteBuilder creates a RouteBuilder over a resolved cost matrix.
func NewRouteBuilder(costs []domain.RouteCost, projector *Projector) *RouteBuilder {
	return &RouteBuilder{costs: newCostIndex(costs), projector: projector}
}

// Build emits one route per (requirement, eligible warehouse) pair for the
// period. Warehouse availability is looked up once per warehouse and shared
// across all of its routes. A requirement with zero eligible warehouses fails
// the whole period before any solving is attempted.
func (b *RouteBuilder) Build(period int, demand []domain.DemandRequirement, eligible EligibleSet) ([]domain.Route, *domain.OptimizationFailure) {
	var routes []domain.Route

	// One availability lookup per warehouse per period, not per route.
	available := make(map[string]float64)
	availableFor := func(warehouse string) float64 {
		if v, ok := available[warehouse]; ok {
			return v
		}
		v := b.projector.Available(warehouse, period)
		available[warehouse] = v
		return v
	}

	for _, d := range demand {
		if d.Period != period {
			continue
		}

		candidates := b.costs.byDemandPoint[demandPointKey{channel: d.Channel, region: d.Region}]

		matched := 0
		for _, c := range candidates {
			if !eligible.Contains(c.Warehouse) {
				continue
			}
			matched++
			routes = append(routes, domain.Route{
				Product:            d.Product,
				Warehouse:          c.Warehouse,
				Channel:            d.Channel,
				Region:             d.Region,
				Demand:             d.Units,
				DistanceMiles:      c.DistanceMiles,
				CostPerUnit:        c.CostPerUnit,
				AvailableInventory: availableFor(c.Warehouse),
			})
		}

		if matched == 0 {
			return nil, &domain.OptimizationFailure{
				Period: period,
				Reason: domain.FailureNoEligibleRoute,
				Detail: fmt.Sprintf("no eligible warehouse serves %s %s-%s", d.Product, d.Channel, d.Region),
			}
		}
	}

	return routes, nil
}
