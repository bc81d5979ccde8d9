// internal/engine/plancost.go
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/shipwise/allocator/internal/domain"
)

// planRow is one resolved plan line for a single period.
type planRow struct {
	product     string
	warehouse   string
	channel     string
	region      string
	units       float64
	distance    float64
	costPerUnit float64
	fromInv     float64
}

// costPlan prices an externally authored allocation for one period.
//
// The plan's quantities are fixed inputs, so the only degree of freedom is
// which shipments the free inventory offsets. Per warehouse, the pool is
// applied greedily to the most expensive routes first, which maximizes the
// savings credited to inventory. This is a different objective than the LP:
// greedy over fixed quantities, not a global optimum.
func costPlan(period int, plan []domain.PlanLine, costs *costIndex, projector *Projector, demand []domain.DemandRequirement) ([]domain.Allocation, float64, []domain.PlanValidation, []domain.PlanWarning) {
	var (
		rows     []planRow
		warnings []domain.PlanWarning
	)

	for _, line := range plan {
		units, ok := line.UnitsByPeriod[period]
		if !ok {
			continue
		}

		cost, found := costs.lookup(line.Warehouse, line.Channel, line.Region)
		if !found {
			warnings = append(warnings, domain.PlanWarning{
				Warehouse: line.Warehouse,
				Channel:   line.Channel,
				Region:    line.Region,
				Detail:    "no shipping cost configured for this warehouse and demand point",
			})
			continue
		}

		rows = append(rows, planRow{
			product:     line.Product,
			warehouse:   line.Warehouse,
			channel:     line.Channel,
			region:      line.Region,
			units:       units,
			distance:    cost.DistanceMiles,
			costPerUnit: cost.CostPerUnit,
		})
	}

	applyInventoryOffsets(period, rows, projector)

	allocations := make([]domain.Allocation, 0, len(rows))
	var totalCost float64
	for _, r := range rows {
		shipped := r.units - r.fromInv
		cost := shipped * r.costPerUnit
		totalCost += cost

		allocations = append(allocations, domain.Allocation{
			Product:            r.product,
			Warehouse:          r.warehouse,
			Channel:            r.channel,
			Region:             r.region,
			Period:             period,
			UnitsFromInventory: r.fromInv,
			UnitsShipped:       shipped,
			CostPerUnit:        r.costPerUnit,
			TotalCost:          cost,
		})
	}

	validations := validateCoverage(period, rows, demand)

	return allocations, totalCost, validations, warnings
}

// applyInventoryOffsets spends each warehouse's pooled inventory on its
// costliest routes first. Ties break on (channel, region) so the result does
// not depend on plan input order.
func applyInventoryOffsets(period int, rows []planRow, projector *Projector) {
	byWarehouse := make(map[string][]int)
	for i, r := range rows {
		byWarehouse[r.warehouse] = append(byWarehouse[r.warehouse], i)
	}

	for warehouse, idxs := range byWarehouse {
		sort.Slice(idxs, func(a, b int) bool {
			ra, rb := rows[idxs[a]], rows[idxs[b]]
			if ra.costPerUnit != rb.costPerUnit {
				return ra.costPerUnit > rb.costPerUnit
			}
			if ra.channel != rb.channel {
				return ra.channel < rb.channel
			}
			return ra.region < rb.region
		})

		pool := projector.Available(warehouse, period)
		for _, i := range idxs {
			if pool <= 0 {
				break
			}
			use := math.Min(rows[i].units, pool)
			rows[i].fromInv = use
			pool -= use
		}
	}
}

// validateCoverage compares planned quantities to required demand per
// requirement. Advisory: the plan is externally authored and may legitimately
// be under- or over-allocated; the engine reports, it never corrects.
func validateCoverage(period int, rows []planRow, demand []domain.DemandRequirement) []domain.PlanValidation {
	planned := make(map[domain.DemandKey]float64)
	for _, r := range rows {
		key := domain.DemandKey{Product: r.product, Channel: r.channel, Region: r.region}
		planned[key] += r.units
	}

	var validations []domain.PlanValidation
	for _, d := range demand {
		if d.Period != period {
			continue
		}

		got := planned[d.Key()]
		status := domain.CoverageExact
		switch {
		case got > d.Units+noiseFloor:
			status = domain.CoverageOver
		case got < d.Units-noiseFloor:
			status = domain.CoverageUnder
		}

		validations = append(validations, domain.PlanValidation{
			Product:  d.Product,
			Channel:  d.Channel,
			Region:   d.Region,
			Period:   period,
			Required: d.Units,
			Planned:  got,
			Status:   status,
		})
	}

	return validations
}

// describeCoverage renders a validation as a human-readable summary line.
func describeCoverage(v domain.PlanValidation) string {
	return fmt.Sprintf("%s %s-%s period %d: planned %.0f of %.0f (%s)",
		v.Product, v.Channel, v.Region, v.Period, v.Planned, v.Required, v.Status)
}
