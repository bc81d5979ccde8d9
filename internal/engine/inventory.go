// internal/engine/inventory.go
package engine

import "github.com/shipwise/allocator/internal/domain"

// Projector computes the quantity free for allocation at a warehouse in a
// given period, from the static time-phased ledger.
//
// Each period is evaluated independently: availability is recomputed from the
// ledger, not decremented by what earlier periods consumed. Cross-period
// depletion would require threading consumed quantities between periods
// explicitly; the planning model treats every period as its own snapshot.
type Projector struct {
	byWarehouse map[string][]domain.InventoryLedger
}

// NewProjector indexes the ledger rows by warehouse.
func NewProjector(ledgers []domain.InventoryLedger) *Projector {
	byWarehouse := make(map[string][]domain.InventoryLedger, len(ledgers))
	for _, l := range ledgers {
		byWarehouse[l.Warehouse] = append(byWarehouse[l.Warehouse], l)
	}
	return &Projector{byWarehouse: byWarehouse}
}

// Available returns the warehouse's pooled free inventory for the period:
// on-hand plus scheduled inbound up to the period, minus scheduled outbound
// up to the period, floored at zero per SKU and summed across SKUs.
func (p *Projector) Available(warehouse string, period int) float64 {
	var total float64
	for _, l := range p.byWarehouse[warehouse] {
		total += availableForLedger(l, period)
	}
	return total
}

func availableForLedger(l domain.InventoryLedger, period int) float64 {
	available := l.OnHand
	for p, qty := range l.InboundByPeriod {
		if p <= period {
			available += qty
		}
	}
	for p, qty := range l.OutboundByPeriod {
		if p <= period {
			available -= qty
		}
	}
	if available < 0 {
		return 0
	}
	return available
}
