// internal/domain/models.go
package domain

// Warehouse is a supply location that may ship out at most Capacity units
// in a single planning period.
type Warehouse struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Capacity float64 `json:"capacity"`
}

// DemandPoint is a destination identified by a (channel, region) pair.
// Multiple demand points may share a channel across regions.
type DemandPoint struct {
	Channel string `json:"channel"`
	Region  string `json:"region"`
	Address string `json:"address"`
	Product string `json:"product"`
}

// DemandRequirement is the number of units a (product, channel, region)
// destination must receive in a period. Requirements are hard: every valid
// optimized solution satisfies them exactly.
type DemandRequirement struct {
	Product string  `json:"product"`
	Channel string  `json:"channel"`
	Region  string  `json:"region"`
	Period  int     `json:"period"`
	Units   float64 `json:"units"`
}

// DemandKey identifies one requirement group inside a period.
type DemandKey struct {
	Product string `json:"product"`
	Channel string `json:"channel"`
	Region  string `json:"region"`
}

// Key returns the requirement's grouping key.
func (d DemandRequirement) Key() DemandKey {
	return DemandKey{Product: d.Product, Channel: d.Channel, Region: d.Region}
}

// RouteCost is a resolved (warehouse, demand point) link: the distance between
// the two addresses and the per-unit cost of shipping along it.
type RouteCost struct {
	Warehouse     string  `json:"warehouse"`
	Channel       string  `json:"channel"`
	Region        string  `json:"region"`
	DistanceMiles float64 `json:"distance_miles"`
	CostPerUnit   float64 `json:"cost_per_unit"`
}

// Route is a per-period allocation candidate. Derived, never persisted.
// AvailableInventory is the warehouse's pooled free stock for the period,
// shared across every route sourced from that warehouse.
type Route struct {
	Product            string  `json:"product"`
	Warehouse          string  `json:"warehouse"`
	Channel            string  `json:"channel"`
	Region             string  `json:"region"`
	Demand             float64 `json:"demand"`
	DistanceMiles      float64 `json:"distance_miles"`
	CostPerUnit        float64 `json:"cost_per_unit"`
	AvailableInventory float64 `json:"available_inventory"`
}

// InventoryLedger is the time-phased stock record for one (warehouse, SKU)
// pair: what is on hand now plus scheduled inbound and outbound per period.
type InventoryLedger struct {
	Warehouse        string          `json:"warehouse"`
	SKU              string          `json:"sku"`
	OnHand           float64         `json:"on_hand"`
	InboundByPeriod  map[int]float64 `json:"inbound_by_period"`
	OutboundByPeriod map[int]float64 `json:"outbound_by_period"`
}

// Allocation is one decoded row of a solved or costed plan: how many units a
// warehouse sends to a demand point in a period, split into the free
// inventory-sourced portion and the costed shipped portion.
type Allocation struct {
	Product            string  `json:"product"`
	Warehouse          string  `json:"warehouse"`
	Channel            string  `json:"channel"`
	Region             string  `json:"region"`
	Period             int     `json:"period"`
	UnitsFromInventory float64 `json:"units_from_inventory"`
	UnitsShipped       float64 `json:"units_shipped"`
	CostPerUnit        float64 `json:"cost_per_unit"`
	TotalCost          float64 `json:"total_cost"`
}

// Units returns the total quantity delivered on this allocation row.
func (a Allocation) Units() float64 {
	return a.UnitsFromInventory + a.UnitsShipped
}

// PlanLine is one row of an externally authored allocation plan. Quantities
// are author-specified per period and may be infeasible; the engine costs
// them as given and reports coverage, it never corrects them.
type PlanLine struct {
	Product       string          `json:"product"`
	Warehouse     string          `json:"warehouse"`
	Channel       string          `json:"channel"`
	Region        string          `json:"region"`
	UnitsByPeriod map[int]float64 `json:"units_by_period"`
}

// GeoPoint is a pre-resolved coordinate for an address. Geocoding itself
// happens outside this system; snapshots carry the results.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Snapshot is the full in-memory input to one engine invocation. All fields
// are values; the engine never mutates a snapshot.
//
// RouteCosts may arrive fully priced, with distances only (costs computed
// from the shipping rate), or empty (distances derived from Coordinates).
type Snapshot struct {
	Warehouses   []Warehouse         `json:"warehouses"`
	DemandPoints []DemandPoint       `json:"demand_points"`
	Demand       []DemandRequirement `json:"demand"`
	RouteCosts   []RouteCost         `json:"route_costs,omitempty"`
	Inventory    []InventoryLedger   `json:"inventory"`
	Plan         []PlanLine          `json:"plan,omitempty"`
	Periods      []int               `json:"periods"`
	Coordinates  map[string]GeoPoint `json:"coordinates,omitempty"`
}

// CoverageStatus classifies how a plan's quantities compare to a requirement.
type CoverageStatus string

const (
	CoverageExact CoverageStatus = "exact"
	CoverageOver  CoverageStatus = "over"
	CoverageUnder CoverageStatus = "under"
)

// PlanValidation reports, per requirement, how the authored plan covers it.
// Advisory only: an externally authored plan may legitimately be infeasible.
type PlanValidation struct {
	Product  string         `json:"product"`
	Channel  string         `json:"channel"`
	Region   string         `json:"region"`
	Period   int            `json:"period"`
	Required float64        `json:"required"`
	Planned  float64        `json:"planned"`
	Status   CoverageStatus `json:"status"`
}

// PeriodOutcome is the result of optimizing or costing a single period.
// TotalCost is nil when the period failed; callers must distinguish
// "zero cost" from "not computed".
type PeriodOutcome struct {
	Period      int                  `json:"period"`
	Allocations []Allocation         `json:"allocations,omitempty"`
	TotalCost   *float64             `json:"total_cost"`
	Failure     *OptimizationFailure `json:"failure,omitempty"`
	Validations []PlanValidation     `json:"validations,omitempty"`
	Warnings    []PlanWarning        `json:"warnings,omitempty"`
}

// ScenarioResult aggregates the per-period outcomes of one scenario run.
type ScenarioResult struct {
	Periods     []PeriodOutcome `json:"periods"`
	OverallCost float64         `json:"overall_cost"`
	// Solved is the number of periods that produced an allocation.
	Solved int `json:"solved"`
}

// OutcomeFor returns the outcome for a period, if present.
func (r *ScenarioResult) OutcomeFor(period int) (PeriodOutcome, bool) {
	for _, p := range r.Periods {
		if p.Period == period {
			return p, true
		}
	}
	return PeriodOutcome{}, false
}
