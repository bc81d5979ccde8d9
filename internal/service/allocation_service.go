// internal/service/allocation_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/shipwise/allocator/internal/cache"
	"github.com/shipwise/allocator/internal/config"
	"github.com/shipwise/allocator/internal/domain"
	"github.com/shipwise/allocator/internal/engine"
	"github.com/shipwise/allocator/internal/geo"
	"github.com/shipwise/allocator/internal/rates"
)

// AllocationService is the boundary between transport layers and the engine:
// it resolves distances, prices routes, and runs scenarios.
type AllocationService struct {
	cfg       config.OptimizerConfig
	distCache cache.DistanceCache
}

// NewAllocationService creates the service. distCache may be nil.
func NewAllocationService(cfg config.OptimizerConfig, distCache cache.DistanceCache) *AllocationService {
	if distCache == nil {
		distCache = cache.NewNoopDistanceCache()
	}
	return &AllocationService{cfg: cfg, distCache: distCache}
}

// OptimizeOptions selects the scenario for an LP run.
type OptimizeOptions struct {
	// Rate is the $/unit/100mi shipping rate; 0 means the configured TMS rate.
	Rate float64
	// EligibleWarehouses restricts sourcing; empty means all warehouses.
	EligibleWarehouses []string
	// IgnoreCapacity drops the per-warehouse outbound capacity ceiling.
	IgnoreCapacity bool
}

// PlanOptions configures an authored-plan costing run.
type PlanOptions struct {
	// Rate is the $/unit/100mi shipping rate; 0 means the configured market rate.
	Rate float64
}

// CompareOptions configures a side-by-side scenario comparison.
type CompareOptions struct {
	// CustomerWarehouses is the customer's default sourcing set, used when no
	// authored plan is present (the "auto" baseline).
	CustomerWarehouses []string
}

// Optimize runs the LP allocation over every period in the snapshot.
func (s *AllocationService) Optimize(ctx context.Context, snapshot domain.Snapshot, opts OptimizeOptions) (domain.ScenarioResult, error) {
	rate := opts.Rate
	if rate <= 0 {
		rate = s.cfg.TMSRate
	}

	priced, err := s.priceSnapshot(ctx, snapshot, rate)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	eligible := engine.AllWarehouses()
	if len(opts.EligibleWarehouses) > 0 {
		eligible = engine.WarehouseSubset(opts.EligibleWarehouses...)
	}

	eng := engine.New(priced)
	return eng.Run(engine.LPStrategy{Eligible: eligible, IgnoreCapacity: opts.IgnoreCapacity}), nil
}

// CostPlan prices the snapshot's authored plan with the greedy heuristic.
func (s *AllocationService) CostPlan(ctx context.Context, snapshot domain.Snapshot, opts PlanOptions) (domain.ScenarioResult, error) {
	if len(snapshot.Plan) == 0 {
		return domain.ScenarioResult{}, fmt.Errorf("snapshot carries no allocation plan")
	}

	rate := opts.Rate
	if rate <= 0 {
		rate = s.cfg.MarketRate
	}

	priced, err := s.priceSnapshot(ctx, snapshot, rate)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	eng := engine.New(priced)
	return eng.Run(engine.PlanCostStrategy{}), nil
}

// Compare runs the optimized scenario (TMS rate, all warehouses, capacity
// enforced) against the customer baseline. When the snapshot carries an
// authored plan the baseline is the plan costing heuristic; otherwise it is
// an LP restricted to the customer's warehouses with capacity ignored,
// modeling forced sourcing with replenishment.
func (s *AllocationService) Compare(ctx context.Context, snapshot domain.Snapshot, opts CompareOptions) (*ComparisonReport, error) {
	var optimized, customer domain.ScenarioResult

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		optimized, err = s.Optimize(gctx, snapshot, OptimizeOptions{})
		return err
	})

	g.Go(func() error {
		var err error
		if len(snapshot.Plan) > 0 {
			customer, err = s.CostPlan(gctx, snapshot, PlanOptions{})
			return err
		}
		if len(opts.CustomerWarehouses) == 0 {
			return fmt.Errorf("customer baseline needs an authored plan or a warehouse selection")
		}
		customer, err = s.Optimize(gctx, snapshot, OptimizeOptions{
			Rate:               s.cfg.MarketRate,
			EligibleWarehouses: opts.CustomerWarehouses,
			IgnoreCapacity:     true,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := buildComparisonReport(optimized, customer)
	log.Info().
		Float64("optimized_cost", optimized.OverallCost).
		Float64("customer_cost", customer.OverallCost).
		Str("total_savings", report.TotalSavings.String()).
		Msg("allocation: comparison complete")

	return report, nil
}

// priceSnapshot ensures every route cost row carries a resolved distance and
// a per-unit cost at the given rate. Missing rows are derived by
// cross-joining warehouses with demand points over the snapshot coordinates;
// unresolvable address pairs fall back to the configured fallback distance.
func (s *AllocationService) priceSnapshot(ctx context.Context, snapshot domain.Snapshot, rate float64) (domain.Snapshot, error) {
	if rate <= 0 {
		return domain.Snapshot{}, fmt.Errorf("shipping rate must be positive, got %v", rate)
	}

	oracle := rates.FlatRate{RatePerUnitPer100Miles: rate}

	costs := snapshot.RouteCosts
	if len(costs) == 0 {
		costs = s.deriveRouteCosts(ctx, snapshot)
	}

	priced := make([]domain.RouteCost, len(costs))
	for i, c := range costs {
		perUnit, err := oracle.PerUnitCost(c.DistanceMiles)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("pricing %s -> %s-%s: %w", c.Warehouse, c.Channel, c.Region, err)
		}
		c.CostPerUnit = perUnit
		priced[i] = c
	}

	snapshot.RouteCosts = priced
	return snapshot, nil
}

func (s *AllocationService) deriveRouteCosts(ctx context.Context, snapshot domain.Snapshot) []domain.RouteCost {
	geocoder := make(geo.StaticGeocoder, len(snapshot.Coordinates))
	for addr, p := range snapshot.Coordinates {
		geocoder[addr] = geo.Coordinates{Lat: p.Lat, Lon: p.Lon}
	}
	resolver := geo.NewResolver(geocoder, s.distCache, s.cfg.FallbackDistanceMiles)

	costs := make([]domain.RouteCost, 0, len(snapshot.Warehouses)*len(snapshot.DemandPoints))
	for _, w := range snapshot.Warehouses {
		for _, dp := range snapshot.DemandPoints {
			costs = append(costs, domain.RouteCost{
				Warehouse:     w.Name,
				Channel:       dp.Channel,
				Region:        dp.Region,
				DistanceMiles: resolver.Distance(ctx, w.Address, dp.Address),
			})
		}
	}
	return costs
}
