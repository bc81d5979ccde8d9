// internal/engine/orchestrator.go
package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/shipwise/allocator/internal/domain"
)

// Engine evaluates allocation strategies over an immutable input snapshot.
// It owns no external state: re-invoking it, or building a second Engine over
// a different snapshot, has no side effects.
type Engine struct {
	snapshot   domain.Snapshot
	projector  *Projector
	builder    *RouteBuilder
	costs      *costIndex
	capacities map[string]float64
}

// New builds an Engine over a snapshot. The snapshot's route costs must
// already carry resolved distances and per-unit costs.
func New(snapshot domain.Snapshot) *Engine {
	projector := NewProjector(snapshot.Inventory)

	capacities := make(map[string]float64, len(snapshot.Warehouses))
	for _, w := range snapshot.Warehouses {
		capacities[w.Name] = w.Capacity
	}

	return &Engine{
		snapshot:   snapshot,
		projector:  projector,
		builder:    NewRouteBuilder(snapshot.RouteCosts, projector),
		costs:      newCostIndex(snapshot.RouteCosts),
		capacities: capacities,
	}
}

// Strategy produces one period's allocation. Two implementations exist: the
// LP optimizer and the authored-plan costing heuristic. Which one runs is a
// configuration choice made by the caller.
type Strategy interface {
	Name() string
	Allocate(period int, eng *Engine) domain.PeriodOutcome
}

// Run executes the strategy independently for every period in the snapshot
// and aggregates the outcomes. A failed period contributes no cost to the
// aggregate and stays visible as a failure; it never collapses to zero.
func (e *Engine) Run(strategy Strategy) domain.ScenarioResult {
	result := domain.ScenarioResult{Periods: make([]domain.PeriodOutcome, 0, len(e.snapshot.Periods))}

	for _, period := range e.snapshot.Periods {
		outcome := strategy.Allocate(period, e)
		if outcome.Failure != nil {
			log.Warn().
				Str("strategy", strategy.Name()).
				Int("period", period).
				Str("reason", string(outcome.Failure.Reason)).
				Str("detail", outcome.Failure.Detail).
				Msg("engine: period not solved")
		}
		if outcome.TotalCost != nil {
			result.OverallCost += *outcome.TotalCost
			result.Solved++
		}
		result.Periods = append(result.Periods, outcome)
	}

	return result
}

// LPStrategy solves each period's allocation as a linear program over the
// eligible warehouse set.
type LPStrategy struct {
	Eligible EligibleSet
	// IgnoreCapacity drops the per-warehouse capacity ceiling, modeling a
	// caller who replenishes as needed regardless of cost.
	IgnoreCapacity bool
}

func (s LPStrategy) Name() string { return "lp" }

func (s LPStrategy) Allocate(period int, eng *Engine) domain.PeriodOutcome {
	routes, failure := eng.builder.Build(period, eng.snapshot.Demand, s.Eligible)
	if failure != nil {
		return domain.PeriodOutcome{Period: period, Failure: failure}
	}

	allocations, totalCost, failure := solveAllocation(period, routes, eng.capacities, s.IgnoreCapacity)
	if failure != nil {
		return domain.PeriodOutcome{Period: period, Failure: failure}
	}

	return domain.PeriodOutcome{
		Period:      period,
		Allocations: allocations,
		TotalCost:   &totalCost,
	}
}

// PlanCostStrategy prices the snapshot's authored plan with the greedy
// inventory-offset heuristic instead of solving an LP.
type PlanCostStrategy struct{}

func (PlanCostStrategy) Name() string { return "plan-cost" }

func (PlanCostStrategy) Allocate(period int, eng *Engine) domain.PeriodOutcome {
	allocations, totalCost, validations, warnings := costPlan(
		period, eng.snapshot.Plan, eng.costs, eng.projector, eng.snapshot.Demand)

	for _, w := range warnings {
		log.Warn().Str("plan_line", w.String()).Msg("engine: plan line skipped")
	}
	for _, v := range validations {
		if v.Status != domain.CoverageExact {
			log.Info().Str("coverage", describeCoverage(v)).Msg("engine: plan coverage mismatch")
		}
	}

	return domain.PeriodOutcome{
		Period:      period,
		Allocations: allocations,
		TotalCost:   &totalCost,
		Validations: validations,
		Warnings:    warnings,
	}
}
