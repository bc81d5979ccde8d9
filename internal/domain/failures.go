// internal/domain/failures.go
package domain

import "fmt"

// FailureReason classifies why a period produced no allocation.
type FailureReason string

const (
	// FailureInfeasible means no solution satisfies the demand, capacity and
	// inventory constraints simultaneously.
	FailureInfeasible FailureReason = "infeasible"
	// FailureNoEligibleRoute means a requirement has no matching warehouse in
	// the eligible set; detected before solving is attempted.
	FailureNoEligibleRoute FailureReason = "no_eligible_route"
	// FailureSolver covers numerical solver errors.
	FailureSolver FailureReason = "solver_error"
)

// OptimizationFailure is the typed per-period failure signal. It is a value,
// not a panic: one failed period never aborts the others.
type OptimizationFailure struct {
	Period int           `json:"period"`
	Reason FailureReason `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

func (f *OptimizationFailure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("optimization failed for period %d (%s): %s", f.Period, f.Reason, f.Detail)
	}
	return fmt.Sprintf("optimization failed for period %d (%s)", f.Period, f.Reason)
}

// PlanWarning reports a data inconsistency in an authored plan, e.g. a line
// referencing a warehouse or demand key absent from configuration. Costing
// proceeds for the lines that do resolve.
type PlanWarning struct {
	Warehouse string `json:"warehouse"`
	Channel   string `json:"channel"`
	Region    string `json:"region"`
	Detail    string `json:"detail"`
}

func (w PlanWarning) String() string {
	return fmt.Sprintf("%s -> %s-%s: %s", w.Warehouse, w.Channel, w.Region, w.Detail)
}
