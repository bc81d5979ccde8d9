// internal/service/report.go
package service

import (
	"github.com/shopspring/decimal"

	"github.com/shipwise/allocator/internal/domain"
)

// PeriodComparison lines up one period's optimized and customer costs.
// A nil cost means that scenario did not solve the period; savings are only
// computed when both sides did.
type PeriodComparison struct {
	Period         int              `json:"period"`
	OptimizedCost  *float64         `json:"optimized_cost"`
	CustomerCost   *float64         `json:"customer_cost"`
	Savings        *decimal.Decimal `json:"savings,omitempty"`
	SavingsPercent *decimal.Decimal `json:"savings_percent,omitempty"`
}

// ComparisonReport is the side-by-side view of the optimized scenario and
// the customer baseline, with money figures rounded to cents.
type ComparisonReport struct {
	Optimized      domain.ScenarioResult `json:"optimized"`
	Customer       domain.ScenarioResult `json:"customer"`
	Periods        []PeriodComparison    `json:"periods"`
	TotalSavings   decimal.Decimal       `json:"total_savings"`
	SavingsPercent decimal.Decimal       `json:"savings_percent"`
}

func buildComparisonReport(optimized, customer domain.ScenarioResult) *ComparisonReport {
	report := &ComparisonReport{Optimized: optimized, Customer: customer}

	for _, oc := range optimized.Periods {
		pc := PeriodComparison{Period: oc.Period, OptimizedCost: oc.TotalCost}
		if cc, ok := customer.OutcomeFor(oc.Period); ok {
			pc.CustomerCost = cc.TotalCost
		}

		if pc.OptimizedCost != nil && pc.CustomerCost != nil {
			savings := decimal.NewFromFloat(*pc.CustomerCost).
				Sub(decimal.NewFromFloat(*pc.OptimizedCost)).
				Round(2)
			pc.Savings = &savings

			if *pc.CustomerCost > 0 {
				pct := savings.
					Div(decimal.NewFromFloat(*pc.CustomerCost)).
					Mul(decimal.NewFromInt(100)).
					Round(2)
				pc.SavingsPercent = &pct
			}
		}

		report.Periods = append(report.Periods, pc)
	}

	optTotal := decimal.NewFromFloat(optimized.OverallCost)
	custTotal := decimal.NewFromFloat(customer.OverallCost)
	report.TotalSavings = custTotal.Sub(optTotal).Round(2)
	if custTotal.IsPositive() {
		report.SavingsPercent = report.TotalSavings.
			Div(custTotal).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return report
}
