// cmd/allocate/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/shipwise/allocator/internal/config"
	"github.com/shipwise/allocator/internal/domain"
	"github.com/shipwise/allocator/internal/service"
	"github.com/shipwise/allocator/internal/snapshot"
)

func newInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input-dir",
			Usage:   "Directory containing snapshot CSV files",
			EnvVars: []string{"ALLOCATOR_INPUT_DIR"},
		},
		&cli.StringFlag{
			Name:    "input-json",
			Usage:   "Path to a snapshot JSON file (alternative to --input-dir)",
			EnvVars: []string{"ALLOCATOR_INPUT_JSON"},
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Write the result JSON to this path instead of stdout",
		},
	}
}

func loadSnapshot(c *cli.Context) (domain.Snapshot, error) {
	if path := c.String("input-json"); path != "" {
		return snapshot.LoadJSON(path)
	}
	if dir := c.String("input-dir"); dir != "" {
		return snapshot.NewLoader().LoadDir(dir)
	}
	return domain.Snapshot{}, fmt.Errorf("either --input-dir or --input-json is required")
}

func writeResult(c *cli.Context, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if path := c.String("output"); path != "" {
		return os.WriteFile(path, append(data, '\n'), 0644)
	}

	fmt.Println(string(data))
	return nil
}

func newService() *service.AllocationService {
	cfg := config.Load()
	return service.NewAllocationService(cfg.Optimizer, nil)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "allocate",
		Usage: "Optimize warehouse-to-demand-point allocations and cost authored plans",
		Commands: []*cli.Command{
			{
				Name:  "optimize",
				Usage: "Solve the minimum-cost allocation LP for every period",
				Flags: append(newInputFlags(),
					&cli.Float64Flag{
						Name:    "rate",
						Usage:   "Shipping rate in $/unit/100mi (0 uses the configured TMS rate)",
						EnvVars: []string{"OPTIMIZER_TMS_RATE"},
					},
					&cli.StringFlag{
						Name:  "warehouses",
						Usage: "Comma-separated warehouse names to restrict sourcing to",
					},
					&cli.BoolFlag{
						Name:  "ignore-capacity",
						Usage: "Drop the per-warehouse outbound capacity ceiling",
					},
				),
				Action: runOptimize,
			},
			{
				Name:  "plan-cost",
				Usage: "Cost the snapshot's authored allocation plan",
				Flags: append(newInputFlags(),
					&cli.Float64Flag{
						Name:    "rate",
						Usage:   "Shipping rate in $/unit/100mi (0 uses the configured market rate)",
						EnvVars: []string{"OPTIMIZER_MARKET_RATE"},
					},
				),
				Action: runPlanCost,
			},
			{
				Name:  "compare",
				Usage: "Run the optimized scenario against the customer baseline",
				Flags: append(newInputFlags(),
					&cli.StringFlag{
						Name:  "customer-warehouses",
						Usage: "Comma-separated customer default warehouses (used when no plan is present)",
					},
				),
				Action: runCompare,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runOptimize(c *cli.Context) error {
	snap, err := loadSnapshot(c)
	if err != nil {
		return err
	}

	result, err := newService().Optimize(c.Context, snap, service.OptimizeOptions{
		Rate:               c.Float64("rate"),
		EligibleWarehouses: splitNames(c.String("warehouses")),
		IgnoreCapacity:     c.Bool("ignore-capacity"),
	})
	if err != nil {
		return err
	}

	return writeResult(c, result)
}

func runPlanCost(c *cli.Context) error {
	snap, err := loadSnapshot(c)
	if err != nil {
		return err
	}

	result, err := newService().CostPlan(c.Context, snap, service.PlanOptions{
		Rate: c.Float64("rate"),
	})
	if err != nil {
		return err
	}

	return writeResult(c, result)
}

func runCompare(c *cli.Context) error {
	snap, err := loadSnapshot(c)
	if err != nil {
		return err
	}

	report, err := newService().Compare(c.Context, snap, service.CompareOptions{
		CustomerWarehouses: splitNames(c.String("customer-warehouses")),
	})
	if err != nil {
		return err
	}

	return writeResult(c, report)
}

func splitNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
