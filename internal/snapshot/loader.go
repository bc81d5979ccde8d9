// internal/snapshot/loader.go
package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shipwise/allocator/internal/domain"
)

// Loader reads an input snapshot from a directory of CSV files:
//
//	warehouses.csv     name,address,capacity
//	demand_points.csv  channel,region,address,product
//	demand.csv         product,channel,region,period,units
//	distances.csv      warehouse,channel,region,distance_miles   (optional)
//	inventory.csv      warehouse,sku,on_hand,period,inbound,outbound (optional)
//	plan.csv           product,warehouse,channel,region,period,units (optional)
//	coordinates.csv    address,lat,lon                            (optional)
//
// Planning periods are derived from demand.csv.
type Loader struct{}

// NewLoader creates a CSV snapshot loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir assembles a snapshot from the directory's CSV files.
func (l *Loader) LoadDir(dir string) (domain.Snapshot, error) {
	var snap domain.Snapshot

	warehouses, err := l.loadWarehouses(filepath.Join(dir, "warehouses.csv"))
	if err != nil {
		return snap, err
	}
	snap.Warehouses = warehouses

	demandPoints, err := l.loadDemandPoints(filepath.Join(dir, "demand_points.csv"))
	if err != nil {
		return snap, err
	}
	snap.DemandPoints = demandPoints

	demand, err := l.loadDemand(filepath.Join(dir, "demand.csv"))
	if err != nil {
		return snap, err
	}
	snap.Demand = demand
	snap.Periods = periodsOf(demand)

	if costs, err := l.loadDistances(filepath.Join(dir, "distances.csv")); err != nil {
		return snap, err
	} else if costs != nil {
		snap.RouteCosts = costs
	}

	if inventory, err := l.loadInventory(filepath.Join(dir, "inventory.csv")); err != nil {
		return snap, err
	} else if inventory != nil {
		snap.Inventory = inventory
	}

	if plan, err := l.loadPlan(filepath.Join(dir, "plan.csv")); err != nil {
		return snap, err
	} else if plan != nil {
		snap.Plan = plan
	}

	if coords, err := l.loadCoordinates(filepath.Join(dir, "coordinates.csv")); err != nil {
		return snap, err
	} else if coords != nil {
		snap.Coordinates = coords
	}

	return snap, nil
}

func (l *Loader) loadWarehouses(filename string) ([]domain.Warehouse, error) {
	records, err := readCSV(filename, []string{"name", "address", "capacity"}, true)
	if err != nil {
		return nil, err
	}

	warehouses := make([]domain.Warehouse, 0, len(records))
	for i, rec := range records {
		capacity, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("warehouses.csv row %d: bad capacity %q: %w", i+2, rec[2], err)
		}
		warehouses = append(warehouses, domain.Warehouse{
			Name:     rec[0],
			Address:  rec[1],
			Capacity: capacity,
		})
	}
	return warehouses, nil
}

func (l *Loader) loadDemandPoints(filename string) ([]domain.DemandPoint, error) {
	records, err := readCSV(filename, []string{"channel", "region", "address", "product"}, true)
	if err != nil {
		return nil, err
	}

	points := make([]domain.DemandPoint, 0, len(records))
	for _, rec := range records {
		points = append(points, domain.DemandPoint{
			Channel: rec[0],
			Region:  rec[1],
			Address: rec[2],
			Product: rec[3],
		})
	}
	return points, nil
}

func (l *Loader) loadDemand(filename string) ([]domain.DemandRequirement, error) {
	records, err := readCSV(filename, []string{"product", "channel", "region", "period", "units"}, true)
	if err != nil {
		return nil, err
	}

	demand := make([]domain.DemandRequirement, 0, len(records))
	for i, rec := range records {
		period, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("demand.csv row %d: bad period %q: %w", i+2, rec[3], err)
		}
		units, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("demand.csv row %d: bad units %q: %w", i+2, rec[4], err)
		}
		demand = append(demand, domain.DemandRequirement{
			Product: rec[0],
			Channel: rec[1],
			Region:  rec[2],
			Period:  period,
			Units:   units,
		})
	}
	return demand, nil
}

func (l *Loader) loadDistances(filename string) ([]domain.RouteCost, error) {
	records, err := readCSV(filename, []string{"warehouse", "channel", "region", "distance_miles"}, false)
	if err != nil || records == nil {
		return nil, err
	}

	costs := make([]domain.RouteCost, 0, len(records))
	for i, rec := range records {
		miles, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("distances.csv row %d: bad distance %q: %w", i+2, rec[3], err)
		}
		costs = append(costs, domain.RouteCost{
			Warehouse:     rec[0],
			Channel:       rec[1],
			Region:        rec[2],
			DistanceMiles: miles,
		})
	}
	return costs, nil
}

func (l *Loader) loadInventory(filename string) ([]domain.InventoryLedger, error) {
	records, err := readCSV(filename, []string{"warehouse", "sku", "on_hand", "period", "inbound", "outbound"}, false)
	if err != nil || records == nil {
		return nil, err
	}

	type ledgerKey struct{ warehouse, sku string }
	index := make(map[ledgerKey]*domain.InventoryLedger)
	var order []ledgerKey

	for i, rec := range records {
		key := ledgerKey{warehouse: rec[0], sku: rec[1]}
		ledger, ok := index[key]
		if !ok {
			onHand, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return nil, fmt.Errorf("inventory.csv row %d: bad on_hand %q: %w", i+2, rec[2], err)
			}
			ledger = &domain.InventoryLedger{
				Warehouse:        rec[0],
				SKU:              rec[1],
				OnHand:           onHand,
				InboundByPeriod:  make(map[int]float64),
				OutboundByPeriod: make(map[int]float64),
			}
			index[key] = ledger
			order = append(order, key)
		}

		period, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("inventory.csv row %d: bad period %q: %w", i+2, rec[3], err)
		}
		inbound, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory.csv row %d: bad inbound %q: %w", i+2, rec[4], err)
		}
		outbound, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory.csv row %d: bad outbound %q: %w", i+2, rec[5], err)
		}

		if inbound != 0 {
			ledger.InboundByPeriod[period] += inbound
		}
		if outbound != 0 {
			ledger.OutboundByPeriod[period] += outbound
		}
	}

	ledgers := make([]domain.InventoryLedger, 0, len(order))
	for _, key := range order {
		ledgers = append(ledgers, *index[key])
	}
	return ledgers, nil
}

func (l *Loader) loadPlan(filename string) ([]domain.PlanLine, error) {
	records, err := readCSV(filename, []string{"product", "warehouse", "channel", "region", "period", "units"}, false)
	if err != nil || records == nil {
		return nil, err
	}

	type planKey struct{ product, warehouse, channel, region string }
	index := make(map[planKey]*domain.PlanLine)
	var order []planKey

	for i, rec := range records {
		key := planKey{product: rec[0], warehouse: rec[1], channel: rec[2], region: rec[3]}
		line, ok := index[key]
		if !ok {
			line = &domain.PlanLine{
				Product:       rec[0],
				Warehouse:     rec[1],
				Channel:       rec[2],
				Region:        rec[3],
				UnitsByPeriod: make(map[int]float64),
			}
			index[key] = line
			order = append(order, key)
		}

		period, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("plan.csv row %d: bad period %q: %w", i+2, rec[4], err)
		}
		units, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("plan.csv row %d: bad units %q: %w", i+2, rec[5], err)
		}
		line.UnitsByPeriod[period] += units
	}

	plan := make([]domain.PlanLine, 0, len(order))
	for _, key := range order {
		plan = append(plan, *index[key])
	}
	return plan, nil
}

func (l *Loader) loadCoordinates(filename string) (map[string]domain.GeoPoint, error) {
	records, err := readCSV(filename, []string{"address", "lat", "lon"}, false)
	if err != nil || records == nil {
		return nil, err
	}

	coords := make(map[string]domain.GeoPoint, len(records))
	for i, rec := range records {
		lat, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinates.csv row %d: bad lat %q: %w", i+2, rec[1], err)
		}
		lon, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinates.csv row %d: bad lon %q: %w", i+2, rec[2], err)
		}
		coords[rec[0]] = domain.GeoPoint{Lat: lat, Lon: lon}
	}
	return coords, nil
}

// readCSV reads a file and validates its header. When required is false, a
// missing file returns (nil, nil).
func readCSV(filename string, expectedHeader []string, required bool) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s: missing header row", filename)
	}

	if !headerMatches(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filepath.Base(filename), expectedHeader, records[0])
	}

	for i, rec := range records[1:] {
		if len(rec) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filepath.Base(filename), i+2, len(expectedHeader), len(rec))
		}
	}

	return records[1:], nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != want[i] {
			return false
		}
	}
	return true
}

func periodsOf(demand []domain.DemandRequirement) []int {
	seen := make(map[int]struct{})
	var periods []int
	for _, d := range demand {
		if _, ok := seen[d.Period]; ok {
			continue
		}
		seen[d.Period] = struct{}{}
		periods = append(periods, d.Period)
	}
	sort.Ints(periods)
	return periods
}
