package snapshot

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/shipwise/allocator/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeRequiredFiles(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "warehouses.csv",
		"name,address,capacity\nWH1,100 Dock St,1000\nWH2,200 Pier Ave,500\n")
	writeFile(t, dir, "demand_points.csv",
		"channel,region,address,product\nAmazon,CA,1 Fulfillment Way,Product A\nWalmart,TX,2 Retail Rd,Product A\n")
	writeFile(t, dir, "demand.csv",
		"product,channel,region,period,units\nProduct A,Amazon,CA,2,500\nProduct A,Walmart,TX,1,200\nProduct A,Amazon,CA,1,300\n")
}

func TestLoadDirRequiredFiles(t *testing.T) {
	dir := t.TempDir()
	writeRequiredFiles(t, dir)

	snap, err := NewLoader().LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.Warehouses) != 2 {
		t.Errorf("expected 2 warehouses, got %d", len(snap.Warehouses))
	}
	if snap.Warehouses[0].Capacity != 1000 {
		t.Errorf("WH1 capacity = %f, want 1000", snap.Warehouses[0].Capacity)
	}
	if len(snap.DemandPoints) != 2 {
		t.Errorf("expected 2 demand points, got %d", len(snap.DemandPoints))
	}
	if len(snap.Demand) != 3 {
		t.Errorf("expected 3 demand rows, got %d", len(snap.Demand))
	}

	// Periods derive sorted and unique from demand.
	if !reflect.DeepEqual(snap.Periods, []int{1, 2}) {
		t.Errorf("periods = %v, want [1 2]", snap.Periods)
	}

	// Optional files absent: fields stay empty.
	if snap.RouteCosts != nil || snap.Inventory != nil || snap.Plan != nil || snap.Coordinates != nil {
		t.Error("optional sections should be empty when their files are absent")
	}
}

func TestLoadDirOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	writeRequiredFiles(t, dir)
	writeFile(t, dir, "distances.csv",
		"warehouse,channel,region,distance_miles\nWH1,Amazon,CA,120.5\n")
	writeFile(t, dir, "inventory.csv",
		"warehouse,sku,on_hand,period,inbound,outbound\nWH1,SKU-1,100,1,0,0\nWH1,SKU-1,100,2,50,10\nWH2,SKU-1,30,1,0,0\n")
	writeFile(t, dir, "plan.csv",
		"product,warehouse,channel,region,period,units\nProduct A,WH1,Amazon,CA,1,300\nProduct A,WH1,Amazon,CA,2,500\n")
	writeFile(t, dir, "coordinates.csv",
		"address,lat,lon\n100 Dock St,34.05,-118.24\n")

	snap, err := NewLoader().LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.RouteCosts) != 1 || snap.RouteCosts[0].DistanceMiles != 120.5 {
		t.Errorf("unexpected route costs: %+v", snap.RouteCosts)
	}

	// Long-format inventory rows collapse into one ledger per (warehouse, sku).
	if len(snap.Inventory) != 2 {
		t.Fatalf("expected 2 ledgers, got %d", len(snap.Inventory))
	}
	wh1 := snap.Inventory[0]
	if wh1.Warehouse != "WH1" || wh1.OnHand != 100 {
		t.Errorf("unexpected first ledger: %+v", wh1)
	}
	if wh1.InboundByPeriod[2] != 50 || wh1.OutboundByPeriod[2] != 10 {
		t.Errorf("unexpected ledger movements: %+v", wh1)
	}

	// Plan rows collapse into one line per (product, warehouse, channel, region).
	if len(snap.Plan) != 1 {
		t.Fatalf("expected 1 plan line, got %d", len(snap.Plan))
	}
	wantUnits := map[int]float64{1: 300, 2: 500}
	if !reflect.DeepEqual(snap.Plan[0].UnitsByPeriod, wantUnits) {
		t.Errorf("plan units = %v, want %v", snap.Plan[0].UnitsByPeriod, wantUnits)
	}

	if p, ok := snap.Coordinates["100 Dock St"]; !ok || p.Lat != 34.05 {
		t.Errorf("unexpected coordinates: %+v", snap.Coordinates)
	}
}

func TestLoadDirMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warehouses.csv", "name,address,capacity\nWH1,addr,100\n")
	// demand_points.csv and demand.csv absent.

	if _, err := NewLoader().LoadDir(dir); err == nil {
		t.Error("expected an error for missing required files")
	}
}

func TestLoadDirHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	writeRequiredFiles(t, dir)
	writeFile(t, dir, "warehouses.csv", "title,address,capacity\nWH1,addr,100\n")

	if _, err := NewLoader().LoadDir(dir); err == nil {
		t.Error("expected a header mismatch error")
	}
}

func TestLoadDirBadNumeric(t *testing.T) {
	dir := t.TempDir()
	writeRequiredFiles(t, dir)
	writeFile(t, dir, "demand.csv",
		"product,channel,region,period,units\nProduct A,Amazon,CA,one,500\n")

	if _, err := NewLoader().LoadDir(dir); err == nil {
		t.Error("expected a parse error for a non-numeric period")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	doc := `{
		"warehouses": [{"name": "WH1", "address": "a", "capacity": 100}],
		"demand_points": [{"channel": "Amazon", "region": "CA", "address": "b", "product": "Product A"}],
		"demand": [
			{"product": "Product A", "channel": "Amazon", "region": "CA", "period": 3, "units": 50},
			{"product": "Product A", "channel": "Amazon", "region": "CA", "period": 1, "units": 80}
		]
	}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(snap.Periods, []int{1, 3}) {
		t.Errorf("periods = %v, want [1 3]", snap.Periods)
	}
}

func TestNormalizeSortsExplicitPeriods(t *testing.T) {
	snap := domain.Snapshot{Periods: []int{3, 1, 2}}
	Normalize(&snap)
	if !reflect.DeepEqual(snap.Periods, []int{1, 2, 3}) {
		t.Errorf("periods = %v, want sorted", snap.Periods)
	}
}
