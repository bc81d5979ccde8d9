// internal/snapshot/json.go
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shipwise/allocator/internal/domain"
)

// LoadJSON reads a full snapshot from a single JSON document. Periods are
// derived from demand when the document omits them.
func LoadJSON(filename string) (domain.Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read snapshot %s: %w", filename, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to parse snapshot %s: %w", filename, err)
	}

	Normalize(&snap)
	return snap, nil
}

// Normalize fills derivable snapshot fields and validates basic shape.
func Normalize(snap *domain.Snapshot) {
	if len(snap.Periods) == 0 {
		snap.Periods = periodsOf(snap.Demand)
	} else {
		sort.Ints(snap.Periods)
	}
}
