package analyzer

import (
	"fmt"

	"github.com/wakefit-labs/ytrank/internal/engine"
)

// TrackedIDs scans the registry rows (header included) and unions the video
// IDs recovered from both URL columns. Rows whose URLs yield no ID are
// skipped.
func TrackedIDs(registryRows [][]string) (map[string]struct{}, error) {
	if len(registryRows) == 0 {
		return map[string]struct{}{}, nil
	}
	idx, err := indexColumns(registryRows[0], registryURLColumns)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}

	ids := make(map[string]struct{})
	for _, row := range registryRows[1:] {
		for _, col := range registryURLColumns {
			if id := engine.ExtractVideoID(idx.cell(row, col)); id != "" {
				ids[id] = struct{}{}
			}
		}
	}
	return ids, nil
}

// FilterTracked keeps only rows whose URL resolves to a tracked video ID.
// Pure subset: no row is altered or fabricated.
func FilterTracked(rows []LedgerRow, tracked map[string]struct{}) []LedgerRow {
	if len(tracked) == 0 {
		return nil
	}
	var out []LedgerRow
	for _, r := range rows {
		if _, ok := tracked[engine.ExtractVideoID(r.URL)]; ok {
			out = append(out, r)
		}
	}
	return out
}
