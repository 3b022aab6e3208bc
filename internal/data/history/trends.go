package history

import (
	"fmt"

	"wake/internal/shared/util"
)

// SymbolLoader provides the stored unused symbols of a run.
type SymbolLoader interface {
	LoadUnused(runID string) ([]UnusedSymbol, error)
}

// BuildTrendReport derives per-run deltas from snapshots, which must be
// ordered oldest first. When symbols is non-nil the names that appeared or
// disappeared between consecutive runs are listed too.
func BuildTrendReport(projectKey string, snapshots []Snapshot, symbols SymbolLoader) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	var prevNames map[string]bool
	for i, current := range snapshots {
		point := TrendPoint{
			RunID:       current.RunID,
			Timestamp:   current.Timestamp,
			FileCount:   current.FileCount,
			UnusedTotal: current.UnusedTotal,
		}
		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaUnused = current.UnusedTotal - prev.UnusedTotal
		}

		if symbols != nil {
			rows, err := symbols.LoadUnused(current.RunID)
			if err != nil {
				return TrendReport{}, err
			}
			names := symbolKeys(rows)
			if prevNames != nil {
				point.Added = difference(names, prevNames)
				point.Removed = difference(prevNames, names)
			}
			prevNames = names
		}
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		ProjectKey:    normalizeProject(projectKey),
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func symbolKeys(rows []UnusedSymbol) map[string]bool {
	keys := make(map[string]bool, len(rows))
	for _, r := range rows {
		keys[r.Kind+" "+r.Name] = true
	}
	return keys
}

func difference(a, b map[string]bool) []string {
	diff := make(map[string]bool)
	for k := range a {
		if !b[k] {
			diff[k] = true
		}
	}
	if len(diff) == 0 {
		return nil
	}
	return util.SortedStringKeys(diff)
}
