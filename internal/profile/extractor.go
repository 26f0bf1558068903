package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ExtractColumnStats reads a JSON profile report and returns the
// per-column schema map consumed by the rules engines.
func ExtractColumnStats(jsonPath string) (map[string]ColumnSchema, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read profile report: %w", err)
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decode profile report: %w", err)
	}
	if len(rep.Columns) == 0 {
		return nil, fmt.Errorf("profile report %s has no columns", jsonPath)
	}
	for name, cs := range rep.Columns {
		if cs.Name == "" {
			cs.Name = name
			rep.Columns[name] = cs
		}
	}
	return rep.Columns, nil
}

// sortedColumns returns column names in a stable order for
// deterministic iteration over a schema map.
func sortedColumns(stats map[string]ColumnSchema) []string {
	names := make([]string, 0, len(stats))
	for n := range stats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedColumns exposes the deterministic iteration order used by the
// rule modules and the visualization planner.
func SortedColumns(stats map[string]ColumnSchema) []string {
	return sortedColumns(stats)
}
