package report

import (
	"fmt"
	"strconv"
	"strings"
)

// groupKeySeparator joins stringified group-column values into a key
const groupKeySeparator = "|"

// GroupedRows is the derived view of one group: never persisted, recomputed
// from the latest resolved page. Expanded is transient UI state keyed by
// GroupKey.
type GroupedRows struct {
	GroupKey    string             `json:"groupKey"`
	GroupValues map[string]any     `json:"groupValues"`
	Items       []map[string]any   `json:"items"`
	Aggregates  map[string]float64 `json:"aggregates"`
	Expanded    bool               `json:"expanded"`
}

// GroupRows partitions the current page into ordered groups keyed by the
// tuple of grouping-column values. Insertion order of first occurrence
// determines group order. Returns nil when grouping is disabled or no
// grouping columns are set; callers fall through to ungrouped rendering.
func GroupRows(rows []map[string]any, grouping GroupingConfig) []GroupedRows {
	if !grouping.Enabled || len(grouping.Columns) == 0 {
		return nil
	}

	var groups []GroupedRows
	index := make(map[string]int)

	for _, row := range rows {
		key := buildGroupKey(row, grouping.Columns)
		i, ok := index[key]
		if !ok {
			values := make(map[string]any, len(grouping.Columns))
			for _, col := range grouping.Columns {
				values[col] = row[col]
			}
			groups = append(groups, GroupedRows{
				GroupKey:    key,
				GroupValues: values,
				Expanded:    true,
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Items = append(groups[i].Items, row)
	}

	for i := range groups {
		groups[i].Aggregates = computeAggregates(groups[i].Items, grouping.Aggregations)
	}

	return groups
}

func buildGroupKey(row map[string]any, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		if val, ok := row[col]; ok && val != nil {
			parts = append(parts, fmt.Sprintf("%v", val))
		} else {
			parts = append(parts, "N/A")
		}
	}
	return strings.Join(parts, groupKeySeparator)
}

// computeAggregates evaluates the configured aggregations over one group.
// Non-numeric values are excluded, never treated as zero. A column without a
// configured aggregation gets no entry, so absence stays distinguishable
// from a zero aggregate. Min/max are omitted when the group has no parseable
// values rather than propagating NaN or infinities.
func computeAggregates(items []map[string]any, aggregations map[string]Aggregation) map[string]float64 {
	if len(aggregations) == 0 {
		return map[string]float64{}
	}

	aggregates := make(map[string]float64, len(aggregations))
	for col, agg := range aggregations {
		var sum, min, max float64
		count := 0

		for _, row := range items {
			num, ok := parseNumeric(row[col])
			if !ok {
				continue
			}
			if count == 0 {
				min, max = num, num
			} else {
				if num < min {
					min = num
				}
				if num > max {
					max = num
				}
			}
			sum += num
			count++
		}

		switch agg {
		case AggregationSum:
			aggregates[col] = sum
		case AggregationAvg:
			if count == 0 {
				aggregates[col] = 0
			} else {
				aggregates[col] = sum / float64(count)
			}
		case AggregationCount:
			aggregates[col] = float64(count)
		case AggregationMin:
			if count > 0 {
				aggregates[col] = min
			}
		case AggregationMax:
			if count > 0 {
				aggregates[col] = max
			}
		}
	}

	return aggregates
}

// parseNumeric extracts a float from the value shapes providers emit
func parseNumeric(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}
