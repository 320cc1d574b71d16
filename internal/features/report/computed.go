package report

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// EvaluateComputedColumns evaluates each computed column's expression
// against every row of the page, writing the result under the column name.
// The expression sees the row as `row` (e.g. `row.amount * row.quantity`).
// A failing expression or row leaves that cell nil; computed columns never
// abort a render.
func EvaluateComputedColumns(rows []map[string]any, cols []ComputedColumn) {
	for _, col := range cols {
		if col.Name == "" || col.Expression == "" {
			continue
		}

		script := tengo.NewScript([]byte(fmt.Sprintf("out := (%s)", col.Expression)))
		script.SetImports(stdlib.GetModuleMap("math", "text", "times"))
		if err := script.Add("row", map[string]any{}); err != nil {
			continue
		}

		compiled, err := script.Compile()
		if err != nil {
			// Broken expression: the column renders empty for the page
			for _, row := range rows {
				row[col.Name] = nil
			}
			continue
		}

		for _, row := range rows {
			if err := compiled.Set("row", sanitizeRow(row)); err != nil {
				row[col.Name] = nil
				continue
			}
			if err := compiled.Run(); err != nil {
				row[col.Name] = nil
				continue
			}
			row[col.Name] = compiled.Get("out").Value()
		}
	}
}

// sanitizeRow converts values tengo cannot hold into strings
func sanitizeRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		switch v.(type) {
		case nil, bool, int, int32, int64, float32, float64, string, []byte:
			out[k] = v
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
