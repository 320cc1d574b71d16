package report

import (
	common_models "go-reports/internal/common/models"
)

// Reorder removes movedColumn from its position and reinserts it at
// targetColumn's current position (drag-and-drop semantics). No-op if either
// name is absent. Order keeps exactly the same set of names, no duplicates.
func (l *ColumnLayout) Reorder(movedColumn, targetColumn string) {
	if movedColumn == targetColumn {
		return
	}
	from := indexOf(l.Order, movedColumn)
	to := indexOf(l.Order, targetColumn)
	if from < 0 || to < 0 {
		return
	}

	l.Order = append(l.Order[:from], l.Order[from+1:]...)
	l.Order = append(l.Order, "")
	copy(l.Order[to+1:], l.Order[to:])
	l.Order[to] = movedColumn
}

// Resize writes the column width, clamped to the 50px minimum
func (l *ColumnLayout) Resize(column string, widthPixels int) {
	if l.Widths == nil {
		l.Widths = map[string]int{}
	}
	if widthPixels < MinColumnWidth {
		widthPixels = MinColumnWidth
	}
	l.Widths[column] = widthPixels
}

// SetSelected replaces the selection set without touching Order. Names not
// present in Order are discarded so Selected stays a subset of Order.
func (l *ColumnLayout) SetSelected(columns []string) {
	known := make(map[string]bool, len(l.Order))
	for _, name := range l.Order {
		known[name] = true
	}

	selected := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, name := range columns {
		if known[name] && !seen[name] {
			selected = append(selected, name)
			seen[name] = true
		}
	}
	l.Selected = selected
}

// Visible returns Order filtered by the selection. Rendering always iterates
// this, never Selected alone, so drag position survives deselect/reselect.
func (l *ColumnLayout) Visible() []string {
	selected := make(map[string]bool, len(l.Selected))
	for _, name := range l.Selected {
		selected[name] = true
	}

	visible := make([]string, 0, len(l.Selected))
	for _, name := range l.Order {
		if selected[name] {
			visible = append(visible, name)
		}
	}
	return visible
}

// Reconcile applies a fresh schema resolution to the layout: columns that
// disappeared are dropped from Selected and Order, new columns are appended
// to Order unselected. On the very first resolution for a blank layout every
// column becomes selected and ordered as returned.
func (l *ColumnLayout) Reconcile(columns []common_models.ColumnDescriptor) {
	known := make(map[string]bool, len(columns))
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		known[col.Name] = true
		names = append(names, col.Name)
	}

	if len(l.Order) == 0 && len(l.Selected) == 0 {
		l.Order = names
		l.Selected = append([]string(nil), names...)
		return
	}

	var order []string
	inOrder := make(map[string]bool, len(l.Order))
	for _, name := range l.Order {
		if known[name] && !inOrder[name] {
			order = append(order, name)
			inOrder[name] = true
		}
	}
	for _, name := range names {
		if !inOrder[name] {
			order = append(order, name)
			inOrder[name] = true
		}
	}
	l.Order = order

	var selected []string
	for _, name := range l.Selected {
		if known[name] {
			selected = append(selected, name)
		}
	}
	l.Selected = selected

	for name := range l.Widths {
		if !known[name] {
			delete(l.Widths, name)
		}
	}
}

func indexOf(list []string, name string) int {
	for i, v := range list {
		if v == name {
			return i
		}
	}
	return -1
}
