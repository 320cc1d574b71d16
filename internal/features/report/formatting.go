package report

import (
	"fmt"
	"strings"
)

// CellStyle is the accumulated style override for one cell. The zero value
// means no visual change.
type CellStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty"`
	FontStyle       string `json:"fontStyle,omitempty"`
}

func (s CellStyle) IsZero() bool {
	return s == CellStyle{}
}

// StyleFor evaluates the enabled rules whose column matches columnName and
// merges the formats of every matching rule into one style, field by field:
// a later rule overrides only the fields it sets, so disjoint fields from
// earlier matches survive. Rules that fail numeric coercion for a numeric
// condition simply never match; evaluation never errors during render.
func StyleFor(rules []FormatRule, value any, columnName string) CellStyle {
	var style CellStyle
	for _, rule := range rules {
		if !rule.Enabled || rule.Column != columnName {
			continue
		}
		if !rule.Matches(value) {
			continue
		}
		if rule.Format.BackgroundColor != "" {
			style.BackgroundColor = rule.Format.BackgroundColor
		}
		if rule.Format.TextColor != "" {
			style.TextColor = rule.Format.TextColor
		}
		if rule.Format.FontWeight != "" {
			style.FontWeight = rule.Format.FontWeight
		}
		if rule.Format.FontStyle != "" {
			style.FontStyle = rule.Format.FontStyle
		}
	}
	return style
}

// Matches evaluates the rule's condition against a cell value
func (r FormatRule) Matches(value any) bool {
	switch r.Condition {
	case ConditionEquals:
		return looseEquals(value, r.Value)
	case ConditionNotEquals:
		return !looseEquals(value, r.Value)
	case ConditionGreater:
		cell, okCell := parseNumeric(value)
		bound, okBound := parseNumeric(r.Value)
		return okCell && okBound && cell > bound
	case ConditionLess:
		cell, okCell := parseNumeric(value)
		bound, okBound := parseNumeric(r.Value)
		return okCell && okBound && cell < bound
	case ConditionContains:
		cell := strings.ToLower(stringify(value))
		needle := strings.ToLower(stringify(r.Value))
		return needle != "" && strings.Contains(cell, needle)
	case ConditionBetween:
		cell, okCell := parseNumeric(value)
		low, okLow := parseNumeric(r.Value)
		high, okHigh := parseNumeric(r.Value2)
		return okCell && okLow && okHigh && cell >= low && cell <= high
	default:
		return false
	}
}

// looseEquals compares numerically when both sides parse, otherwise by
// string representation.
func looseEquals(a, b any) bool {
	numA, okA := parseNumeric(a)
	numB, okB := parseNumeric(b)
	if okA && okB {
		return numA == numB
	}
	return stringify(a) == stringify(b)
}

func stringify(val any) string {
	if val == nil {
		return ""
	}
	return fmt.Sprintf("%v", val)
}
