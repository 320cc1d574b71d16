package report

import (
	"testing"
)

func TestFormatRuleMatches(t *testing.T) {
	tests := []struct {
		name  string
		rule  FormatRule
		value any
		want  bool
	}{
		{
			name:  "Equals Numeric Coercion",
			rule:  FormatRule{Condition: ConditionEquals, Value: "10"},
			value: 10.0,
			want:  true,
		},
		{
			name:  "Equals String Fallback",
			rule:  FormatRule{Condition: ConditionEquals, Value: "open"},
			value: "open",
			want:  true,
		},
		{
			name:  "Not Equals",
			rule:  FormatRule{Condition: ConditionNotEquals, Value: "closed"},
			value: "open",
			want:  true,
		},
		{
			name:  "Greater",
			rule:  FormatRule{Condition: ConditionGreater, Value: 15},
			value: 20.0,
			want:  true,
		},
		{
			name:  "Greater Not Satisfied",
			rule:  FormatRule{Condition: ConditionGreater, Value: 15},
			value: 10.0,
			want:  false,
		},
		{
			name:  "Greater Non Numeric Cell Never Matches",
			rule:  FormatRule{Condition: ConditionGreater, Value: 15},
			value: "hello",
			want:  false,
		},
		{
			name:  "Greater Non Numeric Bound Never Matches",
			rule:  FormatRule{Condition: ConditionGreater, Value: "threshold"},
			value: 100.0,
			want:  false,
		},
		{
			name:  "Less",
			rule:  FormatRule{Condition: ConditionLess, Value: 15},
			value: 10.0,
			want:  true,
		},
		{
			name:  "Contains Case Insensitive",
			rule:  FormatRule{Condition: ConditionContains, Value: "EAST"},
			value: "north-east",
			want:  true,
		},
		{
			name:  "Contains Empty Needle Never Matches",
			rule:  FormatRule{Condition: ConditionContains, Value: ""},
			value: "anything",
			want:  false,
		},
		{
			name:  "Between Inclusive Low",
			rule:  FormatRule{Condition: ConditionBetween, Value: 10, Value2: 20},
			value: 10.0,
			want:  true,
		},
		{
			name:  "Between Inclusive High",
			rule:  FormatRule{Condition: ConditionBetween, Value: 10, Value2: 20},
			value: 20.0,
			want:  true,
		},
		{
			name:  "Between Outside",
			rule:  FormatRule{Condition: ConditionBetween, Value: 10, Value2: 20},
			value: 25.0,
			want:  false,
		},
		{
			name:  "Between Missing Second Bound Never Matches",
			rule:  FormatRule{Condition: ConditionBetween, Value: 10},
			value: 15.0,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.value); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestStyleForAmountScenario(t *testing.T) {
	rules := []FormatRule{
		{
			ID:        "r1",
			Column:    "Amount",
			Condition: ConditionGreater,
			Value:     15,
			Format:    RuleFormat{BackgroundColor: "#ffeb3b"},
			Enabled:   true,
		},
	}

	rows := []map[string]any{
		{"Name": "A", "Amount": 10.0},
		{"Name": "B", "Amount": 20.0},
		{"Name": "C", "Amount": 5.0},
	}

	for i, row := range rows {
		style := StyleFor(rules, row["Amount"], "Amount")
		if i == 1 {
			if style.BackgroundColor != "#ffeb3b" {
				t.Errorf("row B should get highlighted, got %+v", style)
			}
		} else if !style.IsZero() {
			t.Errorf("row %d should get no style, got %+v", i, style)
		}
	}
}

func TestStyleForFieldByFieldMerge(t *testing.T) {
	background := FormatRule{
		ID: "bg", Column: "amount", Condition: ConditionGreater, Value: 0,
		Format:  RuleFormat{BackgroundColor: "#ff0000"},
		Enabled: true,
	}
	text := FormatRule{
		ID: "text", Column: "amount", Condition: ConditionGreater, Value: 0,
		Format:  RuleFormat{TextColor: "#ffffff"},
		Enabled: true,
	}

	// Disjoint fields survive regardless of rule order
	forward := StyleFor([]FormatRule{background, text}, 5.0, "amount")
	reverse := StyleFor([]FormatRule{text, background}, 5.0, "amount")
	want := CellStyle{BackgroundColor: "#ff0000", TextColor: "#ffffff"}
	if forward != want || reverse != want {
		t.Errorf("disjoint merge: forward %+v, reverse %+v, want %+v", forward, reverse, want)
	}

	// Same field: the later rule wins
	override := FormatRule{
		ID: "bg2", Column: "amount", Condition: ConditionGreater, Value: 0,
		Format:  RuleFormat{BackgroundColor: "#00ff00"},
		Enabled: true,
	}
	got := StyleFor([]FormatRule{background, override}, 5.0, "amount")
	if got.BackgroundColor != "#00ff00" {
		t.Errorf("later rule should override same field, got %+v", got)
	}
}

func TestStyleForSkipsDisabledAndOtherColumns(t *testing.T) {
	rules := []FormatRule{
		{ID: "r1", Column: "amount", Condition: ConditionGreater, Value: 0, Format: RuleFormat{FontWeight: "bold"}, Enabled: false},
		{ID: "r2", Column: "other", Condition: ConditionGreater, Value: 0, Format: RuleFormat{FontStyle: "italic"}, Enabled: true},
	}

	if got := StyleFor(rules, 5.0, "amount"); !got.IsZero() {
		t.Errorf("expected empty style, got %+v", got)
	}
}
