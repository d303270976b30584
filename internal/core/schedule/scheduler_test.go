package schedule

import (
	"reflect"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single entry", "org/repo", []string{"org/repo"}},
		{"multi line", "a\nb\nc", []string{"a", "b", "c"}},
		{"trims and drops empties", "  a  \n\n b \n  ", []string{"a", "b"}},
		{"empty input", "", nil},
		{"whitespace only", "   \n \n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		hour string
		min  string
	}{
		{"0900", "09", "00"},
		{"0930", "09", "30"},
		{"09", "09", "00"},
		{"09:00", "09", "00"}, // five characters: minute falls back
		{"9", "9", "00"},
		{"", "", "00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hour, min := ParseClock(tt.in)
			if hour != tt.hour || min != tt.min {
				t.Errorf("ParseClock(%q) = (%q, %q), want (%q, %q)", tt.in, hour, min, tt.hour, tt.min)
			}
		})
	}
}

func TestParseLabelSpec(t *testing.T) {
	l := ParseLabelSpec("bug/2/please triage")
	if l.Name != "bug" {
		t.Errorf("Name = %q, want bug", l.Name)
	}
	if !l.Threshold.Set || l.Threshold.Value != 2 {
		t.Errorf("Threshold = %+v, want set with value 2", l.Threshold)
	}
	if l.Message != "please triage" {
		t.Errorf("Message = %q", l.Message)
	}
}

func TestParseLabelSpecMalformedThreshold(t *testing.T) {
	tests := []string{"bug", "bug/", "bug//msg", "bug/lots/msg"}
	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			l := ParseLabelSpec(spec)
			if l.Threshold.Set {
				t.Errorf("Threshold.Set = true for %q, want unset", spec)
			}
			// An unset threshold must never be considered exceeded.
			if l.Threshold.Exceeded(1000000) {
				t.Errorf("unset threshold exceeded for %q", spec)
			}
		})
	}
}

func row(enabled any, channels, times, mentions, repos, labels string, rest ...any) []any {
	cells := []any{enabled, channels, times, mentions, repos, labels}
	cells = append(cells, rest...)
	return cells
}

func TestParseRowEnabledMustBeBoolean(t *testing.T) {
	tests := []struct {
		name       string
		enabled    any
		wantOn     bool
		wantDefect bool
	}{
		{"bool true", true, true, false},
		{"bool false", false, false, false},
		{"string TRUE", "TRUE", false, true},
		{"number", 1.0, false, true},
		{"nil", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, defects := ParseRow(row(tt.enabled, "#ch", "0900", "", "org/repo", ""))
			if r.Enabled != tt.wantOn {
				t.Errorf("Enabled = %v, want %v", r.Enabled, tt.wantOn)
			}
			if (len(defects) > 0) != tt.wantDefect {
				t.Errorf("defects = %v, wantDefect %v", defects, tt.wantDefect)
			}
		})
	}
}

func TestParseRowFlagCoercion(t *testing.T) {
	// stats, idle, relations, onlyPulls, labelProtection, showOrg
	r, _ := ParseRow(row(true, "#ch", "0900", "", "org/repo", "",
		"yes", "30", true, 1.0, false, nil))

	if r.Stats {
		t.Error("non-boolean stats cell should coerce to false")
	}
	if r.IdlePeriod != 0 {
		t.Errorf("non-numeric idle cell should coerce to 0, got %d", r.IdlePeriod)
	}
	if !r.Relations {
		t.Error("boolean relations cell should be kept")
	}
	if r.OnlyPulls {
		t.Error("numeric onlyPulls cell should coerce to false")
	}
	if r.ShowOrg {
		t.Error("missing showOrg cell should coerce to false")
	}
}

func TestParseRowIdlePeriod(t *testing.T) {
	r, _ := ParseRow(row(true, "#ch", "0900", "", "org/repo", "", false, 30.0))
	if r.IdlePeriod != 30 {
		t.Errorf("IdlePeriod = %d, want 30", r.IdlePeriod)
	}
}

func TestDueSkipsRows(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	rows := [][]any{
		row(true, "#a", "0900", "", "", ""),      // no repos
		row(false, "#b", "0900", "", "o/r", ""),  // disabled
		row("true", "#c", "0900", "", "o/r", ""), // wrong type: defect, disabled
		row(true, "#d", "1000", "", "o/r", ""),   // wrong time
	}

	res := Due(rows, now)
	if len(res.Tasks) != 0 {
		t.Errorf("got %d tasks, want 0", len(res.Tasks))
	}
	if len(res.Defects[2]) == 0 {
		t.Error("expected a defect for the string-typed enabled cell")
	}
	if len(res.Defects[0]) != 0 {
		t.Errorf("unexpected defects for repo-less row: %v", res.Defects[0])
	}
}

func TestDueMatchesExactTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	rows := [][]any{
		row(true, "#general", "0900", "@dev-team", "acme/api\nacme/web", "bug/2/please triage"),
	}

	res := Due(rows, now)
	if len(res.Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(res.Tasks))
	}

	task := res.Tasks[0]
	if !reflect.DeepEqual(task.Repos, []string{"acme/api", "acme/web"}) {
		t.Errorf("Repos = %v", task.Repos)
	}
	if len(task.Labels) != 1 || task.Labels[0].Name != "bug" {
		t.Fatalf("Labels = %+v", task.Labels)
	}
	if !task.Labels[0].Threshold.Exceeded(3) {
		t.Error("3 issues should exceed the threshold of 2")
	}
	if task.Labels[0].Message != "please triage" {
		t.Errorf("Message = %q", task.Labels[0].Message)
	}
}

func TestDueHourOnlyTime(t *testing.T) {
	rows := [][]any{row(true, "#ch", "09", "", "o/r", "")}

	if res := Due(rows, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)); len(res.Tasks) != 1 {
		t.Errorf("hour-only time should match at :00, got %d tasks", len(res.Tasks))
	}
	if res := Due(rows, time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)); len(res.Tasks) != 0 {
		t.Errorf("hour-only time should not match at :30, got %d tasks", len(res.Tasks))
	}
}

func TestDueOneTaskPerMatchingTime(t *testing.T) {
	// Two identical time entries both match, so the row yields two tasks
	// with independent accumulators.
	rows := [][]any{row(true, "#ch", "0900\n0900", "", "o/r", "bug/1/m")}

	res := Due(rows, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	if len(res.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(res.Tasks))
	}
	res.Tasks[0].Labels[0].DisplayLines = append(res.Tasks[0].Labels[0].DisplayLines, "x")
	if len(res.Tasks[1].Labels[0].DisplayLines) != 0 {
		t.Error("tasks from the same row must not share label accumulators")
	}
}

func TestDuePreservesRowOrder(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	rows := [][]any{
		row(true, "#first", "0900", "", "o/r1", ""),
		row(true, "#second", "0900", "", "o/r2", ""),
	}

	res := Due(rows, now)
	if len(res.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(res.Tasks))
	}
	if res.Tasks[0].Channels[0] != "#first" || res.Tasks[1].Channels[0] != "#second" {
		t.Errorf("tasks out of source order: %v, %v", res.Tasks[0].Channels, res.Tasks[1].Channels)
	}
}
