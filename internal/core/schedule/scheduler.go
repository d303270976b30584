// Package schedule turns raw configuration rows into the tasks that are due
// at a given point in time.
//
// A configuration row is a fixed-width tuple of loosely typed cells. The
// parser validates each row into a typed Row value plus a list of defects,
// so an invalid cell can never corrupt downstream logic beyond the
// documented default substitutions.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ghnotice/ghnotice/internal/core/task"
)

// Column positions in a configuration row.
const (
	colEnabled = iota
	colChannels
	colTimes
	colMentions
	colRepos
	colLabels
	colStats
	colIdle
	colRelations
	colOnlyPulls
	colLabelProtection
	colShowOrg

	// ColumnCount is the expected row width.
	ColumnCount = 12
)

// Row is one validated configuration row.
type Row struct {
	Enabled         bool
	Channels        []string
	Times           []string
	Mentions        []string
	Repos           []string
	LabelSpecs      []string
	Stats           bool
	IdlePeriod      int
	Relations       bool
	OnlyPulls       bool
	LabelProtection bool
	ShowOrg         bool
}

// Defect describes a configuration cell that failed validation. Defects are
// reportable anomalies, never fatal; the row still parses with defaults.
type Defect struct {
	Column  string
	Message string
}

func (d Defect) String() string {
	return fmt.Sprintf("%s: %s", d.Column, d.Message)
}

// Normalize splits a multi-line cell into entries: one per line, trimmed,
// empty entries dropped, original order preserved.
func Normalize(s string) []string {
	var out []string
	for _, v := range strings.Split(s, "\n") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseRow validates one raw row. The enabled cell must be a literal
// boolean; anything else is a defect and the row is treated as disabled.
// The remaining flag cells silently fall back to false, the idle period
// to zero.
func ParseRow(cells []any) (Row, []Defect) {
	var defects []Defect

	r := Row{
		Channels:   Normalize(cellString(at(cells, colChannels))),
		Times:      Normalize(cellString(at(cells, colTimes))),
		Mentions:   Normalize(cellString(at(cells, colMentions))),
		Repos:      Normalize(cellString(at(cells, colRepos))),
		LabelSpecs: Normalize(cellString(at(cells, colLabels))),
	}

	if enabled, ok := at(cells, colEnabled).(bool); ok {
		r.Enabled = enabled
	} else {
		defects = append(defects, Defect{
			Column:  "enabled",
			Message: fmt.Sprintf("must be of type boolean: %v", at(cells, colEnabled)),
		})
	}

	r.Stats = cellBool(at(cells, colStats))
	r.IdlePeriod = cellInt(at(cells, colIdle))
	r.Relations = cellBool(at(cells, colRelations))
	r.OnlyPulls = cellBool(at(cells, colOnlyPulls))
	r.LabelProtection = cellBool(at(cells, colLabelProtection))
	r.ShowOrg = cellBool(at(cells, colShowOrg))

	return r, defects
}

// ParseClock splits a scheduled time string into an (hour, minute) pair.
// The minute is taken from offset 2 only when the string is exactly four
// characters long; otherwise it defaults to "00".
func ParseClock(t string) (hour, min string) {
	if len(t) >= 2 {
		hour = t[:2]
	} else {
		hour = t
	}
	min = "00"
	if len(t) == 4 {
		min = t[2:4]
	}
	return hour, min
}

// ParseLabelSpec parses a "name/threshold/message" triple into a label
// rule. A missing or non-numeric threshold leaves the threshold unset,
// which no issue count ever exceeds.
func ParseLabelSpec(spec string) *task.Label {
	parts := strings.Split(spec, "/")
	l := &task.Label{Name: parts[0]}
	if len(parts) > 1 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			l.Threshold = task.Threshold{Set: true, Value: v}
		}
	}
	if len(parts) > 2 {
		l.Message = parts[2]
	}
	return l
}

// Result is the outcome of a scheduling pass.
type Result struct {
	Tasks []*task.Task
	// Defects collects the validation anomalies across all rows, keyed by
	// the row's position in the source table (zero-based, data rows only).
	Defects map[int][]Defect
}

// Due filters the configuration table down to the tasks due at now.
// Row order is preserved; within a row, one task is built per scheduled
// time that matches the current hour and minute exactly.
func Due(rows [][]any, now time.Time) *Result {
	res := &Result{Defects: make(map[int][]Defect)}

	nowH := fmt.Sprintf("%02d", now.Hour())
	nowM := fmt.Sprintf("%02d", now.Minute())

	for i, cells := range rows {
		r, defects := ParseRow(cells)
		if len(defects) > 0 {
			res.Defects[i] = defects
		}
		if len(r.Repos) == 0 {
			continue
		}
		if !r.Enabled {
			continue
		}

		for _, t := range r.Times {
			hour, min := ParseClock(t)
			if hour != nowH || min != nowM {
				continue
			}
			res.Tasks = append(res.Tasks, buildTask(r))
		}
	}

	return res
}

// buildTask constructs a fresh Task from a validated row. Accumulators
// (label lines, idle titles, stats counters) start empty on every build so
// two tasks from the same row never share state.
func buildTask(r Row) *task.Task {
	labels := make([]*task.Label, 0, len(r.LabelSpecs))
	for _, spec := range r.LabelSpecs {
		labels = append(labels, ParseLabelSpec(spec))
	}

	return &task.Task{
		Channels:        r.Channels,
		Times:           r.Times,
		Mentions:        r.Mentions,
		Repos:           r.Repos,
		Labels:          labels,
		Stats:           &task.Stats{Enabled: r.Stats},
		Idle:            &task.Idle{Period: r.IdlePeriod},
		Relations:       r.Relations,
		OnlyPulls:       r.OnlyPulls,
		LabelProtection: r.LabelProtection,
		ShowOrg:         r.ShowOrg,
	}
}

func at(cells []any, i int) any {
	if i < len(cells) {
		return cells[i]
	}
	return nil
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func cellBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func cellInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
