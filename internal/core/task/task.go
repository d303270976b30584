// Package task defines the unit of work produced by the scheduler and
// consumed by the runner and notification builder.
package task

import "strings"

// Task is one scheduled unit of work derived from a configuration row and a
// matching time slot. It is built fresh each run, mutated in place while
// issues are fetched, and discarded afterwards.
type Task struct {
	Channels []string
	Times    []string
	Mentions []string
	Repos    []string
	Labels   []*Label
	Stats    *Stats
	Idle     *Idle

	// Relations appends assignee/reviewer names to rendered issue lines.
	Relations bool
	// OnlyPulls restricts a label rule to pull requests instead of issues.
	OnlyPulls bool
	// LabelProtection widens label fetches to state "all" instead of "open".
	LabelProtection bool
	// ShowOrg renders the full "org/repo" name instead of the short name.
	ShowOrg bool
}

// Empty reports whether the task accumulated nothing to notify about.
// Stats alone do not count: a stats block with no label or idle content
// still routes through the "all clear" path.
func (t *Task) Empty() bool {
	for _, l := range t.Labels {
		if len(l.DisplayLines) > 0 {
			return false
		}
	}
	if t.Idle != nil && len(t.Idle.IssueTitles) > 0 {
		return false
	}
	return true
}

// Label is one label rule: a GitHub label name paired with a notification
// threshold and message. DisplayLines and ReportRows accumulate within a
// single run only.
type Label struct {
	Name      string
	Threshold Threshold
	Message   string
	Color     string

	// DisplayLines are the rendered "<url|title> ..." lines shown in Slack.
	DisplayLines []string
	// ReportRows are the A..H tuples appended to the report sheet.
	ReportRows []ReportRow
}

// ReportRow is one row of the report log: creation date, service, URL,
// category, requesting team, processing time, product, assignee.
type ReportRow [8]string

// Threshold is a label's notification threshold. A malformed or missing
// threshold in the label spec leaves Set false, and an unset threshold is
// never exceeded, whatever the issue count.
type Threshold struct {
	Set   bool
	Value float64
}

// Exceeded reports whether count is strictly above the configured threshold.
func (th Threshold) Exceeded(count int) bool {
	return th.Set && float64(count) > th.Value
}

// Idle is the auto-close policy: issues untouched for Period days get closed.
// A zero period disables the check.
type Idle struct {
	Period      int
	IssueTitles []string
}

// Stats accumulates issue/pull counts for the reactive-percentage metric.
type Stats struct {
	Enabled   bool
	Issues    int
	Pulls     int
	Proactive int
}

// ReactivePercent returns 100 minus the proactive share of all issues,
// floored. When there are no issues at all the ratio degenerates to 100,
// which callers render as the "all proactive" call to action.
func (s *Stats) ReactivePercent() int {
	denom := s.Proactive + (s.Issues - s.Proactive)
	if denom <= 0 {
		return 100
	}
	return 100 - s.Proactive*100/denom
}

// ShortRepo returns the display name for a repository: the full name when
// the task is configured with ShowOrg, otherwise the part after the slash.
func (t *Task) ShortRepo(repo string) string {
	if t.ShowOrg {
		return repo
	}
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		return repo[i+1:]
	}
	return repo
}
