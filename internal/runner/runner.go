// Package runner executes due tasks: closing idle issues, fetching and
// classifying labeled issues, and recording them to the report log.
package runner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	githubapi "github.com/google/go-github/v60/github"
	"github.com/google/uuid"

	"github.com/ghnotice/ghnotice/internal/core/task"
	"github.com/ghnotice/ghnotice/internal/holiday"
	"github.com/ghnotice/ghnotice/internal/integrations/github"
	"github.com/ghnotice/ghnotice/internal/integrations/sheets"
)

// IssueService is the slice of the GitHub client the runner needs.
type IssueService interface {
	ListIssues(ctx context.Context, repo string, opts github.ListOptions) ([]*githubapi.Issue, error)
	ListRequestedReviewers(ctx context.Context, repo string, number int) ([]string, error)
	CloseIssue(ctx context.Context, repo string, number int) error
}

// Runner processes tasks sequentially. Failure isolation is per repository
// idle-check, per label fetch and per report block: each is caught, logged
// and the surrounding loop continues.
type Runner struct {
	issues   IssueService
	report   sheets.ReportSink
	holidays holiday.Checker

	// skipOnHoliday gates the whole run on weekends and public holidays.
	skipOnHoliday bool
	// proactiveLabel marks voluntarily reported issues for the stats metric.
	proactiveLabel string

	now   time.Time
	runID string
}

// New creates a Runner with explicit dependencies. now is the single point
// in time every cutoff computation uses.
func New(issues IssueService, report sheets.ReportSink, holidays holiday.Checker,
	skipOnHoliday bool, proactiveLabel string, now time.Time) *Runner {
	return &Runner{
		issues:         issues,
		report:         report,
		holidays:       holidays,
		skipOnHoliday:  skipOnHoliday,
		proactiveLabel: proactiveLabel,
		now:            now,
		runID:          uuid.NewString(),
	}
}

// SkipToday reports whether the holiday gate blocks this run. The gate
// only bites when configured to; the predicate itself always evaluates so
// a misconfigured calendar shows up in the logs.
func (r *Runner) SkipToday(ctx context.Context) bool {
	if r.holidays == nil {
		return false
	}
	if !r.holidays.IsHoliday(ctx, r.now) {
		return false
	}
	if !r.skipOnHoliday {
		log.Printf("[runner %s] holiday or weekend, running anyway (holiday.skip is off)", r.runID)
		return false
	}
	log.Printf("[runner %s] holiday or weekend, skipping run", r.runID)
	return true
}

// RunTask processes one task: the idle check and label fetches for each of
// its repositories, then the report log.
func (r *Runner) RunTask(ctx context.Context, t *task.Task) {
	for _, repo := range t.Repos {
		if repo == "" {
			continue
		}

		if t.Idle.Period > 0 {
			if err := r.tidyUpIssues(ctx, repo, t); err != nil {
				log.Printf("[runner %s] idle check for %s: %v", r.runID, repo, err)
			}
		}

		for _, l := range t.Labels {
			if err := r.collectLabel(ctx, repo, t, l); err != nil {
				log.Printf("[runner %s] label %q in %s: %v", r.runID, l.Name, repo, err)
			}
		}
	}

	r.reportTask(ctx, t)
}

// tidyUpIssues closes every issue of repo whose last update is older than
// the task's idle period and records a rendered line for the notification.
func (r *Runner) tidyUpIssues(ctx context.Context, repo string, t *task.Task) error {
	cutoff := r.now.Add(-time.Duration(t.Idle.Period) * 24 * time.Hour)
	displayRepo := t.ShortRepo(repo)

	issues, err := r.issues.ListIssues(ctx, repo, github.ListOptions{
		Sort:      "updated",
		Direction: "asc",
	})
	if err != nil {
		return err
	}

	for _, i := range issues {
		if i.GetUpdatedAt().Time.After(cutoff) {
			continue
		}
		if err := r.issues.CloseIssue(ctx, repo, i.GetNumber()); err != nil {
			return err
		}
		t.Idle.IssueTitles = append(t.Idle.IssueTitles, fmt.Sprintf(
			"<%s|%s> (%s) by %s", i.GetHTMLURL(), i.GetTitle(), displayRepo, i.GetUser().GetLogin()))
	}
	return nil
}

// collectLabel fetches the issues of repo matching one label rule and
// accumulates report rows and display lines on the rule.
func (r *Runner) collectLabel(ctx context.Context, repo string, t *task.Task, l *task.Label) error {
	state := "open"
	if t.LabelProtection {
		state = "all"
	}

	issues, err := r.issues.ListIssues(ctx, repo, github.ListOptions{
		Labels: []string{l.Name},
		State:  state,
	})
	if err != nil {
		return err
	}

	// Anything created before yesterday's local midnight has been recorded
	// by an earlier run already.
	y := r.now.AddDate(0, 0, -1)
	yesterday := time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, r.now.Location())

	for _, i := range issues {
		isPull := github.IsPullRequest(i)
		if isPull != t.OnlyPulls {
			continue
		}

		created := i.GetCreatedAt().Time
		if created.Before(yesterday) {
			continue
		}

		if t.Stats.Enabled {
			t.Stats.Issues++
			if isPull {
				t.Stats.Pulls++
			}
			if hasLabel(i, r.proactiveLabel) {
				t.Stats.Proactive++
			}
		}

		assignee := ""
		if i.Assignee != nil {
			assignee = i.Assignee.GetLogin()
		}

		l.ReportRows = append(l.ReportRows, task.ReportRow{
			created.In(r.now.Location()).Format("2006/01/02"),
			"", // service
			i.GetHTMLURL(),
			"", // category
			"", // requesting team
			"", // processing time
			"", // product
			assignee,
		})

		line := fmt.Sprintf("<%s|%s>", i.GetHTMLURL(), i.GetTitle())
		if t.Relations {
			var reviewers []string
			if isPull {
				reviewers, err = r.issues.ListRequestedReviewers(ctx, repo, i.GetNumber())
				if err != nil {
					log.Printf("[runner %s] reviewers for %s#%d: %v", r.runID, repo, i.GetNumber(), err)
				}
			}
			line += relations(i, reviewers)
		}
		l.DisplayLines = append(l.DisplayLines, line)
	}
	return nil
}

// relations renders the assignee (and for pulls, requested reviewer) names
// appended to a display line.
func relations(i *githubapi.Issue, reviewers []string) string {
	var parts []string
	if len(i.Assignees) > 0 {
		names := make([]string, 0, len(i.Assignees))
		for _, u := range i.Assignees {
			names = append(names, u.GetLogin())
		}
		parts = append(parts, "Assignees: "+strings.Join(names, ", "))
	}
	if len(reviewers) > 0 {
		parts = append(parts, "Reviewers: "+strings.Join(reviewers, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// reportTask appends each label's accumulated rows to the report log, one
// contiguous block per label, in label order.
func (r *Runner) reportTask(ctx context.Context, t *task.Task) {
	if r.report == nil {
		return
	}
	for _, l := range t.Labels {
		if len(l.ReportRows) == 0 {
			continue
		}
		if err := r.report.AppendReport(ctx, l.ReportRows); err != nil {
			log.Printf("[runner %s] report for label %q: %v", r.runID, l.Name, err)
		}
	}
}

func hasLabel(i *githubapi.Issue, name string) bool {
	for _, l := range i.Labels {
		if l.GetName() == name {
			return true
		}
	}
	return false
}
