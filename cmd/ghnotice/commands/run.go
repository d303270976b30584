package commands

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ghnotice/ghnotice/internal/core/config"
	"github.com/ghnotice/ghnotice/internal/core/schedule"
	"github.com/ghnotice/ghnotice/internal/holiday"
	"github.com/ghnotice/ghnotice/internal/integrations/github"
	"github.com/ghnotice/ghnotice/internal/integrations/sheets"
	"github.com/ghnotice/ghnotice/internal/integrations/slack"
	"github.com/ghnotice/ghnotice/internal/notify"
	"github.com/ghnotice/ghnotice/internal/runner"
)

var (
	runAt       string
	runNoNotify bool
)

// runCmd represents the run command, the single externally-triggered entry
// point. An external timer invokes it; everything else comes from the task
// sheet and the environment.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one batch pass over the tasks due right now",
	Long: `Reads the task table, filters to the tasks whose scheduled time matches
the current hour and minute, and processes each: idle-issue cleanup, label
fetches, report logging and Slack notification.

Environment variables:
  GITHUB_TOKEN          Required. Token with repo scope.
  GITHUB_API_ENDPOINT   Optional GitHub Enterprise API base URL.
  SLACK_TOKEN           Bot token for posting notifications.
  SHEET_ID              Google spreadsheet holding the task table.
  GOOGLE_API_KEY        Key for the Sheets and Calendar APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBatch()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runAt, "at", "", "Evaluate schedules at this time instead of now (HH:MM, for testing)")
	runCmd.Flags().BoolVar(&runNoNotify, "no-notify", false, "Record to the report sheet but skip Slack")
}

func runBatch() {
	ctx := context.Background()

	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	now := resolveNow(cfg.Now)

	store, err := openStore(ctx, cfg)
	if err != nil {
		// The run cannot start without its config store.
		log.Fatalf("failed to open task sheet: %v", err)
	}

	rows, err := store.ListTaskRows(ctx)
	if err != nil {
		log.Fatalf("failed to read task rows: %v", err)
	}

	res := schedule.Due(rows, now)
	for row, defects := range res.Defects {
		for _, d := range defects {
			log.Printf("[schedule] row %d: %s", row+2, d)
		}
	}
	if len(res.Tasks) == 0 {
		if verbose {
			fmt.Printf("No tasks due at %s\n", now.Format("15:04"))
		}
		return
	}

	gh, err := github.NewClient(ctx, cfg.GitHub.Token, cfg.GitHub.APIEndpoint)
	if err != nil {
		log.Fatalf("failed to create GitHub client: %v", err)
	}

	r := runner.New(gh, store, newHolidayChecker(ctx, cfg),
		cfg.Holiday.Skip, cfg.ProactiveLabel, now)
	if r.SkipToday(ctx) {
		return
	}

	var notifier *notify.Notifier
	if !runNoNotify && cfg.Slack.Token != "" {
		sl := slack.NewClient(cfg.Slack.Token, cfg.Slack.Username, cfg.Slack.IconEmoji)
		notifier = notify.New(sl, cfg.Slack.TextDefault, cfg.Slack.TextEmpty, cfg.Slack.TextSuffix, now)
	}

	bar := progressbar.NewOptions(len(res.Tasks),
		progressbar.OptionSetDescription("Tasks"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(!verbose),
	)
	for _, t := range res.Tasks {
		r.RunTask(ctx, t)
		if notifier != nil {
			notifier.Send(ctx, t)
		}
		bar.Add(1)
	}
	fmt.Printf("\n✓ Processed %d tasks\n", len(res.Tasks))
}

// loadConfig resolves the config file (explicit flag, then standard
// locations) and falls back to pure environment configuration.
func loadConfig() *config.Config {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if verbose {
			fmt.Println("No configuration file found. Using environment variables.")
		}
		return config.FromEnv()
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Warning: failed to load config from %s: %v. Using environment.\n", path, err)
		return config.FromEnv()
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", path)
	}
	return cfg
}

// openStore picks the task sheet backend: a local workbook when configured,
// Google Sheets otherwise.
func openStore(ctx context.Context, cfg *config.Config) (sheets.Store, error) {
	if cfg.Sheets.Workbook != "" {
		return sheets.NewXLSXStore(cfg.Sheets.Workbook, cfg.Sheets.ConfigTab, cfg.Sheets.ReportTab)
	}
	return sheets.NewGoogleStore(ctx, cfg.Sheets.ID, cfg.Sheets.APIKey, cfg.Sheets.ConfigTab, cfg.Sheets.ReportTab)
}

// newHolidayChecker returns the calendar-backed checker when an API key is
// available, else the weekend-only one.
func newHolidayChecker(ctx context.Context, cfg *config.Config) holiday.Checker {
	if cfg.Holiday.APIKey != "" {
		c, err := holiday.NewCalendarChecker(ctx, cfg.Holiday.CalendarID, cfg.Holiday.APIKey)
		if err == nil {
			return c
		}
		log.Printf("[holiday] falling back to weekend-only check: %v", err)
	}
	return holiday.WeekendChecker{}
}

// resolveNow applies the --at override onto the loaded clock.
func resolveNow(now time.Time) time.Time {
	if runAt == "" {
		return now
	}
	at, err := time.ParseInLocation("15:04", runAt, now.Location())
	if err != nil {
		fmt.Printf("Warning: invalid --at value %q, using current time\n", runAt)
		return now
	}
	return time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
}
