package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ghnotice/ghnotice/internal/core/schedule"
)

var dueAt string

// dueCmd represents the due command, a dry inspection of the schedule.
var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show which tasks would run at a given time",
	Long: `Reads the task table and prints the tasks whose scheduled time matches
the given (or current) hour and minute, without contacting GitHub or Slack.
Useful for checking a new row before its first real run.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDue()
	},
}

func init() {
	rootCmd.AddCommand(dueCmd)

	dueCmd.Flags().StringVar(&dueAt, "at", "", "Evaluate schedules at this time instead of now (HH:MM)")
}

func runDue() {
	ctx := context.Background()

	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	runAt = dueAt
	now := resolveNow(cfg.Now)

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open task sheet: %v", err)
	}
	rows, err := store.ListTaskRows(ctx)
	if err != nil {
		log.Fatalf("failed to read task rows: %v", err)
	}

	res := schedule.Due(rows, now)
	for row, defects := range res.Defects {
		for _, d := range defects {
			fmt.Printf("row %d defect -- %s\n", row+2, d)
		}
	}

	fmt.Printf("%d of %d rows due at %s\n", len(res.Tasks), len(rows), now.Format("15:04"))
	for i, t := range res.Tasks {
		labels := make([]string, 0, len(t.Labels))
		for _, l := range t.Labels {
			labels = append(labels, l.Name)
		}
		fmt.Printf("%2d. channels=%s repos=%s labels=%s idle=%dd\n",
			i+1,
			strings.Join(t.Channels, ","),
			strings.Join(t.Repos, ","),
			strings.Join(labels, ","),
			t.Idle.Period,
		)
	}
}
