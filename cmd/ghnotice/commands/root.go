// Package commands wires the ghnotice CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ghnotice",
	Short: "Notify labeled GitHub issues to Slack on a schedule",
	Long: `ghnotice scans configured GitHub repositories for issues and pull
requests matching label rules, posts summaries to Slack channels, closes
issues idle beyond a configured period, and appends discovered issues to a
report sheet.

The task table lives in a spreadsheet (Google Sheets or a local workbook):
one row per task with channels, schedule times, mentions, repositories and
label rules. An external timer triggers 'ghnotice run' and the job picks up
whichever tasks are due at that moment.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Printf("Warning: failed to load %s: %v\n", envFile, err)
			}
		} else {
			// A .env next to the binary is picked up when present.
			_ = godotenv.Load()
		}
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: .ghnotice.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file with secrets")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}
