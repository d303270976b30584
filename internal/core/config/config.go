// Package config handles loading and merging the notice job configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure. It is built once at startup
// and immutable for the run; Now is captured here and threaded explicitly
// through every time-sensitive computation.
type Config struct {
	// Now is the single point in time the whole run evaluates against.
	// It is not serialized; the loader stamps it.
	Now time.Time `yaml:"-"`

	// GitHub configures the issue provider.
	GitHub GitHubConfig `yaml:"github"`

	// Slack configures the notifier and its fixed text templates.
	Slack SlackConfig `yaml:"slack"`

	// Sheets configures the config/report spreadsheet.
	Sheets SheetsConfig `yaml:"sheets"`

	// Holiday configures the weekend/public-holiday gate.
	Holiday HolidayConfig `yaml:"holiday"`

	// ProactiveLabel marks voluntarily reported issues for the stats metric.
	ProactiveLabel string `yaml:"proactive_label,omitempty"`
}

// GitHubConfig holds issue provider settings.
type GitHubConfig struct {
	Token string `yaml:"token"`
	// APIEndpoint overrides the API base URL for GitHub Enterprise.
	APIEndpoint string `yaml:"api_endpoint,omitempty"`
}

// SlackConfig holds notifier settings and message templates.
type SlackConfig struct {
	Token     string `yaml:"token"`
	Username  string `yaml:"username,omitempty"`
	IconEmoji string `yaml:"icon_emoji,omitempty"`
	// TextSuffix is appended to every message.
	TextSuffix string `yaml:"text_suffix,omitempty"`
	// TextEmpty is the "no issues" marker, also used for de-duplication.
	TextEmpty string `yaml:"text_empty,omitempty"`
	// TextDefault is the lead sentence when there is something to show.
	TextDefault string `yaml:"text_default,omitempty"`
}

// SheetsConfig holds spreadsheet settings. When Workbook is set, the job
// reads the task table from a local .xlsx instead of Google Sheets.
type SheetsConfig struct {
	ID        string `yaml:"id"`
	APIKey    string `yaml:"api_key,omitempty"`
	ConfigTab string `yaml:"config_tab,omitempty"`
	ReportTab string `yaml:"report_tab,omitempty"`
	Workbook  string `yaml:"workbook,omitempty"`
}

// HolidayConfig holds the holiday gate settings.
type HolidayConfig struct {
	// Skip short-circuits the whole run on weekends and public holidays.
	Skip bool `yaml:"skip"`
	// CalendarID is the Google Calendar to consult for public holidays.
	CalendarID string `yaml:"calendar_id,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// DefaultHolidayCalendarID is the Japanese public holiday calendar.
const DefaultHolidayCalendarID = "ja.japanese#holiday@group.v.calendar.google.com"

// Load reads a config file from the given path, expands environment
// variables, applies environment overrides and defaults, and stamps Now.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.Now = time.Now()

	return &cfg, nil
}

// FromEnv builds a config purely from environment variables, for runs
// without a config file.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.Now = time.Now()
	return cfg
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".ghnotice.yaml",
		".ghnotice.yml",
		".github/ghnotice.yaml",
		".github/ghnotice.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyEnv fills unset secrets from the hosting environment.
func (c *Config) applyEnv() {
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.GitHub.APIEndpoint == "" {
		c.GitHub.APIEndpoint = os.Getenv("GITHUB_API_ENDPOINT")
	}
	if c.Slack.Token == "" {
		c.Slack.Token = os.Getenv("SLACK_TOKEN")
	}
	if c.Sheets.ID == "" {
		c.Sheets.ID = os.Getenv("SHEET_ID")
	}
	if c.Sheets.APIKey == "" {
		c.Sheets.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if c.Holiday.APIKey == "" {
		c.Holiday.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Slack.Username == "" {
		c.Slack.Username = "GitHub Issues Notice"
	}
	if c.Slack.IconEmoji == "" {
		c.Slack.IconEmoji = ":octocat:"
	}
	if c.Slack.TextEmpty == "" {
		c.Slack.TextEmpty = "Wow, No issues to notify! We did it! :tada:"
	}
	if c.Slack.TextDefault == "" {
		c.Slack.TextDefault = "Check it out :point_down:"
	}
	if c.Slack.TextSuffix == "" && c.Sheets.ID != "" {
		c.Slack.TextSuffix = fmt.Sprintf(
			" -- <https://docs.google.com/spreadsheets/d/%s/edit|Settings>", c.Sheets.ID)
	}
	if c.Sheets.ConfigTab == "" {
		c.Sheets.ConfigTab = "config"
	}
	if c.Sheets.ReportTab == "" {
		c.Sheets.ReportTab = "report"
	}
	if c.Holiday.CalendarID == "" {
		c.Holiday.CalendarID = DefaultHolidayCalendarID
	}
	if c.ProactiveLabel == "" {
		c.ProactiveLabel = "proactive"
	}
}

// Validate reports the configuration problems that must abort the run.
// Only the stores and credentials the run cannot start without are checked;
// everything else degrades per-operation.
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github token is required (set github.token or GITHUB_TOKEN)")
	}
	if c.Sheets.ID == "" && c.Sheets.Workbook == "" {
		return fmt.Errorf("a task sheet is required (set sheets.id or sheets.workbook)")
	}
	return nil
}
