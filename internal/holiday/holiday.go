// Package holiday decides whether a run falls on a weekend or public
// holiday. The gate is a configuration toggle; the run itself only asks
// the question.
package holiday

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Checker answers the holiday question for a given day.
type Checker interface {
	IsHoliday(ctx context.Context, day time.Time) bool
}

// CalendarChecker combines a weekend check with a public-holiday lookup
// against a Google Calendar (the Japanese holiday calendar by default).
type CalendarChecker struct {
	svc        *calendar.Service
	calendarID string
}

// NewCalendarChecker connects to the Calendar API with an API key. Public
// holiday calendars are world-readable, so a plain key suffices.
func NewCalendarChecker(ctx context.Context, calendarID, apiKey string) (*CalendarChecker, error) {
	svc, err := calendar.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarChecker{svc: svc, calendarID: calendarID}, nil
}

// IsHoliday reports whether day is a Saturday, a Sunday, or has at least
// one event on the holiday calendar. Calendar errors degrade to "not a
// holiday" with a log line, so a flaky lookup never silences a run.
func (c *CalendarChecker) IsHoliday(ctx context.Context, day time.Time) bool {
	if IsWeekend(day) {
		return true
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	events, err := c.svc.Events.List(c.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		MaxResults(1).
		Context(ctx).Do()
	if err != nil {
		log.Printf("[holiday] calendar lookup failed, assuming working day: %v", err)
		return false
	}

	return len(events.Items) > 0
}

// IsWeekend reports whether day is a Saturday or Sunday.
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekendChecker is a Checker with no calendar behind it, for environments
// without Calendar API access.
type WeekendChecker struct{}

func (WeekendChecker) IsHoliday(_ context.Context, day time.Time) bool {
	return IsWeekend(day)
}
