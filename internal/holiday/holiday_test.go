package holiday

import (
	"context"
	"testing"
	"time"
)

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"monday", time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), false},
		{"friday", time.Date(2026, 9, 4, 9, 0, 0, 0, time.UTC), false},
		{"saturday", time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC), true},
		{"sunday", time.Date(2026, 9, 6, 9, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.day); got != tt.want {
				t.Errorf("IsWeekend(%s) = %v, want %v", tt.day.Weekday(), got, tt.want)
			}
		})
	}
}

func TestWeekendChecker(t *testing.T) {
	c := WeekendChecker{}
	workday := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 5, 9, 0, 0, 0, time.UTC)

	if c.IsHoliday(context.Background(), workday) {
		t.Error("tuesday should not be a holiday")
	}
	if !c.IsHoliday(context.Background(), saturday) {
		t.Error("saturday should be a holiday")
	}
}
