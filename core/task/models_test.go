package task

import (
	"testing"
	"time"
)

func TestTask_DateWindowContains(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)
	tsk := Task{StartDate: start, EndDate: end}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "before start", now: start.Add(-time.Second)},
		{name: "at start", now: start, want: true},
		{name: "inside", now: start.AddDate(0, 0, 5), want: true},
		{name: "at end", now: end, want: true},
		{name: "after end", now: end.Add(time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tsk.DateWindowContains(tt.now); got != tt.want {
				t.Errorf("DateWindowContains(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestTask_TimeWindowContains(t *testing.T) {
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local)
	tsk := Task{StartTime: "08:00:00", EndTime: "17:00:00"}

	tests := []struct {
		name  string
		clock time.Duration
		want  bool
	}{
		{name: "before opening", clock: 7*time.Hour + 59*time.Minute + 59*time.Second},
		{name: "at opening", clock: 8 * time.Hour, want: true},
		{name: "midday", clock: 12 * time.Hour, want: true},
		{name: "at closing", clock: 17 * time.Hour, want: true},
		{name: "one second past closing", clock: 17*time.Hour + time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tsk.TimeWindowContains(day.Add(tt.clock)); got != tt.want {
				t.Errorf("TimeWindowContains(%v) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}

	t.Run("window crossing midnight never matches", func(t *testing.T) {
		inverted := Task{StartTime: "22:00:00", EndTime: "02:00:00"}
		for _, clock := range []time.Duration{23 * time.Hour, time.Hour, 12 * time.Hour} {
			if inverted.TimeWindowContains(day.Add(clock)) {
				t.Errorf("TimeWindowContains(%v) = true on an inverted window", clock)
			}
		}
	})
}
