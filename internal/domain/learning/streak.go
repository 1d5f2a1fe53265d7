package learning

import (
	"strings"
	"time"
	_ "time/tzdata"
)

const DayKeyLayout = "2006-01-02"

// StreakState is the per-learner consecutive-day counter.
type StreakState struct {
	Current          int    `json:"current"`
	Longest          int    `json:"longest"`
	LastActiveDayKey string `json:"last_active_day_key,omitempty"`
}

// LoadLocation resolves an IANA zone name, falling back to UTC for empty or unknown names.
func LoadLocation(tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

// DayKey is the calendar day of instant in tz, formatted as YYYY-MM-DD.
func DayKey(instant time.Time, tz string) string {
	return instant.In(LoadLocation(tz)).Format(DayKeyLayout)
}

// PreviousDayKey returns the calendar day before dayKey. Date arithmetic is done on the
// civil date so DST transitions do not skip or repeat a day.
func PreviousDayKey(dayKey string) string {
	d, err := time.Parse(DayKeyLayout, dayKey)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(DayKeyLayout)
}

// NextStreak applies one activity at instant to state. changed is false when the
// activity falls on a day already counted.
func NextStreak(state StreakState, instant time.Time, tz string) (next StreakState, changed bool) {
	today := DayKey(instant, tz)
	if state.LastActiveDayKey == today {
		return state, false
	}
	next = state
	if state.LastActiveDayKey != "" && state.LastActiveDayKey == PreviousDayKey(today) {
		next.Current = state.Current + 1
	} else {
		next.Current = 1
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.LastActiveDayKey = today
	return next, true
}
