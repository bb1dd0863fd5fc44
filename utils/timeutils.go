package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"planora-project/backend/models"
)

// Named date windows used by the Today/Upcoming views. Windows are always
// computed from an explicit "now" so callers (and tests) control the clock.
const (
	RangeTomorrow  = "tomorrow"
	RangeThisWeek  = "this-week"
	RangeThisMonth = "this-month"
	RangeThisYear  = "this-year"
)

// Weeks start on Monday throughout.

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday == 0
	return StartOfDay(t).AddDate(0, 0, -offset)
}

func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

func EndOfYear(t time.Time) time.Time {
	return StartOfYear(t).AddDate(1, 0, 0).Add(-time.Nanosecond)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WeekOfMonth returns the 1-based calendar row of t within its month, with
// weeks starting on Monday.
func WeekOfMonth(t time.Time) int {
	first := StartOfMonth(t)
	offset := (int(first.Weekday()) + 6) % 7
	return (t.Day()-1+offset)/7 + 1
}

// RangeWindow maps a named range to its [start, end] window relative to now.
// Unknown names report ok=false; callers treat that as "no filtering".
func RangeWindow(bucket string, now time.Time) (start, end time.Time, ok bool) {
	switch bucket {
	case RangeTomorrow:
		tomorrow := now.AddDate(0, 0, 1)
		return StartOfDay(tomorrow), EndOfDay(tomorrow), true
	case RangeThisWeek:
		return StartOfWeek(now), EndOfWeek(now), true
	case RangeThisMonth:
		return StartOfMonth(now), EndOfMonth(now), true
	case RangeThisYear:
		return StartOfYear(now), EndOfYear(now), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// SpanLabel renders a task span as the short display string for the given
// range tab. Pure function: same inputs always produce the same label, so
// callers may memoize. Unknown tabs yield an empty string, not an error.
func SpanLabel(t models.TaskTime, bucket string) string {
	start, end := t.Start, t.End

	switch bucket {
	case RangeTomorrow:
		fullDay := t.AllDay ||
			(sameDay(start, end) && start.Equal(StartOfDay(start)) && end.Equal(EndOfDay(end)))
		if fullDay {
			return "All Day"
		}
		return start.Format("15:04") + " - " + end.Format("15:04")

	case RangeThisWeek:
		if t.AllDay || sameDay(start, end) {
			return start.Weekday().String()
		}
		return start.Format("Mon") + "-" + end.Format("Mon")

	case RangeThisMonth:
		startWeek := WeekOfMonth(start)
		endWeek := WeekOfMonth(end)
		if startWeek == endWeek {
			return fmt.Sprintf("Week %d", startWeek)
		}
		return fmt.Sprintf("Week %d - Week %d", startWeek, endWeek)

	case RangeThisYear:
		if sameMonth(start, end) {
			return start.Month().String()
		}
		return start.Format("Jan") + "-" + end.Format("Jan")
	}

	return ""
}

// LocalTimeState mirrors the task sheet's editable time fields: calendar
// dates and "HH:mm" clock strings are adjusted independently, then combined
// back into a TaskTime.
type LocalTimeState struct {
	StartDate    time.Time
	EndDate      time.Time
	StartTime    string
	EndTime      string
	AllDay       bool
	TimeEstimate string
}

type ChangedField string

const (
	FieldStartDate ChangedField = "startDate"
	FieldEndDate   ChangedField = "endDate"
	FieldStartTime ChangedField = "startTime"
	FieldEndTime   ChangedField = "endTime"
)

func timeToMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

func minutesToTime(minutes int) string {
	hours := (minutes / 60) % 24
	mins := minutes % 60
	return fmt.Sprintf("%02d:%02d", hours, mins)
}

func addOneHour(clock string) string {
	return minutesToTime(timeToMinutes(clock) + 60)
}

func subtractOneHour(clock string) string {
	minutes := timeToMinutes(clock) - 60
	if minutes < 0 {
		minutes = 0
	}
	return minutesToTime(minutes)
}

// AdjustTimes re-derives a consistent {start, end} pair after one field
// changed, following last-write-wins on the other endpoint: the edited field
// is kept and its counterpart is pushed or pulled by one hour when the span
// would otherwise invert. Hour shifts wrap at 24:00 and never move the date
// fields; only explicit date edits do.
func AdjustTimes(
	startDate, endDate time.Time,
	startTime, endTime string,
	changed ChangedField,
) (time.Time, time.Time, string, string) {
	adjStartDate := startDate
	adjEndDate := endDate
	if adjEndDate.IsZero() {
		adjEndDate = startDate
	}
	adjStartTime := startTime
	adjEndTime := endTime

	endBeforeStart := StartOfDay(adjEndDate).Before(StartOfDay(adjStartDate))
	sameDate := sameDay(adjStartDate, adjEndDate)
	startMinutes := timeToMinutes(adjStartTime)
	endMinutes := timeToMinutes(adjEndTime)

	switch changed {
	case FieldStartDate:
		if endBeforeStart {
			adjEndDate = adjStartDate
			adjEndTime = addOneHour(adjStartTime)
		} else if sameDate && startMinutes >= endMinutes {
			adjEndTime = addOneHour(adjStartTime)
		}

	case FieldEndDate:
		if endBeforeStart {
			adjStartDate = adjEndDate
			adjStartTime = subtractOneHour(adjEndTime)
		} else if sameDate && endMinutes <= startMinutes {
			adjStartTime = subtractOneHour(adjEndTime)
		}

	case FieldStartTime:
		if sameDate && startMinutes >= endMinutes {
			adjEndTime = addOneHour(adjStartTime)
		}

	case FieldEndTime:
		if sameDate && endMinutes <= startMinutes {
			adjStartTime = subtractOneHour(adjEndTime)
		}
	}

	return adjStartDate, adjEndDate, adjStartTime, adjEndTime
}

// AdjustTimeState applies AdjustTimes to an edit state. All-day states are
// returned unchanged: no clock-time invariant applies to them.
func AdjustTimeState(state LocalTimeState, changed ChangedField) LocalTimeState {
	if state.AllDay {
		return state
	}
	state.StartDate, state.EndDate, state.StartTime, state.EndTime = AdjustTimes(
		state.StartDate, state.EndDate, state.StartTime, state.EndTime, changed)
	return state
}

// TimeStateFromTaskTime seeds the edit state from a stored span.
func TimeStateFromTaskTime(t models.TaskTime, now time.Time) LocalTimeState {
	startDate := t.Start
	if startDate.IsZero() {
		startDate = now
	}
	endDate := t.End

	endTime := startDate.Format("15:04")
	if !endDate.IsZero() {
		endTime = endDate.Format("15:04")
	}

	estimate := t.TimeEstimate
	if estimate == "" {
		estimate = "1 hrs"
	}

	return LocalTimeState{
		StartDate:    startDate,
		EndDate:      endDate,
		StartTime:    startDate.Format("15:04"),
		EndTime:      endTime,
		AllDay:       t.AllDay,
		TimeEstimate: estimate,
	}
}

func combineDateTime(date time.Time, clock string, allDay bool) time.Time {
	y, m, d := date.Date()
	if allDay || clock == "" {
		// Pin all-day events to noon so a timezone shift cannot move them
		// onto a neighbouring day.
		return time.Date(y, m, d, 12, 0, 0, 0, date.Location())
	}
	minutes := timeToMinutes(clock)
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, date.Location())
}

// TaskTimeFromState combines the edit state back into a stored span.
func TaskTimeFromState(state LocalTimeState) models.TaskTime {
	start := combineDateTime(state.StartDate, state.StartTime, state.AllDay)
	end := start
	if !state.EndDate.IsZero() {
		end = combineDateTime(state.EndDate, state.EndTime, state.AllDay)
	}
	return models.TaskTime{
		Start:        start,
		End:          end,
		TimeEstimate: state.TimeEstimate,
		AllDay:       state.AllDay,
	}
}
