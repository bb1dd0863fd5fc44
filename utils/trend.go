package utils

import (
	"fmt"
	"time"
)

// Trend granularities for the category metrics dashboard.
const (
	TrendWeek  = "week"
	TrendMonth = "month"
	TrendYear  = "year"
)

// TrendRange is one labelled sub-window of a trend series.
type TrendRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// TrendRanges slices the period around now into the chart buckets: the seven
// days of the current week, four weeks of the current month, or the trailing
// twelve months. Unknown granularities yield nil.
func TrendRanges(granularity string, now time.Time) []TrendRange {
	switch granularity {
	case TrendWeek:
		start := StartOfWeek(now)
		out := make([]TrendRange, 0, 7)
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			out = append(out, TrendRange{
				Start: StartOfDay(day),
				End:   EndOfDay(day),
				Label: day.Format("Jan 2"),
			})
		}
		return out

	case TrendMonth:
		start := StartOfMonth(now)
		out := make([]TrendRange, 0, 4)
		for i := 0; i < 4; i++ {
			wkStart := StartOfWeek(start.AddDate(0, 0, i*7))
			out = append(out, TrendRange{
				Start: wkStart,
				End:   EndOfDay(wkStart.AddDate(0, 0, 6)),
				Label: fmt.Sprintf("W%d", i+1),
			})
		}
		return out

	case TrendYear:
		out := make([]TrendRange, 0, 12)
		for m := 0; m < 12; m++ {
			month := now.AddDate(0, -(11 - m), 0)
			out = append(out, TrendRange{
				Start: StartOfMonth(month),
				End:   EndOfMonth(month),
				Label: month.Format("Jan"),
			})
		}
		return out
	}
	return nil
}
