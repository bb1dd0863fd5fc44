package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type TimeUnit string

const (
	UnitMins   TimeUnit = "mins"
	UnitHours  TimeUnit = "hrs"
	UnitDays   TimeUnit = "days"
	UnitWeeks  TimeUnit = "weeks"
	UnitMonths TimeUnit = "months"
	UnitYears  TimeUnit = "yrs"
)

const (
	DefaultEstimateValue = 1.0
	DefaultEstimateUnit  = UnitHours
)

// TimeEstimate is the structured form of the free-text estimate. It is only
// serialized back to "2 hrs" style strings for display.
type TimeEstimate struct {
	Value float64
	Unit  TimeUnit
}

func (e TimeEstimate) String() string {
	return fmt.Sprintf("%s %s", strconv.FormatFloat(e.Value, 'f', -1, 64), e.Unit)
}

// Hours converts the estimate to hours for reporting.
func (e TimeEstimate) Hours() float64 {
	switch e.Unit {
	case UnitMins:
		return e.Value / 60
	case UnitHours:
		return e.Value
	case UnitDays:
		return e.Value * 24
	case UnitWeeks:
		return e.Value * 24 * 7
	case UnitMonths:
		return e.Value * 24 * 30
	case UnitYears:
		return e.Value * 24 * 365
	}
	return 0
}

var estimateUnits = map[string]TimeUnit{
	"min": UnitMins, "mins": UnitMins,
	"hr": UnitHours, "hrs": UnitHours, "hour": UnitHours, "hours": UnitHours,
	"day": UnitDays, "days": UnitDays,
	"week": UnitWeeks, "weeks": UnitWeeks,
	"month": UnitMonths, "months": UnitMonths,
	"yr": UnitYears, "yrs": UnitYears, "year": UnitYears, "years": UnitYears,
}

// ParseTimeEstimate parses "2 hrs" style strings. Unparseable input falls
// back to the default estimate rather than failing: estimates are cosmetic
// reporting data and must never block a mutation.
func ParseTimeEstimate(input string) TimeEstimate {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(parts) != 2 {
		return TimeEstimate{Value: DefaultEstimateValue, Unit: DefaultEstimateUnit}
	}

	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil || value < 0 {
		value = DefaultEstimateValue
	}

	unit, ok := estimateUnits[parts[1]]
	if !ok {
		unit = DefaultEstimateUnit
	}

	return TimeEstimate{Value: value, Unit: unit}
}

// ParseTimeEstimateToHours returns the estimate in hours, or 0 when the
// input does not look like an estimate at all.
func ParseTimeEstimateToHours(input string) float64 {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(parts) != 2 {
		return 0
	}
	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	unit, ok := estimateUnits[parts[1]]
	if !ok {
		return 0
	}
	return TimeEstimate{Value: value, Unit: unit}.Hours()
}

// TimeLeft reports the remaining time between two instants in the largest
// sensible unit, or "missed" when the end is already behind the start.
func TimeLeft(from, to time.Time) string {
	if to.Before(from) {
		return "missed"
	}

	d := to.Sub(from)
	days := int(d.Hours() / 24)

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	switch {
	case days >= 365:
		return plural(days/365, "year")
	case days >= 30:
		return plural(days/30, "month")
	case days >= 7:
		return plural(days/7, "week")
	case days >= 1:
		return plural(days, "day")
	case d >= time.Hour:
		return plural(int(d.Hours()), "hour")
	case d >= time.Minute:
		return plural(int(d.Minutes()), "minute")
	}
	return "less than a minute"
}
