package utils

import (
	"testing"
	"time"

	"planora-project/backend/models"
)

// Wednesday, June 11 2025. The surrounding week runs Mon Jun 9 – Sun Jun 15.
var testNow = time.Date(2025, time.June, 11, 14, 30, 0, 0, time.UTC)

func day(d, hour, min int) time.Time {
	return time.Date(2025, time.June, d, hour, min, 0, 0, time.UTC)
}

func TestRangeWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bucket    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{RangeTomorrow, day(12, 0, 0), day(12, 0, 0).Add(24*time.Hour - time.Nanosecond)},
		{RangeThisWeek, day(9, 0, 0), day(16, 0, 0).Add(-time.Nanosecond)},
		{RangeThisMonth, day(1, 0, 0), time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)},
		{RangeThisYear, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)},
	}

	for _, tt := range tests {
		start, end, ok := RangeWindow(tt.bucket, testNow)
		if !ok {
			t.Fatalf("RangeWindow(%q) reported not ok", tt.bucket)
		}
		if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
			t.Errorf("RangeWindow(%q) = [%v, %v], want [%v, %v]",
				tt.bucket, start, end, tt.wantStart, tt.wantEnd)
		}
	}

	if _, _, ok := RangeWindow("next-quarter", testNow); ok {
		t.Error("unknown bucket should report not ok")
	}
}

func TestWeekOfMonth(t *testing.T) {
	t.Parallel()

	// June 2025 starts on a Sunday, so with Monday week-start June 1 sits
	// alone in week 1 and June 2 opens week 2.
	tests := []struct {
		day  int
		want int
	}{
		{1, 1},
		{2, 2},
		{8, 2},
		{9, 3},
		{11, 3},
		{30, 6},
	}
	for _, tt := range tests {
		if got := WeekOfMonth(day(tt.day, 12, 0)); got != tt.want {
			t.Errorf("WeekOfMonth(June %d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestSpanLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		time   models.TaskTime
		bucket string
		want   string
	}{
		{
			name:   "tomorrow all day flag",
			time:   models.TaskTime{Start: day(12, 9, 0), End: day(12, 10, 0), AllDay: true},
			bucket: RangeTomorrow,
			want:   "All Day",
		},
		{
			name:   "tomorrow midnight to midnight",
			time:   models.TaskTime{Start: StartOfDay(day(12, 0, 0)), End: EndOfDay(day(12, 0, 0))},
			bucket: RangeTomorrow,
			want:   "All Day",
		},
		{
			name:   "tomorrow clock times",
			time:   models.TaskTime{Start: day(12, 9, 15), End: day(12, 17, 45)},
			bucket: RangeTomorrow,
			want:   "09:15 - 17:45",
		},
		{
			name:   "week single day full weekday",
			time:   models.TaskTime{Start: day(11, 9, 0), End: day(11, 10, 0)},
			bucket: RangeThisWeek,
			want:   "Wednesday",
		},
		{
			name:   "week monday task",
			time:   models.TaskTime{Start: day(9, 9, 0), End: day(9, 10, 0)},
			bucket: RangeThisWeek,
			want:   "Monday",
		},
		{
			name:   "week multi day abbreviated",
			time:   models.TaskTime{Start: day(11, 9, 0), End: day(12, 9, 0)},
			bucket: RangeThisWeek,
			want:   "Wed-Thu",
		},
		{
			name:   "month same week",
			time:   models.TaskTime{Start: day(10, 9, 0), End: day(11, 9, 0)},
			bucket: RangeThisMonth,
			want:   "Week 3",
		},
		{
			name:   "month week span",
			time:   models.TaskTime{Start: day(2, 9, 0), End: day(11, 9, 0)},
			bucket: RangeThisMonth,
			want:   "Week 2 - Week 3",
		},
		{
			name:   "year same month",
			time:   models.TaskTime{Start: day(2, 9, 0), End: day(20, 9, 0)},
			bucket: RangeThisYear,
			want:   "June",
		},
		{
			name: "year month span",
			time: models.TaskTime{
				Start: time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC),
			},
			bucket: RangeThisYear,
			want:   "Jan-Feb",
		},
		{
			name:   "unknown bucket",
			time:   models.TaskTime{Start: day(11, 9, 0), End: day(11, 10, 0)},
			bucket: "someday",
			want:   "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SpanLabel(tt.time, tt.bucket); got != tt.want {
				t.Errorf("SpanLabel(%s) = %q, want %q", tt.bucket, got, tt.want)
			}
		})
	}
}

func TestAdjustTimesStartDateSnapsEnd(t *testing.T) {
	t.Parallel()

	// Moving the start past the end snaps the end date and pushes the end
	// clock one hour past the start.
	startDate, endDate, startTime, endTime := AdjustTimes(
		day(20, 0, 0), day(15, 0, 0), "09:00", "10:00", FieldStartDate)

	if !endDate.Equal(day(20, 0, 0)) {
		t.Errorf("end date = %v, want %v", endDate, day(20, 0, 0))
	}
	if endTime != "10:00" {
		t.Errorf("end time = %q, want %q", endTime, "10:00")
	}
	if !startDate.Equal(day(20, 0, 0)) || startTime != "09:00" {
		t.Errorf("start should be untouched, got %v %q", startDate, startTime)
	}
}

func TestAdjustTimesSameDayStartTimePushesEnd(t *testing.T) {
	t.Parallel()

	_, _, startTime, endTime := AdjustTimes(
		day(11, 0, 0), day(11, 0, 0), "15:00", "14:00", FieldStartTime)

	if startTime != "15:00" || endTime != "16:00" {
		t.Errorf("got start %q end %q, want 15:00 / 16:00", startTime, endTime)
	}
}

func TestAdjustTimesHourWrapsAtMidnight(t *testing.T) {
	t.Parallel()

	// The pushed end wraps modulo 24h without moving the date fields.
	startDate, endDate, _, endTime := AdjustTimes(
		day(11, 0, 0), day(11, 0, 0), "23:30", "22:00", FieldStartTime)

	if endTime != "00:30" {
		t.Errorf("end time = %q, want 00:30", endTime)
	}
	if !startDate.Equal(day(11, 0, 0)) || !endDate.Equal(day(11, 0, 0)) {
		t.Error("dates must not move on a clock-time adjustment")
	}
}

func TestAdjustTimesEndTimeFloorsStart(t *testing.T) {
	t.Parallel()

	_, _, startTime, endTime := AdjustTimes(
		day(11, 0, 0), day(11, 0, 0), "09:00", "00:30", FieldEndTime)

	if startTime != "00:00" {
		t.Errorf("start time = %q, want floor at 00:00", startTime)
	}
	if endTime != "00:30" {
		t.Errorf("end time = %q, want 00:30", endTime)
	}
}

func TestAdjustTimesEndDateSnapsStart(t *testing.T) {
	t.Parallel()

	startDate, _, startTime, _ := AdjustTimes(
		day(20, 0, 0), day(15, 0, 0), "09:00", "10:00", FieldEndDate)

	if !startDate.Equal(day(15, 0, 0)) {
		t.Errorf("start date = %v, want snapped to %v", startDate, day(15, 0, 0))
	}
	if startTime != "09:00" {
		t.Errorf("start time = %q, want 09:00", startTime)
	}
}

func TestAdjustTimeStateAllDayIsNoop(t *testing.T) {
	t.Parallel()

	state := LocalTimeState{
		StartDate: day(20, 0, 0),
		EndDate:   day(15, 0, 0),
		StartTime: "22:00",
		EndTime:   "01:00",
		AllDay:    true,
	}

	for _, field := range []ChangedField{FieldStartDate, FieldEndDate, FieldStartTime, FieldEndTime} {
		if got := AdjustTimeState(state, field); got != state {
			t.Errorf("all-day state changed on %s: %+v", field, got)
		}
	}
}

func TestAdjustTimesInvariantHolds(t *testing.T) {
	t.Parallel()

	// After any adjustment, the combined end instant never precedes the
	// combined start instant.
	cases := []struct {
		startDate, endDate time.Time
		startTime, endTime string
		changed            ChangedField
	}{
		{day(20, 0, 0), day(15, 0, 0), "09:00", "10:00", FieldStartDate},
		{day(20, 0, 0), day(15, 0, 0), "09:00", "10:00", FieldEndDate},
		{day(11, 0, 0), day(11, 0, 0), "18:00", "08:00", FieldStartTime},
		{day(11, 0, 0), day(11, 0, 0), "18:00", "08:00", FieldEndTime},
		{day(11, 0, 0), time.Time{}, "10:00", "10:00", FieldStartTime},
	}

	for _, tc := range cases {
		sd, ed, st, et := AdjustTimes(tc.startDate, tc.endDate, tc.startTime, tc.endTime, tc.changed)
		span := TaskTimeFromState(LocalTimeState{
			StartDate: sd, EndDate: ed, StartTime: st, EndTime: et,
		})
		if span.End.Before(span.Start) {
			t.Errorf("invariant violated for %s: start %v end %v", tc.changed, span.Start, span.End)
		}
	}
}

func TestTimeStateRoundTrip(t *testing.T) {
	t.Parallel()

	span := models.TaskTime{
		Start:        day(11, 9, 30),
		End:          day(12, 17, 0),
		TimeEstimate: "2 hrs",
	}

	state := TimeStateFromTaskTime(span, testNow)
	back := TaskTimeFromState(state)

	if !back.Start.Equal(span.Start) || !back.End.Equal(span.End) {
		t.Errorf("round trip changed span: %v-%v vs %v-%v", back.Start, back.End, span.Start, span.End)
	}
	if back.TimeEstimate != "2 hrs" {
		t.Errorf("estimate = %q, want 2 hrs", back.TimeEstimate)
	}
}

func TestTaskTimeFromStateAllDayPinsNoon(t *testing.T) {
	t.Parallel()

	span := TaskTimeFromState(LocalTimeState{
		StartDate: day(11, 0, 0),
		EndDate:   day(12, 0, 0),
		StartTime: "09:00",
		EndTime:   "10:00",
		AllDay:    true,
	})

	if span.Start.Hour() != 12 || span.End.Hour() != 12 {
		t.Errorf("all-day span not pinned to noon: %v - %v", span.Start, span.End)
	}
}
