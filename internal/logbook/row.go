package logbook

import (
	"time"

	"github.com/2beens/vibefit/internal/workout"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
)

// RowFormat lays a log entry out as one spreadsheet row.
type RowFormat func(entry workout.LogEntry, loc *time.Location) []interface{}

// CoachRow: timestamp, exercise, weight, reps, RPE, failure.
func CoachRow(entry workout.LogEntry, loc *time.Location) []interface{} {
	ts := inLocation(entry.Timestamp, loc)
	return []interface{}{
		ts.Format(timestampLayout),
		entry.Exercise,
		entry.Weight,
		entry.Reps,
		entry.RPE,
		entry.Failure,
	}
}

// QuickRow: time, date, exercise, weight, reps, RPE, "Yes"/"No".
func QuickRow(entry workout.LogEntry, loc *time.Location) []interface{} {
	ts := inLocation(entry.Timestamp, loc)
	return []interface{}{
		ts.Format(timeLayout),
		ts.Format(dateLayout),
		entry.Exercise,
		entry.Weight,
		entry.Reps,
		entry.RPE,
		yesNo(entry.Failure),
	}
}

func RowFormatFor(mode workout.Mode) RowFormat {
	if mode == workout.ModeQuick {
		return QuickRow
	}
	return CoachRow
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
