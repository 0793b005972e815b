package logbook

import (
	"testing"
	"time"

	"github.com/2beens/vibefit/internal/workout"

	"github.com/stretchr/testify/assert"
)

var taipei = time.FixedZone("CST", 8*60*60)

func TestRows(t *testing.T) {
	entry := workout.LogEntry{
		Timestamp: time.Date(2025, 3, 14, 10, 5, 9, 0, time.UTC),
		Exercise:  "深蹲 (Squat)",
		Weight:    62.5,
		Reps:      5,
		RPE:       8,
		Failure:   false,
	}

	assert.Equal(t,
		[]interface{}{"2025-03-14 18:05:09", "深蹲 (Squat)", 62.5, 5, 8, false},
		CoachRow(entry, taipei),
	)
	assert.Equal(t,
		[]interface{}{"18:05:09", "2025-03-14", "深蹲 (Squat)", 62.5, 5, 8, "No"},
		QuickRow(entry, taipei),
	)

	entry.Failure = true
	assert.Equal(t, true, CoachRow(entry, taipei)[5])
	assert.Equal(t, "Yes", QuickRow(entry, taipei)[6])

	// the local date is used for the date column
	entry.Timestamp = time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-15", QuickRow(entry, taipei)[1])
}

func TestRowFormatFor(t *testing.T) {
	entry := workout.LogEntry{Exercise: "跑步", Timestamp: time.Now()}
	assert.Len(t, RowFormatFor(workout.ModeCoach)(entry, nil), 6)
	assert.Len(t, RowFormatFor(workout.ModeQuick)(entry, nil), 7)
}
