package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogEntry_Summary(t *testing.T) {
	entry := LogEntry{Exercise: "深蹲", Weight: 100, Reps: 5, RPE: 8}
	assert.Equal(t, "[紀錄] 深蹲 100kg x 5下, RPE 8。", entry.Summary())

	entry = LogEntry{Exercise: "臥推", Weight: 62.5, Reps: 3, RPE: 10, Failure: true}
	assert.Equal(t, "[紀錄] 臥推 62.5kg x 3下, RPE 10 (力竭)。", entry.Summary())

	assert.True(t, IsLogSummary(entry.Summary()))
	assert.True(t, UserMessage(entry.Summary()).IsLogSummary())
	assert.False(t, AssistantMessage(entry.Summary()).IsLogSummary())
	assert.False(t, UserMessage("膝蓋有點不舒服怎麼辦?").IsLogSummary())
}

func TestMode(t *testing.T) {
	assert.True(t, ModeCoach.IsValid())
	assert.True(t, ModeQuick.IsValid())
	assert.False(t, Mode("grid").IsValid())
	assert.Equal(t, "quick", ModeQuick.String())
}

func TestMenu(t *testing.T) {
	menu := NewMenu([]MenuItem{
		{Exercise: " 深蹲 ", Weights: []float64{60, 80}},
		{Exercise: ""},
		{Exercise: "深蹲", Weights: []float64{1}},
		{Exercise: "跑步"},
	})

	assert.Equal(t, []string{"深蹲", "跑步"}, menu.Exercises())
	assert.True(t, menu.Has("深蹲"))
	assert.False(t, menu.Has("硬舉"))
	assert.Equal(t, []float64{60, 80}, menu.Weights("深蹲"))
	assert.Nil(t, menu.Weights("跑步"))
	assert.Nil(t, menu.Weights("硬舉"))
	assert.Equal(t, 60.0, menu.FirstWeight("深蹲"))
	assert.Equal(t, 0.0, menu.FirstWeight("跑步"))
}

func TestDefaultMenu(t *testing.T) {
	menu := DefaultMenu()
	assert.Equal(t, []string{"深蹲", "硬舉", "臥推", "肩推", "划船", "分腿蹲", "跑步"}, menu.Exercises())
	assert.Equal(t, menu.Exercises(), MenuFromConfig(nil).Exercises())
}
