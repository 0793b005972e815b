package workout

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/vibefit/pkg"
)

const (
	MinRPE = 1
	MaxRPE = 10
)

// Mode is the presentation mode a set was logged from. Both modes share one
// data model, they only differ in how the entry is laid out in the remote store.
type Mode string

const (
	ModeCoach Mode = "coach"
	ModeQuick Mode = "quick"
)

func (m Mode) String() string {
	return string(m)
}

func (m Mode) IsValid() bool {
	switch m {
	case ModeCoach, ModeQuick:
		return true
	default:
		return false
	}
}

// LogEntry is one recorded working set. Entries are never mutated after creation.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Exercise  string    `json:"exercise" yaml:"exercise"`
	Weight    float64   `json:"weight" yaml:"weight"`
	Reps      int       `json:"reps" yaml:"reps"`
	RPE       int       `json:"rpe" yaml:"rpe"`
	Failure   bool      `json:"failure" yaml:"failure"`
}

// Summary renders the structured log message forwarded to the coach,
// e.g. "[紀錄] 深蹲 60kg x 5下, RPE 8。"
func (e LogEntry) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s %skg x %d下, RPE %d", SummaryPrefix, e.Exercise, pkg.FormatKilos(e.Weight), e.Reps, e.RPE))
	if e.Failure {
		sb.WriteString(" (力竭)")
	}
	sb.WriteString("。")
	return sb.String()
}

// SummaryPrefix marks user messages generated from a log entry.
const SummaryPrefix = "[紀錄]"

func IsLogSummary(content string) bool {
	return strings.HasPrefix(content, SummaryPrefix)
}
