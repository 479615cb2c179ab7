package teleport

import (
	"math"
	"time"
)

// StartTimeLayout formats Summary.StartTime as UTC ISO-8601 with milliseconds.
const StartTimeLayout = "2006-01-02T15:04:05.000Z"

// Summary is the flat, serialisable view of a closed session.
type Summary struct {
	Index                 int            `json:"index"`
	Player                string         `json:"player"`
	StartTime             string         `json:"startTime"`
	DurationSeconds       int64          `json:"durationSeconds"`
	PlannedDwellSeconds   *int64         `json:"plannedDwellSeconds"`
	Origin                *Point         `json:"origin"`
	GoalCount             int            `json:"goalCount"`
	AvgDistanceFromOrigin *float64       `json:"avgDistanceFromOrigin"`
	MaxDistanceFromOrigin *float64       `json:"maxDistanceFromOrigin"`
	ModeCounts            map[string]int `json:"modeCounts"`
}

// Report wraps the summaries for external consumption.
type Report struct {
	Sessions []Summary `json:"sessions"`
}

// Summarize maps each closed session to a Summary. Index is the 1-based
// position in sessions.
func Summarize(sessions []Session) Report {
	out := make([]Summary, 0, len(sessions))
	for i, s := range sessions {
		out = append(out, summarizeSession(i+1, s))
	}
	return Report{Sessions: out}
}

func summarizeSession(index int, s Session) Summary {
	sum := Summary{
		Index:           index,
		Player:          s.Player,
		StartTime:       s.StartTime.UTC().Format(StartTimeLayout),
		DurationSeconds: roundHalfUp(float64(s.EndTime.Sub(s.StartTime).Milliseconds()) / 1000),
		GoalCount:       len(s.Goals),
		ModeCounts:      make(map[string]int, len(s.ModeCounts)),
	}

	if s.DwellPlanned != nil {
		planned := roundHalfUp(float64(*s.DwellPlanned) / float64(time.Second))
		sum.PlannedDwellSeconds = &planned
	}
	if s.Origin != nil {
		sum.Origin = s.Origin.clone()
	}
	for mode, n := range s.ModeCounts {
		sum.ModeCounts[mode] = n
	}

	var total, maxDist float64
	var n int
	for _, g := range s.Goals {
		if g.DistanceFromOrigin == nil {
			continue
		}
		d := *g.DistanceFromOrigin
		if n == 0 || d > maxDist {
			maxDist = d
		}
		total += d
		n++
	}
	if n > 0 {
		avg := round2(total / float64(n))
		maxRounded := round2(maxDist)
		sum.AvgDistanceFromOrigin = &avg
		sum.MaxDistanceFromOrigin = &maxRounded
	}

	return sum
}

// roundHalfUp rounds to the nearest integer, with .5 going towards +Inf.
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
