package teleport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_EndToEnd(t *testing.T) {
	origin := NewPoint(0, 0, 0)
	tpOrigin := NewPoint(0, 0, 0)
	g := goal(at(1500*time.Millisecond), "P1", NewPoint(3, 4, 0), "walk")
	g.TPOrigin = &tpOrigin

	report := Summarize(Reconstruct([]Event{
		start(t0, "P1", &origin),
		g,
		left(at(12500*time.Millisecond), "P1"),
	}))

	require.Len(t, report.Sessions, 1)
	sum := report.Sessions[0]
	assert.Equal(t, 1, sum.Index)
	assert.Equal(t, "P1", sum.Player)
	assert.Equal(t, "2025-03-01T12:00:00.000Z", sum.StartTime)
	assert.Equal(t, int64(13), sum.DurationSeconds, "12.5s rounds half up")
	assert.Nil(t, sum.PlannedDwellSeconds)
	require.NotNil(t, sum.Origin)
	assert.Equal(t, origin, *sum.Origin)
	assert.Equal(t, 1, sum.GoalCount)
	require.NotNil(t, sum.AvgDistanceFromOrigin)
	require.NotNil(t, sum.MaxDistanceFromOrigin)
	assert.Equal(t, 5.0, *sum.AvgDistanceFromOrigin)
	assert.Equal(t, 5.0, *sum.MaxDistanceFromOrigin)
	assert.Equal(t, map[string]int{"walk": 1}, sum.ModeCounts)
}

func TestSummarize_DistanceStats(t *testing.T) {
	origin := NewPoint(0, 0, 0)
	report := Summarize(Reconstruct([]Event{
		start(t0, "P1", &origin),
		goal(at(time.Second), "P1", NewPoint(1, 1, 0), "walk"),
		goal(at(2*time.Second), "P1", NewPoint(3, 4, 0), "walk"),
		goal(at(3*time.Second), "P1", NewPoint(0, 0, 2), "fly"),
	}))

	require.Len(t, report.Sessions, 1)
	sum := report.Sessions[0]
	assert.Equal(t, 3, sum.GoalCount)
	// (1.41421 + 5 + 2) / 3 = 2.80473...
	assert.Equal(t, 2.8, *sum.AvgDistanceFromOrigin)
	assert.Equal(t, 5.0, *sum.MaxDistanceFromOrigin)
	assert.Equal(t, map[string]int{"walk": 2, "fly": 1}, sum.ModeCounts)
	assert.Equal(t, int64(3), sum.DurationSeconds, "ends at last activity")
}

func TestSummarize_IgnoresUnknownDistances(t *testing.T) {
	tpOrigin := NewPoint(0, 0, 0)
	withOrigin := goal(at(2*time.Second), "P1", NewPoint(0, 6, 8), "walk")
	withOrigin.TPOrigin = &tpOrigin

	report := Summarize(Reconstruct([]Event{
		start(t0, "P1", nil),
		goal(at(time.Second), "P1", NewPoint(100, 0, 0), "walk"),
		withOrigin,
	}))

	sum := report.Sessions[0]
	assert.Equal(t, 2, sum.GoalCount)
	assert.Equal(t, 10.0, *sum.AvgDistanceFromOrigin)
	assert.Equal(t, 10.0, *sum.MaxDistanceFromOrigin)
}

func TestSummarize_NoGoals(t *testing.T) {
	dwell := 4500.0
	ev := start(t0, "P1", nil)
	ev.DwellMs = &dwell

	report := Summarize(Reconstruct([]Event{ev, left(at(400*time.Millisecond), "P1")}))

	require.Len(t, report.Sessions, 1)
	sum := report.Sessions[0]
	assert.Equal(t, 0, sum.GoalCount)
	assert.Equal(t, int64(0), sum.DurationSeconds)
	require.NotNil(t, sum.PlannedDwellSeconds)
	assert.Equal(t, int64(5), *sum.PlannedDwellSeconds)
	assert.Nil(t, sum.Origin)
	assert.Nil(t, sum.AvgDistanceFromOrigin)
	assert.Nil(t, sum.MaxDistanceFromOrigin)
	assert.NotNil(t, sum.ModeCounts)
}

func TestSummarize_IndexFollowsEmissionOrder(t *testing.T) {
	report := Summarize(Reconstruct([]Event{
		start(t0, "A", nil),
		start(at(time.Second), "B", nil),
		start(at(2*time.Second), "C", nil),
	}))

	require.Len(t, report.Sessions, 3)
	for i, sum := range report.Sessions {
		assert.Equal(t, i+1, sum.Index)
	}
	assert.Equal(t, []string{"A", "B", "C"}, []string{
		report.Sessions[0].Player, report.Sessions[1].Player, report.Sessions[2].Player,
	})
}

func TestSummarize_JSONShape(t *testing.T) {
	report := Summarize(Reconstruct([]Event{start(t0, "P1", nil)}))

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessions":[{
		"index":1,
		"player":"P1",
		"startTime":"2025-03-01T12:00:00.000Z",
		"durationSeconds":0,
		"plannedDwellSeconds":null,
		"origin":null,
		"goalCount":0,
		"avgDistanceFromOrigin":null,
		"maxDistanceFromOrigin":null,
		"modeCounts":{}
	}]}`, string(data))

	again, err := json.Marshal(Summarize(Reconstruct([]Event{start(t0, "P1", nil)})))
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestSummarize_DoesNotAliasSession(t *testing.T) {
	origin := NewPoint(1, 2, 3)
	sessions := Reconstruct([]Event{
		start(t0, "P1", &origin),
		goal(at(time.Second), "P1", NewPoint(1, 2, 3), "walk"),
	})

	report := Summarize(sessions)
	report.Sessions[0].ModeCounts["walk"] = 99
	*report.Sessions[0].Origin.X = 42

	assert.Equal(t, 1, sessions[0].ModeCounts["walk"])
	assert.Equal(t, 1.0, *sessions[0].Origin.X)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, int64(1), roundHalfUp(0.5))
	assert.Equal(t, int64(0), roundHalfUp(0.49))
	assert.Equal(t, int64(3), roundHalfUp(2.5))
	assert.Equal(t, 1.13, round2(1.125))
	assert.Equal(t, 2.0, round2(1.999))
}
