package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/tplogs/internal/eventlog"
	"github.com/grovetools/tplogs/internal/teleport"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Events are deliberately out of order; the loader sorts them.
const teleportLog = `{"timestamp":"2025-03-01T12:00:12.500Z","message":"tp.target_left","target":"Steve"}
{"timestamp":"2025-03-01T12:00:00.000Z","message":"tp.success","target":"Steve","origin":{"x":0,"y":0,"z":0},"dwellMs":30000}
{"timestamp":"2025-03-01T12:00:01.000Z","message":"manager.goal_updated","tpTarget":"Steve","tpOrigin":{"x":0,"y":0,"z":0},"goal":{"x":3,"y":4,"z":0},"mode":"walk"}
garbage line
{"timestamp":"2025-03-01T12:01:00.000Z","message":"tp.success","target":"Alex"}
{"timestamp":"2025-03-01T12:01:02.000Z","message":"manager.goal_updated","tpTarget":"Alex","goal":{"x":1},"mode":"fly"}
`

type summaryDoc struct {
	Sessions []teleport.Summary `json:"sessions"`
}

func setupLog(t *testing.T) (logPath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	logPath = filepath.Join(dir, "events.jsonl")
	require.NoError(t, os.WriteFile(logPath, []byte(teleportLog), 0o644))
	t.Setenv(eventlog.EnvFile, "")
	return logPath, filepath.Join(dir, "config.yaml")
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	logPath, configPath := setupLog(t)

	out, err := run(t, newAnalyzeCmd(), "--file", logPath, "--config", configPath, "--json")
	require.NoError(t, err)

	var doc summaryDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Sessions, 2)

	steve := doc.Sessions[0]
	assert.Equal(t, 1, steve.Index)
	assert.Equal(t, "Steve", steve.Player)
	assert.Equal(t, "2025-03-01T12:00:00.000Z", steve.StartTime)
	assert.Equal(t, int64(13), steve.DurationSeconds)
	require.NotNil(t, steve.PlannedDwellSeconds)
	assert.Equal(t, int64(30), *steve.PlannedDwellSeconds)
	assert.Equal(t, 1, steve.GoalCount)
	require.NotNil(t, steve.AvgDistanceFromOrigin)
	assert.Equal(t, 5.0, *steve.AvgDistanceFromOrigin)
	assert.Equal(t, map[string]int{"walk": 1}, steve.ModeCounts)

	alex := doc.Sessions[1]
	assert.Equal(t, 2, alex.Index)
	assert.Equal(t, "Alex", alex.Player)
	assert.Equal(t, int64(2), alex.DurationSeconds)
	assert.Nil(t, alex.AvgDistanceFromOrigin)
	assert.Equal(t, map[string]int{"fly": 1}, alex.ModeCounts)
}

func TestAnalyzePlayerFilterKeepsIndex(t *testing.T) {
	logPath, configPath := setupLog(t)

	out, err := run(t, newAnalyzeCmd(), "--file", logPath, "--config", configPath, "--json", "--player", "Alex")
	require.NoError(t, err)

	var doc summaryDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Sessions, 1)
	assert.Equal(t, 2, doc.Sessions[0].Index)
}

func TestAnalyzeJSONFormatFromConfig(t *testing.T) {
	logPath, configPath := setupLog(t)
	require.NoError(t, os.WriteFile(configPath, []byte("output:\n  format: json\n"), 0o644))

	out, err := run(t, newAnalyzeCmd(), "--file", logPath, "--config", configPath)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), "expected JSON output, got %q", out)
}

func TestAnalyzeTable(t *testing.T) {
	logPath, configPath := setupLog(t)

	out, err := run(t, newAnalyzeCmd(), "--file", logPath, "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "PLAYER")
	assert.Contains(t, out, "Steve")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "fly:1")
}

func TestAnalyzeMissingSource(t *testing.T) {
	_, configPath := setupLog(t)

	_, err := run(t, newAnalyzeCmd(), "--file", filepath.Join(t.TempDir(), "missing.jsonl"), "--config", configPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, eventlog.ErrNoSource)
}

func TestEventsFilters(t *testing.T) {
	logPath, configPath := setupLog(t)

	out, err := run(t, newEventsCmd(), "--file", logPath, "--config", configPath, "--json",
		"--message", teleport.MessageGoalUpdated, "--player", "Alex")
	require.NoError(t, err)

	var events []teleport.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, teleport.MessageGoalUpdated, events[0].Message)
	require.NotNil(t, events[0].TPTarget)
	assert.Equal(t, "Alex", *events[0].TPTarget)
}

func TestEventsTableIsSorted(t *testing.T) {
	logPath, configPath := setupLog(t)

	out, err := run(t, newEventsCmd(), "--file", logPath, "--config", configPath, "--player", "Steve")
	require.NoError(t, err)

	first := bytes.Index([]byte(out), []byte(teleport.MessageTeleportSuccess))
	last := bytes.Index([]byte(out), []byte(teleport.MessageTargetLeft))
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, last)
	assert.Less(t, first, last)
}

func TestVersion(t *testing.T) {
	out, err := run(t, NewVersionCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "tplogs dev")
}
