package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/command"
	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

const teleportLog = `{"timestamp":"2025-03-01T12:00:00.000Z","message":"tp.success","target":"Steve","origin":{"x":0,"y":0,"z":0},"dwellMs":30000}
{"timestamp":"2025-03-01T12:00:01.000Z","message":"manager.goal_updated","tpTarget":"Steve","tpOrigin":{"x":0,"y":0,"z":0},"goal":{"x":3,"y":4,"z":0},"mode":"walk"}
{"timestamp":"2025-03-01T12:00:10.000Z","message":"tp.target_left","target":"Steve"}
{"timestamp":"2025-03-01T12:01:00.000Z","message":"tp.success","target":"Alex"}
{"timestamp":"2025-03-01T12:01:05.000Z","message":"tp.success","target":"Herobrine"}
this line is not json
`

// FindProjectBinary returns the tplogs binary under test.
func FindProjectBinary() (string, error) {
	if bin := os.Getenv("TPLOGS_BINARY"); bin != "" {
		return bin, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := wd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "bin", "tplogs")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if filepath.Dir(dir) == dir {
			return "", fmt.Errorf("tplogs binary not found; run 'make build' or set TPLOGS_BINARY")
		}
	}
}

// setupMockLogDir creates a home directory with an event log under logs/.
func setupMockLogDir(ctx *harness.Context) error {
	homeDir := ctx.NewDir("home")

	logsDir := filepath.Join(homeDir, "logs")
	if err := fs.CreateDir(logsDir); err != nil {
		return err
	}
	logPath := filepath.Join(logsDir, "events.jsonl")
	if err := fs.WriteString(logPath, teleportLog); err != nil {
		return fmt.Errorf("failed to write events.jsonl: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "tplogs")
	if err := fs.CreateDir(configDir); err != nil {
		return err
	}
	config := fmt.Sprintf("source:\n  search_paths: [%q]\n", filepath.Join(logsDir, "*.jsonl"))
	if err := fs.WriteString(filepath.Join(configDir, "config.yaml"), config); err != nil {
		return fmt.Errorf("failed to write config.yaml: %w", err)
	}

	ctx.Set("mock_home", homeDir)
	ctx.Set("log_path", logPath)
	return nil
}

// AnalyzeScenario tests the 'tplogs analyze' command
func AnalyzeScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "tplogs-analyze-command",
		Steps: []harness.Step{
			harness.NewStep("Setup mock log directory", setupMockLogDir),
			harness.NewStep("Run 'tplogs analyze'", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				homeDir := ctx.GetString("mock_home")
				cmd := command.New(bin, "analyze", "--file", ctx.GetString("log_path")).Env("HOME=" + homeDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "tplogs analyze should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "PLAYER", "Should print table header"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "Steve", "Should list Steve's session"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "5.00", "Should show distance from origin")
			}),
			harness.NewStep("Run 'tplogs analyze --json'", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				homeDir := ctx.GetString("mock_home")
				cmd := command.New(bin, "analyze", "--json", "--file", ctx.GetString("log_path")).Env("HOME=" + homeDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode != 0 {
					return fmt.Errorf("tplogs analyze --json failed: %s", result.Stderr)
				}

				var doc struct {
					Sessions []map[string]interface{} `json:"sessions"`
				}
				if err := json.Unmarshal([]byte(result.Stdout), &doc); err != nil {
					return fmt.Errorf("failed to parse JSON output: %w", err)
				}

				// Alex is replaced by Herobrine without an end event
				if len(doc.Sessions) != 3 {
					return fmt.Errorf("expected 3 sessions, got %d", len(doc.Sessions))
				}
				for _, field := range []string{"index", "player", "startTime", "durationSeconds", "goalCount", "modeCounts"} {
					if _, ok := doc.Sessions[0][field]; !ok {
						return fmt.Errorf("missing %s field in JSON output", field)
					}
				}
				return assert.Equal(5.0, doc.Sessions[0]["avgDistanceFromOrigin"], "Steve's average distance")
			}),
			harness.NewStep("Run 'tplogs analyze' using configured search paths", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				homeDir := ctx.GetString("mock_home")
				cmd := command.New(bin, "analyze", "--json").Env("HOME=" + homeDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "tplogs analyze should find the configured log"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "Herobrine", "Should include the last session")
			}),
		},
	}
}

// AnalyzeMissingSourceScenario checks the hard failure when no log exists
func AnalyzeMissingSourceScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "tplogs-analyze-missing-source",
		Steps: []harness.Step{
			harness.NewStep("Run 'tplogs analyze' with nothing to read", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				emptyDir := ctx.NewDir("empty")
				configPath := filepath.Join(emptyDir, "config.yaml")
				config := fmt.Sprintf("source:\n  search_paths: [%q]\n", filepath.Join(emptyDir, "*.jsonl"))
				if err := fs.WriteString(configPath, config); err != nil {
					return err
				}

				cmd := command.New(bin, "analyze", "--config", configPath).Env("HOME=" + emptyDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if result.ExitCode == 0 {
					return fmt.Errorf("expected non-zero exit when no event log exists")
				}
				return assert.NotContains(result.Stdout, "PLAYER", "Should not render a table")
			}),
		},
	}
}

// EventsScenario tests the 'tplogs events' command
func EventsScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "tplogs-events-command",
		Steps: []harness.Step{
			harness.NewStep("Setup mock log directory", setupMockLogDir),
			harness.NewStep("Run 'tplogs events --message tp.success'", func(ctx *harness.Context) error {
				bin, err := FindProjectBinary()
				if err != nil {
					return err
				}

				homeDir := ctx.GetString("mock_home")
				cmd := command.New(bin, "events", "--message", "tp.success", "--file", ctx.GetString("log_path")).Env("HOME=" + homeDir)
				result := cmd.Run()
				ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)

				if err := assert.Equal(0, result.ExitCode, "tplogs events should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "Alex", "Should list Alex's start"); err != nil {
					return err
				}
				return assert.NotContains(result.Stdout, "manager.goal_updated", "Should filter out goal updates")
			}),
		},
	}
}
