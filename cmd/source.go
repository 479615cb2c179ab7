package cmd

import (
	"fmt"

	"github.com/grovetools/core/logging"
	"github.com/grovetools/tplogs/config"
	"github.com/grovetools/tplogs/internal/eventlog"
	"github.com/grovetools/tplogs/internal/teleport"
	"github.com/spf13/cobra"
)

var logger = logging.NewLogger("tplogs-cmd")

type sourceFlags struct {
	file       string
	configPath string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "Event log to analyse (overrides $"+eventlog.EnvFile+" and config)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to tplogs config file (default ~/.config/tplogs/config.yaml)")
}

// load resolves config and the log source, then returns the sorted events.
func (f *sourceFlags) load() (*config.Config, string, []teleport.Event, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, "", nil, err
	}

	path, err := eventlog.Locate(f.file, cfg.Source)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to locate event log: %w", err)
	}

	events, stats, err := eventlog.Load(path)
	if err != nil {
		return nil, "", nil, err
	}

	logger.WithField("file", path).
		WithField("lines", stats.Lines).
		WithField("events", stats.Events).
		WithField("skipped", stats.Skipped).
		Debug("Loaded event log")

	return cfg, path, events, nil
}
