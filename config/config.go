package config

//go:generate go run ../tools/schema-generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceConfig controls where the event log is read from.
type SourceConfig struct {
	// Path is a specific log file to analyse. It takes precedence over SearchPaths.
	Path string `yaml:"path,omitempty"`

	// SearchPaths are glob patterns tried in order when Path is empty.
	// The most recently modified match of the first matching pattern wins.
	SearchPaths []string `yaml:"search_paths,omitempty"`
}

// OutputConfig defines settings for rendering results.
type OutputConfig struct {
	// Format selects the default renderer.
	// "table" (default): human-readable table.
	// "json": the {"sessions": [...]} document.
	Format string `yaml:"format,omitempty"`

	// TimeLayout is the Go time layout used for timestamps in tables.
	TimeLayout string `yaml:"time_layout,omitempty"`
}

// Config is the top-level configuration structure for tplogs.
type Config struct {
	Source SourceConfig `yaml:"source,omitempty"`
	Output OutputConfig `yaml:"output,omitempty"`
}

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			SearchPaths: []string{
				"logs/*.jsonl",
				"logs/*.log",
				"*.jsonl",
			},
		},
		Output: OutputConfig{
			Format:     FormatTable,
			TimeLayout: "2006-01-02 15:04:05",
		},
	}
}

// DefaultPath returns ~/.config/tplogs/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tplogs", "config.yaml"), nil
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Output.Format {
	case "":
		cfg.Output.Format = FormatTable
	case FormatTable, FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q", cfg.Output.Format)
	}
	if cfg.Output.TimeLayout == "" {
		cfg.Output.TimeLayout = Default().Output.TimeLayout
	}

	return cfg, nil
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return home + path[1:]
		}
	}
	return path
}
