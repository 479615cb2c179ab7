package eventlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/tplogs/config"
	"github.com/grovetools/tplogs/internal/teleport"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// EnvFile names the environment variable that overrides the configured log path.
const EnvFile = "TPLOGS_FILE"

// ErrNoSource is returned when no event log can be found.
var ErrNoSource = errors.New("no event log found")

// Locate resolves the log file to analyse. The explicit path wins, then
// $TPLOGS_FILE, then cfg.Path, then the newest match of the first
// cfg.SearchPaths pattern that matches anything.
func Locate(explicit string, cfg config.SourceConfig) (string, error) {
	for _, candidate := range []string{explicit, os.Getenv(EnvFile), cfg.Path} {
		if candidate == "" {
			continue
		}
		path := config.ExpandPath(candidate)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNoSource, path)
		}
		return path, nil
	}

	for _, pattern := range cfg.SearchPaths {
		matches, err := filepath.Glob(config.ExpandPath(pattern))
		if err != nil {
			continue
		}
		if newest := newestFile(matches); newest != "" {
			return newest, nil
		}
	}

	return "", ErrNoSource
}

func newestFile(paths []string) string {
	var best string
	var bestInfo os.FileInfo
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if bestInfo == nil || info.ModTime().After(bestInfo.ModTime()) {
			best, bestInfo = p, info
		}
	}
	return best
}

// Open opens path for reading, decompressing .gz and .zst files.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, file}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		rc := zr.IOReadCloser()
		return &stackedReader{Reader: rc, closers: []io.Closer{rc, file}}, nil
	default:
		return file, nil
	}
}

// stackedReader closes a decompressor and its underlying file together.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load opens, decodes and time-sorts the log at path.
func Load(path string) ([]teleport.Event, Stats, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()

	events, stats, err := NewDecoder().Decode(rc)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	SortByTime(events)
	return events, stats, nil
}
