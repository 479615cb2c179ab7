// Package eventlog locates teleport event logs and decodes them into
// time-ordered teleport.Event values.
package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/grovetools/core/logging"
	"github.com/grovetools/tplogs/internal/teleport"
	"github.com/sirupsen/logrus"
)

// Stats counts what the decoder saw.
type Stats struct {
	Lines   int `json:"lines"`
	Events  int `json:"events"`
	Skipped int `json:"skipped"`
}

// record is the on-disk shape of one log line.
type record struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Message   string          `json:"message"`
	Target    *string         `json:"target"`
	Origin    *teleport.Point `json:"origin"`
	DwellMs   *float64        `json:"dwellMs"`
	Goal      *teleport.Point `json:"goal"`
	Mode      *string         `json:"mode"`
	TPTarget  *string         `json:"tpTarget"`
	TPOrigin  *teleport.Point `json:"tpOrigin"`
}

// Decoder reads JSONL event logs, one record per line.
type Decoder struct {
	logger *logrus.Entry
}

// NewDecoder creates a new event log decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		logger: logging.NewLogger("tplogs-eventlog"),
	}
}

// Decode reads every line from r. Lines that are not valid JSON or that lack
// a timestamp or message are skipped. The returned events keep input order.
func (d *Decoder) Decode(r io.Reader) ([]teleport.Event, Stats, error) {
	var events []teleport.Event
	var stats Stats

	scanner := bufio.NewScanner(r)

	// Increase buffer size for large JSON lines
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		ev, err := decodeLine(line)
		if err != nil {
			stats.Skipped++
			d.logger.WithError(err).WithField("line", lineNum).Debug("Skipping log line")
			continue
		}
		events = append(events, ev)
	}
	stats.Events = len(events)

	if err := scanner.Err(); err != nil {
		return events, stats, fmt.Errorf("scanner error: %w", err)
	}

	return events, stats, nil
}

func decodeLine(line []byte) (teleport.Event, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return teleport.Event{}, err
	}
	if rec.Message == "" {
		return teleport.Event{}, fmt.Errorf("missing message")
	}
	ts, err := parseTimestamp(rec.Timestamp)
	if err != nil {
		return teleport.Event{}, err
	}

	return teleport.Event{
		Timestamp: ts,
		Message:   rec.Message,
		Target:    nonEmpty(rec.Target),
		Origin:    rec.Origin,
		DwellMs:   rec.DwellMs,
		Goal:      rec.Goal,
		Mode:      nonEmpty(rec.Mode),
		TPTarget:  nonEmpty(rec.TPTarget),
		TPOrigin:  rec.TPOrigin,
	}, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts RFC 3339 style strings and epoch milliseconds.
// Zone-less strings are read as UTC.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %s", raw)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// nonEmpty treats a blank identifier the same as an absent one.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// SortByTime sorts events by timestamp, keeping input order for ties.
func SortByTime(events []teleport.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
