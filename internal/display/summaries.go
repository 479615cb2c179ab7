package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/core/tui/theme"
	"github.com/grovetools/tplogs/internal/teleport"
)

const none = "-"

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, report teleport.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintSummariesTable prints session summaries as a bordered table.
// timeLayout formats the START column; an empty layout keeps the ISO string.
func PrintSummariesTable(w io.Writer, summaries []teleport.Summary, timeLayout string) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.DefaultColors.Violet).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	mutedStyle := cellStyle.Foreground(theme.DefaultColors.MutedText)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.DefaultColors.MutedText)).
		Headers("#", "PLAYER", "START", "DURATION", "PLANNED", "GOALS", "AVG DIST", "MAX DIST", "MODES").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return mutedStyle
			}
			return cellStyle
		})

	for _, s := range summaries {
		t.Row(
			strconv.Itoa(s.Index),
			s.Player,
			formatStart(s.StartTime, timeLayout),
			fmt.Sprintf("%ds", s.DurationSeconds),
			formatSeconds(s.PlannedDwellSeconds),
			strconv.Itoa(s.GoalCount),
			formatDistance(s.AvgDistanceFromOrigin),
			formatDistance(s.MaxDistanceFromOrigin),
			FormatModeCounts(s.ModeCounts),
		)
	}

	fmt.Fprintln(w, t.Render())
}

func formatStart(iso, layout string) string {
	if layout == "" {
		return iso
	}
	ts, err := time.Parse(teleport.StartTimeLayout, iso)
	if err != nil {
		return iso
	}
	return ts.Format(layout)
}

func formatSeconds(v *int64) string {
	if v == nil {
		return none
	}
	return fmt.Sprintf("%ds", *v)
}

func formatDistance(v *float64) string {
	if v == nil {
		return none
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// FormatModeCounts renders mode counts sorted by label, e.g. "fly:1 walk:2".
func FormatModeCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return none
	}
	modes := make([]string, 0, len(counts))
	for mode := range counts {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	parts := make([]string, 0, len(modes))
	for _, mode := range modes {
		parts = append(parts, fmt.Sprintf("%s:%d", mode, counts[mode]))
	}
	return strings.Join(parts, " ")
}
