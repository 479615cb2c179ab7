package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/grovetools/tplogs/internal/teleport"
)

// PrintEventsTable prints decoded events in a formatted table.
func PrintEventsTable(events []teleport.Event, writer io.Writer) {
	w := tabwriter.NewWriter(writer, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TIME\tMESSAGE\tPLAYER\tMODE\tPOSITION")
	for _, ev := range events {
		player := deref(ev.Target)
		if player == none {
			player = deref(ev.TPTarget)
		}

		position := none
		switch {
		case ev.Goal != nil:
			position = FormatPoint(*ev.Goal)
		case ev.Origin != nil:
			position = FormatPoint(*ev.Origin)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ev.Timestamp.UTC().Format("2006-01-02 15:04:05.000"),
			ev.Message, player, deref(ev.Mode), position)
	}
	w.Flush()
}

// FormatPoint renders a point as "(x, y, z)" with missing components as "?".
func FormatPoint(p teleport.Point) string {
	return fmt.Sprintf("(%s, %s, %s)", coord(p.X), coord(p.Y), coord(p.Z))
}

func coord(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%g", *v)
}

func deref(s *string) string {
	if s == nil {
		return none
	}
	return *s
}
