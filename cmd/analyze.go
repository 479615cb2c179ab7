package cmd

import (
	"context"
	"fmt"

	grovelogging "github.com/grovetools/core/logging"
	"github.com/grovetools/tplogs/config"
	"github.com/grovetools/tplogs/internal/display"
	"github.com/grovetools/tplogs/internal/teleport"
	"github.com/spf13/cobra"
)

var ulogAnalyze = grovelogging.NewUnifiedLogger("tplogs.cmd.analyze")

func newAnalyzeCmd() *cobra.Command {
	var src sourceFlags
	var jsonOutput bool
	var playerFilter string

	cmd := &cobra.Command{
		Use:   "analyze [flags]",
		Short: "Reconstruct teleport sessions and summarise movement",
		Long: "Reconstruct teleport sessions from an event log and report duration, " +
			"goal count, distance from origin and movement modes for each session",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, path, events, err := src.load()
			if err != nil {
				return err
			}

			sessions := teleport.Reconstruct(events)
			report := teleport.Summarize(sessions)

			// Filter after summarising so indices match the unfiltered run
			if playerFilter != "" {
				var filtered []teleport.Summary
				for _, s := range report.Sessions {
					if s.Player == playerFilter {
						filtered = append(filtered, s)
					}
				}
				report.Sessions = filtered
				if report.Sessions == nil {
					report.Sessions = []teleport.Summary{}
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput || cfg.Output.Format == config.FormatJSON {
				return display.RenderJSON(out, report)
			}

			ulogAnalyze.Info("Analysis results").
				Field("file", path).
				Field("event_count", len(events)).
				Field("session_count", len(report.Sessions)).
				Field("player_filter", playerFilter).
				Pretty(fmt.Sprintf("Found %d sessions in %s\n", len(report.Sessions), path)).
				PrettyOnly().
				Log(ctx)

			if len(report.Sessions) == 0 {
				fmt.Fprintln(out, "No teleport sessions found.")
				return nil
			}
			display.PrintSummariesTable(out, report.Sessions, cfg.Output.TimeLayout)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVarP(&playerFilter, "player", "p", "", "Only show sessions for this player")

	return cmd
}
