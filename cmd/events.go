package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/tplogs/internal/display"
	"github.com/grovetools/tplogs/internal/teleport"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var src sourceFlags
	var jsonOutput bool
	var messageFilter string
	var playerFilter string

	cmd := &cobra.Command{
		Use:   "events [flags]",
		Short: "List decoded events in timestamp order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, events, err := src.load()
			if err != nil {
				return err
			}

			filtered := []teleport.Event{}
			for _, ev := range events {
				if messageFilter != "" && ev.Message != messageFilter {
					continue
				}
				if playerFilter != "" && !involves(ev, playerFilter) {
					continue
				}
				filtered = append(filtered, ev)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				data, err := json.MarshalIndent(filtered, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal events: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if len(filtered) == 0 {
				fmt.Fprintln(out, "No events found.")
				return nil
			}
			display.PrintEventsTable(filtered, out)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&messageFilter, "message", "", "Filter by message kind (e.g. tp.success, manager.goal_updated)")
	cmd.Flags().StringVarP(&playerFilter, "player", "p", "", "Filter by player (target or tpTarget)")

	return cmd
}

func involves(ev teleport.Event, player string) bool {
	return (ev.Target != nil && *ev.Target == player) ||
		(ev.TPTarget != nil && *ev.TPTarget == player)
}
