package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"transition/internal/config"
	"transition/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored detection runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				runs, err := s.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored runs")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.RunID,
						run.Preset,
						run.StartedAt.Local().Format(time.RFC3339),
						strconv.Itoa(run.AwardsProcessed),
						strconv.Itoa(run.DetectionsEmitted),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRows(
					[]string{"Run", "Preset", "Started", "Awards", "Detections"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the detections of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				runID, err := resolveRunID(cmd, s, args[0])
				if err != nil {
					return err
				}
				detections, err := s.ListDetections(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(detections) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Run %s emitted no detections\n", runID)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRows(
					[]string{"Award", "Contract", "Score", "Confidence"},
					buildDetectionRows(detections),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

// resolveRunID maps the literal "latest" onto the most recent stored run.
func resolveRunID(cmd *cobra.Command, s *store.Store, arg string) (string, error) {
	if arg != "latest" {
		return arg, nil
	}
	runs, err := s.ListRuns(cmd.Context())
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no stored runs")
	}
	return runs[0].RunID, nil
}
