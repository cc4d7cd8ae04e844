package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"transition/internal/config"
	"transition/internal/store"
)

func newEvidenceCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "evidence <run-id> <award-id> <contract-id>",
		Short: "Print the evidence bundle behind one detection",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, s *store.Store) error {
				runID, err := resolveRunID(cmd, s, args[0])
				if err != nil {
					return err
				}
				det, err := s.GetDetection(cmd.Context(), runID, args[1], args[2])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if asJSON {
					encoder := json.NewEncoder(out)
					encoder.SetIndent("", "  ")
					return encoder.Encode(det.Evidence)
				}
				payload, err := yaml.Marshal(det.Evidence)
				if err != nil {
					return fmt.Errorf("render evidence: %w", err)
				}
				fmt.Fprintf(out, "# %s -> %s (score %.3f, %s)\n", det.AwardID, det.ContractID, det.Likelihood, det.Confidence)
				_, err = out.Write(payload)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of YAML")
	return cmd
}
