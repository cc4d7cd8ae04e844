package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"transition/internal/scoring"
	"transition/internal/signals"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "presets",
		Short:       "List scoring presets and their weights",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"Preset", "High", "Likely", "Floor"}
			for _, name := range signals.Names() {
				headers = append(headers, string(name))
			}
			aligns := make([]columnAlignment, len(headers))
			for i := 1; i < len(aligns); i++ {
				aligns[i] = alignRight
			}

			var rows [][]string
			for _, name := range scoring.PresetNames() {
				preset, err := scoring.LookupPreset(name)
				if err != nil {
					return err
				}
				row := []string{
					name,
					fmt.Sprintf("%.2f", preset.Thresholds.High),
					fmt.Sprintf("%.2f", preset.Thresholds.Likely),
					fmt.Sprintf("%.2f", preset.EmissionFloor),
				}
				for _, signal := range signals.Names() {
					row = append(row, fmt.Sprintf("%.2f", preset.Weights[signal]))
				}
				rows = append(rows, row)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderRows(headers, rows, aligns))
			return nil
		},
	}
}
