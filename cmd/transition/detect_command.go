package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"transition/internal/config"
	"transition/internal/detect"
	"transition/internal/ingest"
	"transition/internal/logging"
	"transition/internal/store"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var (
		awardsPath    string
		contractsPath string
		patentsPath   string
		presetFlag    string
		workersFlag   int
		noSave        bool
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run transition detection over award and contract files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(presetFlag) != "" {
				cfg.Scoring.Preset = presetFlag
			}
			if workersFlag > 0 {
				cfg.Engine.Workers = workersFlag
			}

			awards := firstNonEmpty(awardsPath, cfg.Inputs.AwardsFile)
			contracts := firstNonEmpty(contractsPath, cfg.Inputs.ContractsFile)
			patents := firstNonEmpty(patentsPath, cfg.Inputs.PatentsFile)
			if awards == "" || contracts == "" {
				return fmt.Errorf("awards and contracts files are required (flags or [inputs] in config)")
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.DataDir, "transition.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another detection run is in progress (lock held at %s)", lock.Path())
			}
			defer func() { _ = lock.Unlock() }()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := runDetection(runCtx, cfg, logger, awards, contracts, patents)
			if err != nil {
				return err
			}

			if !noSave {
				s, err := store.Open(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()
				if err := s.SaveRun(runCtx, result); err != nil {
					return fmt.Errorf("persist run: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRows(
				[]string{"Run", "Preset", "Awards", "Detections", "Candidates", "Skipped", "Missing fields"},
				[][]string{{
					result.Summary.RunID,
					result.Summary.Preset,
					strconv.Itoa(result.Summary.AwardsProcessed),
					strconv.Itoa(result.Summary.DetectionsEmitted),
					strconv.Itoa(result.Summary.CandidatesConsidered),
					strconv.Itoa(result.Summary.CandidatesSkipped),
					strconv.Itoa(result.Summary.MissingFieldEvents),
				}},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			if len(result.Detections) > 0 {
				fmt.Fprintln(out, renderRows(
					[]string{"Award", "Contract", "Score", "Confidence"},
					buildDetectionRows(result.Detections),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
				))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&awardsPath, "awards", "", "Awards JSONL file")
	cmd.Flags().StringVar(&contractsPath, "contracts", "", "Contracts JSONL file")
	cmd.Flags().StringVar(&patentsPath, "patents", "", "Optional patents JSONL file")
	cmd.Flags().StringVar(&presetFlag, "preset", "", "Scoring preset override")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Worker count override")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip persisting the run")
	return cmd
}

func runDetection(ctx context.Context, cfg *config.Config, logger *slog.Logger, awardsPath, contractsPath, patentsPath string) (*detect.Result, error) {
	awards, awardStats, err := ingest.ReadAwards(awardsPath, logger)
	if err != nil {
		return nil, err
	}
	contracts, contractStats, err := ingest.ReadContracts(contractsPath, logger)
	if err != nil {
		return nil, err
	}
	patents := detect.PatentTable{}
	if patentsPath != "" {
		patents, _, err = ingest.ReadPatents(patentsPath, logger)
		if err != nil {
			return nil, err
		}
	}
	logger.Info("inputs loaded",
		logging.Int("awards", len(awards)),
		logging.Int("contracts", len(contracts)),
		logging.Int("award_lines_skipped", awardStats.Skipped),
		logging.Int("contract_lines_skipped", contractStats.Skipped))

	opts, err := detect.OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	orch, err := detect.New(opts)
	if err != nil {
		return nil, err
	}
	result, err := orch.Run(ctx, awards, contracts, patents)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func buildDetectionRows(detections []detect.Detection) [][]string {
	rows := make([][]string, 0, len(detections))
	for _, det := range detections {
		rows = append(rows, []string{
			det.AwardID,
			det.ContractID,
			fmt.Sprintf("%.3f", det.Likelihood),
			string(det.Confidence),
		})
	}
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
