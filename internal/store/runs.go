package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"transition/internal/detect"
	"transition/internal/evidence"
	"transition/internal/scoring"
	"transition/internal/signals"
)

// SaveRun persists a run summary and its detections in one transaction.
func (s *Store) SaveRun(ctx context.Context, result *detect.Result) error {
	ctx = ensureContext(ctx)
	summary := result.Summary

	errorsJSON, err := json.Marshal(summary.Errors)
	if err != nil {
		return fmt.Errorf("marshal error counts: %w", err)
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (
                run_id, preset, awards_processed, detections_emitted,
                candidates_considered, candidates_skipped, missing_field_events,
                contracts_unindexed, errors_json, workers, started_at, finished_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID,
			summary.Preset,
			summary.AwardsProcessed,
			summary.DetectionsEmitted,
			summary.CandidatesConsidered,
			summary.CandidatesSkipped,
			summary.MissingFieldEvents,
			summary.ContractsUnindexed,
			string(errorsJSON),
			summary.Workers,
			summary.StartedAt.UTC().Format(time.RFC3339Nano),
			summary.FinishedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert run %s: %w", summary.RunID, err)
		}

		for i := range result.Detections {
			det := &result.Detections[i]
			signalsJSON, err := json.Marshal(det.Signals)
			if err != nil {
				return fmt.Errorf("marshal signals for %s/%s: %w", det.AwardID, det.ContractID, err)
			}
			evidenceJSON, err := json.Marshal(det.Evidence)
			if err != nil {
				return fmt.Errorf("marshal evidence for %s/%s: %w", det.AwardID, det.ContractID, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO detections (
                    run_id, award_id, contract_id, likelihood, confidence,
                    signals_json, evidence_json, detected_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				summary.RunID,
				det.AwardID,
				det.ContractID,
				det.Likelihood,
				string(det.Confidence),
				string(signalsJSON),
				string(evidenceJSON),
				det.DetectedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("insert detection %s/%s: %w", det.AwardID, det.ContractID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run %s: %w", summary.RunID, err)
		}
		return nil
	})
}

// ListRuns returns stored run summaries, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]detect.Summary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, preset, awards_processed, detections_emitted,
            candidates_considered, candidates_skipped, missing_field_events,
            contracts_unindexed, errors_json, workers, started_at, finished_at
        FROM runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []detect.Summary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return summaries, nil
}

// GetRun returns one stored run summary.
func (s *Store) GetRun(ctx context.Context, runID string) (detect.Summary, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, preset, awards_processed, detections_emitted,
            candidates_considered, candidates_skipped, missing_field_events,
            contracts_unindexed, errors_json, workers, started_at, finished_at
        FROM runs WHERE run_id = ?`, runID)
	summary, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return detect.Summary{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return summary, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (detect.Summary, error) {
	var (
		summary    detect.Summary
		errorsJSON string
		startedAt  string
		finishedAt string
	)
	if err := row.Scan(
		&summary.RunID,
		&summary.Preset,
		&summary.AwardsProcessed,
		&summary.DetectionsEmitted,
		&summary.CandidatesConsidered,
		&summary.CandidatesSkipped,
		&summary.MissingFieldEvents,
		&summary.ContractsUnindexed,
		&errorsJSON,
		&summary.Workers,
		&startedAt,
		&finishedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return detect.Summary{}, err
		}
		return detect.Summary{}, fmt.Errorf("scan run: %w", err)
	}
	if errorsJSON != "" {
		if err := json.Unmarshal([]byte(errorsJSON), &summary.Errors); err != nil {
			return detect.Summary{}, fmt.Errorf("parse error counts for %s: %w", summary.RunID, err)
		}
	}
	var err error
	if summary.StartedAt, err = parseTimestamp(startedAt); err != nil {
		return detect.Summary{}, fmt.Errorf("parse started_at for %s: %w", summary.RunID, err)
	}
	if summary.FinishedAt, err = parseTimestamp(finishedAt); err != nil {
		return detect.Summary{}, fmt.Errorf("parse finished_at for %s: %w", summary.RunID, err)
	}
	return summary, nil
}

// ListDetections returns a run's detections in the engine's output order.
func (s *Store) ListDetections(ctx context.Context, runID string) ([]detect.Detection, error) {
	ctx = ensureContext(ctx)
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT award_id, contract_id, likelihood, confidence,
            signals_json, evidence_json, detected_at
        FROM detections WHERE run_id = ?
        ORDER BY award_id, likelihood DESC, contract_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list detections for %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var detections []detect.Detection
	for rows.Next() {
		det, err := scanDetection(rows)
		if err != nil {
			return nil, err
		}
		detections = append(detections, det)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate detections: %w", err)
	}
	return detections, nil
}

// GetDetection returns one stored detection including its evidence bundle.
func (s *Store) GetDetection(ctx context.Context, runID, awardID, contractID string) (detect.Detection, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT award_id, contract_id, likelihood, confidence,
            signals_json, evidence_json, detected_at
        FROM detections WHERE run_id = ? AND award_id = ? AND contract_id = ?`,
		runID, awardID, contractID)
	det, err := scanDetection(row)
	if err == sql.ErrNoRows {
		return detect.Detection{}, fmt.Errorf("detection %s/%s in run %s: %w", awardID, contractID, runID, ErrNotFound)
	}
	return det, err
}

func scanDetection(row rowScanner) (detect.Detection, error) {
	var (
		det          detect.Detection
		confidence   string
		signalsJSON  string
		evidenceJSON string
		detectedAt   string
	)
	if err := row.Scan(
		&det.AwardID,
		&det.ContractID,
		&det.Likelihood,
		&confidence,
		&signalsJSON,
		&evidenceJSON,
		&detectedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return detect.Detection{}, err
		}
		return detect.Detection{}, fmt.Errorf("scan detection: %w", err)
	}
	det.Confidence = scoring.Confidence(confidence)
	det.Signals = make(signals.Vector)
	if err := json.Unmarshal([]byte(signalsJSON), &det.Signals); err != nil {
		return detect.Detection{}, fmt.Errorf("parse signals for %s/%s: %w", det.AwardID, det.ContractID, err)
	}
	var bundle evidence.Bundle
	if err := json.Unmarshal([]byte(evidenceJSON), &bundle); err != nil {
		return detect.Detection{}, fmt.Errorf("parse evidence for %s/%s: %w", det.AwardID, det.ContractID, err)
	}
	det.Evidence = bundle
	var err error
	if det.DetectedAt, err = parseTimestamp(detectedAt); err != nil {
		return detect.Detection{}, fmt.Errorf("parse detected_at for %s/%s: %w", det.AwardID, det.ContractID, err)
	}
	return det, nil
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
