package detect

import (
	"time"

	"transition/internal/evidence"
	"transition/internal/faults"
	"transition/internal/scoring"
	"transition/internal/signals"
)

// Detection is one emitted award-to-contract transition finding. At most one
// detection exists per (award_id, contract_id) pair per run.
type Detection struct {
	AwardID    string             `json:"award_id"`
	ContractID string             `json:"contract_id"`
	Signals    signals.Vector     `json:"signals"`
	Likelihood float64            `json:"likelihood_score"`
	Confidence scoring.Confidence `json:"confidence"`
	Evidence   evidence.Bundle    `json:"evidence"`
	DetectedAt time.Time          `json:"detected_at"`
}

// Summary aggregates run accounting returned alongside the detection set.
type Summary struct {
	RunID             string `json:"run_id"`
	Preset            string `json:"preset,omitempty"`
	AwardsProcessed   int    `json:"awards_processed"`
	DetectionsEmitted int    `json:"detections_emitted"`
	// CandidatesConsidered counts every award/contract pair retrieved from
	// the index and evaluated.
	CandidatesConsidered int `json:"candidates_considered"`
	// CandidatesSkipped counts pairs dropped before scoring: an extractor
	// violated its bounds or the pair could not be evaluated at all.
	CandidatesSkipped int `json:"candidates_skipped"`
	// MissingFieldEvents counts signal degradations caused by absent or
	// malformed record fields. The affected pairs still score.
	MissingFieldEvents int `json:"missing_field_events"`
	// ContractsUnindexed counts pool records with no identifier and no name.
	ContractsUnindexed int                     `json:"contracts_unindexed"`
	Errors             map[faults.Category]int `json:"errors"`
	StartedAt          time.Time               `json:"started_at"`
	FinishedAt         time.Time               `json:"finished_at"`
	Workers            int                     `json:"workers"`
}

// Result is the full output of one orchestrator run.
type Result struct {
	Detections []Detection
	Summary    Summary
}
