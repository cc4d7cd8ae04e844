package detect

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"transition/internal/evidence"
	"transition/internal/faults"
	"transition/internal/logging"
	"transition/internal/match"
	"transition/internal/normalize"
	"transition/internal/records"
	"transition/internal/scoring"
	"transition/internal/signals"
)

// PatentTable is the optional side-table of patents keyed by company
// identifier (see PatentKey).
type PatentTable map[string][]records.PatentRef

// Options configures an orchestrator. Scorer is required; everything else has
// a usable default.
type Options struct {
	Scorer *scoring.Scorer
	// EmissionFloor is the minimum composite score that produces a
	// detection.
	EmissionFloor float64
	// FuzzyFloor is the minimum name similarity accepted by the resolver.
	FuzzyFloor float64
	Timing     signals.TimingParams
	Patent     signals.PatentParams
	Agencies   *signals.AgencyTable
	// Workers bounds the parallel map; zero means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
	// Preset names the configuration for run-summary bookkeeping only.
	Preset string
	// Now supplies the run clock. Injectable so identical runs can produce
	// byte-identical output; defaults to time.Now.
	Now func() time.Time
}

// Orchestrator runs batches of awards against a contract pool.
type Orchestrator struct {
	opts       Options
	extractors []signals.Extractor
	logger     *slog.Logger
}

// New validates options and constructs an orchestrator. Configuration
// problems fail here, before any batch work.
func New(opts Options) (*Orchestrator, error) {
	if opts.Scorer == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "detect", "new", "scorer is required", nil)
	}
	if opts.EmissionFloor < 0 || opts.EmissionFloor > 1 {
		return nil, faults.Wrap(faults.ErrConfiguration, "detect", "new", "emission floor must lie in [0,1]", nil)
	}
	if opts.Agencies == nil {
		table, err := signals.DefaultAgencyTable()
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "detect", "new", "load default agency table", err)
		}
		opts.Agencies = table
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		opts:       opts,
		extractors: signals.All(),
		logger:     logging.NewComponentLogger(logger, "detect"),
	}, nil
}

// awardOutcome is one worker's atomic result for a single award.
type awardOutcome struct {
	detections []Detection
	considered int
	skipped    int
	missing    int
	errs       map[faults.Category]int
}

// Run executes the batch. The contract slice must stay unmodified for the
// duration of the call. On cancellation the detections of every fully
// processed award are still returned alongside the context error.
func (o *Orchestrator) Run(ctx context.Context, awards []records.Award, contracts []records.Contract, patents PatentTable) (Result, error) {
	startedAt := o.opts.Now().UTC()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, o.logger)

	index := match.NewIndex(contracts)
	resolver := match.NewResolver(index, o.opts.FuzzyFloor)
	logger.Info("contract index built",
		logging.Int("contracts", len(contracts)),
		logging.Int("indexed", index.Indexed()),
		logging.Int("unindexed", index.Unindexed()))

	outcomes := make([]*awardOutcome, len(awards))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.opts.Workers)
	for i := range awards {
		i := i
		group.Go(func() error {
			// Cancellation boundary: an award either runs to completion
			// or is not started at all.
			if err := groupCtx.Err(); err != nil {
				return err
			}
			awardCtx := logging.WithAwardID(groupCtx, awards[i].AwardID)
			outcomes[i] = o.processAward(awardCtx, awards[i], resolver, patents, startedAt)
			return nil
		})
	}
	runErr := group.Wait()

	result := Result{
		Summary: Summary{
			RunID:              runID,
			Preset:             o.opts.Preset,
			ContractsUnindexed: index.Unindexed(),
			Errors:             make(map[faults.Category]int),
			StartedAt:          startedAt,
			Workers:            o.opts.Workers,
		},
	}
	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		result.Summary.AwardsProcessed++
		result.Summary.CandidatesConsidered += outcome.considered
		result.Summary.CandidatesSkipped += outcome.skipped
		result.Summary.MissingFieldEvents += outcome.missing
		for category, count := range outcome.errs {
			result.Summary.Errors[category] += count
		}
		result.Detections = append(result.Detections, outcome.detections...)
	}
	sortDetections(result.Detections)
	result.Summary.DetectionsEmitted = len(result.Detections)
	result.Summary.FinishedAt = o.opts.Now().UTC()

	logger.Info("batch run finished",
		logging.Int("awards_processed", result.Summary.AwardsProcessed),
		logging.Int("detections_emitted", result.Summary.DetectionsEmitted),
		logging.Int("candidates_considered", result.Summary.CandidatesConsidered),
		logging.Int("candidates_skipped", result.Summary.CandidatesSkipped),
		logging.Int("missing_field_events", result.Summary.MissingFieldEvents),
		logging.Duration("elapsed", result.Summary.FinishedAt.Sub(startedAt)))
	return result, runErr
}

func (o *Orchestrator) processAward(ctx context.Context, award records.Award, resolver *match.Resolver, patents PatentTable, runTime time.Time) *awardOutcome {
	outcome := &awardOutcome{errs: make(map[faults.Category]int)}
	logger := logging.WithContext(ctx, o.logger)

	mergedPatents := award.Patents
	if side := patents[PatentKey(award)]; len(side) > 0 {
		mergedPatents = append(append([]records.PatentRef{}, award.Patents...), side...)
	}
	env := signals.Env{
		Agencies: o.opts.Agencies,
		Patents:  mergedPatents,
		Timing:   o.opts.Timing,
		Patent:   o.opts.Patent,
	}

	for _, contract := range resolver.Candidates(award) {
		outcome.considered++
		detection, degraded, err := o.evaluatePair(award, contract, resolver, env, runTime)
		outcome.missing += degraded
		if degraded > 0 {
			outcome.errs[faults.CategoryData] += degraded
		}
		if err != nil {
			outcome.errs[faults.Classify(err)]++
			outcome.skipped++
			logger.Warn("candidate pair skipped",
				logging.String(logging.FieldContractID, contract.ContractID),
				logging.Error(err))
			continue
		}
		if detection != nil {
			outcome.detections = append(outcome.detections, *detection)
		}
	}
	return outcome
}

// evaluatePair scores one candidate. A nil detection with nil error means the
// pair legitimately scored below the emission floor. degraded counts the
// signals that fell back to zero on missing fields.
func (o *Orchestrator) evaluatePair(award records.Award, contract *records.Contract, resolver *match.Resolver, env signals.Env, runTime time.Time) (*Detection, int, error) {
	var vendorMatch *match.VendorMatch
	if vm, ok := resolver.MatchPair(award, contract); ok {
		vendorMatch = &vm
		env.VendorConfidence = vm.Confidence
	} else {
		env.VendorConfidence = 0
	}

	vector := make(signals.Vector, len(o.extractors))
	degraded := 0
	for _, extractor := range o.extractors {
		value, err := extractor.Extract(award, *contract, env)
		if err != nil {
			if faults.Classify(err) != faults.CategoryData {
				return nil, degraded, err
			}
			// Data problems degrade the one signal and keep going.
			degraded++
			value = 0
		}
		if value < 0 || value > 1 {
			return nil, degraded, faults.Wrap(faults.ErrComputation, "detect", string(extractor.Name),
				"signal value outside [0,1]", nil)
		}
		vector[extractor.Name] = value
	}

	score := o.opts.Scorer.Score(vector)
	if score < o.opts.EmissionFloor {
		return nil, degraded, nil
	}

	bundle := evidence.Assemble(evidence.Input{
		Award:       award,
		Contract:    *contract,
		Match:       vendorMatch,
		Signals:     vector,
		Weights:     o.opts.Scorer.Weights(),
		Score:       score,
		GeneratedAt: runTime,
	})
	return &Detection{
		AwardID:    award.AwardID,
		ContractID: contract.ContractID,
		Signals:    vector,
		Likelihood: score,
		Confidence: o.opts.Scorer.Classify(score),
		Evidence:   bundle,
		DetectedAt: runTime,
	}, degraded, nil
}

// PatentKey derives the side-table key for an award's recipient: the highest
// priority identifier present, else the normalized recipient name.
func PatentKey(award records.Award) string {
	if id := normalize.Identifier(award.Recipient.UEI); id != "" {
		return id
	}
	if id := normalize.Identifier(award.Recipient.CAGE); id != "" {
		return id
	}
	if id := normalize.Identifier(award.Recipient.DUNS); id != "" {
		return id
	}
	return normalize.Name(award.RecipientName)
}

// sortDetections applies the stable output ordering: award id ascending,
// likelihood descending, contract id ascending.
func sortDetections(detections []Detection) {
	sort.Slice(detections, func(i, j int) bool {
		a, b := detections[i], detections[j]
		if a.AwardID != b.AwardID {
			return a.AwardID < b.AwardID
		}
		if a.Likelihood != b.Likelihood {
			return a.Likelihood > b.Likelihood
		}
		return a.ContractID < b.ContractID
	})
}
