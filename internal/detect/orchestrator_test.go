package detect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"transition/internal/detect"
	"transition/internal/faults"
	"transition/internal/records"
	"transition/internal/scoring"
	"transition/internal/signals"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func fixedClock(value string) func() time.Time {
	ts := day(value)
	return func() time.Time { return ts }
}

func newOrchestrator(t *testing.T, mutate func(*detect.Options)) *detect.Orchestrator {
	t.Helper()
	preset, err := scoring.LookupPreset(scoring.PresetDefault)
	if err != nil {
		t.Fatal(err)
	}
	scorer, err := scoring.NewScorer(preset.Weights, preset.Thresholds)
	if err != nil {
		t.Fatal(err)
	}
	opts := detect.Options{
		Scorer:        scorer,
		EmissionFloor: preset.EmissionFloor,
		Timing:        signals.DefaultTimingParams(),
		Patent:        signals.DefaultPatentParams(),
		Workers:       4,
		Now:           fixedClock("2024-06-01"),
	}
	if mutate != nil {
		mutate(&opts)
	}
	orch, err := detect.New(opts)
	if err != nil {
		t.Fatalf("construct orchestrator: %v", err)
	}
	return orch
}

func TestNewRequiresScorer(t *testing.T) {
	_, err := detect.New(detect.Options{})
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestScenarioStrongTransitionScoresHigh(t *testing.T) {
	orch := newOrchestrator(t, nil)
	awards := []records.Award{{
		AwardID:        "A1",
		Recipient:      records.Identifiers{UEI: "U1"},
		RecipientName:  "Quantum Dynamics",
		Agency:         "DOD",
		CompletionDate: day("2020-01-01"),
		TechnologyArea: "ai",
		Patents: []records.PatentRef{
			{PatentID: "P1", GrantDate: day("2019-03-01"), TechnologyArea: "ai"},
			{PatentID: "P2", GrantDate: day("2018-07-01"), TechnologyArea: "ai"},
		},
	}}
	contracts := []records.Contract{{
		ContractID:     "C1",
		Vendor:         records.Identifiers{UEI: "U1"},
		VendorName:     "Quantum Dynamics Inc",
		Agency:         "DOD",
		ActionDate:     day("2020-03-01"),
		Competition:    records.CompetitionSoleSource,
		TechnologyArea: "ai",
	}}

	result, err := orch.Run(context.Background(), awards, contracts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Detections) != 1 {
		t.Fatalf("detections = %d, want 1", len(result.Detections))
	}
	d := result.Detections[0]
	if d.Signals[signals.NameVendorMatch] != 0.99 {
		t.Fatalf("vendor_match = %v, want 0.99", d.Signals[signals.NameVendorMatch])
	}
	if d.Signals[signals.NameAgencyContinuity] != 1.0 {
		t.Fatalf("agency_continuity = %v, want 1.0", d.Signals[signals.NameAgencyContinuity])
	}
	if d.Signals[signals.NameTimingProximity] != 1.0 {
		t.Fatalf("timing_proximity = %v, want 1.0", d.Signals[signals.NameTimingProximity])
	}
	if d.Signals[signals.NameCETAlignment] != 1.0 {
		t.Fatalf("cet_alignment = %v, want 1.0", d.Signals[signals.NameCETAlignment])
	}
	if d.Signals[signals.NameCompetitionType] < 0.9 {
		t.Fatalf("competition_type = %v, want high", d.Signals[signals.NameCompetitionType])
	}
	if d.Likelihood < 0.85 {
		t.Fatalf("likelihood = %v, want >= 0.85", d.Likelihood)
	}
	if d.Confidence != scoring.ConfidenceHigh {
		t.Fatalf("confidence = %q, want HIGH", d.Confidence)
	}
	if err := d.Evidence.Verify(d.Likelihood); err != nil {
		t.Fatalf("evidence: %v", err)
	}
}

func TestScenarioLateFuzzyPairFallsBelowFloor(t *testing.T) {
	orch := newOrchestrator(t, nil)
	awards := []records.Award{{
		AwardID:        "A2",
		RecipientName:  "Acme Technology",
		Agency:         "DOD",
		CompletionDate: day("2020-01-01"),
	}}
	contracts := []records.Contract{{
		ContractID: "C2",
		VendorName: "Acme Technologies Inc",
		Agency:     "HHS",
		ActionDate: day("2020-01-01").AddDate(0, 0, 500),
	}}

	result, err := orch.Run(context.Background(), awards, contracts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Detections) != 0 {
		t.Fatalf("expected no detections below the emission floor, got %d (likelihood %v)",
			len(result.Detections), result.Detections[0].Likelihood)
	}
	if result.Summary.CandidatesConsidered != 1 {
		t.Fatalf("candidates considered = %d, want 1", result.Summary.CandidatesConsidered)
	}
	// Absent competition type degrades that signal and is counted.
	if result.Summary.MissingFieldEvents == 0 {
		t.Fatal("expected missing-field events to be counted")
	}
}

func TestScenarioMissingAgencyStillScores(t *testing.T) {
	orch := newOrchestrator(t, nil)
	awards := []records.Award{{
		AwardID:        "A3",
		Recipient:      records.Identifiers{UEI: "U3"},
		Agency:         "DOD",
		CompletionDate: day("2020-01-01"),
		TechnologyArea: "ai",
		Patents: []records.PatentRef{
			{PatentID: "P1", GrantDate: day("2019-01-01"), TechnologyArea: "ai"},
			{PatentID: "P2", GrantDate: day("2018-01-01"), TechnologyArea: "ai"},
		},
	}}
	contracts := []records.Contract{{
		ContractID:     "C3",
		Vendor:         records.Identifiers{UEI: "U3"},
		VendorName:     "Vendor Three",
		ActionDate:     day("2020-02-01"),
		Competition:    records.CompetitionSoleSource,
		TechnologyArea: "ai",
	}}

	result, err := orch.Run(context.Background(), awards, contracts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Detections) != 1 {
		t.Fatalf("detections = %d, want 1 despite missing agency", len(result.Detections))
	}
	d := result.Detections[0]
	if d.Signals[signals.NameAgencyContinuity] != 0 {
		t.Fatalf("agency_continuity = %v, want 0 for missing agency", d.Signals[signals.NameAgencyContinuity])
	}
	if result.Summary.MissingFieldEvents == 0 {
		t.Fatal("missing agency should be counted in the summary")
	}
	if result.Summary.Errors[faults.CategoryData] == 0 {
		t.Fatal("missing agency should be counted under the data category")
	}
}

func TestRunDeterministic(t *testing.T) {
	awards := []records.Award{
		{
			AwardID:        "A10",
			Recipient:      records.Identifiers{UEI: "U10"},
			RecipientName:  "Boreal Robotics",
			Agency:         "NAVY",
			CompletionDate: day("2021-01-01"),
			TechnologyArea: "autonomy",
		},
		{
			AwardID:        "A11",
			RecipientName:  "Cascade Photonics",
			Agency:         "DARPA",
			CompletionDate: day("2021-06-01"),
		},
	}
	contracts := []records.Contract{
		{ContractID: "C10", Vendor: records.Identifiers{UEI: "U10"}, VendorName: "Boreal Robotics LLC",
			Agency: "NAVY", ActionDate: day("2021-03-01"), Competition: records.CompetitionSoleSource, TechnologyArea: "autonomy"},
		{ContractID: "C11", Vendor: records.Identifiers{UEI: "U10"}, VendorName: "Boreal Robotics LLC",
			Agency: "DOD", ActionDate: day("2021-03-01"), Competition: records.CompetitionLimited, TechnologyArea: "autonomy"},
		{ContractID: "C12", VendorName: "Cascade Photonics Corp",
			Agency: "DARPA", ActionDate: day("2021-07-15"), Competition: records.CompetitionSoleSource},
	}

	run := func() detect.Result {
		orch := newOrchestrator(t, func(o *detect.Options) { o.Workers = 8 })
		result, err := orch.Run(context.Background(), awards, contracts, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}
	first := run()
	second := run()
	if diff := cmp.Diff(first.Detections, second.Detections); diff != "" {
		t.Fatalf("identical runs produced different detections:\n%s", diff)
	}

	// Output ordering: award id ascending, likelihood descending.
	for i := 1; i < len(first.Detections); i++ {
		prev, cur := first.Detections[i-1], first.Detections[i]
		if prev.AwardID > cur.AwardID {
			t.Fatalf("detections out of award order: %s before %s", prev.AwardID, cur.AwardID)
		}
		if prev.AwardID == cur.AwardID && prev.Likelihood < cur.Likelihood {
			t.Fatalf("detections out of likelihood order within %s", cur.AwardID)
		}
	}
}

func TestRunEmitsAtMostOneDetectionPerPair(t *testing.T) {
	orch := newOrchestrator(t, nil)
	// The award reaches C20 both through the UEI map and the name block.
	awards := []records.Award{{
		AwardID:        "A20",
		Recipient:      records.Identifiers{UEI: "U20"},
		RecipientName:  "Gale Materials",
		Agency:         "DOE",
		CompletionDate: day("2021-01-01"),
	}}
	contracts := []records.Contract{{
		ContractID:  "C20",
		Vendor:      records.Identifiers{UEI: "U20"},
		VendorName:  "Gale Materials Inc",
		Agency:      "DOE",
		ActionDate:  day("2021-02-01"),
		Competition: records.CompetitionSoleSource,
	}}

	result, err := orch.Run(context.Background(), awards, contracts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Detections) != 1 {
		t.Fatalf("detections = %d, want exactly 1 for the pair", len(result.Detections))
	}
	if result.Summary.CandidatesConsidered != 1 {
		t.Fatalf("candidates considered = %d, want 1 (deduplicated)", result.Summary.CandidatesConsidered)
	}
}

func TestRunUsesPatentSideTable(t *testing.T) {
	orch := newOrchestrator(t, nil)
	award := records.Award{
		AwardID:        "A30",
		Recipient:      records.Identifiers{UEI: "U30"},
		Agency:         "DOD",
		CompletionDate: day("2020-01-01"),
		TechnologyArea: "ai",
	}
	contract := records.Contract{
		ContractID:     "C30",
		Vendor:         records.Identifiers{UEI: "U30"},
		Agency:         "DOD",
		ActionDate:     day("2020-02-01"),
		Competition:    records.CompetitionSoleSource,
		TechnologyArea: "ai",
	}
	patents := detect.PatentTable{
		"U30": {
			{PatentID: "P30", GrantDate: day("2019-05-01"), TechnologyArea: "ai"},
			{PatentID: "P31", GrantDate: day("2019-08-01"), TechnologyArea: "ai"},
		},
	}

	withPatents, err := orch.Run(context.Background(), []records.Award{award}, []records.Contract{contract}, patents)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	withoutPatents, err := orch.Run(context.Background(), []records.Award{award}, []records.Contract{contract}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(withPatents.Detections) != 1 || len(withoutPatents.Detections) != 1 {
		t.Fatalf("expected one detection each, got %d and %d",
			len(withPatents.Detections), len(withoutPatents.Detections))
	}
	with := withPatents.Detections[0].Signals[signals.NamePatentSignal]
	without := withoutPatents.Detections[0].Signals[signals.NamePatentSignal]
	if !(with > without) {
		t.Fatalf("side-table patents should raise the patent signal: %v vs %v", with, without)
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	orch := newOrchestrator(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	awards := []records.Award{{AwardID: "A40", Recipient: records.Identifiers{UEI: "U40"}}}
	contracts := []records.Contract{{ContractID: "C40", Vendor: records.Identifiers{UEI: "U40"}}}
	result, err := orch.Run(ctx, awards, contracts, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Summary.AwardsProcessed != 0 {
		t.Fatalf("awards processed = %d, want 0 after pre-run cancellation", result.Summary.AwardsProcessed)
	}
	if len(result.Detections) != 0 {
		t.Fatalf("detections = %d, want 0", len(result.Detections))
	}
}

func TestPatentKeyPriority(t *testing.T) {
	cases := []struct {
		name  string
		award records.Award
		want  string
	}{
		{"uei wins", records.Award{Recipient: records.Identifiers{UEI: "u1", CAGE: "c1"}, RecipientName: "Acme"}, "U1"},
		{"cage next", records.Award{Recipient: records.Identifiers{CAGE: "c1", DUNS: "d1"}}, "C1"},
		{"duns next", records.Award{Recipient: records.Identifiers{DUNS: "d1"}}, "D1"},
		{"name fallback", records.Award{RecipientName: "Acme Inc"}, "acme"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detect.PatentKey(tc.award); got != tc.want {
				t.Fatalf("PatentKey = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLargePoolUsesIndexNotScan(t *testing.T) {
	// A pool with many unrelated vendors: the award should only ever
	// consider the two contracts it can reach through the index.
	contracts := make([]records.Contract, 0, 500)
	for i := 0; i < 498; i++ {
		contracts = append(contracts, records.Contract{
			ContractID: contractID(i),
			VendorName: "Unrelated Vendor " + contractID(i),
			Agency:     "DOC",
			ActionDate: day("2021-01-01"),
		})
	}
	contracts = append(contracts,
		records.Contract{ContractID: "CX1", Vendor: records.Identifiers{UEI: "UX"},
			VendorName: "Target Vendor", Agency: "DOD", ActionDate: day("2021-01-01")},
		records.Contract{ContractID: "CX2", VendorName: "Helio Target Systems",
			Agency: "DOD", ActionDate: day("2021-01-01")},
	)

	orch := newOrchestrator(t, nil)
	awards := []records.Award{{
		AwardID:        "A50",
		Recipient:      records.Identifiers{UEI: "UX"},
		RecipientName:  "Helio Target",
		Agency:         "DOD",
		CompletionDate: day("2020-12-01"),
	}}
	result, err := orch.Run(context.Background(), awards, contracts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Summary.CandidatesConsidered > 10 {
		t.Fatalf("candidates considered = %d; index should keep the candidate set small",
			result.Summary.CandidatesConsidered)
	}
}

func contractID(i int) string {
	return "CU" + string(rune('a'+i%26)) + string(rune('a'+(i/26)%26)) + string(rune('a'+(i/676)%26))
}
