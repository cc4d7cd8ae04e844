package signals

import (
	"transition/internal/records"
)

// Name identifies one of the six fixed transition signals.
type Name string

const (
	NameAgencyContinuity Name = "agency_continuity"
	NameTimingProximity  Name = "timing_proximity"
	NameCompetitionType  Name = "competition_type"
	NamePatentSignal     Name = "patent_signal"
	NameCETAlignment     Name = "cet_alignment"
	NameVendorMatch      Name = "vendor_match"
)

// Names returns the fixed signal order used everywhere a deterministic
// traversal is needed (scoring, evidence, serialization).
func Names() []Name {
	return []Name{
		NameAgencyContinuity,
		NameTimingProximity,
		NameCompetitionType,
		NamePatentSignal,
		NameCETAlignment,
		NameVendorMatch,
	}
}

// Vector holds one value per signal name.
type Vector map[Name]float64

// Env carries the side inputs an extractor may consult beyond the pair
// itself. Extractors read it, never write it.
type Env struct {
	Agencies *AgencyTable
	// Patents is the merged patent set for the award's recipient: the
	// award's own references plus any side-table entries.
	Patents []records.PatentRef
	Timing  TimingParams
	Patent  PatentParams
	// VendorConfidence is the resolved vendor-match confidence for this
	// pair, zero when resolution found nothing.
	VendorConfidence float64
}

// Extractor pairs a signal name with its pure extraction function.
type Extractor struct {
	Name    Name
	Extract func(records.Award, records.Contract, Env) (float64, error)
}

// All returns the six extractors in canonical order.
func All() []Extractor {
	return []Extractor{
		{Name: NameAgencyContinuity, Extract: AgencyContinuity},
		{Name: NameTimingProximity, Extract: TimingProximity},
		{Name: NameCompetitionType, Extract: CompetitionType},
		{Name: NamePatentSignal, Extract: PatentSignal},
		{Name: NameCETAlignment, Extract: CETAlignment},
		{Name: NameVendorMatch, Extract: VendorMatch},
	}
}

// VendorMatch reports the pair's resolved vendor-match confidence.
func VendorMatch(_ records.Award, _ records.Contract, env Env) (float64, error) {
	conf := env.VendorConfidence
	if conf < 0 {
		return 0, nil
	}
	if conf > 1 {
		return 1, nil
	}
	return conf, nil
}

// CETAlignment scores technology-area agreement: full credit only when both
// sides carry a label and the labels match. Absence yields no credit and no
// error; an absent label is a legitimate state, not a data defect.
func CETAlignment(award records.Award, contract records.Contract, _ Env) (float64, error) {
	if award.TechnologyArea == "" || contract.TechnologyArea == "" {
		return 0, nil
	}
	if award.TechnologyArea == contract.TechnologyArea {
		return 1, nil
	}
	return 0, nil
}
