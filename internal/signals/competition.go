package signals

import (
	"transition/internal/faults"
	"transition/internal/records"
)

// Competition scores by type. Limited competition is strong transition
// evidence; full-and-open procurement is weak evidence that the award led to
// the contract.
var competitionScores = map[records.CompetitionType]float64{
	records.CompetitionSoleSource:   1.0,
	records.CompetitionFollowOnSBIR: 1.0,
	records.CompetitionNotCompeted:  0.95,
	records.CompetitionLimited:      0.9,
	records.CompetitionSetAside:     0.6,
	records.CompetitionFullAndOpen:  0.3,
}

// CompetitionType scores the contract's competition type. An absent or
// unrecognized type scores zero and is counted as a data degradation.
func CompetitionType(_ records.Award, contract records.Contract, _ Env) (float64, error) {
	if !contract.Competition.Known() {
		return 0, faults.Wrap(faults.ErrData, "signals", string(NameCompetitionType), "competition type absent", nil)
	}
	if score, ok := competitionScores[contract.Competition]; ok {
		return score, nil
	}
	return 0, faults.Wrap(faults.ErrData, "signals", string(NameCompetitionType), "unrecognized competition type", nil)
}
