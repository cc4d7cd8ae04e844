package signals

import (
	"transition/internal/records"
)

// PatentParams shapes the patent signal.
type PatentParams struct {
	// LookbackDays restricts which grants count, measured back from the
	// award's completion date. Grants after completion also count up to the
	// same distance forward; late-issuing patents on award-period work are
	// common.
	LookbackDays int
	// CountSaturation is the patent count at which the count component
	// reaches half of its maximum (hyperbolic saturation).
	CountSaturation int
	// CountWeight and OverlapWeight split the signal between volume and
	// topical overlap; they must sum to 1.
	CountWeight   float64
	OverlapWeight float64
}

// DefaultPatentParams uses a five-year lookback with a 60/40 count/overlap
// split.
func DefaultPatentParams() PatentParams {
	return PatentParams{
		LookbackDays:    1825,
		CountSaturation: 2,
		CountWeight:     0.6,
		OverlapWeight:   0.4,
	}
}

func (p PatentParams) valid() bool {
	if p.LookbackDays <= 0 || p.CountSaturation <= 0 {
		return false
	}
	sum := p.CountWeight + p.OverlapWeight
	return p.CountWeight >= 0 && p.OverlapWeight >= 0 && sum > 0.999 && sum < 1.001
}

// PatentSignal scores the recipient's patent activity in the lookback window:
// a saturating count component plus topical overlap with the award's
// technology area. No patents in the window is a legitimate zero, not a data
// error.
func PatentSignal(award records.Award, _ records.Contract, env Env) (float64, error) {
	params := env.Patent
	if !params.valid() {
		params = DefaultPatentParams()
	}
	if len(env.Patents) == 0 {
		return 0, nil
	}

	inWindow := 0
	overlapping := 0
	labeled := 0
	for _, patent := range env.Patents {
		if !patentInWindow(award, patent, params.LookbackDays) {
			continue
		}
		inWindow++
		if patent.TechnologyArea == "" {
			continue
		}
		labeled++
		if award.TechnologyArea != "" && patent.TechnologyArea == award.TechnologyArea {
			overlapping++
		}
	}
	if inWindow == 0 {
		return 0, nil
	}

	countScore := float64(inWindow) / float64(inWindow+params.CountSaturation)
	overlapScore := 0.0
	if labeled > 0 {
		overlapScore = float64(overlapping) / float64(labeled)
	}
	return params.CountWeight*countScore + params.OverlapWeight*overlapScore, nil
}

func patentInWindow(award records.Award, patent records.PatentRef, lookbackDays int) bool {
	if patent.GrantDate.IsZero() {
		// Undated grants still count toward volume; the window cannot
		// exclude what it cannot place.
		return true
	}
	if award.CompletionDate.IsZero() {
		return true
	}
	gap := award.CompletionDate.Sub(patent.GrantDate).Hours() / 24
	if gap < 0 {
		gap = -gap
	}
	return int(gap) <= lookbackDays
}
