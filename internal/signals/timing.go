package signals

import (
	"transition/internal/faults"
	"transition/internal/records"
)

// TimingParams shapes the timing-proximity decay curve. All values are in
// days relative to the award's completion date.
type TimingParams struct {
	// GraceDays tolerates contracts signed slightly before completion.
	GraceDays int
	// FullCreditDays is the gap up to which the signal stays at 1.0.
	FullCreditDays int
	// WindowDays is the gap at which the signal reaches 0.0.
	WindowDays int
}

// DefaultTimingParams returns the standard 90-day full-credit window decaying
// to zero at 24 months, with a 30-day pre-completion grace period.
func DefaultTimingParams() TimingParams {
	return TimingParams{GraceDays: 30, FullCreditDays: 90, WindowDays: 730}
}

func (p TimingParams) valid() bool {
	return p.GraceDays >= 0 && p.FullCreditDays >= 0 && p.WindowDays > p.FullCreditDays
}

// TimingProximity scores how soon after award completion the contract action
// occurred: full credit within the grace-to-full-credit band, linear decay to
// zero at the window edge, zero outside.
func TimingProximity(award records.Award, contract records.Contract, env Env) (float64, error) {
	if award.CompletionDate.IsZero() || contract.ActionDate.IsZero() {
		return 0, faults.Wrap(faults.ErrData, "signals", string(NameTimingProximity), "missing completion or action date", nil)
	}
	params := env.Timing
	if !params.valid() {
		params = DefaultTimingParams()
	}

	gapDays := int(contract.ActionDate.Sub(award.CompletionDate).Hours() / 24)
	switch {
	case gapDays < -params.GraceDays:
		return 0, nil
	case gapDays <= params.FullCreditDays:
		return 1, nil
	case gapDays >= params.WindowDays:
		return 0, nil
	default:
		span := float64(params.WindowDays - params.FullCreditDays)
		return 1 - float64(gapDays-params.FullCreditDays)/span, nil
	}
}
