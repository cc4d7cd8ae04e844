package match

// Method identifies which cascade step produced a vendor match.
type Method string

const (
	MethodUEIExact  Method = "uei_exact"
	MethodCAGEExact Method = "cage_exact"
	MethodDUNSExact Method = "duns_exact"
	MethodFuzzyName Method = "fuzzy_name"
)

// Confidence levels assigned to exact-identifier matches. Fuzzy matches carry
// the measured similarity instead, capped at FuzzyConfidenceCap.
const (
	ConfidenceUEI  = 0.99
	ConfidenceCAGE = 0.95
	ConfidenceDUNS = 0.90

	// FuzzyConfidenceCap bounds fuzzy-name confidence below every exact step.
	FuzzyConfidenceCap = 0.85
	// DefaultFuzzyFloor is the minimum similarity accepted as a fuzzy match.
	DefaultFuzzyFloor = 0.65
)

// VendorMatch links an award to one contract vendor with a method and a
// confidence. It is an ephemeral per-run value, never persisted on its own.
type VendorMatch struct {
	AwardID    string
	ContractID string
	Method     Method
	Confidence float64
}
