package records

import (
	"encoding/json"
	"strings"
)

// CompetitionType classifies how a contract was competed.
type CompetitionType string

const (
	CompetitionUnknown      CompetitionType = ""
	CompetitionSoleSource   CompetitionType = "sole_source"
	CompetitionLimited      CompetitionType = "limited"
	CompetitionSetAside     CompetitionType = "set_aside"
	CompetitionFullAndOpen  CompetitionType = "full_and_open"
	CompetitionNotCompeted  CompetitionType = "not_competed"
	CompetitionFollowOnSBIR CompetitionType = "sbir_phase_iii"
)

var competitionAliases = map[string]CompetitionType{
	"sole_source":                   CompetitionSoleSource,
	"sole source":                   CompetitionSoleSource,
	"only one source":               CompetitionSoleSource,
	"not_competed":                  CompetitionNotCompeted,
	"not competed":                  CompetitionNotCompeted,
	"limited":                       CompetitionLimited,
	"limited_competition":           CompetitionLimited,
	"not available for competition": CompetitionLimited,
	"set_aside":                     CompetitionSetAside,
	"set aside":                     CompetitionSetAside,
	"full_and_open":                 CompetitionFullAndOpen,
	"full and open":                 CompetitionFullAndOpen,
	"full and open competition":     CompetitionFullAndOpen,
	"sbir_phase_iii":                CompetitionFollowOnSBIR,
	"sbir phase iii":                CompetitionFollowOnSBIR,
}

// ParseCompetitionType maps a raw competition description onto the known
// enumeration. Unrecognized values map to CompetitionUnknown rather than
// failing; the competition signal treats unknown as no evidence.
func ParseCompetitionType(raw string) CompetitionType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return CompetitionUnknown
	}
	if ct, ok := competitionAliases[key]; ok {
		return ct
	}
	return CompetitionUnknown
}

// Known reports whether the competition type carries usable evidence.
func (c CompetitionType) Known() bool {
	return c != CompetitionUnknown
}

// UnmarshalJSON accepts raw source descriptions and folds them onto the
// enumeration so upstream feeds with free-text competition fields still load.
func (c *CompetitionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ParseCompetitionType(raw)
	return nil
}
