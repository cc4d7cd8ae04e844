package signals

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"transition/internal/faults"
	"transition/internal/records"
)

// partialAgencyCredit is awarded when the two agencies differ but sit in the
// same department (parent/child or siblings).
const partialAgencyCredit = 0.5

//go:embed agencies.yaml
var agencyTableYAML []byte

// AgencyTable resolves sub-agency/parent-agency relationships for the
// agency-continuity signal. Keys are canonicalized agency codes.
type AgencyTable struct {
	parents map[string]string
}

type agencyTableDoc struct {
	Parents map[string]string `yaml:"parents"`
}

var (
	defaultTableOnce sync.Once
	defaultTable     *AgencyTable
	defaultTableErr  error
)

// DefaultAgencyTable parses the embedded federal agency hierarchy. The parse
// happens once; subsequent calls return the cached table.
func DefaultAgencyTable() (*AgencyTable, error) {
	defaultTableOnce.Do(func() {
		var doc agencyTableDoc
		if err := yaml.Unmarshal(agencyTableYAML, &doc); err != nil {
			defaultTableErr = fmt.Errorf("parse embedded agency table: %w", err)
			return
		}
		defaultTable = NewAgencyTable(doc.Parents)
	})
	return defaultTable, defaultTableErr
}

// NewAgencyTable builds a table from a child-to-parent mapping.
func NewAgencyTable(parents map[string]string) *AgencyTable {
	canonical := make(map[string]string, len(parents))
	for child, parent := range parents {
		canonical[canonAgency(child)] = canonAgency(parent)
	}
	return &AgencyTable{parents: canonical}
}

// Related scores the relationship between two agency codes: 1 for the same
// agency, partial credit for parent/child or shared-parent pairs, 0 otherwise.
func (t *AgencyTable) Related(a, b string) float64 {
	ca, cb := canonAgency(a), canonAgency(b)
	if ca == "" || cb == "" {
		return 0
	}
	if ca == cb {
		return 1
	}
	if t == nil {
		return 0
	}
	pa, pb := t.parents[ca], t.parents[cb]
	if pa == cb || pb == ca {
		return partialAgencyCredit
	}
	if pa != "" && pa == pb {
		return partialAgencyCredit
	}
	return 0
}

// AgencyContinuity scores whether the contract was let by the awarding agency
// or a related one. A missing agency on either side degrades to zero and is
// reported as a data error.
func AgencyContinuity(award records.Award, contract records.Contract, env Env) (float64, error) {
	awardAgency := strings.TrimSpace(award.Agency)
	contractAgency := strings.TrimSpace(contract.Agency)
	if awardAgency == "" || contractAgency == "" {
		return 0, faults.Wrap(faults.ErrData, "signals", string(NameAgencyContinuity), "missing agency field", nil)
	}
	return env.Agencies.Related(awardAgency, contractAgency), nil
}

func canonAgency(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
