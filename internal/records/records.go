package records

import (
	"strings"
	"time"
)

// Identifiers carries the federal entity identifier triple. Any field may be
// empty; UEI takes priority over CAGE, CAGE over DUNS.
type Identifiers struct {
	UEI  string `json:"uei,omitempty"`
	CAGE string `json:"cage,omitempty"`
	DUNS string `json:"duns,omitempty"`
}

// Empty reports whether no identifier is present.
func (id Identifiers) Empty() bool {
	return strings.TrimSpace(id.UEI) == "" &&
		strings.TrimSpace(id.CAGE) == "" &&
		strings.TrimSpace(id.DUNS) == ""
}

// Award is a funded research award record.
type Award struct {
	AwardID        string      `json:"award_id"`
	Recipient      Identifiers `json:"recipient_ids"`
	RecipientName  string      `json:"recipient_name"`
	Agency         string      `json:"agency"`
	CompletionDate time.Time   `json:"completion_date"`
	TechnologyArea string      `json:"primary_technology_area_id,omitempty"`
	Patents        []PatentRef `json:"patents,omitempty"`
}

// Contract is a procurement contract action record.
type Contract struct {
	ContractID     string          `json:"contract_id"`
	Vendor         Identifiers     `json:"vendor_ids"`
	VendorName     string          `json:"vendor_name"`
	Agency         string          `json:"agency"`
	ActionDate     time.Time       `json:"action_date"`
	Competition    CompetitionType `json:"competition_type"`
	TechnologyArea string          `json:"technology_area_id,omitempty"`
}

// PatentRef links a granted patent to the company that holds it.
type PatentRef struct {
	PatentID       string    `json:"patent_id"`
	TechnologyArea string    `json:"technology_area_id,omitempty"`
	GrantDate      time.Time `json:"grant_date"`
}
