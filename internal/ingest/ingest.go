package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"transition/internal/detect"
	"transition/internal/faults"
	"transition/internal/logging"
	"transition/internal/records"
)

// maxLineBytes bounds a single record line.
const maxLineBytes = 4 << 20

// Stats reports how a file loaded.
type Stats struct {
	Lines   int
	Skipped int
}

// Date accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. Empty strings
// and null decode to the zero time.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", raw)
}

type awardLine struct {
	AwardID        string              `json:"award_id"`
	Recipient      records.Identifiers `json:"recipient_ids"`
	RecipientName  string              `json:"recipient_name"`
	Agency         string              `json:"agency"`
	CompletionDate Date                `json:"completion_date"`
	TechnologyArea string              `json:"primary_technology_area_id"`
	Patents        []patentRefLine     `json:"patents"`
}

type contractLine struct {
	ContractID     string                  `json:"contract_id"`
	Vendor         records.Identifiers     `json:"vendor_ids"`
	VendorName     string                  `json:"vendor_name"`
	Agency         string                  `json:"agency"`
	ActionDate     Date                    `json:"action_date"`
	Competition    records.CompetitionType `json:"competition_type"`
	TechnologyArea string                  `json:"technology_area_id"`
}

type patentRefLine struct {
	PatentID       string `json:"patent_id"`
	TechnologyArea string `json:"technology_area_id"`
	GrantDate      Date   `json:"grant_date"`
}

type patentLine struct {
	patentRefLine
	Holder     records.Identifiers `json:"holder_ids"`
	HolderName string              `json:"holder_name"`
}

func (p patentRefLine) ref() records.PatentRef {
	return records.PatentRef{
		PatentID:       p.PatentID,
		TechnologyArea: p.TechnologyArea,
		GrantDate:      p.GrantDate.Time,
	}
}

// ReadAwards loads award records. Lines that fail to decode or lack an
// award_id are skipped.
func ReadAwards(path string, logger *slog.Logger) ([]records.Award, Stats, error) {
	var awards []records.Award
	stats, err := eachLine(path, logger, func(line []byte) error {
		var row awardLine
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		if strings.TrimSpace(row.AwardID) == "" {
			return fmt.Errorf("missing award_id")
		}
		award := records.Award{
			AwardID:        row.AwardID,
			Recipient:      row.Recipient,
			RecipientName:  row.RecipientName,
			Agency:         row.Agency,
			CompletionDate: row.CompletionDate.Time,
			TechnologyArea: row.TechnologyArea,
		}
		for _, p := range row.Patents {
			award.Patents = append(award.Patents, p.ref())
		}
		awards = append(awards, award)
		return nil
	})
	return awards, stats, err
}

// ReadContracts loads contract records. Lines that fail to decode or lack a
// contract_id are skipped.
func ReadContracts(path string, logger *slog.Logger) ([]records.Contract, Stats, error) {
	var contracts []records.Contract
	stats, err := eachLine(path, logger, func(line []byte) error {
		var row contractLine
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		if strings.TrimSpace(row.ContractID) == "" {
			return fmt.Errorf("missing contract_id")
		}
		contracts = append(contracts, records.Contract{
			ContractID:     row.ContractID,
			Vendor:         row.Vendor,
			VendorName:     row.VendorName,
			Agency:         row.Agency,
			ActionDate:     row.ActionDate.Time,
			Competition:    row.Competition,
			TechnologyArea: row.TechnologyArea,
		})
		return nil
	})
	return contracts, stats, err
}

// ReadPatents loads the optional patent side-table, grouping patents under
// the holder's identifier key.
func ReadPatents(path string, logger *slog.Logger) (detect.PatentTable, Stats, error) {
	table := make(detect.PatentTable)
	stats, err := eachLine(path, logger, func(line []byte) error {
		var row patentLine
		if err := json.Unmarshal(line, &row); err != nil {
			return err
		}
		if strings.TrimSpace(row.PatentID) == "" {
			return fmt.Errorf("missing patent_id")
		}
		key := detect.PatentKey(records.Award{
			Recipient:     row.Holder,
			RecipientName: row.HolderName,
		})
		if key == "" {
			return fmt.Errorf("patent %s has no holder", row.PatentID)
		}
		table[key] = append(table[key], row.ref())
		return nil
	})
	return table, stats, err
}

func eachLine(path string, logger *slog.Logger, decode func(line []byte) error) (Stats, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	file, err := os.Open(path)
	if err != nil {
		return Stats{}, faults.Wrap(faults.ErrData, "ingest", "open", fmt.Sprintf("open %s", path), err)
	}
	defer func() { _ = file.Close() }()

	var stats Stats
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Lines++
		if err := decode(line); err != nil {
			stats.Skipped++
			logger.Warn("skipping malformed record",
				logging.String("file", path),
				logging.Int("line", lineNo),
				logging.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, faults.Wrap(faults.ErrData, "ingest", "scan", fmt.Sprintf("read %s", path), err)
	}
	return stats, nil
}
