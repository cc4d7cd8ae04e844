package ingest_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"transition/internal/ingest"
	"transition/internal/records"
)

func writeLines(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadAwards(t *testing.T) {
	path := writeLines(t, "awards.jsonl",
		`{"award_id":"SBIR-1","recipient_ids":{"uei":"UEI12345"},"recipient_name":"Acme Robotics, Inc.","agency":"DARPA","completion_date":"2019-06-30","primary_technology_area_id":"autonomy"}`,
		``,
		`{"award_id":"SBIR-2","recipient_name":"Beacon Labs","agency":"NIH","completion_date":"2020-01-15T00:00:00Z","patents":[{"patent_id":"P1","grant_date":"2019-09-01","technology_area_id":"autonomy"}]}`,
		`{"award_id":"","recipient_name":"No ID"}`,
		`not json at all`,
	)

	awards, stats, err := ingest.ReadAwards(path, nil)
	if err != nil {
		t.Fatalf("ReadAwards: %v", err)
	}
	if stats.Lines != 4 || stats.Skipped != 2 {
		t.Fatalf("stats = %+v, want 4 lines with 2 skipped", stats)
	}
	if len(awards) != 2 {
		t.Fatalf("expected 2 awards, got %d", len(awards))
	}
	if awards[0].Recipient.UEI != "UEI12345" || awards[0].Agency != "DARPA" {
		t.Fatalf("first award fields wrong: %+v", awards[0])
	}
	want := time.Date(2019, 6, 30, 0, 0, 0, 0, time.UTC)
	if !awards[0].CompletionDate.Equal(want) {
		t.Fatalf("completion date = %v, want %v", awards[0].CompletionDate, want)
	}
	if len(awards[1].Patents) != 1 || awards[1].Patents[0].PatentID != "P1" {
		t.Fatalf("inline patents did not load: %+v", awards[1].Patents)
	}
}

func TestReadContracts(t *testing.T) {
	path := writeLines(t, "contracts.jsonl",
		`{"contract_id":"CT-1","vendor_ids":{"cage":"1ABC2"},"vendor_name":"Acme Robotics Inc","agency":"ARMY","action_date":"2019-11-15","competition_type":"SBIR Phase III"}`,
		`{"contract_id":"CT-2","vendor_name":"Beacon Labs LLC","agency":"NIH","action_date":"2020-04-01","competition_type":"mystery procedure"}`,
	)

	contracts, stats, err := ingest.ReadContracts(path, nil)
	if err != nil {
		t.Fatalf("ReadContracts: %v", err)
	}
	if stats.Skipped != 0 || len(contracts) != 2 {
		t.Fatalf("stats=%+v contracts=%d", stats, len(contracts))
	}
	if contracts[0].Competition != records.CompetitionFollowOnSBIR {
		t.Fatalf("competition = %q, want sbir_phase_iii", contracts[0].Competition)
	}
	if contracts[1].Competition.Known() {
		t.Fatalf("unrecognized competition text should stay unknown, got %q", contracts[1].Competition)
	}
}

func TestReadPatentsGroupsByHolder(t *testing.T) {
	path := writeLines(t, "patents.jsonl",
		`{"patent_id":"P1","holder_ids":{"uei":"uei999"},"grant_date":"2018-03-01","technology_area_id":"ai"}`,
		`{"patent_id":"P2","holder_ids":{"uei":"UEI999"},"grant_date":"2019-03-01"}`,
		`{"patent_id":"P3","holder_name":"Gamma Optics, LLC","grant_date":"2020-01-01"}`,
		`{"patent_id":"P4"}`,
	)

	table, stats, err := ingest.ReadPatents(path, nil)
	if err != nil {
		t.Fatalf("ReadPatents: %v", err)
	}
	if stats.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1 (patent with no holder)", stats.Skipped)
	}
	if len(table["UEI999"]) != 2 {
		t.Fatalf("expected 2 patents under UEI999, got %d", len(table["UEI999"]))
	}
	if len(table["gamma optics"]) != 1 {
		t.Fatalf("expected name-keyed entry for gamma optics, got keys %v", tableKeys(table))
	}
}

func TestReadAwardsMissingFile(t *testing.T) {
	if _, _, err := ingest.ReadAwards(filepath.Join(t.TempDir(), "absent.jsonl"), nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDateRejectsGarbage(t *testing.T) {
	path := writeLines(t, "awards.jsonl",
		`{"award_id":"SBIR-1","completion_date":"June 2019"}`,
	)
	awards, stats, err := ingest.ReadAwards(path, nil)
	if err != nil {
		t.Fatalf("ReadAwards: %v", err)
	}
	if len(awards) != 0 || stats.Skipped != 1 {
		t.Fatalf("unparseable date should skip the line: awards=%d stats=%+v", len(awards), stats)
	}
}

func tableKeys(table map[string][]records.PatentRef) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	return keys
}
