package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/refgraph-cli/internal/ingest"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestReadMembersAliasedHeaderWithBOM(t *testing.T) {
	// utf-8-sig export with the "User Name" header family.
	p := writeFile(t, "members.csv",
		"\ufeffUser Name,Referrer_User Name,Activation sequence\n"+
			"0xAAA,,1\n"+
			"0xBBB,0xAAA,2\n")
	records, err := ingest.ReadMembers(p, ingest.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Provenance != 2 || records[0].Identifier != "0xAAA" || records[0].Referrer != "" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Provenance != 3 || records[1].Referrer != "0xAAA" || records[1].Extra != "2" {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestReadMembersSnakeCaseHeader(t *testing.T) {
	p := writeFile(t, "members_v2_rows.csv",
		"wallet_address,referrer_wallet\n"+
			"0xAAA,0xROOT\n")
	records, err := ingest.ReadMembers(p, ingest.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records[0].Identifier != "0xAAA" || records[0].Referrer != "0xROOT" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestReadMembersSniffsSemicolon(t *testing.T) {
	p := writeFile(t, "export.csv",
		"wallet_address;referrer_wallet\n"+
			"0xAAA;0xBBB\n")
	records, err := ingest.ReadMembers(p, ingest.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records[0].Referrer != "0xBBB" {
		t.Errorf("referrer = %q, want 0xBBB (semicolon not sniffed?)", records[0].Referrer)
	}
}

func TestReadMembersColumnOverride(t *testing.T) {
	p := writeFile(t, "odd.csv",
		"No,Member Wallet,Upline\n"+
			"1,0xAAA,0xBBB\n")
	records, err := ingest.ReadMembers(p, ingest.Options{
		IDColumn:       "Member Wallet",
		ReferrerColumn: "Upline",
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if records[0].Identifier != "0xAAA" || records[0].Referrer != "0xBBB" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestReadMembersMissingReferrerColumn(t *testing.T) {
	p := writeFile(t, "roster.csv",
		"No,USER BEP20 ADDRESS\n"+
			"1,0xAAA\n")
	if _, err := ingest.ReadMembers(p, ingest.Options{}); err == nil {
		t.Fatal("expected error without referrer column")
	}
	records, err := ingest.ReadMembers(p, ingest.Options{ReferrerOptional: true})
	if err != nil {
		t.Fatalf("read with ReferrerOptional: %v", err)
	}
	if records[0].Identifier != "0xAAA" || records[0].Referrer != "" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestReadCohort(t *testing.T) {
	p := writeFile(t, "wo_address.csv",
		"No,USER BEP20 ADDRESS\n"+
			"1,0xAbC\n"+
			"2,\n"+
			"3,0xDeF\n")
	set, err := ingest.ReadCohort(p, ingest.Options{})
	if err != nil {
		t.Fatalf("read cohort: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("got %d cohort entries, want 2", len(set))
	}
	if _, ok := set["0xabc"]; !ok {
		t.Error("cohort keys should be canonical (lower-cased)")
	}
}
