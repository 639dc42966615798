package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/history"
)

func testBook() []*crm.Account {
	return []*crm.Account{
		{Name: "Acme Corp", Industry: "Manufacturing", Energy: crm.EnergyFacts{
			Supplier: "ACME Power", CurrentRate: ".062", Usage: "480,000 kWh/yr", ContractEnd: "2026-01-15",
		}},
		{Name: "Reed Logistics", Energy: crm.EnergyFacts{CurrentRate: "0.071"}},
	}
}

func TestBuildAccount(t *testing.T) {
	book := testBook()
	contacts := []*crm.Contact{
		{Name: "Dana Whitfield", Title: "Facilities Director", Email: "dana@acme.example"},
	}

	ledger, err := history.NewLedger(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ledger.Append("dana-whitfield", history.Entry{
		Type:      history.TypeNote,
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Content:   "Interested in solar offsets.\nSecond line.",
	})

	md := BuildAccount(book[0], contacts, ledger, book)

	for _, want := range []string{
		"# Acme Corp",
		"Industry: Manufacturing",
		"- Supplier: ACME Power",
		"- Current rate: $0.062/kWh",
		"- Contract end: 2026-01-15",
		"**Dana Whitfield**, Facilities Director <dana@acme.example>",
		"## Recent with Dana Whitfield",
		"note (2026-08-01): Interested in solar offsets.",
		"```chart",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Second line.") {
		t.Error("history entries should be summarized to their first line")
	}
}

func TestBuildAccountNoFacts(t *testing.T) {
	account := &crm.Account{Name: "Bare Inc"}
	md := BuildAccount(account, nil, nil, nil)
	if strings.Contains(md, "## Energy") {
		t.Error("empty energy section rendered")
	}
	if !strings.Contains(md, "# Bare Inc") {
		t.Error("title missing")
	}
}

func TestBuildBook(t *testing.T) {
	md := BuildBook(testBook())
	if !strings.Contains(md, "| Acme Corp | ACME Power | 0.062 | 2026-01-15 |") {
		t.Errorf("table row missing:\n%s", md)
	}
	if !strings.Contains(md, "```chart") {
		t.Error("rate chart missing")
	}
}

func TestSaveLoadList(t *testing.T) {
	base := t.TempDir()
	md := BuildBook(testBook())

	saved, err := Save(base, "book", md)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Title != "Account Book" || saved.Account != "book" {
		t.Errorf("saved = %+v", saved)
	}

	loaded, err := Load(saved.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Markdown != md || loaded.Account != "book" {
		t.Errorf("loaded = %+v", loaded)
	}

	all, err := List(base)
	if err != nil || len(all) != 1 {
		t.Fatalf("List: %v, %d reports", err, len(all))
	}
}

func TestFindLatest(t *testing.T) {
	base := t.TempDir()
	if _, err := Save(base, "acme-corp", "# Acme Corp\n"); err != nil {
		t.Fatal(err)
	}

	r, err := FindLatest(base, "acme-corp")
	if err != nil {
		t.Fatal(err)
	}
	if r == nil || r.Account != "acme-corp" {
		t.Errorf("got %+v", r)
	}

	missing, err := FindLatest(base, "nobody")
	if err != nil || missing != nil {
		t.Errorf("got %+v, %v", missing, err)
	}
}

func TestParseReportDirName(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		account string
	}{
		{"2026-08-31T093000-acme-corp", "2026-08-31", "acme-corp"},
		{"2026-08-31-book", "2026-08-31", "book"},
		{"not-a-report", "", "not-a-report"},
	}
	for _, tt := range tests {
		date, account := parseReportDirName(tt.name)
		if date != tt.date || account != tt.account {
			t.Errorf("parseReportDirName(%q) = %q, %q", tt.name, date, account)
		}
	}
}
