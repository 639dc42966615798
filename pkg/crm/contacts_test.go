package crm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContactValidation(t *testing.T) {
	s, err := NewContactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Add(&Contact{Name: ""}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := s.Add(&Contact{Name: "   "}); err == nil {
		t.Error("expected error for whitespace-only name")
	}
}

func TestContactYAMLRoundTrip(t *testing.T) {
	s, err := NewContactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	original := &Contact{
		Name:      "Dana Whitfield",
		FirstName: "Dana",
		LastName:  "Whitfield",
		Email:     "dana.whitfield@acme.com",
		Company:   "Acme Corp",
		Title:     "VP Operations",
		Phone:     "+1-555-0100",
		AccountID: "acct-042",
		Tags:      []string{"hot", "q3-pipeline"},
		Notes:     "Met at the energy expo",
	}

	if err := s.Add(original); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("dana-whitfield")
	if err != nil {
		t.Fatal(err)
	}

	if got.Name != original.Name {
		t.Errorf("Name: got %q, want %q", got.Name, original.Name)
	}
	if got.Email != original.Email {
		t.Errorf("Email: got %q, want %q", got.Email, original.Email)
	}
	if got.Company != original.Company {
		t.Errorf("Company: got %q, want %q", got.Company, original.Company)
	}
	if got.AccountID != original.AccountID {
		t.Errorf("AccountID: got %q, want %q", got.AccountID, original.AccountID)
	}
	if got.Added == "" {
		t.Error("Added should be stamped on first write")
	}
}

func TestContactDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	s, err := NewContactStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Add(&Contact{Name: "Sam Park"}); err != nil {
			t.Fatal(err)
		}
	}

	for _, f := range []string{"sam-park.yaml", "sam-park-2.yaml", "sam-park-3.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected file %s: %v", f, err)
		}
	}
}

func TestContactListSorted(t *testing.T) {
	s, err := NewContactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"zoe quill", "Al Baker", "Mia Chen"} {
		if err := s.Add(&Contact{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range all {
		names = append(names, c.Name)
	}
	want := "Al Baker,Mia Chen,zoe quill"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("list order: got %q, want %q", got, want)
	}
}

func TestContactPutOverwrites(t *testing.T) {
	s, err := NewContactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put("remote-17", &Contact{ID: "17", Name: "Old Name"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("remote-17", &Contact{ID: "17", Name: "New Name"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("remote-17")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "New Name" {
		t.Errorf("Put should overwrite: got %q", got.Name)
	}
	if s.Count() != 1 {
		t.Errorf("expected 1 record, got %d", s.Count())
	}
}

func TestContactRemove(t *testing.T) {
	s, err := NewContactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Add(&Contact{Name: "Temp Person"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("temp-person"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("temp-person"); err == nil {
		t.Error("expected error removing missing contact")
	}
}

func TestAccountYAMLRoundTrip(t *testing.T) {
	s, err := NewAccountStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	original := &Account{
		Name:     "Acme Corp",
		Industry: "Manufacturing",
		Domain:   "acme.com",
		Website:  "https://www.acme.com",
		City:     "Columbus",
		State:    "OH",
		Energy: EnergyFacts{
			Usage:       "480,000 kWh/yr",
			Supplier:    "ACME Power",
			CurrentRate: "0.062",
			ContractEnd: "2026-03-01",
		},
	}

	if err := s.Add(original); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("acme-corp")
	if err != nil {
		t.Fatal(err)
	}
	if got.Energy.Supplier != "ACME Power" {
		t.Errorf("supplier: got %q", got.Energy.Supplier)
	}
	if got.Energy.ContractEnd != "2026-03-01" {
		t.Errorf("contract end: got %q", got.Energy.ContractEnd)
	}
	if got.Energy.Empty() {
		t.Error("energy facts should not be empty")
	}
}

func TestNameDerivation(t *testing.T) {
	c := &Contact{Name: "Dana Marie Whitfield"}
	if c.First() != "Dana" {
		t.Errorf("First: got %q", c.First())
	}
	if c.Last() != "Whitfield" {
		t.Errorf("Last: got %q", c.Last())
	}

	explicit := &Contact{Name: "Dana Whitfield", FirstName: "Dee", LastName: "W"}
	if explicit.First() != "Dee" || explicit.Last() != "W" {
		t.Error("explicit first/last should win over derivation")
	}

	empty := &Contact{}
	if empty.First() != "" || empty.Last() != "" {
		t.Error("empty contact should derive empty names")
	}
}
