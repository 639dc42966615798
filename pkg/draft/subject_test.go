package draft

import (
	"testing"

	"github.com/jcadam/prospector/pkg/crm"
)

func TestIsGenericSubject(t *testing.T) {
	tests := []struct {
		subject string
		want    bool
	}{
		{"Hi", true},
		{"Hello there", true},
		{"Re: proposal", true},
		{"Fwd: notes", true},
		{"short", true},
		{"Energy cost review for Acme", false},
		{"Highlights from your usage report", false},
	}
	for _, tt := range tests {
		if got := IsGenericSubject(tt.subject); got != tt.want {
			t.Errorf("IsGenericSubject(%q) = %v, want %v", tt.subject, got, tt.want)
		}
	}
}

func TestImproveSubject(t *testing.T) {
	rc := &crm.RecipientContext{
		FirstName: "Dana",
		Company:   "Acme Corp",
		Energy: crm.EnergyFacts{
			Supplier:    "ACME Power",
			ContractEnd: "2026-01-15",
		},
	}

	if got := ImproveSubject("Energy cost review for Acme", rc, 0); got != "Energy cost review for Acme" {
		t.Errorf("informative subject replaced: %q", got)
	}

	if got := ImproveSubject("Hello", rc, 0); got != "Dana, a quick look at Acme Corp's energy costs" {
		t.Errorf("seed 0 = %q", got)
	}
	if got := ImproveSubject("Hello", rc, 1); got != "Ahead of Acme Corp's January 2026 contract end" {
		t.Errorf("seed 1 = %q", got)
	}
	if got := ImproveSubject("Hello", rc, 3); got != "A quick energy question for Dana" {
		t.Errorf("seed 3 = %q", got)
	}
}

func TestImproveSubjectPartialContext(t *testing.T) {
	rc := &crm.RecipientContext{Company: "Acme Corp"}
	got := ImproveSubject("Hi", rc, 0)
	if got != "An energy cost check for Acme Corp" {
		t.Errorf("got %q", got)
	}
}

func TestImproveSubjectNoContext(t *testing.T) {
	got := ImproveSubject("Hi", &crm.RecipientContext{}, 7)
	if got != genericFallbackSubject {
		t.Errorf("got %q", got)
	}
}
