package draft

import (
	"testing"

	"github.com/jcadam/prospector/pkg/crm"
)

func TestResolveTokens(t *testing.T) {
	f := &Formatter{Sender: map[string]string{"first_name": "Alex", "full_name": "Alex Rivera"}}
	rc := &crm.RecipientContext{
		FirstName: "Dana",
		LastName:  "Whitfield",
		Email:     "dana@acme.example",
		Company:   "Acme Corp",
		Energy:    crm.EnergyFacts{CurrentRate: ".062", Supplier: "ACME Power"},
	}

	in := "Hi {{contact.first_name}} of {{account.name}}, rate {{account.current_rate}} via {{account.supplier}}. From {{sender.first_name}}."
	want := "Hi Dana of Acme Corp, rate 0.062 via ACME Power. From Alex."
	if got := f.ResolveTokens(in, rc); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveTokensUnknownKeyEmpty(t *testing.T) {
	f := &Formatter{}
	got := f.ResolveTokens("x{{contact.shoe_size}}y", &crm.RecipientContext{FirstName: "Dana"})
	if got != "xy" {
		t.Errorf("got %q", got)
	}
}

func TestResolveTokensFullNameDerived(t *testing.T) {
	f := &Formatter{}
	rc := &crm.RecipientContext{FirstName: "Dana", LastName: "Whitfield"}
	if got := f.ResolveTokens("{{contact.full_name}}", rc); got != "Dana Whitfield" {
		t.Errorf("got %q", got)
	}
}

func TestResolveTokensNilContext(t *testing.T) {
	f := &Formatter{Sender: map[string]string{"first_name": "Alex"}}
	if got := f.ResolveTokens("{{contact.first_name}}{{sender.first_name}}", nil); got != "Alex" {
		t.Errorf("got %q", got)
	}
}
