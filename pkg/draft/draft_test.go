package draft

import (
	"strings"
	"testing"

	"github.com/jcadam/prospector/pkg/crm"
)

func danaContext() *crm.RecipientContext {
	return &crm.RecipientContext{
		FirstName: "Dana",
		LastName:  "Whitfield",
		FullName:  "Dana Whitfield",
		Email:     "dana@acme.example",
		Company:   "Acme Corp",
		Energy: crm.EnergyFacts{
			Supplier:    "ACME Power",
			CurrentRate: ".072",
			ContractEnd: "2026-01-15",
		},
	}
}

func TestFormatEndToEnd(t *testing.T) {
	raw := "Subject: Let's meet on 2025-03-14\n\n" +
		"Hi Dana,\n\n" +
		"I hope this finds you well. I wanted to reach out about your energy costs.\n\n" +
		"Would you be open to a quick call on Tuesday at 10am?\n\n" +
		"Best regards,\nAlex"

	f := &Formatter{}
	email := f.Format(raw, danaContext(), ModeStandard)

	if email.Subject != "Let's meet on March 2025" {
		t.Errorf("subject = %q", email.Subject)
	}
	if strings.Contains(email.HTML, "2025-03-14") {
		t.Error("exact date leaked into output")
	}

	if n := strings.Count(email.HTML, "Hi Dana,"); n != 1 {
		t.Errorf("greeting appears %d times", n)
	}
	if n := strings.Count(email.HTML, "Best regards,"); n != 1 {
		t.Errorf("closing appears %d times", n)
	}
	if strings.Contains(email.HTML, "Alex") {
		t.Error("model sign-off survived")
	}

	facts := "Per your account: Supplier ACME Power | Current rate $0.072/kWh | Contract end January 2026."
	if !strings.Contains(email.HTML, facts) {
		t.Errorf("fact sentence missing from:\n%s", email.HTML)
	}

	cta := strings.Index(email.HTML, "Would you be open to a quick call on Tuesday at 10am?")
	body := strings.Index(email.HTML, "energy costs")
	if cta < 0 {
		t.Fatal("CTA missing")
	}
	if cta < body {
		t.Error("CTA not moved to end of body")
	}

	if !strings.Contains(email.HTML, "{{sender.first_name}}") {
		t.Error("sender token missing from standard-mode closing")
	}
	if strings.Contains(email.HTML, "<!DOCTYPE") {
		t.Error("standard mode produced a full document")
	}
}

func TestFormatHTMLMode(t *testing.T) {
	f := &Formatter{Brand: "Volt Brokers"}
	email := f.Format("Quick note\n\nWe can lower your rate.", danaContext(), ModeHTML)

	if !strings.HasPrefix(email.HTML, "<!DOCTYPE html>") {
		t.Error("expected standalone document")
	}
	if !strings.Contains(email.HTML, "Volt Brokers") {
		t.Error("brand missing")
	}
	if !strings.Contains(email.HTML, email.Subject) {
		t.Error("subject ribbon missing")
	}
	if strings.Contains(email.HTML, "{{sender.first_name}}") {
		t.Error("HTML document should sign with the brand, not a token")
	}
}

func TestFormatHTMLModeEmbedsLogo(t *testing.T) {
	f := &Formatter{Brand: "Volt Brokers", Logo: "https://voltbrokers.example/logo.png"}
	email := f.Format("Quick note\n\nWe can lower your rate.", danaContext(), ModeHTML)

	if !strings.Contains(email.HTML, `<img src="https://voltbrokers.example/logo.png"`) {
		t.Error("logo image missing from document header")
	}

	f.Logo = ""
	email = f.Format("Quick note\n\nWe can lower your rate.", danaContext(), ModeHTML)
	if strings.Contains(email.HTML, "<img") {
		t.Error("unexpected image without a configured logo")
	}
}

func TestFormatPreservesBullets(t *testing.T) {
	raw := "We offer:\n\n- Lower rates\n- Flexible terms\n\nDoes Tuesday work?"
	f := &Formatter{}
	email := f.Format(raw, &crm.RecipientContext{FirstName: "Dana"}, ModeStandard)

	if !strings.Contains(email.HTML, "<li>Lower rates</li>") {
		t.Errorf("bullet list lost:\n%s", email.HTML)
	}
	if !strings.Contains(email.HTML, "Does Tuesday work?") {
		t.Error("CTA lost")
	}
}

func TestFormatReplacesGenericSubject(t *testing.T) {
	f := &Formatter{}
	email := f.Format("Hello\n\nWe can lower your rate.", danaContext(), ModeStandard)
	if email.Subject == "Hello" || email.Subject == "" {
		t.Errorf("generic subject kept: %q", email.Subject)
	}
	if !strings.Contains(email.Subject, "Dana") && !strings.Contains(email.Subject, "Acme Corp") {
		t.Errorf("replacement subject carries no recipient context: %q", email.Subject)
	}
}

func TestFormatStripsHTMLInput(t *testing.T) {
	raw := "<p>Hi Dana,</p><p>We can <strong>significantly</strong> lower your rate.</p>"
	f := &Formatter{}
	email := f.Format(raw, &crm.RecipientContext{FirstName: "Dana"}, ModeStandard)

	if strings.Contains(email.HTML, "<strong>") {
		t.Error("input markup survived")
	}
	if !strings.Contains(email.HTML, "lower your rate") {
		t.Error("body lost")
	}
	if n := strings.Count(email.HTML, "Hi Dana,"); n != 1 {
		t.Errorf("greeting appears %d times", n)
	}
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		name string
		rc   *crm.RecipientContext
		want string
	}{
		{"first name", &crm.RecipientContext{FirstName: "Dana"}, "Hi Dana,"},
		{"company only", &crm.RecipientContext{Company: "Acme Corp"}, "Hi Acme Corp team,"},
		{"nothing", &crm.RecipientContext{}, "Hi,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Greeting(tt.rc); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFactSentence(t *testing.T) {
	rc := danaContext()
	want := "Per your account: Supplier ACME Power | Current rate $0.072/kWh | Contract end January 2026."
	if got := FactSentence(rc); got != want {
		t.Errorf("got %q", got)
	}

	rc.Energy = crm.EnergyFacts{Supplier: "ACME Power"}
	if got := FactSentence(rc); got != "Per your account: Supplier ACME Power." {
		t.Errorf("partial facts: %q", got)
	}

	rc.Energy = crm.EnergyFacts{}
	if got := FactSentence(rc); got != "" {
		t.Errorf("empty facts: %q", got)
	}
}
