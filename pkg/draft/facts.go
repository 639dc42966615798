package draft

import (
	"strings"

	"github.com/jcadam/prospector/pkg/crm"
)

// InjectFacts prepends a deterministic account-fact paragraph when the
// recipient carries any energy data. The sentence is synthesized entirely
// from structured CRM fields; model text never contributes to it.
func InjectFacts(paras []paragraph, rc *crm.RecipientContext) []paragraph {
	sentence := FactSentence(rc)
	if sentence == "" {
		return paras
	}
	return append([]paragraph{{text: sentence}}, paras...)
}

// FactSentence renders the recipient's energy facts as a single
// standalone sentence, or "" when no fact is set:
//
//	Per your account: Supplier X | Current rate $0.062/kWh | Contract end March 2026.
func FactSentence(rc *crm.RecipientContext) string {
	e := rc.Energy
	var parts []string
	if e.Supplier != "" {
		parts = append(parts, "Supplier "+e.Supplier)
	}
	if e.CurrentRate != "" {
		parts = append(parts, "Current rate $"+crm.NormalizeRate(e.CurrentRate)+"/kWh")
	}
	if e.ContractEnd != "" {
		parts = append(parts, "Contract end "+MonthYear(e.ContractEnd))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Per your account: " + strings.Join(parts, " | ") + "."
}
