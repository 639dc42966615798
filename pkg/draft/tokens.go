package draft

import (
	"regexp"
	"strings"

	"github.com/jcadam/prospector/pkg/crm"
)

var tokenPattern = regexp.MustCompile(`\{\{(contact|account|sender)\.(\w+)\}\}`)

// ResolveTokens substitutes {{scope.key}} placeholders with values from
// the recipient context and the sender map. Unknown keys resolve empty,
// matching send-time behavior: a missing value never leaks a raw token
// into an outgoing email.
func (f *Formatter) ResolveTokens(s string, rc *crm.RecipientContext) string {
	if rc == nil {
		rc = &crm.RecipientContext{}
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		m := tokenPattern.FindStringSubmatch(tok)
		scope, key := m[1], m[2]
		switch scope {
		case "contact":
			return contactValue(rc, key)
		case "account":
			return accountValue(rc, key)
		case "sender":
			return f.Sender[key]
		}
		return ""
	})
}

func contactValue(rc *crm.RecipientContext, key string) string {
	switch key {
	case "first_name":
		return rc.FirstName
	case "last_name":
		return rc.LastName
	case "full_name":
		if rc.FullName != "" {
			return rc.FullName
		}
		return strings.TrimSpace(rc.FirstName + " " + rc.LastName)
	case "email":
		return rc.Email
	case "title":
		return rc.Title
	case "company":
		return rc.Company
	}
	return ""
}

func accountValue(rc *crm.RecipientContext, key string) string {
	switch key {
	case "name", "company":
		return rc.Company
	case "industry":
		return rc.Industry
	case "supplier":
		return rc.Energy.Supplier
	case "usage":
		return rc.Energy.Usage
	case "current_rate":
		if rc.Energy.CurrentRate == "" {
			return ""
		}
		return crm.NormalizeRate(rc.Energy.CurrentRate)
	case "contract_end":
		return rc.Energy.ContractEnd
	}
	return ""
}
