package draft

import (
	"regexp"
	"strings"

	"github.com/jcadam/prospector/pkg/crm"
)

// genericSubjectPattern flags subjects that carry no information: bare
// greetings and reply/forward prefixes.
var genericSubjectPattern = regexp.MustCompile(`(?i)^\s*((hi|hello|hey)\b|re:|fwd?:)`)

// minSubjectLen is the shortest subject considered meaningful.
const minSubjectLen = 8

// IsGenericSubject reports whether a subject should be replaced.
func IsGenericSubject(subject string) bool {
	subject = strings.TrimSpace(subject)
	if len(subject) < minSubjectLen {
		return true
	}
	return genericSubjectPattern.MatchString(subject)
}

// subjectVariant is one template; fields() returns the values it needs,
// all of which must be present for the variant to be eligible.
type subjectVariant struct {
	fields func(rc *crm.RecipientContext) []string
	render func(rc *crm.RecipientContext) string
}

var subjectVariants = []subjectVariant{
	{
		fields: func(rc *crm.RecipientContext) []string { return []string{rc.FirstName, rc.Company} },
		render: func(rc *crm.RecipientContext) string {
			return rc.FirstName + ", a quick look at " + rc.Company + "'s energy costs"
		},
	},
	{
		fields: func(rc *crm.RecipientContext) []string { return []string{rc.Company, rc.Energy.ContractEnd} },
		render: func(rc *crm.RecipientContext) string {
			return "Ahead of " + rc.Company + "'s " + MonthYear(rc.Energy.ContractEnd) + " contract end"
		},
	},
	{
		fields: func(rc *crm.RecipientContext) []string { return []string{rc.Company, rc.Energy.Supplier} },
		render: func(rc *crm.RecipientContext) string {
			return rc.Company + " + " + rc.Energy.Supplier + ": a rate worth revisiting"
		},
	},
	{
		fields: func(rc *crm.RecipientContext) []string { return []string{rc.FirstName} },
		render: func(rc *crm.RecipientContext) string {
			return "A quick energy question for " + rc.FirstName
		},
	},
	{
		fields: func(rc *crm.RecipientContext) []string { return []string{rc.Company} },
		render: func(rc *crm.RecipientContext) string {
			return "An energy cost check for " + rc.Company
		},
	},
}

// genericFallbackSubject is used when no recipient field is known.
const genericFallbackSubject = "A quick energy cost check-in"

// ImproveSubject replaces a generic subject with a template variant
// combining recipient name, company, supplier, and contract-end month.
// The seed picks pseudo-randomly among variants whose fields are all
// present, so repeated generations vary without being nondeterministic
// under test. Informative subjects pass through untouched.
func ImproveSubject(subject string, rc *crm.RecipientContext, seed int) string {
	if !IsGenericSubject(subject) {
		return subject
	}

	var eligible []subjectVariant
	for _, v := range subjectVariants {
		ok := true
		for _, f := range v.fields(rc) {
			if strings.TrimSpace(f) == "" {
				ok = false
				break
			}
		}
		if ok {
			eligible = append(eligible, v)
		}
	}

	if len(eligible) == 0 {
		return genericFallbackSubject
	}
	if seed < 0 {
		seed = -seed
	}
	return eligible[seed%len(eligible)].render(rc)
}
