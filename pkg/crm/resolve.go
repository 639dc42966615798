package crm

import (
	"net/url"
	"sort"
	"strings"
)

// RecipientContext is the resolved bundle of contact and account facts
// used to personalize and fact-check a drafted email. It is built fresh
// per compose session and discarded when the session ends.
type RecipientContext struct {
	ID         string
	Name       string
	FirstName  string
	LastName   string
	FullName   string
	Email      string
	Company    string
	Title      string
	Industry   string
	Energy     EnergyFacts
	Account    *Account // nil when no account matched
	Notes      string
	Transcript string
}

// Resolver maps typed fragments or exact emails to recipient contexts,
// joining contacts with their best-matching accounts.
type Resolver struct {
	Contacts *ContactStore
	Accounts *AccountStore
}

// searchLimit caps how many autocomplete matches Search returns.
const searchLimit = 8

// Search returns contacts matching the query fragment, case-insensitive,
// across name, email, title, and company. Starts-with matches rank before
// substring matches; ties break alphabetically by name. At most
// searchLimit results are returned. An unmatched query yields an empty
// slice, never an error.
func (r *Resolver) Search(query string) []*Contact {
	all, err := r.Contacts.List()
	if err != nil || len(all) == 0 {
		return []*Contact{}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*Contact{}
	}

	type ranked struct {
		c    *Contact
		rank int // 0 = starts-with, 1 = substring
	}
	var matches []ranked
	for _, c := range all {
		fields := []string{c.Name, c.First(), c.Last(), c.Email, c.Title, c.Company}
		rank := -1
		for _, f := range fields {
			lf := strings.ToLower(f)
			if lf == "" || !strings.Contains(lf, q) {
				continue
			}
			if strings.HasPrefix(lf, q) {
				rank = 0
				break
			}
			if rank < 0 {
				rank = 1
			}
		}
		if rank >= 0 {
			matches = append(matches, ranked{c: c, rank: rank})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return strings.ToLower(matches[i].c.Name) < strings.ToLower(matches[j].c.Name)
	})

	result := make([]*Contact, 0, len(matches))
	for _, m := range matches {
		if len(result) == searchLimit {
			break
		}
		result = append(result, m.c)
	}
	return result
}

// ResolveByEmail finds a contact by case-insensitive exact email match and
// builds its recipient context. Returns nil when no contact has that email.
func (r *Resolver) ResolveByEmail(email string) *RecipientContext {
	all, err := r.Contacts.List()
	if err != nil {
		return nil
	}
	want := strings.ToLower(strings.TrimSpace(email))
	for _, c := range all {
		if strings.ToLower(c.Email) == want && want != "" {
			return r.ContextFor(c)
		}
	}
	return nil
}

// ContextFor builds a RecipientContext for a contact, joining its
// best-matching account. All fields degrade to empty strings; a missing
// account yields Account == nil, never an error.
func (r *Resolver) ContextFor(c *Contact) *RecipientContext {
	rc := &RecipientContext{
		ID:        c.ID,
		Name:      c.Name,
		FirstName: c.First(),
		LastName:  c.Last(),
		FullName:  c.Name,
		Email:     c.Email,
		Company:   c.Company,
		Title:     c.Title,
		Notes:     c.Notes,
	}

	accounts, err := r.Accounts.List()
	if err == nil {
		if a := MatchAccount(c, accounts); a != nil {
			rc.Account = a
			rc.Industry = a.Industry
			rc.Energy = a.Energy
			rc.Energy.CurrentRate = NormalizeRate(a.Energy.CurrentRate)
			if rc.Company == "" {
				rc.Company = a.Name
			}
		}
	}

	return rc
}

// MatchAccount finds the best account for a contact. Matching order:
// explicit contact→account id reference, then normalized company-name
// equality or mutual substring containment, then email-domain suffix
// against the account's domain or website host. First match wins; no
// match returns nil.
func MatchAccount(c *Contact, accounts []*Account) *Account {
	if len(accounts) == 0 {
		return nil
	}

	if c.AccountID != "" {
		for _, a := range accounts {
			if a.ID != "" && a.ID == c.AccountID {
				return a
			}
		}
	}

	if company := NormalizeCompany(c.Company); company != "" {
		// Exact normalized equality beats containment regardless of order.
		for _, a := range accounts {
			if NormalizeCompany(a.Name) == company {
				return a
			}
		}
		for _, a := range accounts {
			name := NormalizeCompany(a.Name)
			if name == "" {
				continue
			}
			if strings.Contains(name, company) || strings.Contains(company, name) {
				return a
			}
		}
	}

	if domain := emailDomain(c.Email); domain != "" {
		for _, a := range accounts {
			for _, host := range []string{strings.ToLower(a.Domain), websiteHost(a.Website)} {
				if host == "" {
					continue
				}
				if domain == host || strings.HasSuffix(domain, "."+host) || strings.HasSuffix(host, "."+domain) {
					return a
				}
			}
		}
	}

	return nil
}

// legalSuffixes are trailing company-name tokens stripped during
// normalization so "Acme Corp." and "ACME CORP" compare equal.
var legalSuffixes = map[string]bool{
	"inc":          true,
	"incorporated": true,
	"llc":          true,
	"llp":          true,
	"ltd":          true,
	"limited":      true,
	"corp":         true,
	"corporation":  true,
	"co":           true,
	"company":      true,
	"plc":          true,
	"gmbh":         true,
}

// NormalizeCompany lowercases a company name, strips punctuation,
// collapses whitespace, and drops trailing legal suffixes.
func NormalizeCompany(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lower)

	tokens := strings.Fields(cleaned)
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// NormalizeRate guarantees a leading zero on fractional $/kWh rates:
// ".062" becomes "0.062". Any other value passes through trimmed.
func NormalizeRate(rate string) string {
	rate = strings.TrimSpace(rate)
	if strings.HasPrefix(rate, ".") {
		return "0" + rate
	}
	return rate
}

// emailDomain returns the lowercased domain part of an email address.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// websiteHost extracts the lowercased host from a website URL, tolerating
// bare hosts without a scheme and stripping a leading "www.".
func websiteHost(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}
