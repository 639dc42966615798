// Package reports builds account book reports: a markdown summary of an
// account's energy facts, contacts, and recent interactions, with chart
// directives comparing the book. Reports are stored one directory per
// run with rendered chart PNGs alongside.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jcadam/prospector/pkg/charts"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/history"
	"github.com/jcadam/prospector/pkg/slug"
)

// Report represents a generated report on disk.
type Report struct {
	Dir      string // directory path
	Account  string // account slug the report covers ("book" for the full book)
	Title    string // report title
	Date     string // YYYY-MM-DD
	Markdown string // report content
}

// maxHistoryEntries bounds the interaction section per contact.
const maxHistoryEntries = 3

// BuildAccount renders the markdown report for one account: energy
// facts, its contacts, and each contact's recent history. book supplies
// the rate-comparison chart context.
func BuildAccount(account *crm.Account, contacts []*crm.Contact, ledger *history.Ledger, book []*crm.Account) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", account.Name)
	if account.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n\n", account.Industry)
	}

	if !account.Energy.Empty() {
		b.WriteString("## Energy\n\n")
		writeFact(&b, "Supplier", account.Energy.Supplier)
		if account.Energy.CurrentRate != "" {
			writeFact(&b, "Current rate", "$"+crm.NormalizeRate(account.Energy.CurrentRate)+"/kWh")
		}
		writeFact(&b, "Usage", account.Energy.Usage)
		writeFact(&b, "Contract end", account.Energy.ContractEnd)
		b.WriteString("\n")
	}

	if len(contacts) > 0 {
		b.WriteString("## Contacts\n\n")
		for _, c := range contacts {
			line := "- **" + c.Name + "**"
			if c.Title != "" {
				line += ", " + c.Title
			}
			if c.Email != "" {
				line += " <" + c.Email + ">"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if ledger != nil {
		for _, c := range contacts {
			entries, err := ledger.List(crm.SlugFor(c.Name), maxHistoryEntries)
			if err != nil || len(entries) == 0 {
				continue
			}
			fmt.Fprintf(&b, "## Recent with %s\n\n", c.Name)
			for _, e := range entries {
				fmt.Fprintf(&b, "- %s (%s): %s\n", e.Type, e.Timestamp.Format("2006-01-02"), firstLine(e.Content))
			}
			b.WriteString("\n")
		}
	}

	if d := charts.RateDirective(book); d != nil {
		b.WriteString("## Book comparison\n\n")
		b.WriteString(d.Fenced())
		b.WriteString("\n")
	}

	return b.String()
}

// BuildBook renders the full-book report: a table of every account's
// energy position plus the rate chart.
func BuildBook(accounts []*crm.Account) string {
	var b strings.Builder
	b.WriteString("# Account Book\n\n")
	b.WriteString("| Account | Supplier | Rate ($/kWh) | Contract end |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, a := range accounts {
		rate := ""
		if a.Energy.CurrentRate != "" {
			rate = crm.NormalizeRate(a.Energy.CurrentRate)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", a.Name, a.Energy.Supplier, rate, a.Energy.ContractEnd)
	}
	b.WriteString("\n")

	if d := charts.RateDirective(accounts); d != nil {
		b.WriteString(d.Fenced())
		b.WriteString("\n")
	}
	return b.String()
}

// Save writes a report directory under baseDir, renders its chart PNGs,
// and returns the completed Report. accountSlug is "book" for the
// full-book report.
func Save(baseDir, accountSlug, markdown string) (*Report, error) {
	now := time.Now()
	dirName := now.Format("2006-01-02T150405") + "-" + slug.Sanitize(accountSlug)
	reportDir := filepath.Join(baseDir, dirName)

	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(reportDir, "report.md"), []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	if err := charts.SavePNGs(markdown, reportDir, 800, 500); err != nil {
		return nil, err
	}

	return &Report{
		Dir:      reportDir,
		Account:  slug.Sanitize(accountSlug),
		Title:    extractTitle(markdown),
		Date:     now.Format("2006-01-02"),
		Markdown: markdown,
	}, nil
}

// Load reads a report from a directory.
func Load(reportDir string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(reportDir, "report.md"))
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	date, account := parseReportDirName(filepath.Base(reportDir))

	return &Report{
		Dir:      reportDir,
		Account:  account,
		Title:    extractTitle(string(data)),
		Date:     date,
		Markdown: string(data),
	}, nil
}

// List returns all reports in the base directory, sorted newest first.
func List(baseDir string) ([]*Report, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	var reports []*Report
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := Load(filepath.Join(baseDir, e.Name()))
		if err != nil {
			continue // skip unreadable reports
		}
		reports = append(reports, r)
	}

	// Directory basenames carry a THHMMSS timestamp, so name order is
	// time order.
	sort.Slice(reports, func(i, j int) bool {
		return filepath.Base(reports[i].Dir) > filepath.Base(reports[j].Dir)
	})

	return reports, nil
}

// FindLatest returns the most recent report for an account slug, or nil
// if none. Scans directory names rather than loading every report.
func FindLatest(baseDir, accountSlug string) (*Report, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	sanitized := slug.Sanitize(accountSlug)
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		_, account := parseReportDirName(e.Name())
		if account == sanitized {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Strings(candidates)
	return Load(filepath.Join(baseDir, candidates[len(candidates)-1]))
}

func writeFact(b *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// datePattern matches YYYY-MM-DD, optionally THHMM or THHMMSS, at the
// start of a directory name.
var datePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(T\d{4,6})?-(.+)$`)

func parseReportDirName(name string) (date, account string) {
	m := datePattern.FindStringSubmatch(name)
	if m == nil {
		return "", name
	}
	return m[1], m[3]
}

func extractTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return ""
}
