// Package draft turns loosely-structured language-model completions into
// clean, bounded outreach emails. The formatter is an ordered pipeline of
// pure text-transformation stages so each stage is independently
// testable; account facts are injected deterministically from CRM data,
// never taken from the model's own text.
package draft

import (
	"strings"

	"github.com/jcadam/prospector/pkg/crm"
)

// Mode selects the output shape of a formatted draft.
type Mode string

const (
	// ModeStandard emits bare <p>/<ul> fragments for insertion into a
	// rich-text surface.
	ModeStandard Mode = "standard"
	// ModeHTML emits a complete, brand-styled standalone HTML document.
	ModeHTML Mode = "html"
)

// Email is the formatter's output.
type Email struct {
	Subject string
	HTML    string
}

// Formatter holds the per-session inputs the pipeline needs beyond the
// model completion itself. Zero value is usable: sender tokens resolve
// empty and the brand falls back to a neutral signature.
type Formatter struct {
	// Sender maps sender token keys (first_name, full_name, ...) to
	// their resolved values.
	Sender map[string]string
	// Brand is the company name used in HTML-document closings/footers.
	Brand string
	// Logo is an image URL (or data URI) embedded in the HTML-document
	// header. Empty means a text-only header.
	Logo string
	// SubjectSeed picks pseudo-randomly among subject template variants.
	SubjectSeed int
}

// paragraph is one body unit flowing through the pipeline. Bullet-list
// paragraphs are preserved verbatim and exempt from the sentence cap.
type paragraph struct {
	text   string
	bullet bool
}

// Format runs the full pipeline over a raw model completion.
func (f *Formatter) Format(raw string, rc *crm.RecipientContext, mode Mode) *Email {
	if rc == nil {
		rc = &crm.RecipientContext{}
	}

	subject, body := ExtractSubject(raw)
	subject = RedactDates(subject)

	if LooksLikeHTML(body) {
		body = StripHTML(body)
	}

	body = RemoveGreetings(body)
	body = TruncateAtClosing(body)

	paras := NormalizeParagraphs(body)
	paras = InjectFacts(paras, rc)
	paras, cta := EnforceBrevity(paras)

	subject = ImproveSubject(subject, rc, f.SubjectSeed)

	var out []paragraph
	out = append(out, paragraph{text: Greeting(rc)})
	out = append(out, paras...)
	if cta != "" {
		out = append(out, paragraph{text: cta})
	}
	out = append(out, paragraph{text: f.closing(mode)})

	html := renderFragments(out)
	if mode == ModeHTML {
		html = f.RenderDocument(subject, html)
	}

	return &Email{Subject: subject, HTML: html}
}

// Greeting synthesizes exactly one greeting line: first name, else
// company team, else bare.
func Greeting(rc *crm.RecipientContext) string {
	switch {
	case rc.FirstName != "":
		return "Hi " + rc.FirstName + ","
	case rc.Company != "":
		return "Hi " + rc.Company + " team,"
	default:
		return "Hi,"
	}
}

// closing synthesizes exactly one closing block. Standard mode keeps the
// sender as a literal token so the editor can show it as a chip until
// send time; HTML-document mode signs with the brand.
func (f *Formatter) closing(mode Mode) string {
	if mode == ModeHTML {
		brand := f.Brand
		if brand == "" {
			brand = "The Team"
		}
		return "Best regards,\\\n" + brand
	}
	return "Best regards,\\\n{{sender.first_name}}"
}

// joinSentences reassembles split sentences with single spaces.
func joinSentences(sentences []string) string {
	return strings.Join(sentences, " ")
}
