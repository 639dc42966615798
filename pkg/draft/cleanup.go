package draft

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// subjectLinePattern matches an explicit "Subject: ..." line emitted by
// the model, anchored and case-insensitive.
var subjectLinePattern = regexp.MustCompile(`(?i)^subject:\s*(.+)$`)

// implicitSubjectMax is the longest first line still treated as an
// implicit subject when no "Subject:" header is present.
const implicitSubjectMax = 120

// ExtractSubject pulls the subject out of a raw completion, returning the
// subject and the remaining body. If any line matches "Subject: ...",
// that line wins and is removed; otherwise a short first non-empty line
// is taken as an implicit subject. Models that emit neither yield an
// empty subject and an untouched body.
func ExtractSubject(raw string) (subject, body string) {
	lines := strings.Split(raw, "\n")

	for i, line := range lines {
		if m := subjectLinePattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			subject = strings.TrimSpace(m[1])
			body = strings.Join(append(append([]string{}, lines[:i]...), lines[i+1:]...), "\n")
			return subject, body
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// Only a short first line reads as a subject; a long first line,
		// or a line of markup, is body copy.
		if LooksLikeHTML(trimmed) {
			break
		}
		if len(trimmed) <= implicitSubjectMax {
			return trimmed, strings.Join(lines[i+1:], "\n")
		}
		break
	}

	return "", raw
}

var htmlTagPattern = regexp.MustCompile(`<\s*/?\s*[a-zA-Z][^>]*>`)

// LooksLikeHTML reports whether a body appears to contain HTML markup.
func LooksLikeHTML(body string) bool {
	return htmlTagPattern.MatchString(body)
}

// blockTags introduce paragraph breaks when an HTML body is flattened.
var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "blockquote": true, "section": true,
}

// StripHTML flattens an HTML body to plain text: block-level tags become
// paragraph breaks, <br> becomes a newline, entities are decoded, and
// everything else is dropped. Unparseable input falls back to a regex tag
// strip so the pipeline never dies on model quirks.
func StripHTML(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return html.UnescapeString(htmlTagPattern.ReplaceAllString(body, " "))
	}

	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch {
			case n.Data == "br":
				b.WriteString("\n")
			case n.Data == "li":
				b.WriteString("\n- ")
			case blockTags[n.Data]:
				b.WriteString("\n\n")
			case n.Data == "script" || n.Data == "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] && n.Data != "li" {
			b.WriteString("\n\n")
		}
	}
	visit(doc)

	return strings.TrimSpace(b.String())
}

// greetingPattern matches a standalone greeting line, with or without a
// name ("Hi", "Hello Dana,", "Hey there!").
var greetingPattern = regexp.MustCompile(`(?i)^\s*(hi|hello|hey)\b[^.!?]{0,60}[,!]?\s*$`)

// RemoveGreetings deletes every greeting line anywhere in the body; a
// single synthesized greeting replaces them later in the pipeline.
func RemoveGreetings(body string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if greetingPattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// closingPattern matches the first line of a model-written sign-off, or a
// "[Your Name]"-style placeholder. Everything from that line on is cut.
var closingPattern = regexp.MustCompile(`(?i)^\s*((best|kind|warm)\s+regards|regards|sincerely|thanks|thank you|cheers|best)\b[\s,!]*$|^\s*\[(your|sender)?\s*name\]\s*$`)

// TruncateAtClosing cuts the body at the first closing-phrase line. A
// single synthesized closing is appended later.
func TruncateAtClosing(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if closingPattern.MatchString(line) {
			return strings.Join(lines[:i], "\n")
		}
	}
	return body
}

// bulletPattern recognizes bullet-list lines, which are preserved
// verbatim through normalization and exempted from the sentence cap.
var bulletPattern = regexp.MustCompile(`^\s*([-*•]|\d+[.)])\s+`)

// NormalizeParagraphs splits a body into paragraphs: consecutive blank
// lines collapse, soft-wrapped lines join into single lines, bullet
// blocks pass through verbatim, and exact dates are redacted to
// month-year granularity.
func NormalizeParagraphs(body string) []paragraph {
	var paras []paragraph
	var cur []string
	curBullet := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		text := strings.Join(cur, "\n")
		if !curBullet {
			text = strings.Join(cur, " ")
		}
		text = RedactDates(strings.TrimSpace(text))
		if text != "" {
			paras = append(paras, paragraph{text: text, bullet: curBullet})
		}
		cur = nil
		curBullet = false
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		isBullet := bulletPattern.MatchString(line)
		if len(cur) > 0 && isBullet != curBullet {
			flush()
		}
		curBullet = isBullet
		cur = append(cur, trimmed)
	}
	flush()

	return paras
}

// sentenceEnd finds sentence boundaries: terminal punctuation followed by
// whitespace. Decimal points ("$0.062/kWh") never split because no space
// follows the dot.
var sentenceEnd = regexp.MustCompile(`([.!?]+)\s+`)

// SplitSentences breaks a paragraph's text into sentences, keeping the
// terminal punctuation with each sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
