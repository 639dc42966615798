package draft

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

// renderFragments assembles pipeline paragraphs as markdown and converts
// them to bare HTML fragments (<p>, <ul><li>) suitable for insertion
// into a rich-text compose surface. Markdown conversion failure cannot
// happen for the text the pipeline produces; on the off chance it does,
// the paragraphs are emitted as escaped <p> blocks.
func renderFragments(paras []paragraph) string {
	var md strings.Builder
	for i, p := range paras {
		if i > 0 {
			md.WriteString("\n\n")
		}
		md.WriteString(p.text)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md.String()), &buf); err != nil {
		var b strings.Builder
		for _, p := range paras {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(p.text))
		}
		return strings.TrimSpace(b.String())
	}
	return strings.TrimSpace(buf.String())
}

// RenderDocument wraps body fragments in a complete, brand-styled
// standalone HTML document with inline styles for mail-client safety.
// When a logo is configured it is embedded in the header next to the
// brand name.
func (f *Formatter) RenderDocument(subject, bodyHTML string) string {
	brand := f.Brand
	if brand == "" {
		brand = "The Team"
	}
	escSubject := html.EscapeString(subject)
	escBrand := html.EscapeString(brand)

	header := escBrand
	if f.Logo != "" {
		header = fmt.Sprintf(`<img src="%s" alt="%s" style="height: 2em; vertical-align: middle; margin-right: 0.6em;">%s`,
			html.EscapeString(f.Logo), escBrand, escBrand)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin: 0; padding: 0; background: #f4f6f8; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Helvetica, Arial, sans-serif;">
<div style="max-width: 36em; margin: 2em auto; background: #ffffff; border-radius: 6px; overflow: hidden; border: 1px solid #e2e6ea;">
<div style="background: #1a3c5e; color: #ffffff; padding: 1em 1.5em; font-size: 1.1em; font-weight: 600;">%s</div>
<div style="background: #eef3f8; color: #1a3c5e; padding: 0.6em 1.5em; font-size: 0.95em; border-bottom: 1px solid #e2e6ea;">%s</div>
<div style="padding: 1.5em; color: #1a1a1a; line-height: 1.6;">
%s
</div>
<div style="padding: 1em 1.5em; background: #f4f6f8; color: #6b7683; font-size: 0.8em; border-top: 1px solid #e2e6ea;">%s</div>
</div>
</body>
</html>`, escSubject, header, escSubject, bodyHTML, escBrand)
}
