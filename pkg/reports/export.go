package reports

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jcadam/prospector/pkg/charts"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// exporter renders report markdown with pipe-table support; the book
// report is table-heavy.
var exporter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ExportHTML renders report markdown as a standalone HTML document and
// writes it to report.html inside reportDir, returning the written path.
func ExportHTML(markdown, title, reportDir string) (string, error) {
	if reportDir == "" {
		return "", fmt.Errorf("no report directory to export into")
	}
	doc, err := RenderHTML(markdown, title, reportDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(reportDir, "report.html")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// RenderHTML converts report markdown to a self-contained HTML document
// styled to match the outreach-email look. If reportDir contains a
// charts/ subdirectory, chart fenced blocks become embedded PNGs
// (base64 data URIs); otherwise they fall back to HTML tables, so the
// export never depends on external files.
func RenderHTML(markdown, title, reportDir string) (string, error) {
	var buf bytes.Buffer
	if err := exporter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown to HTML: %w", err)
	}

	body := embedCharts(buf.String(), markdown, reportDir)
	escaped := html.EscapeString(title)

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	doc.WriteString("<meta charset=\"utf-8\">\n")
	doc.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&doc, "<title>%s</title>\n", escaped)
	doc.WriteString(reportCSS)
	doc.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&doc, "<div class=\"banner\">%s</div>\n", escaped)
	doc.WriteString("<div class=\"report\">\n")
	doc.WriteString(body)
	doc.WriteString("\n</div>\n<div class=\"footer\">Prospector account book</div>\n")
	doc.WriteString("</body>\n</html>\n")
	return doc.String(), nil
}

const reportCSS = `<style>
  body { margin: 0; background: #f4f6f8; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.6; color: #1a1a1a; }
  .banner { background: #1a3c5e; color: #ffffff; padding: 1em 1.5em; font-size: 1.2em; font-weight: 600; }
  .report { max-width: 48em; margin: 2em auto; padding: 1.5em; background: #ffffff; border: 1px solid #e2e6ea; border-radius: 6px; }
  .footer { max-width: 48em; margin: 0 auto 2em; padding: 0 1.5em; color: #6b7683; font-size: 0.8em; }
  h1, h2, h3 { margin-top: 1.5em; color: #1a3c5e; }
  code { background: #eef3f8; padding: 0.15em 0.3em; border-radius: 3px; font-size: 0.9em; }
  pre { background: #eef3f8; padding: 1em; border-radius: 4px; overflow-x: auto; }
  pre code { background: none; padding: 0; }
  blockquote { border-left: 3px solid #1a3c5e; margin-left: 0; padding-left: 1em; color: #555; }
  table { border-collapse: collapse; width: 100%; }
  th, td { border: 1px solid #e2e6ea; padding: 0.5em; text-align: left; }
  th { background: #eef3f8; }
  img { max-width: 100%; height: auto; }
</style>
`

// chartCodeBlockPattern matches goldmark's output for ```chart blocks.
var chartCodeBlockPattern = regexp.MustCompile(`(?s)<pre><code class="language-chart">.*?</code></pre>`)

// embedCharts swaps each goldmark-emitted chart code block for its saved
// PNG, falling back to an HTML table when no PNG exists. Directives are
// matched to blocks by order of appearance.
func embedCharts(htmlBody, rawMarkdown, reportDir string) string {
	directives := charts.ParseDirectives(rawMarkdown)
	if len(directives) == 0 {
		return htmlBody
	}

	chartsDir := ""
	if reportDir != "" {
		chartsDir = filepath.Join(reportDir, "charts")
	}

	next := 0
	return chartCodeBlockPattern.ReplaceAllStringFunc(htmlBody, func(block string) string {
		if next >= len(directives) {
			return block
		}
		d := directives[next]
		idx := next
		next++

		if chartsDir != "" {
			if png := charts.LoadPNG(chartsDir, d.Title, idx); png != nil {
				return fmt.Sprintf(`<img src="data:image/png;base64,%s" alt="%s">`,
					base64.StdEncoding.EncodeToString(png), html.EscapeString(d.Title))
			}
		}
		return chartFallbackTable(d)
	})
}

// chartFallbackTable renders a chart directive as a plain rate table.
func chartFallbackTable(d charts.ChartDirective) string {
	var b strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&b, "<h4>%s</h4>\n", html.EscapeString(d.Title))
	}
	b.WriteString("<table><thead><tr><th>Account</th><th>Value</th></tr></thead><tbody>\n")
	for i := 0; i < len(d.Labels) && i < len(d.Values); i++ {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(d.Labels[i]), chartValue(d.Values[i]))
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// chartValue formats a data point: whole numbers without a decimal part,
// rates with the three places the book report uses.
func chartValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.3f", v)
}
