package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jcadam/prospector/pkg/charts"
)

// chartSlotPrefix tags the position of each chart block in rendered
// output. Hyphenated so CommonMark never reads it as emphasis, which
// would mangle the marker during the Glamour pass.
const chartSlotPrefix = "RATE-CHART-SLOT-"

func chartSlot(i int) string { return chartSlotPrefix + strconv.Itoa(i) }

// hasChartDirectives reports whether the markdown carries chart blocks.
func hasChartDirectives(markdown string) bool {
	return strings.Contains(markdown, "```chart")
}

// processCharts substitutes the report's chart fenced blocks in rendered
// output. Glamour would print them as literal code, so the raw markdown
// is re-rendered with each block replaced by a slot marker, and the
// markers are then filled in: an inline PNG on Tier 1, the text-table
// fallback on Tier 2 or whenever no PNG was saved alongside the report.
func processCharts(raw, rendered, reportDir string, tier ImageTier) string {
	directives := charts.ParseDirectives(raw)
	if len(directives) == 0 {
		return rendered
	}

	slots := make(map[int]string, len(directives))
	for i := range directives {
		slots[i] = chartSlot(i)
	}
	marked, err := RenderMarkdown(charts.ReplaceDirectives(raw, slots), 0)
	if err != nil {
		return rendered
	}

	chartsDir := ""
	if reportDir != "" {
		chartsDir = filepath.Join(reportDir, "charts")
	}

	for i, d := range directives {
		fill := inlineChart(chartsDir, d, i, tier)
		if fill == "" {
			fill = charts.RenderTextTable(d)
		}
		marked = strings.Replace(marked, chartSlot(i), fill, 1)
	}
	return marked
}

// inlineChart returns the terminal escape sequence drawing chart i's
// saved PNG, or "" when the tier or the PNG doesn't allow it.
func inlineChart(chartsDir string, d charts.ChartDirective, i int, tier ImageTier) string {
	if tier == TierNone || chartsDir == "" {
		return ""
	}
	png := charts.LoadPNG(chartsDir, d.Title, i)
	if png == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := WriteInlineImage(&buf, png, tier); err != nil || buf.Len() == 0 {
		return ""
	}
	return buf.String() + "\n"
}

// openFirstChart opens the first chart PNG in an external viewer.
func (v Viewer) openFirstChart() (tea.Model, tea.Cmd) {
	if v.handoff == nil || v.reportDir == "" {
		v.setStatus("No charts available")
		return v, nil
	}

	chartsDir := filepath.Join(v.reportDir, "charts")
	entries, err := os.ReadDir(chartsDir)
	if err != nil || len(entries) == 0 {
		v.setStatus("No chart files found")
		return v, nil
	}

	chartPath := filepath.Join(chartsDir, entries[0].Name())
	opener := v.handoff
	v.busy = true
	return v, func() tea.Msg {
		err := opener.OpenFile(chartPath)
		if err != nil {
			return handoffResultMsg{err: err}
		}
		return handoffResultMsg{status: "Opened: " + entries[0].Name()}
	}
}
