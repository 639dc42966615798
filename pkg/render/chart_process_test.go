package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHasChartDirectives(t *testing.T) {
	if !hasChartDirectives("# Report\n\n```chart\ntype: bar\n```\n") {
		t.Error("expected true for markdown with chart block")
	}
	if hasChartDirectives("# Report\n\nNo charts here.\n") {
		t.Error("expected false for markdown without chart block")
	}
}

func TestProcessChartsTextTable(t *testing.T) {
	raw := "# Report\n\n```chart\ntype: bar\ntitle: \"Current rate ($/kWh)\"\nx: [\"Acme Corp\", \"Reed Logistics\"]\ny: [0.062, 0.081]\n```\n\nMore text.\n"

	rendered, err := RenderMarkdown(raw, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	result := processCharts(raw, rendered, "", TierNone)

	if !strings.Contains(result, "Current rate ($/kWh)") {
		t.Error("expected chart title in output")
	}
	if !strings.Contains(result, "Acme Corp") {
		t.Error("expected label Acme Corp in output")
	}
	if !strings.Contains(result, "0.062") {
		t.Error("expected value 0.062 in output")
	}

	// Should NOT contain the raw chart block or mangled markers
	if strings.Contains(result, "```chart") {
		t.Error("expected chart block to be replaced")
	}
	if strings.Contains(result, chartSlotPrefix) {
		t.Error("expected markers to be replaced with chart content")
	}
}

func TestProcessChartsMarkerSurvivesGlamour(t *testing.T) {
	// Markers must survive Glamour rendering without being interpreted
	// as markdown, or the replacement step can't find them.
	raw := "# Report\n\n```chart\ntype: bar\ntitle: \"Rates\"\nx: [\"A\"]\ny: [1]\n```\n"

	rendered, err := RenderMarkdown(raw, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	result := processCharts(raw, rendered, "", TierNone)

	if strings.Contains(result, chartSlotPrefix) {
		t.Error("marker text found in output; markers were not replaced")
	}
	if !strings.Contains(result, "Rates") {
		t.Error("expected chart title in text table output")
	}
}

func TestProcessChartsNoDirectives(t *testing.T) {
	raw := "# Report\n\nNo charts.\n"
	rendered, _ := RenderMarkdown(raw, 80)

	result := processCharts(raw, rendered, "", TierNone)
	if result != rendered {
		t.Error("expected unchanged output when no chart directives")
	}
}

func TestProcessChartsMultiple(t *testing.T) {
	raw := "# Report\n\n```chart\ntype: bar\ntitle: \"Rates\"\nx: [\"A\"]\ny: [1]\n```\n\nMiddle text.\n\n```chart\ntype: line\ntitle: \"Usage\"\nx: [\"B\"]\ny: [2]\n```\n"

	rendered, err := RenderMarkdown(raw, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	result := processCharts(raw, rendered, "", TierNone)

	if !strings.Contains(result, "Rates") {
		t.Error("expected first chart title")
	}
	if !strings.Contains(result, "Usage") {
		t.Error("expected second chart title")
	}
	if strings.Contains(result, chartSlotPrefix) {
		t.Error("expected all markers replaced")
	}
}

func TestProcessChartsTierNoneIgnoresPNGs(t *testing.T) {
	// The viewer always passes TierNone: Kitty/iTerm floating images don't
	// scroll with a line-based viewport, so charts render as text tables
	// and the full PNG opens externally with 'i'.
	dir := t.TempDir()
	chartsDir := filepath.Join(dir, "charts")
	os.MkdirAll(chartsDir, 0o755)
	os.WriteFile(filepath.Join(chartsDir, "rates_0.png"), []byte("fake png data"), 0o644)

	raw := "# Report\n\n```chart\ntype: bar\ntitle: \"Rates\"\nx: [\"Acme Corp\", \"Reed Logistics\"]\ny: [0.062, 0.081]\n```\n\nAnalysis follows.\n"
	rendered, err := RenderMarkdown(raw, 80)
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	result := processCharts(raw, rendered, dir, TierNone)

	if !strings.Contains(result, "Rates") {
		t.Error("expected text table with chart title")
	}
	if !strings.Contains(result, "Acme Corp") {
		t.Error("expected text table with label Acme Corp")
	}
	if strings.Contains(result, "\x1b_G") {
		t.Error("TierNone must not produce Kitty graphics escape sequences")
	}
	if strings.Contains(result, "\x1b]1337") {
		t.Error("TierNone must not produce iTerm2 image escape sequences")
	}
	if strings.Contains(result, chartSlotPrefix) {
		t.Error("expected all markers replaced")
	}
}
