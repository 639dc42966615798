package charts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcadam/prospector/pkg/crm"
)

func TestParseDirectivesBar(t *testing.T) {
	md := "# Account Book\n\nSome text.\n\n```chart\ntype: bar\ntitle: \"Current rate ($/kWh)\"\nx: [\"Acme Corp\", \"Reed Logistics\", \"Summit Foods\"]\ny: [0.062, 0.071, 0.058]\n```\n\nMore text.\n"

	directives := ParseDirectives(md)
	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}

	d := directives[0]
	if d.Type != "bar" {
		t.Errorf("expected type bar, got %q", d.Type)
	}
	if d.Title != "Current rate ($/kWh)" {
		t.Errorf("unexpected title %q", d.Title)
	}
	if len(d.Labels) != 3 || d.Labels[0] != "Acme Corp" {
		t.Errorf("unexpected labels: %v", d.Labels)
	}
	if len(d.Values) != 3 || d.Values[0] != 0.062 {
		t.Errorf("unexpected values: %v", d.Values)
	}
}

func TestParseDirectivesMultiple(t *testing.T) {
	md := "```chart\ntype: bar\ntitle: \"Rates\"\nx: [\"A\"]\ny: [1]\n```\n\ntext\n\n```chart\ntype: line\ntitle: \"Usage\"\nx: [\"B\"]\ny: [2]\n```\n"

	directives := ParseDirectives(md)
	if len(directives) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(directives))
	}
	if directives[0].Type != "bar" || directives[1].Type != "line" {
		t.Errorf("types = %q, %q", directives[0].Type, directives[1].Type)
	}
}

func TestParseDirectivesSkipsMalformed(t *testing.T) {
	tests := []struct {
		name string
		md   string
	}{
		{"unclosed block", "```chart\ntype: bar\nx: [\"A\"]\ny: [1]\n"},
		{"unknown type", "```chart\ntype: radar\nx: [\"A\"]\ny: [1]\n```\n"},
		{"missing values", "```chart\ntype: bar\nx: [\"A\"]\n```\n"},
		{"no charts", "# Just text.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDirectives(tt.md); len(got) != 0 {
				t.Errorf("expected 0 directives, got %d", len(got))
			}
		})
	}
}

func TestParseDirectivesDefaultTitle(t *testing.T) {
	md := "```chart\ntype: bar\nx: [\"A\"]\ny: [1]\n```\n"
	directives := ParseDirectives(md)
	if len(directives) != 1 || directives[0].Title != "Chart" {
		t.Errorf("got %+v", directives)
	}
}

func TestRateDirective(t *testing.T) {
	accounts := []*crm.Account{
		{Name: "Acme Corp", Energy: crm.EnergyFacts{CurrentRate: ".062"}},
		{Name: "Reed Logistics", Energy: crm.EnergyFacts{CurrentRate: "0.071"}},
		{Name: "No Rate Inc"},
	}
	d := RateDirective(accounts)
	if d == nil {
		t.Fatal("expected a directive")
	}
	if len(d.Labels) != 2 || d.Labels[1] != "Reed Logistics" {
		t.Errorf("labels = %v", d.Labels)
	}
	if d.Values[0] != 0.062 || d.Values[1] != 0.071 {
		t.Errorf("values = %v", d.Values)
	}
}

func TestRateDirectiveTooFew(t *testing.T) {
	accounts := []*crm.Account{
		{Name: "Acme Corp", Energy: crm.EnergyFacts{CurrentRate: "0.062"}},
	}
	if d := RateDirective(accounts); d != nil {
		t.Errorf("expected nil, got %+v", d)
	}
}

func TestFencedRoundTrip(t *testing.T) {
	in := &ChartDirective{
		Type:   "bar",
		Title:  "Current rate ($/kWh)",
		Labels: []string{"Acme Corp", "Reed Logistics"},
		Values: []float64{0.062, 0.071},
	}
	directives := ParseDirectives(in.Fenced())
	if len(directives) != 1 {
		t.Fatalf("round trip lost the directive")
	}
	d := directives[0]
	if d.Title != in.Title || len(d.Labels) != 2 || d.Values[1] != 0.071 {
		t.Errorf("got %+v", d)
	}
}

func TestReplaceDirectives(t *testing.T) {
	md := "before\n```chart\ntype: bar\nx: [\"A\"]\ny: [1]\n```\nafter"
	out := ReplaceDirectives(md, map[int]string{0: "[chart]"})
	if out != "before\n[chart]\nafter" {
		t.Errorf("got %q", out)
	}

	// No replacement keeps the block.
	out = ReplaceDirectives(md, nil)
	if out != md {
		t.Errorf("got %q", out)
	}
}

func TestRenderPNG(t *testing.T) {
	d := ChartDirective{
		Type:   "bar",
		Title:  "Current rate ($/kWh)",
		Labels: []string{"Acme Corp", "Reed Logistics"},
		Values: []float64{0.062, 0.071},
	}
	png, err := RenderPNG(d, 600, 400)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG (%d bytes)", len(png))
	}

	d.Type = "radar"
	if _, err := RenderPNG(d, 600, 400); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestRenderTextTable(t *testing.T) {
	d := ChartDirective{
		Type:   "bar",
		Title:  "Current rate ($/kWh)",
		Labels: []string{"Acme Corp", "Reed"},
		Values: []float64{0.1, 12},
	}
	table := RenderTextTable(d)
	if !strings.Contains(table, "Current rate ($/kWh)") {
		t.Error("title missing")
	}
	if !strings.Contains(table, "Acme Corp") || !strings.Contains(table, "0.1") {
		t.Errorf("rows missing:\n%s", table)
	}
	if !strings.Contains(table, "12") {
		t.Errorf("integer value missing:\n%s", table)
	}

	if RenderTextTable(ChartDirective{}) != "" {
		t.Error("empty directive should render empty")
	}
}

func TestSavePNGsAndLoadPNG(t *testing.T) {
	dir := t.TempDir()
	d := &ChartDirective{
		Type:   "bar",
		Title:  "Current rate ($/kWh)",
		Labels: []string{"Acme Corp", "Reed Logistics"},
		Values: []float64{0.062, 0.071},
	}
	md := "# Book\n\n" + d.Fenced() + "\n"
	if err := SavePNGs(md, dir, 600, 400); err != nil {
		t.Fatalf("SavePNGs: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "charts"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("charts dir: %v, %d entries", err, len(entries))
	}

	data := LoadPNG(filepath.Join(dir, "charts"), d.Title, 0)
	if data == nil {
		t.Fatal("LoadPNG returned nil")
	}
}
