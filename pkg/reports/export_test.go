package reports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderHTML(t *testing.T) {
	md := BuildBook(testBook())
	out, err := RenderHTML(md, "Account Book", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<title>Account Book</title>") {
		t.Error("title missing")
	}
	if !strings.Contains(out, `<div class="banner">Account Book</div>`) {
		t.Error("banner missing")
	}
	if !strings.Contains(out, "<td>Acme Corp</td>") {
		t.Errorf("markdown table not rendered:\n%s", out)
	}
	// The chart block falls back to an HTML table without a charts dir.
	if !strings.Contains(out, "<h4>Current rate ($/kWh)</h4>") {
		t.Error("chart fallback table missing")
	}
	if strings.Contains(out, "language-chart") {
		t.Error("raw chart code block survived")
	}
}

func TestRenderHTMLEmbedsPNG(t *testing.T) {
	base := t.TempDir()
	md := BuildBook(testBook())
	saved, err := Save(base, "book", md)
	if err != nil {
		t.Fatal(err)
	}

	out, err := RenderHTML(md, "Account Book", saved.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "data:image/png;base64,") {
		t.Error("chart PNG not embedded")
	}
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	out, err := RenderHTML("# x\n", `<script>"hi"</script>`, "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("title not escaped")
	}
}

func TestRenderHTMLNoCharts(t *testing.T) {
	out, err := RenderHTML("# Plain\n\nJust text.\n", "Plain", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<p>Just text.</p>") {
		t.Errorf("body missing:\n%s", out)
	}
}

func TestExportHTMLWritesFile(t *testing.T) {
	base := t.TempDir()
	md := BuildBook(testBook())
	saved, err := Save(base, "book", md)
	if err != nil {
		t.Fatal(err)
	}

	path, err := ExportHTML(md, "Account Book", saved.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(saved.Dir, "report.html") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("written file is not a full document")
	}
}

func TestExportHTMLRequiresDir(t *testing.T) {
	if _, err := ExportHTML("# x\n", "x", ""); err == nil {
		t.Error("expected an error without a report directory")
	}
}
