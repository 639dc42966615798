// Package render provides terminal markdown rendering and a scrollable
// viewer for account reports and email previews.
package render

import (
	"fmt"
	"regexp"

	xansi "github.com/charmbracelet/x/ansi"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

// RenderMarkdown renders markdown to styled terminal output using Glamour.
// An optional ImageTier can be passed to enable the custom Prospector style
// on Tier 1 terminals. When omitted (or TierNone), or on a light
// background, the default auto-style is used.
func RenderMarkdown(markdown string, width int, tier ...ImageTier) (string, error) {
	if width <= 0 {
		width = 80
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if len(tier) > 0 && tier[0] != TierNone && termenv.HasDarkBackground() {
		opts = append(opts, glamour.WithStyles(prospectorStyle()))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// prospectorStyle returns a custom Glamour style based on TokyoNight with
// a subtle H1 background and Unicode horizontal rules.
func prospectorStyle() ansi.StyleConfig {
	s := styles.TokyoNightStyleConfig

	// H1: subtle dark background for a banner effect
	s.H1.BackgroundColor = stringPtr("#1a1b26")

	// Horizontal rule: cleaner Unicode line
	s.HorizontalRule.Format = "\n──────────\n"

	return s
}

func stringPtr(s string) *string { return &s }

// urlPattern matches HTTP(S) URLs, stopping before whitespace, ANSI
// escapes, closing parens/brackets/angles, or trailing punctuation.
// Account reports carry contact and account links.
var urlPattern = regexp.MustCompile(`https?://[^\s\x1b)\]>]+`)

// linkifyURLs wraps URLs in the rendered output with OSC 8 hyperlink
// escapes so they are clickable in capable terminals. Tier 2 terminals
// are assumed not to support OSC 8 either, so this is a no-op there.
func linkifyURLs(rendered string, tier ImageTier) string {
	if tier == TierNone {
		return rendered
	}
	return urlPattern.ReplaceAllStringFunc(rendered, func(url string) string {
		return xansi.SetHyperlink(url) + url + xansi.ResetHyperlink()
	})
}
