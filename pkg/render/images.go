package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/BourgeoisBear/rasterm"
)

// ImageTier is the terminal's capability class for chart rendering.
// Tier 1 terminals draw chart PNGs inline; Tier 2 terminals get the
// text-table fallback.
type ImageTier int

const (
	TierNone  ImageTier = iota // Tier 2: text tables only
	TierKitty                  // Kitty graphics protocol (Kitty, Ghostty, WezTerm)
	TierIterm                  // iTerm2 inline images (OSC 1337)
	TierSixel                  // Sixel protocol (foot, Contour)
)

// DetectImageTier resolves the rendering.images config value against the
// terminal's actual capabilities. "text" and "external" force Tier 2
// (external viewing is handled by the report viewer's open action, not
// here); "inline", "auto", and empty probe the terminal. Unknown values
// degrade to Tier 2 rather than erroring, since the config was already
// validated at load.
func DetectImageTier(configOverride string) ImageTier {
	switch strings.ToLower(configOverride) {
	case "", "auto", "inline":
		return probeTerminal()
	default:
		return TierNone
	}
}

// probeTerminal checks the terminal for the best supported image protocol.
// Sixel is not probed because WriteInlineImage cannot render it yet
// (rasterm.SixelWriteImage requires image.Paletted, not raw PNG).
func probeTerminal() ImageTier {
	switch {
	case rasterm.IsKittyCapable():
		return TierKitty
	case rasterm.IsItermCapable():
		return TierIterm
	default:
		return TierNone
	}
}

// WriteInlineImage emits a chart PNG to w using the tier's escape
// protocol. Tier 2 (and Sixel, until supported) writes nothing and
// returns nil so callers can fall through to the text table.
func WriteInlineImage(w io.Writer, pngData []byte, tier ImageTier) error {
	switch tier {
	case TierKitty:
		return rasterm.KittyCopyPNGInline(w, bytes.NewReader(pngData), rasterm.KittyImgOpts{})
	case TierIterm:
		return rasterm.ItermCopyFileInline(w, bytes.NewReader(pngData), int64(len(pngData)))
	default:
		return nil
	}
}
