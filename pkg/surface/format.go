package surface

import (
	"strings"

	"golang.org/x/net/html"
)

// FormattingState records the style intent for the next typed characters
// when the caret is collapsed ("sticky" formatting). It never describes
// already-typed text. One record exists per compose session and is reset
// when the session closes.
type FormattingState struct {
	Color      string
	Background string
	FontSize   string
	FontFamily string
	Bold       bool
	Italic     bool
	Underline  bool
}

// Any reports whether any pending style is set.
func (f FormattingState) Any() bool {
	return f != FormattingState{}
}

// span builds a style-carrier span for the pending state.
func (f FormattingState) span() *html.Node {
	var styles []string
	if f.Color != "" {
		styles = append(styles, "color:"+f.Color)
	}
	if f.Background != "" {
		styles = append(styles, "background-color:"+f.Background)
	}
	if f.FontSize != "" {
		styles = append(styles, "font-size:"+f.FontSize)
	}
	if f.FontFamily != "" {
		styles = append(styles, "font-family:"+f.FontFamily)
	}
	if f.Bold {
		styles = append(styles, "font-weight:bold")
	}
	if f.Italic {
		styles = append(styles, "font-style:italic")
	}
	if f.Underline {
		styles = append(styles, "text-decoration:underline")
	}
	return &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{{Key: "style", Val: strings.Join(styles, ";")}},
	}
}

// State returns the session's formatting state.
func (s *Surface) State() FormattingState { return s.state }

// SetState replaces the session's formatting state.
func (s *Surface) SetState(f FormattingState) { s.state = f }

// ToggleBold flips the sticky bold intent. With an active selection it
// wraps the selected range instead, leaving the sticky state untouched.
func (s *Surface) ToggleBold() {
	s.toggleInline(func(f *FormattingState) { f.Bold = !f.Bold }, FormattingState{Bold: true})
}

// ToggleItalic flips the sticky italic intent, or wraps the selection.
func (s *Surface) ToggleItalic() {
	s.toggleInline(func(f *FormattingState) { f.Italic = !f.Italic }, FormattingState{Italic: true})
}

// ToggleUnderline flips the sticky underline intent, or wraps the selection.
func (s *Surface) ToggleUnderline() {
	s.toggleInline(func(f *FormattingState) { f.Underline = !f.Underline }, FormattingState{Underline: true})
}

func (s *Surface) toggleInline(flip func(*FormattingState), selStyle FormattingState) {
	if s.sel == nil {
		return // unfocused: no-op; caller must focus and retry
	}
	if s.sel.Collapsed() {
		flip(&s.state)
		return
	}
	s.wrapSelection(selStyle.span())
}

// ApplyColor applies a text color. With a non-collapsed selection the
// color wraps the selected range only and the caret collapses to its end.
// An empty color means "no color": existing text is never altered — the
// caret is moved past any styled span it sits inside and a zero-width
// neutral marker is planted there so newly typed text does not inherit
// the old style. No-op when the surface is not focused.
func (s *Surface) ApplyColor(color string) {
	s.applyStyle(color, "color:", func(f *FormattingState, v string) { f.Color = v })
}

// ApplyHighlight is ApplyColor's contract for background color.
func (s *Surface) ApplyHighlight(color string) {
	s.applyStyle(color, "background-color:", func(f *FormattingState, v string) { f.Background = v })
}

func (s *Surface) applyStyle(value, styleProp string, set func(*FormattingState, string)) {
	if s.sel == nil {
		return
	}

	if value == "" {
		set(&s.state, "")
		if !s.sel.Collapsed() {
			// Turning a color "off" never strips existing styling; the
			// caret just collapses past the selection.
			s.CaretTo(s.sel.End)
		}
		s.escapeStyledSpan(styleProp)
		return
	}

	set(&s.state, value)
	if s.sel.Collapsed() {
		return
	}

	f := FormattingState{}
	set(&f, value)
	s.wrapSelection(f.span())
}

// wrapSelection wraps the selected range in copies of the style span and
// collapses the caret to the end of the range. Text nodes are split at
// the range boundaries; chips and pads are left unwrapped.
func (s *Surface) wrapSelection(style *html.Node) {
	start, end := s.sel.Start, s.sel.End

	// Split text nodes at both boundaries so covered segments are whole.
	s.nodeAt(end)
	s.nodeAt(start)

	pos := 0
	var covered []*html.Node
	for _, seg := range s.segments() {
		segStart, segEnd := pos, pos+seg.length
		pos = segEnd
		if segStart >= start && segEnd <= end && !seg.chip && !seg.pad {
			covered = append(covered, seg.node)
		}
	}

	for _, n := range covered {
		wrapper := cloneElement(style)
		n.Parent.InsertBefore(wrapper, n)
		n.Parent.RemoveChild(n)
		wrapper.AppendChild(n)
	}

	s.CaretTo(end)
}

// markerAttr marks the zero-width neutral span planted when the user
// selects "no color" inside a styled run. It defeats caret-styling
// heuristics that would otherwise resurrect the old style.
const markerAttr = "data-style-anchor"

func isMarker(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == "span" && attr(n, markerAttr) != ""
}

func newMarkerNode() *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{{Key: markerAttr, Val: "1"}},
	}
}

// escapeStyledSpan moves the caret just past the closing boundary of the
// deepest enclosing span that carries styleProp, planting a neutral
// marker there. A caret not inside such a span is left alone.
func (s *Surface) escapeStyledSpan(styleProp string) {
	styled := s.styledSpanAtCaret(styleProp)
	if styled == nil {
		return
	}

	after := offsetAfter(s.root, styled)
	marker := newMarkerNode()
	if styled.NextSibling != nil {
		styled.Parent.InsertBefore(marker, styled.NextSibling)
	} else {
		styled.Parent.AppendChild(marker)
	}
	s.CaretTo(after)
}

// styledSpanAtCaret finds the deepest styled span the caret sits inside.
// A caret at the trailing edge of a span's last text node still counts as
// inside it, matching browser caret-affinity behavior.
func (s *Surface) styledSpanAtCaret(styleProp string) *html.Node {
	caret := s.sel.Start
	pos := 0
	for _, seg := range s.segments() {
		segStart, segEnd := pos, pos+seg.length
		pos = segEnd
		if seg.chip || seg.pad {
			continue
		}
		if caret > segStart && caret <= segEnd {
			if span := enclosingStyledSpan(seg.node.Parent, s.root, styleProp); span != nil {
				return span
			}
		}
	}
	return nil
}

// enclosingStyledSpan ascends from n to root looking for a span whose
// style attribute carries the given property.
func enclosingStyledSpan(n, root *html.Node, styleProp string) *html.Node {
	for cur := n; cur != nil && cur != root; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.Data == "span" &&
			strings.Contains(attr(cur, "style"), styleProp) {
			return cur
		}
	}
	return nil
}

// offsetAfter returns the unit offset immediately after target's subtree.
func offsetAfter(root, target *html.Node) int {
	pos := 0
	found := false
	walk(root, func(n *html.Node) bool {
		if found {
			return false
		}
		if n == target {
			pos += subtreeLength(n)
			found = true
			return false
		}
		if isChip(n) || isPad(n) {
			pos++
			return false
		}
		if n.Type == html.TextNode {
			pos += len([]rune(n.Data))
		}
		return true
	})
	return pos
}

// subtreeLength measures a node's content in units.
func subtreeLength(n *html.Node) int {
	total := 0
	walk(n, func(node *html.Node) bool {
		if isChip(node) || isPad(node) {
			total++
			return false
		}
		if node.Type == html.TextNode {
			total += len([]rune(node.Data))
		}
		return true
	})
	return total
}

func cloneElement(n *html.Node) *html.Node {
	return &html.Node{
		Type: n.Type,
		Data: n.Data,
		Attr: append([]html.Attribute(nil), n.Attr...),
	}
}
