// Package surface implements a toolkit-independent rich-text editing
// surface for email composition: variable chips, sticky caret formatting,
// and a raw-HTML source mode. The document is a plain x/net/html fragment
// tree; UI toolkits adapt it rather than the other way around. All state
// is session-scoped — nothing in this package is global.
package surface

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Selection is a range over the surface's flattened content, measured in
// units: one unit per text rune, one unit per chip or pad. Start == End is
// a collapsed caret.
type Selection struct {
	Start int
	End   int
}

// Collapsed reports whether the selection is a bare caret.
func (s Selection) Collapsed() bool { return s.Start == s.End }

// Surface is one compose session's editable rich-text document.
type Surface struct {
	root   *html.Node // container element; its children are the fragment
	sel    *Selection // nil when the surface is not focused
	state  FormattingState
	source string // raw HTML text while in source mode
	mode   Mode
}

// Mode distinguishes rendered rich text from raw HTML source editing.
type Mode int

const (
	ModeRendered Mode = iota
	ModeSource
)

// New creates an empty focused surface with the caret at position 0.
func New() *Surface {
	root := &html.Node{Type: html.ElementNode, Data: "div"}
	return &Surface{root: root, sel: &Selection{}}
}

// Parse creates a surface from an HTML fragment, converting any variable
// tokens to chips. The caret lands at the end of the content.
func Parse(fragment string) (*Surface, error) {
	s := New()
	if err := s.setFragment(fragment); err != nil {
		return nil, err
	}
	TokensToChips(s.root)
	end := s.Length()
	s.sel = &Selection{Start: end, End: end}
	return s, nil
}

func (s *Surface) setFragment(fragment string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return err
	}
	root := &html.Node{Type: html.ElementNode, Data: "div"}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	s.root = root
	return nil
}

// Root exposes the fragment tree for adapters and tests.
func (s *Surface) Root() *html.Node { return s.root }

// Mode returns the current editing mode.
func (s *Surface) Mode() Mode { return s.mode }

// Focus places the caret at the end of the content if the surface has no
// selection. Blur removes it.
func (s *Surface) Focus() {
	if s.sel == nil {
		end := s.Length()
		s.sel = &Selection{Start: end, End: end}
	}
}

// Blur drops the selection; formatting operations become no-ops until the
// surface is focused again.
func (s *Surface) Blur() { s.sel = nil }

// Selection returns the current selection and whether one exists.
func (s *Surface) Selection() (Selection, bool) {
	if s.sel == nil {
		return Selection{}, false
	}
	return *s.sel, true
}

// Select sets the selection, clamping to the content bounds.
func (s *Surface) Select(start, end int) {
	n := s.Length()
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if start > end {
		start, end = end, start
	}
	s.sel = &Selection{Start: start, End: end}
}

// CaretTo collapses the selection to a single position.
func (s *Surface) CaretTo(pos int) { s.Select(pos, pos) }

// segment is one flattened leaf of the tree: a text node (length = rune
// count), a chip (length 1), or a pad (length 1).
type segment struct {
	node   *html.Node
	length int
	chip   bool
	pad    bool
}

// segments flattens the tree in document order. Chips are opaque single
// units; styled spans contribute the segments of their children.
func (s *Surface) segments() []segment {
	var segs []segment
	walk(s.root, func(n *html.Node) bool {
		if isChip(n) {
			segs = append(segs, segment{node: n, length: 1, chip: true})
			return false
		}
		if isPad(n) {
			segs = append(segs, segment{node: n, length: 1, pad: true})
			return false
		}
		if n.Type == html.TextNode {
			segs = append(segs, segment{node: n, length: len([]rune(n.Data))})
		}
		return true
	})
	return segs
}

// Length returns the total content length in units.
func (s *Surface) Length() int {
	total := 0
	for _, seg := range s.segments() {
		total += seg.length
	}
	return total
}

// Text returns the visible text: text runs verbatim, chips as their
// labels, pads as spaces.
func (s *Surface) Text() string {
	var b strings.Builder
	for _, seg := range s.segments() {
		switch {
		case seg.chip:
			if c, ok := ChipAt(seg.node); ok {
				b.WriteString(c.Label())
			}
		case seg.pad:
			b.WriteString(" ")
		default:
			b.WriteString(seg.node.Data)
		}
	}
	return b.String()
}

// HTML serializes the fragment (chips as chip markup).
func (s *Surface) HTML() (string, error) {
	var b strings.Builder
	for c := s.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// splitTextNode splits a text node at the given rune offset and returns
// the right half. Offsets at the boundaries return the node itself or nil.
func splitTextNode(n *html.Node, off int) *html.Node {
	runes := []rune(n.Data)
	if off <= 0 {
		return n
	}
	if off >= len(runes) {
		return nil
	}
	right := textNode(string(runes[off:]))
	n.Data = string(runes[:off])
	if n.NextSibling != nil {
		n.Parent.InsertBefore(right, n.NextSibling)
	} else {
		n.Parent.AppendChild(right)
	}
	return right
}

// nodeAt resolves a unit offset to an insertion point: the node before
// which new content should be inserted, and its parent. A nil node means
// "append to parent". Text nodes are split as needed so the insertion
// point is always a node boundary.
func (s *Surface) nodeAt(offset int) (parent, before *html.Node) {
	pos := 0
	for _, seg := range s.segments() {
		if offset < pos+seg.length {
			if seg.chip || seg.pad {
				// Chips are atomic: an offset inside one resolves to its
				// leading edge.
				return seg.node.Parent, seg.node
			}
			right := splitTextNode(seg.node, offset-pos)
			return seg.node.Parent, right
		}
		pos += seg.length
	}
	return s.root, nil
}

// insertAt inserts node at the given unit offset.
func (s *Surface) insertAt(offset int, node *html.Node) {
	parent, before := s.nodeAt(offset)
	if before != nil {
		parent.InsertBefore(node, before)
	} else {
		parent.AppendChild(node)
	}
}

// deleteRange removes the units in [start, end). Chips and pads are
// removed whole — a chip is never split.
func (s *Surface) deleteRange(start, end int) {
	if start >= end {
		return
	}
	pos := 0
	for _, seg := range s.segments() {
		segStart, segEnd := pos, pos+seg.length
		pos = segEnd
		if segEnd <= start || segStart >= end {
			continue
		}
		if seg.chip || seg.pad {
			removeNode(seg.node)
			continue
		}
		runes := []rune(seg.node.Data)
		from := max(0, start-segStart)
		to := min(len(runes), end-segStart)
		remaining := string(runes[:from]) + string(runes[to:])
		if remaining == "" {
			removeNode(seg.node)
		} else {
			seg.node.Data = remaining
		}
	}
	pruneEmptySpans(s.root)
}

// InsertText inserts typed text at the caret, replacing any active
// selection. When the formatting state carries pending styles the text is
// wrapped in a style span; otherwise it joins the surrounding text
// unstyled. No-op when the surface is not focused.
func (s *Surface) InsertText(text string) {
	if s.sel == nil || text == "" {
		return
	}
	if !s.sel.Collapsed() {
		start := s.sel.Start
		s.deleteRange(s.sel.Start, s.sel.End)
		s.sel = &Selection{Start: start, End: start}
	}

	var node *html.Node
	if s.state.Any() {
		span := s.state.span()
		span.AppendChild(textNode(text))
		node = span
	} else {
		node = textNode(text)
	}
	s.insertAt(s.sel.Start, node)
	mergeAdjacentText(s.root)

	caret := s.sel.Start + len([]rune(text))
	s.sel = &Selection{Start: caret, End: caret}
}

// InsertChip inserts a chip at the caret, consuming any active selection,
// followed by a real space so subsequent typing does not merge into the
// chip. The space is ordinary text and survives serialization, so the
// rendered view and the wire form agree. The caret lands after the space.
// No-op when the surface is not focused.
func (s *Surface) InsertChip(c Chip) {
	if s.sel == nil {
		return
	}
	if !s.sel.Collapsed() {
		start := s.sel.Start
		s.deleteRange(s.sel.Start, s.sel.End)
		s.sel = &Selection{Start: start, End: start}
	}

	s.insertAt(s.sel.Start, textNode(" "))
	s.insertAt(s.sel.Start, newChipNode(c))
	mergeAdjacentText(s.root)

	caret := s.sel.Start + 2 // chip + space
	s.sel = &Selection{Start: caret, End: caret}
}

// DeleteBackward deletes one unit before the caret, or the selection when
// one is active. A chip (or its pad) deletes as a single unit.
func (s *Surface) DeleteBackward() {
	if s.sel == nil {
		return
	}
	if !s.sel.Collapsed() {
		start := s.sel.Start
		s.deleteRange(s.sel.Start, s.sel.End)
		s.sel = &Selection{Start: start, End: start}
		return
	}
	if s.sel.Start == 0 {
		return
	}
	s.deleteRange(s.sel.Start-1, s.sel.Start)
	s.CaretTo(s.sel.Start - 1)
}

func removeNode(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// pruneEmptySpans removes style spans emptied by range deletion. Chips,
// pads, and caret markers survive.
func pruneEmptySpans(root *html.Node) {
	var empties []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "span" && n.FirstChild == nil &&
			!isChip(n) && !isPad(n) && !isMarker(n) {
			empties = append(empties, n)
		}
		return true
	})
	for _, n := range empties {
		removeNode(n)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
