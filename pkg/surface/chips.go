package surface

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Chip identifies one substitutable variable embedded in the surface as an
// atomic, non-editable inline element.
type Chip struct {
	Scope string // contact | account | sender
	Key   string
}

// Token returns the literal {{scope.key}} wire representation.
func (c Chip) Token() string {
	return "{{" + c.Scope + "." + c.Key + "}}"
}

// Label humanizes the chip key for display: "first_name" → "First Name".
func (c Chip) Label() string {
	words := strings.Split(c.Key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// tokenPattern matches variable tokens in text. Only the three known
// scopes convert; anything else is left as literal text.
var tokenPattern = regexp.MustCompile(`\{\{(contact|account|sender)\.(\w+)\}\}`)

const (
	attrVar   = "data-var"
	attrToken = "data-token"
	attrPad   = "data-chip-pad"
)

// TokensToChips scans text nodes under n for {{scope.key}} tokens and
// replaces each with a chip element followed by a padding space, so
// subsequent typing does not merge into the chip. Text inside existing
// chips is never reprocessed, and non-matching text is untouched.
func TokensToChips(n *html.Node) {
	var textNodes []*html.Node
	walk(n, func(node *html.Node) bool {
		if isChip(node) || isPad(node) {
			return false // never descend into chips
		}
		if node.Type == html.TextNode && tokenPattern.MatchString(node.Data) {
			textNodes = append(textNodes, node)
		}
		return true
	})

	for _, tn := range textNodes {
		convertTextNode(tn)
	}
}

// convertTextNode splits one text node around its token matches, inserting
// chip + pad elements in place.
func convertTextNode(tn *html.Node) {
	parent := tn.Parent
	if parent == nil {
		return
	}

	text := tn.Data
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return
	}

	insertBefore := tn.NextSibling
	parent.RemoveChild(tn)

	insert := func(node *html.Node) {
		if insertBefore != nil {
			parent.InsertBefore(node, insertBefore)
		} else {
			parent.AppendChild(node)
		}
	}

	last := 0
	for _, m := range matches {
		if m[0] > last {
			insert(textNode(text[last:m[0]]))
		}
		chip := Chip{Scope: text[m[2]:m[3]], Key: text[m[4]:m[5]]}
		insert(newChipNode(chip))
		insert(newPadNode())
		last = m[1]
	}
	if last < len(text) {
		insert(textNode(text[last:]))
	}
}

// ChipsToTokens is the inverse of TokensToChips: every chip element is
// replaced by its literal token text and padding spaces are removed, so
// the result is byte-identical to the pre-conversion text.
func ChipsToTokens(n *html.Node) {
	var replace []*html.Node
	walk(n, func(node *html.Node) bool {
		if isChip(node) || isPad(node) {
			replace = append(replace, node)
			return false
		}
		return true
	})

	for _, node := range replace {
		parent := node.Parent
		if parent == nil {
			continue
		}
		if isPad(node) {
			parent.RemoveChild(node)
			continue
		}
		token := attr(node, attrToken)
		if token == "" {
			// Defensive reconstruction from data-var.
			if v := attr(node, attrVar); v != "" {
				token = "{{" + v + "}}"
			}
		}
		parent.InsertBefore(textNode(token), node)
		parent.RemoveChild(node)
	}

	mergeAdjacentText(n)
}

// newChipNode builds the chip element:
//
//	<span class="var-chip" data-var="scope.key" data-token="{{scope.key}}"
//	      contenteditable="false">Label</span>
func newChipNode(c Chip) *html.Node {
	span := &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{
			{Key: "class", Val: "var-chip"},
			{Key: attrVar, Val: c.Scope + "." + c.Key},
			{Key: attrToken, Val: c.Token()},
			{Key: "contenteditable", Val: "false"},
		},
	}
	span.AppendChild(textNode(c.Label()))
	return span
}

// newPadNode builds the padding element inserted after every chip. The pad
// is a marked span so ChipsToTokens can strip it exactly.
func newPadNode() *html.Node {
	span := &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{
			{Key: "class", Val: "chip-pad"},
			{Key: attrPad, Val: "1"},
		},
	}
	span.AppendChild(textNode(" "))
	return span
}

// ChipAt returns the chip represented by node, if it is a chip element.
func ChipAt(node *html.Node) (Chip, bool) {
	if !isChip(node) {
		return Chip{}, false
	}
	v := attr(node, attrVar)
	scope, key, ok := strings.Cut(v, ".")
	if !ok {
		return Chip{}, false
	}
	return Chip{Scope: scope, Key: key}, true
}

// Chips returns all chips under n in document order.
func Chips(n *html.Node) []Chip {
	var out []Chip
	walk(n, func(node *html.Node) bool {
		if c, ok := ChipAt(node); ok {
			out = append(out, c)
			return false
		}
		return true
	})
	return out
}

func isChip(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == "span" && attr(n, attrVar) != ""
}

func isPad(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == "span" && attr(n, attrPad) != ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// walk visits n and its descendants depth-first. The visitor returns false
// to skip a node's children. Children are snapshotted before visiting so
// visitors may rewrite the tree.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		walk(c, visit)
	}
}

// mergeAdjacentText joins neighboring text nodes so token replacement
// yields single byte-identical runs.
func mergeAdjacentText(n *html.Node) {
	walk(n, func(node *html.Node) bool {
		c := node.FirstChild
		for c != nil {
			next := c.NextSibling
			if c.Type == html.TextNode && next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				node.RemoveChild(next)
				continue // retry same node against the new sibling
			}
			c = next
		}
		return true
	})
}
