package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jcadam/prospector/pkg/handoff"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("205")).
	PaddingLeft(1)

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	PaddingLeft(1)

// handoffResultMsg carries the result of an async handoff execution.
type handoffResultMsg struct {
	status string
	err    error
}

// headingPos tracks a heading's location in the rendered content.
type headingPos struct {
	text      string
	level     int  // heading level (1 = H1)
	line      int  // line number in the fully expanded rendered content
	endLine   int  // first line after this section (next heading at same or higher level)
	viewLine  int  // line number in the current (possibly folded) content
	collapsed bool
}

// Viewer is a Bubble Tea model for scrolling through a rendered account
// report or email preview, with section folding and app handoff.
type Viewer struct {
	title   string
	raw     string // original markdown
	full    string // fully expanded rendered content
	content string // current rendered content (sections may be folded)

	viewport viewport.Model
	ready    bool

	// Section navigation and folding
	headings    []headingPos
	currentHead int

	busy bool // true while an async handoff is in flight

	// Optional deps for handoff execution
	handoff *handoff.Handoff

	// Handoff targets
	htmlPath    string // exported HTML report, opened with 'o'
	mailTo      string // draft recipient, handed to the mail client with 'm'
	mailSubject string
	mailBody    string

	// Chart rendering
	reportDir   string    // report directory for locating chart PNGs
	imageConfig string    // rendering.images config value
	imageTier   ImageTier // detected terminal image capability
	hasCharts   bool      // whether content contains charts

	statusMsg string
	statusExp time.Time
}

// ViewerOption configures optional Viewer behavior.
type ViewerOption func(*Viewer)

// WithHandoff provides a Handoff for opening files, URLs, and mail drafts.
func WithHandoff(h *handoff.Handoff) ViewerOption {
	return func(v *Viewer) { v.handoff = h }
}

// WithReportDir provides the report directory for locating chart PNGs.
func WithReportDir(dir string) ViewerOption {
	return func(v *Viewer) { v.reportDir = dir }
}

// WithImageConfig provides the rendering.images config value.
func WithImageConfig(images string) ViewerOption {
	return func(v *Viewer) { v.imageConfig = images }
}

// WithHTMLPath provides the path of an exported HTML report.
func WithHTMLPath(path string) ViewerOption {
	return func(v *Viewer) { v.htmlPath = path }
}

// WithMailDraft provides a draft that can be handed to the mail client.
func WithMailDraft(to, subject, body string) ViewerOption {
	return func(v *Viewer) {
		v.mailTo = to
		v.mailSubject = subject
		v.mailBody = body
	}
}

// NewViewer creates a viewer with pre-rendered content.
func NewViewer(title string, content string) Viewer {
	return Viewer{
		title:   title,
		full:    content,
		content: content,
	}
}

// newViewerWithRaw creates a viewer with both raw markdown and rendered content.
func newViewerWithRaw(title, raw, rendered string) Viewer {
	v := Viewer{
		title:   title,
		raw:     raw,
		full:    rendered,
		content: rendered,
	}
	v.headings = extractHeadings(raw, rendered)
	return v
}

// Init initializes the viewer.
func (v Viewer) Init() tea.Cmd {
	return nil
}

// Update handles messages for the viewer.
func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2

		if !v.ready {
			v.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			v.viewport.YPosition = headerHeight
			v.viewport.SetContent(v.content)
			v.ready = true
		} else {
			v.viewport.Width = msg.Width
			v.viewport.Height = msg.Height - headerHeight - footerHeight
		}

	case handoffResultMsg:
		v.busy = false
		if msg.err != nil {
			v.setStatus("Error: " + msg.err.Error())
		} else {
			v.setStatus(msg.status)
		}
		return v, nil

	case tea.KeyMsg:
		if v.busy {
			// Only allow quit while busy
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return v, tea.Quit
			}
			return v, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "n":
			v.nextHeading()
			return v, nil
		case "N":
			v.prevHeading()
			return v, nil
		case "tab":
			v.toggleSection(v.headingAtOffset())
			return v, nil
		case "c":
			v.collapseAll()
			return v, nil
		case "e":
			v.expandAll()
			return v, nil
		case "o":
			return v.openHTML()
		case "m":
			return v.openMailDraft()
		case "y":
			return v, copyCmd(v.raw, "Copied to clipboard")
		case "i":
			return v.openFirstChart()
		}
	}

	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the viewer.
func (v Viewer) View() string {
	if !v.ready {
		return "Loading..."
	}

	header := headerStyle.Render(v.title)

	status := ""
	if v.busy {
		status = " • Working..."
	} else if v.statusMsg != "" && time.Now().Before(v.statusExp) {
		status = " • " + v.statusMsg
	}

	hints := " %3.f%%"
	if len(v.headings) > 0 {
		hints += " │ n/N sections │ tab fold"
	}
	if v.htmlPath != "" {
		hints += " │ o html"
	}
	if v.mailTo != "" {
		hints += " │ m mail"
	}
	hints += " │ y copy"
	if v.hasCharts && v.handoff != nil {
		hints += " │ i open chart"
	}
	hints += " │ q quit"

	footer := footerStyle.Render(fmt.Sprintf(hints+status, v.viewport.ScrollPercent()*100))

	return strings.Join([]string{header, "", v.viewport.View(), "", footer}, "\n")
}

// RunViewer launches the interactive viewer for a report or preview.
func RunViewer(title string, markdown string, opts ...ViewerOption) error {
	rendered, err := RenderMarkdown(markdown, 0)
	if err != nil {
		return err
	}

	v := newViewerWithRaw(title, markdown, rendered)
	for _, opt := range opts {
		opt(&v)
	}

	// Process charts after options are applied (need reportDir and imageConfig).
	// Charts always render as text tables in the viewport: Kitty/iTerm
	// floating images don't scroll with a line-based viewport, so the full
	// PNG opens externally with 'i' instead.
	v.imageTier = DetectImageTier(v.imageConfig)
	v.full = processCharts(v.raw, v.full, v.reportDir, TierNone)
	v.full = linkifyURLs(v.full, v.imageTier)
	v.content = v.full
	v.headings = extractHeadings(v.raw, v.full)
	v.hasCharts = hasChartDirectives(v.raw)

	p := tea.NewProgram(v, tea.WithAltScreen())

	_, err = p.Run()
	return err
}

// --- Section navigation and folding ---

// headingPattern matches markdown headings in raw markdown.
var headingPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// extractHeadings scans raw markdown for headings and maps them to line
// positions in the rendered content.
func extractHeadings(raw, rendered string) []headingPos {
	matches := headingPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	renderedLines := strings.Split(rendered, "\n")
	var headings []headingPos
	searchFrom := 0

	for _, m := range matches {
		level := len(m[1])
		text := strings.TrimSpace(m[2])
		// Find this heading text in rendered output (Glamour preserves heading text)
		for i := searchFrom; i < len(renderedLines); i++ {
			if strings.Contains(renderedLines[i], text) {
				headings = append(headings, headingPos{text: text, level: level, line: i, viewLine: i})
				searchFrom = i + 1
				break
			}
		}
	}

	computeEndLines(headings, len(renderedLines))
	return headings
}

// computeEndLines sets each heading's endLine to the line of the next
// heading at the same or higher level, or the end of the content.
func computeEndLines(headings []headingPos, totalLines int) {
	for i := range headings {
		headings[i].endLine = totalLines
		for j := i + 1; j < len(headings); j++ {
			if headings[j].level <= headings[i].level {
				headings[i].endLine = headings[j].line
				break
			}
		}
	}
}

// rebuildContent regenerates the visible content from the fully expanded
// rendering, skipping the body of collapsed sections and prepending fold
// indicators to section headings.
func (v *Viewer) rebuildContent() {
	lines := strings.Split(v.full, "\n")
	headingAt := make(map[int]int, len(v.headings))
	for idx := range v.headings {
		headingAt[v.headings[idx].line] = idx
	}

	var out []string
	skipUntil := 0
	for i, line := range lines {
		if idx, ok := headingAt[i]; ok && i >= skipUntil {
			h := &v.headings[idx]
			h.viewLine = len(out)
			if h.level > 1 {
				line = prependIndicator(line, h.collapsed)
			}
			out = append(out, line)
			if h.collapsed && h.endLine > skipUntil {
				skipUntil = h.endLine
			}
			continue
		}
		if i < skipUntil {
			// Hidden headings resolve to the collapsed parent's position.
			if idx, ok := headingAt[i]; ok {
				v.headings[idx].viewLine = max(len(out)-1, 0)
			}
			continue
		}
		out = append(out, line)
	}

	v.content = strings.Join(out, "\n")
	if v.ready {
		v.viewport.SetContent(v.content)
	}
}

// toggleSection collapses or expands the section at the given heading index.
// H1 headings are never collapsible.
func (v *Viewer) toggleSection(idx int) {
	if idx < 0 || idx >= len(v.headings) {
		return
	}
	if v.headings[idx].level <= 1 {
		return
	}
	v.headings[idx].collapsed = !v.headings[idx].collapsed
	v.rebuildContent()
	if v.ready {
		v.viewport.SetYOffset(v.headings[idx].viewLine)
	}
}

// collapseAll folds every section below H1.
func (v *Viewer) collapseAll() {
	for i := range v.headings {
		if v.headings[i].level > 1 {
			v.headings[i].collapsed = true
		}
	}
	v.rebuildContent()
}

// expandAll unfolds every section.
func (v *Viewer) expandAll() {
	for i := range v.headings {
		v.headings[i].collapsed = false
	}
	v.rebuildContent()
}

// headingAtOffset returns the index of the heading at or above the current
// viewport position, or -1 when there are no headings.
func (v *Viewer) headingAtOffset() int {
	idx := -1
	for i, h := range v.headings {
		if h.viewLine <= v.viewport.YOffset {
			idx = i
		}
	}
	return idx
}

// ansiPrefixPattern matches SGR escape sequences at the start of a line.
var ansiPrefixPattern = regexp.MustCompile(`^(?:\x1b\[[0-9;]*m)+`)

// prependIndicator prefixes a rendered heading line with a fold indicator,
// preserving any leading ANSI styling.
func prependIndicator(line string, collapsed bool) string {
	indicator := "▼ "
	if collapsed {
		indicator = "▸ "
	}
	return insertAfterANSIPrefix(line, indicator)
}

// insertAfterANSIPrefix inserts text after any leading ANSI escape sequences
// so the insertion inherits the line's styling.
func insertAfterANSIPrefix(line, insert string) string {
	prefix := ansiPrefixPattern.FindString(line)
	return prefix + insert + line[len(prefix):]
}

func (v *Viewer) nextHeading() {
	if len(v.headings) == 0 {
		return
	}
	currentLine := v.viewport.YOffset
	for i, h := range v.headings {
		if h.viewLine > currentLine {
			v.currentHead = i
			v.viewport.SetYOffset(h.viewLine)
			return
		}
	}
	v.currentHead = 0
	v.viewport.SetYOffset(v.headings[0].viewLine)
}

func (v *Viewer) prevHeading() {
	if len(v.headings) == 0 {
		return
	}
	currentLine := v.viewport.YOffset
	for i := len(v.headings) - 1; i >= 0; i-- {
		if v.headings[i].viewLine < currentLine {
			v.currentHead = i
			v.viewport.SetYOffset(v.headings[i].viewLine)
			return
		}
	}
	v.currentHead = len(v.headings) - 1
	v.viewport.SetYOffset(v.headings[v.currentHead].viewLine)
}

// --- Async handoff execution ---

// openHTML opens the exported HTML report in the configured browser.
func (v Viewer) openHTML() (tea.Model, tea.Cmd) {
	if v.handoff == nil || v.htmlPath == "" {
		v.setStatus("No HTML export available")
		return v, nil
	}
	opener := v.handoff
	path := v.htmlPath
	v.busy = true
	return v, func() tea.Msg {
		if err := opener.OpenURL("file://" + path); err != nil {
			return handoffResultMsg{err: err}
		}
		return handoffResultMsg{status: "Opened: " + path}
	}
}

// openMailDraft hands the draft to the configured mail client.
func (v Viewer) openMailDraft() (tea.Model, tea.Cmd) {
	if v.handoff == nil || v.mailTo == "" {
		v.setStatus("No mail draft available")
		return v, nil
	}
	opener := v.handoff
	to, subject, body := v.mailTo, v.mailSubject, v.mailBody
	v.busy = true
	return v, func() tea.Msg {
		if err := opener.OpenMailto(to, subject, body); err != nil {
			return handoffResultMsg{err: err}
		}
		return handoffResultMsg{status: "Handed off to mail client"}
	}
}

// copyCmd returns a tea.Cmd that copies text to the clipboard and reports
// the result.
func copyCmd(text, successMsg string) tea.Cmd {
	return func() tea.Msg {
		if err := handoff.CopyToClipboard(text); err != nil {
			return handoffResultMsg{err: fmt.Errorf("clipboard: %w", err)}
		}
		return handoffResultMsg{status: successMsg}
	}
}

func (v *Viewer) setStatus(msg string) {
	v.statusMsg = msg
	v.statusExp = time.Now().Add(5 * time.Second)
}
