package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/draft"
	"github.com/jcadam/prospector/pkg/handoff"
	"github.com/jcadam/prospector/pkg/history"
	"github.com/jcadam/prospector/pkg/render"
	"github.com/jcadam/prospector/pkg/sender"
	"github.com/jcadam/prospector/pkg/surface"
)

func init() {
	rootCmd.AddCommand(composeCmd)
}

var composeCmd = &cobra.Command{
	Use:   "compose [recipient]",
	Short: "Compose an outreach email",
	Long: `Opens the compose session: pick a recipient (autocomplete against your
contacts), write or generate a draft, drop in variable chips like
{{contact.first_name}}, and hand the finished email to your mail client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompose(strings.Join(args, " "))
	},
}

type composeFocus int

const (
	focusRecipient composeFocus = iota
	focusSubject
	focusBody
)

// colorCycle and highlightCycle are the palettes the toolbar steps
// through. The empty first entry turns the style off.
var (
	colorCycle     = []string{"", "#c0392b", "#1a7f37", "#1f6feb"}
	highlightCycle = []string{"", "#fff3a3", "#d2f8d2"}
)

// chipPalette lists the variables offered by the chip bar, selected by
// their 1-based index.
var chipPalette = []surface.Chip{
	{Scope: "contact", Key: "first_name"},
	{Scope: "contact", Key: "company"},
	{Scope: "account", Key: "current_rate"},
	{Scope: "account", Key: "supplier"},
	{Scope: "account", Key: "contract_end"},
	{Scope: "sender", Key: "full_name"},
	{Scope: "sender", Key: "phone"},
}

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1)
	caretStyle    = lipgloss.NewStyle().Reverse(true)
	toolBtnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")).Padding(0, 1)
	toolOnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Padding(0, 1)
	suggestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bodyBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

// generateResultMsg carries a completed generation back into the event
// loop. session identifies the compose session that requested it;
// results for a stale session are discarded.
type generateResultMsg struct {
	session string
	raw     string
	err     error
}

type composeModel struct {
	sessionID string

	resolver  *crm.Resolver
	ledger    *history.Ledger
	formatter *draft.Formatter
	generator *draft.Generator
	handoff   *handoff.Handoff

	// Session defaults from the compose section of the config.
	mode         draft.Mode
	style        string
	subjectStyle string

	recipient   textinput.Model
	suggestions []*crm.Contact
	suggestIdx  int
	rc          *crm.RecipientContext

	subject textinput.Model
	body    *surface.Surface

	source     textarea.Model
	sourceMode bool

	preview     string
	previewMode bool

	spin       spinner.Model
	generating bool

	chipBar      bool
	colorIdx     int
	highlightIdx int
	focus        composeFocus

	width  int
	height int
	status string
	isErr  bool
}

func newComposeModel(resolver *crm.Resolver, ledger *history.Ledger, formatter *draft.Formatter, generator *draft.Generator, h *handoff.Handoff, cc config.ComposeConfig) *composeModel {
	recipient := textinput.New()
	recipient.Placeholder = "Name or email"
	recipient.Prompt = ""
	recipient.Focus()

	subject := textinput.New()
	subject.Placeholder = "Subject"
	subject.Prompt = ""

	source := textarea.New()
	source.Placeholder = "<p>HTML source</p>"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	body := surface.New()
	body.Focus()

	mode := draft.ModeStandard
	if cc.Mode == string(draft.ModeHTML) {
		mode = draft.ModeHTML
	}

	return &composeModel{
		sessionID:    uuid.New().String(),
		resolver:     resolver,
		ledger:       ledger,
		formatter:    formatter,
		generator:    generator,
		handoff:      h,
		mode:         mode,
		style:        cc.Style,
		subjectStyle: cc.SubjectStyle,
		recipient:    recipient,
		subject:      subject,
		body:         body,
		source:       source,
		spin:         sp,
		focus:        focusRecipient,
	}
}

func (m *composeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *composeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.source.SetWidth(msg.Width - 4)
		m.source.SetHeight(msg.Height - 10)
		return m, nil

	case spinner.TickMsg:
		if !m.generating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case generateResultMsg:
		if msg.session != m.sessionID {
			return m, nil
		}
		m.generating = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Generation failed: %v", msg.err), true)
			return m, nil
		}
		m.applyDraft(msg.raw)
		m.setStatus("Draft ready", false)
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *composeModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	switch {
	case zone.Get("tool-bold").InBounds(msg):
		m.body.ToggleBold()
	case zone.Get("tool-italic").InBounds(msg):
		m.body.ToggleItalic()
	case zone.Get("tool-underline").InBounds(msg):
		m.body.ToggleUnderline()
	case zone.Get("tool-color").InBounds(msg):
		m.cycleColor()
	case zone.Get("tool-highlight").InBounds(msg):
		m.cycleHighlight()
	case zone.Get("tool-chips").InBounds(msg):
		m.chipBar = !m.chipBar
	case zone.Get("tool-generate").InBounds(msg):
		return m, m.startGenerate()
	case zone.Get("tool-send").InBounds(msg):
		return m, m.send()
	}
	return m, nil
}

func (m *composeModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys first.
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		switch {
		case m.previewMode:
			m.previewMode = false
			return m, nil
		case m.sourceMode:
			return m, m.exitSourceMode()
		default:
			return m, tea.Quit
		}
	case "ctrl+g":
		return m, m.startGenerate()
	case "ctrl+s":
		return m, m.send()
	case "ctrl+p":
		m.togglePreview()
		return m, nil
	case "ctrl+e":
		if m.sourceMode {
			return m, m.exitSourceMode()
		}
		return m, m.enterSourceMode()
	case "ctrl+t":
		m.chipBar = !m.chipBar
		return m, nil
	case "ctrl+n":
		m.newDraft()
		return m, nil
	case "ctrl+y":
		m.copyHTML()
		return m, nil
	}

	if m.previewMode {
		return m, nil
	}
	if m.sourceMode {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}

	switch m.focus {
	case focusRecipient:
		return m.updateRecipientKey(msg)
	case focusSubject:
		return m.updateSubjectKey(msg)
	default:
		return m.updateBodyKey(msg)
	}
}

func (m *composeModel) updateRecipientKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.setFocus(focusSubject)
		return m, nil
	case "down":
		if m.suggestIdx < len(m.suggestions)-1 {
			m.suggestIdx++
		}
		return m, nil
	case "up":
		if m.suggestIdx > 0 {
			m.suggestIdx--
		}
		return m, nil
	case "enter":
		if len(m.suggestions) > 0 {
			m.pickRecipient(m.suggestions[m.suggestIdx])
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recipient, cmd = m.recipient.Update(msg)
	m.rc = nil
	m.suggestions = m.resolver.Search(m.recipient.Value())
	m.suggestIdx = 0
	return m, cmd
}

func (m *composeModel) updateSubjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "enter":
		m.setFocus(focusBody)
		return m, nil
	case "shift+tab":
		m.setFocus(focusRecipient)
		return m, nil
	}
	var cmd tea.Cmd
	m.subject, cmd = m.subject.Update(msg)
	return m, cmd
}

func (m *composeModel) updateBodyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.chipBar {
		if idx := chipIndexForKey(msg.String()); idx >= 0 && idx < len(chipPalette) {
			m.body.InsertChip(chipPalette[idx])
			m.chipBar = false
			return m, nil
		}
	}

	switch msg.String() {
	case "shift+tab":
		m.setFocus(focusSubject)
		return m, nil
	case "ctrl+b":
		m.body.ToggleBold()
		return m, nil
	case "ctrl+u":
		m.body.ToggleUnderline()
		return m, nil
	case "alt+i":
		m.body.ToggleItalic()
		return m, nil
	case "alt+c":
		m.cycleColor()
		return m, nil
	case "alt+h":
		m.cycleHighlight()
		return m, nil
	case "backspace":
		m.body.DeleteBackward()
		return m, nil
	case "enter":
		m.body.InsertText("\n")
		return m, nil
	case "left":
		m.moveCaret(-1)
		return m, nil
	case "right":
		m.moveCaret(1)
		return m, nil
	case "home":
		m.body.CaretTo(0)
		return m, nil
	case "end":
		m.body.CaretTo(m.body.Length())
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.body.InsertText(string(msg.Runes))
	case tea.KeySpace:
		m.body.InsertText(" ")
	}
	return m, nil
}

// chipIndexForKey maps "1".."9" to a palette index, -1 otherwise.
func chipIndexForKey(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1
	}
	return int(key[0] - '1')
}

func (m *composeModel) moveCaret(delta int) {
	pos := 0
	if sel, ok := m.body.Selection(); ok {
		pos = sel.Start
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if l := m.body.Length(); pos > l {
		pos = l
	}
	m.body.CaretTo(pos)
}

// cycleColor steps the text color through the palette and applies it as
// the typing intent (or to the selection). The empty entry clears it.
func (m *composeModel) cycleColor() {
	m.colorIdx = (m.colorIdx + 1) % len(colorCycle)
	m.body.ApplyColor(colorCycle[m.colorIdx])
}

func (m *composeModel) cycleHighlight() {
	m.highlightIdx = (m.highlightIdx + 1) % len(highlightCycle)
	m.body.ApplyHighlight(highlightCycle[m.highlightIdx])
}

func (m *composeModel) setFocus(f composeFocus) {
	m.focus = f
	m.recipient.Blur()
	m.subject.Blur()
	m.body.Blur()
	switch f {
	case focusRecipient:
		m.recipient.Focus()
	case focusSubject:
		m.subject.Focus()
	default:
		m.body.Focus()
		m.body.CaretTo(m.body.Length())
	}
}

func (m *composeModel) pickRecipient(c *crm.Contact) {
	m.rc = m.resolver.ContextFor(c)
	if m.ledger != nil {
		if hctx, err := m.ledger.Latest(crm.SlugFor(c.Name)); err == nil && hctx != nil {
			m.rc.Transcript = hctx.Transcript
			if m.rc.Notes == "" {
				m.rc.Notes = hctx.Notes
			}
		}
	}
	display := c.Name
	if c.Email != "" {
		display += " <" + c.Email + ">"
	}
	m.recipient.SetValue(display)
	m.suggestions = nil
	m.setFocus(focusSubject)
}

// newDraft clears the working draft and rotates the session ID so any
// in-flight generation result is dropped when it lands.
func (m *composeModel) newDraft() {
	m.sessionID = uuid.New().String()
	m.generating = false
	m.subject.SetValue("")
	m.body = surface.New()
	m.body.Focus()
	m.sourceMode = false
	m.previewMode = false
	m.setStatus("New draft", false)
}

func (m *composeModel) startGenerate() tea.Cmd {
	if m.generating {
		return nil
	}
	if m.rc == nil {
		m.setStatus("Pick a recipient first", true)
		return nil
	}

	m.generating = true
	m.setStatus("", false)

	prompt := strings.TrimSpace(m.body.Text())
	if prompt == "" {
		prompt = "Write a brief, personalized outreach email about potential energy cost savings."
	}

	req := &draft.GenerateRequest{
		Prompt:       prompt,
		Mode:         m.mode,
		Recipient:    m.rc,
		To:           m.rc.Email,
		Style:        m.style,
		SubjectStyle: m.subjectStyle,
		SubjectSeed:  m.formatter.SubjectSeed,
	}
	session := m.sessionID
	gen := m.generator

	return tea.Batch(m.spin.Tick, func() tea.Msg {
		raw, err := gen.Generate(context.Background(), req)
		return generateResultMsg{session: session, raw: raw, err: err}
	})
}

// applyDraft runs the formatter pipeline over a raw completion and
// replaces the subject and body with the result. The surface always
// edits bare fragments; in html mode the document wrapper is applied at
// export time, not here.
func (m *composeModel) applyDraft(raw string) {
	email := m.formatter.Format(raw, m.rc, draft.ModeStandard)
	if email.Subject != "" {
		m.subject.SetValue(email.Subject)
	}
	if s, err := surface.Parse(email.HTML); err == nil {
		m.body = s
		m.body.CaretTo(m.body.Length())
	} else {
		m.setStatus(fmt.Sprintf("Draft could not be loaded: %v", err), true)
		return
	}
	m.setFocus(focusBody)
}

func (m *composeModel) enterSourceMode() tea.Cmd {
	src, err := m.body.EnterSourceMode()
	if err != nil {
		m.setStatus(fmt.Sprintf("Source mode failed: %v", err), true)
		return nil
	}
	m.source.SetValue(src)
	m.sourceMode = true
	return m.source.Focus()
}

func (m *composeModel) exitSourceMode() tea.Cmd {
	m.body.SetSource(m.source.Value())
	if err := m.body.ExitSourceMode(); err != nil {
		m.setStatus(fmt.Sprintf("Invalid HTML: %v", err), true)
		return nil
	}
	m.sourceMode = false
	m.source.Blur()
	m.setFocus(focusBody)
	return nil
}

func (m *composeModel) togglePreview() {
	if m.previewMode {
		m.previewMode = false
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	markdown := "# " + m.resolvedSubject() + "\n\n" + m.resolvedBody()
	rendered, err := render.RenderMarkdown(markdown, width)
	if err != nil {
		m.setStatus(fmt.Sprintf("Preview failed: %v", err), true)
		return
	}
	m.preview = rendered
	m.previewMode = true
}

func (m *composeModel) resolvedSubject() string {
	s := m.formatter.ResolveTokens(m.subject.Value(), m.rc)
	if strings.TrimSpace(s) == "" {
		return "(no subject)"
	}
	return s
}

// resolvedBody returns the body as plain text with every chip resolved
// against the recipient and sender.
func (m *composeModel) resolvedBody() string {
	if m.sourceMode {
		return m.formatter.ResolveTokens(draft.StripHTML(m.source.Value()), m.rc)
	}
	src, err := m.body.EnterSourceMode()
	if err != nil {
		return m.formatter.ResolveTokens(m.body.Text(), m.rc)
	}
	if err := m.body.ExitSourceMode(); err != nil {
		return m.formatter.ResolveTokens(m.body.Text(), m.rc)
	}
	return m.formatter.ResolveTokens(draft.StripHTML(src), m.rc)
}

func (m *composeModel) send() tea.Cmd {
	if m.rc == nil || m.rc.Email == "" {
		m.setStatus("Pick a recipient with an email address first", true)
		return nil
	}
	if err := m.handoff.OpenMailto(m.rc.Email, m.resolvedSubject(), m.resolvedBody()); err != nil {
		m.setStatus(fmt.Sprintf("Mail handoff failed: %v", err), true)
		return nil
	}
	m.setStatus("Opened in your mail client", false)
	return nil
}

// copyHTML puts the body on the clipboard with every chip resolved,
// ready to paste into a mail client. In standard mode that is the bare
// fragment; in html mode the fragment is wrapped in the brand-styled
// standalone document.
func (m *composeModel) copyHTML() {
	src := m.source.Value()
	if !m.sourceMode {
		var err error
		if src, err = m.body.EnterSourceMode(); err != nil {
			m.setStatus(fmt.Sprintf("Export failed: %v", err), true)
			return
		}
		if err := m.body.ExitSourceMode(); err != nil {
			m.setStatus(fmt.Sprintf("Export failed: %v", err), true)
			return
		}
	}
	out := m.formatter.ResolveTokens(src, m.rc)
	if m.mode == draft.ModeHTML {
		out = m.formatter.RenderDocument(m.resolvedSubject(), out)
	}
	if err := handoff.CopyToClipboard(out); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	m.setStatus("HTML copied to clipboard", false)
}

func (m *composeModel) setStatus(s string, isErr bool) {
	m.status = s
	m.isErr = isErr
}

func (m *composeModel) View() string {
	if m.previewMode {
		return zone.Scan(m.preview + statusStyle.Render("\n esc back"))
	}

	var b strings.Builder

	b.WriteString(labelStyle.Render(" To      ") + m.recipient.View() + "\n")
	if m.focus == focusRecipient && len(m.suggestions) > 0 {
		for i, c := range m.suggestions {
			line := "   " + contactLine(c)
			if i == m.suggestIdx {
				b.WriteString(selectedStyle.Render(" ▸" + line[2:]))
			} else {
				b.WriteString(suggestStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(labelStyle.Render(" Subject ") + m.subject.View() + "\n\n")

	b.WriteString(" " + m.toolbarView() + "\n")

	if m.sourceMode {
		b.WriteString(m.source.View() + "\n")
	} else {
		b.WriteString(bodyBoxStyle.Width(max(m.width-4, 20)).Render(m.bodyView()) + "\n")
	}

	if m.chipBar {
		b.WriteString(" " + m.chipBarView() + "\n")
	}

	b.WriteString("\n" + m.statusView())
	return zone.Scan(b.String())
}

func (m *composeModel) toolbarView() string {
	state := m.body.State()
	btn := func(id, label string, on bool) string {
		style := toolBtnStyle
		if on {
			style = toolOnStyle
		}
		return zone.Mark(id, style.Render(label))
	}
	parts := []string{
		btn("tool-bold", "B", state.Bold),
		btn("tool-italic", "I", state.Italic),
		btn("tool-underline", "U", state.Underline),
		btn("tool-color", "A", m.colorIdx != 0),
		btn("tool-highlight", "H", m.highlightIdx != 0),
		btn("tool-chips", "{{…}}", m.chipBar),
		btn("tool-generate", "✦ Generate", false),
		btn("tool-send", "✉ Send", false),
	}
	return strings.Join(parts, " ")
}

// bodyView draws the surface units with the caret as a reversed cell.
func (m *composeModel) bodyView() string {
	units := m.body.Units()
	caret := -1
	if m.focus == focusBody && !m.sourceMode {
		if sel, ok := m.body.Selection(); ok {
			caret = sel.Start
		}
	}

	var b strings.Builder
	for i, u := range units {
		text := u.Text
		switch {
		case u.Chip:
			text = chipStyle.Render(text)
		case i == caret:
			text = caretStyle.Render(text)
		}
		if i == caret && u.Chip {
			text = caretStyle.Render("▏") + text
		}
		b.WriteString(text)
	}
	if caret >= len(units) {
		b.WriteString(caretStyle.Render(" "))
	}
	if b.Len() == 0 {
		return suggestStyle.Render("Write your email, or ctrl+g to generate a draft")
	}
	return b.String()
}

func (m *composeModel) chipBarView() string {
	parts := make([]string, 0, len(chipPalette))
	for i, c := range chipPalette {
		parts = append(parts, fmt.Sprintf("%d %s", i+1, chipStyle.Render(c.Label())))
	}
	return strings.Join(parts, "  ")
}

func (m *composeModel) statusView() string {
	if m.generating {
		return " " + m.spin.View() + " Generating draft..."
	}
	if m.status != "" {
		if m.isErr {
			return " " + errorStyle.Render(m.status)
		}
		return " " + statusStyle.Render(m.status)
	}
	hints := " tab fields │ ctrl+g generate │ ctrl+t chips │ ctrl+e source │ ctrl+p preview │ ctrl+y copy │ ctrl+s send │ esc quit"
	return statusStyle.Render(hints)
}

func runCompose(initialRecipient string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("compose needs an interactive terminal")
	}

	dir, err := config.ProspectorDir()
	if err != nil {
		return err
	}
	cfg, err := loadConfigQuiet(dir)
	if err != nil {
		return err
	}

	resolver, err := openResolver(dir)
	if err != nil {
		return err
	}
	ledger, err := history.NewLedger(filepath.Join(dir, "history"))
	if err != nil {
		return err
	}

	profile, err := sender.Load(dir)
	if err != nil {
		return err
	}
	formatter := &draft.Formatter{
		Sender:      profile.Tokens(),
		SubjectSeed: int(time.Now().UnixNano() & 0x7fffffff),
	}
	if brand, ok := profile.Resolve("brand"); ok {
		formatter.Brand = brand
	}
	formatter.Logo = cfg.Compose.Logo

	generator := draft.NewGenerator(cfg.Generation.Endpoint, cfg.Generation.Fallback, cfg.Generation.APIKey, cfg.Generation.Timeout)
	if debugEnabled {
		timeout := time.Duration(cfg.Generation.Timeout) * time.Second
		if timeout == 0 {
			timeout = 120 * time.Second
		}
		generator.SetHTTPClient(httpClient(timeout))
	}

	m := newComposeModel(resolver, ledger, formatter, generator, handoff.New(cfg.Apps), cfg.Compose)

	if initialRecipient != "" {
		if rc := resolver.ResolveByEmail(initialRecipient); rc != nil {
			if c, err := resolver.Contacts.Get(crm.SlugFor(rc.Name)); err == nil {
				m.pickRecipient(c)
			}
		} else if hits := resolver.Search(initialRecipient); len(hits) == 1 {
			m.pickRecipient(hits[0])
		} else {
			m.recipient.SetValue(initialRecipient)
			m.suggestions = hits
		}
	}

	zone.NewGlobal()
	defer zone.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
