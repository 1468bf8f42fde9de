// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/furitype/internal/content"
	"github.com/verte-zerg/furitype/internal/model"
	"github.com/verte-zerg/furitype/internal/session"
	"github.com/verte-zerg/furitype/internal/stats"
	"github.com/verte-zerg/furitype/internal/translit"
)

const tickInterval = 200 * time.Millisecond

// Hinter suggests a spelling for the character under the cursor.
type Hinter interface {
	Hint(target rune, buffer []translit.Key) string
}

// Library persists menu removals.
type Library interface {
	RemoveContent(ctx context.Context, title string) error
}

// Options wires the model to its collaborators. Every field is optional.
type Options struct {
	Keymap      translit.Keymap
	Hinter      Hinter
	Library     Library
	Watch       <-chan content.Loaded
	WatchErrors <-chan error
	ContentDir  string
	Logger      *slog.Logger
}

// Model implements the Bubble Tea front end over a session machine.
type Model struct {
	machine *session.Machine
	opts    Options
	keys    keyMap
	help    help.Model

	width  int
	height int

	// Contents that arrived while away from the menu.
	queued []model.Content
	notice string

	// tickGen identifies the live redraw tick chain; older ticks are dropped.
	tickGen int
}

type contentMsg struct {
	loaded content.Loaded
}

type watchErrMsg struct {
	err error
}

type tickMsg struct {
	gen int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	noticeStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#8C8C8C"))
)

// NewModel constructs the TUI model around machine.
func NewModel(machine *session.Machine, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		machine: machine,
		opts:    opts,
		keys:    newKeyMap(),
		help:    help.New(),
	}
	m.keys.state = machine.State()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForContent(m.opts.Watch), waitForError(m.opts.WatchErrors))
}

func waitForContent(ch <-chan content.Loaded) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		loaded, ok := <-ch
		if !ok {
			return nil
		}
		return contentMsg{loaded: loaded}
	}
}

func waitForError(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return watchErrMsg{err: err}
	}
}

func tick(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case contentMsg:
		m.receive(msg.loaded.Content)
		return m, waitForContent(m.opts.Watch)
	case watchErrMsg:
		m.notice = msg.err.Error()
		return m, waitForError(m.opts.WatchErrors)
	case tickMsg:
		if msg.gen == m.tickGen && m.machine.State() == session.StateTyping {
			return m, tick(m.tickGen)
		}
		return m, nil
	case tea.KeyMsg:
		before := m.machine.State()
		cmd := m.handleKey(msg)
		after := m.machine.State()
		m.keys.state = after
		if after == session.StateMenu && before != session.StateMenu {
			m.flushQueued()
		}
		if after == session.StateTyping && before != session.StateTyping {
			m.tickGen++
			cmd = tea.Batch(cmd, tick(m.tickGen))
		}
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	switch m.machine.State() {
	case session.StateMenu:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.machine.Dispatch(session.SignalUp)
		case key.Matches(msg, m.keys.Down):
			m.machine.Dispatch(session.SignalDown)
		case key.Matches(msg, m.keys.Select):
			m.notice = ""
			m.machine.Dispatch(session.SignalSelect)
		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case session.StatePreStart:
		switch {
		case key.Matches(msg, m.keys.Start):
			m.machine.Dispatch(session.SignalStart)
		case key.Matches(msg, m.keys.Cancel):
			m.machine.Dispatch(session.SignalCancel)
		}
	case session.StateTyping:
		switch msg.Type {
		case tea.KeyEsc:
			m.machine.Dispatch(session.SignalEscape)
		case tea.KeySpace:
			m.submitRunes([]rune{' '})
		case tea.KeyRunes:
			m.submitRunes(msg.Runes)
		}
	case session.StatePaused:
		switch {
		case key.Matches(msg, m.keys.Resume):
			m.machine.Dispatch(session.SignalResume)
		case key.Matches(msg, m.keys.End):
			m.machine.Dispatch(session.SignalEscape)
		}
	case session.StateResult:
		switch {
		case key.Matches(msg, m.keys.Retry):
			m.machine.Dispatch(session.SignalRetry)
		case key.Matches(msg, m.keys.Back):
			m.machine.Dispatch(session.SignalBack)
		case key.Matches(msg, m.keys.Quit):
			return tea.Quit
		}
	}
	return nil
}

func (m *Model) submitRunes(runes []rune) {
	for _, r := range runes {
		k := m.opts.Keymap.Map(translit.Key(string(r)))
		step, ok := m.machine.SubmitKeystroke(k)
		if !ok {
			return
		}
		m.opts.Logger.Debug("keystroke", "key", string(k), "result", step.Result.Kind.String(), "pos", step.Pos.String())
	}
}

// receive adds watched content to the menu, replacing an entry with the
// same title. Away from the menu it is queued.
func (m *Model) receive(c model.Content) {
	if m.machine.State() != session.StateMenu {
		m.queued = append(m.queued, c)
		return
	}
	verb := "added"
	for i, existing := range m.machine.Contents() {
		if existing.Title == c.Title {
			m.machine.RemoveContent(i)
			verb = "reloaded"
			break
		}
	}
	if m.machine.SubmitContent(c) {
		m.notice = fmt.Sprintf("%s %q", verb, c.Title)
	}
}

func (m *Model) flushQueued() {
	queued := m.queued
	m.queued = nil
	for _, c := range queued {
		m.receive(c)
	}
}

func (m *Model) deleteSelected() {
	i := m.machine.Selected()
	contents := m.machine.Contents()
	if i >= len(contents) {
		return
	}
	title := contents[i].Title
	if m.opts.Library != nil {
		if err := m.opts.Library.RemoveContent(context.Background(), title); err != nil {
			m.opts.Logger.Warn("failed to remove content from library", "title", title, "error", err)
		}
	}
	if m.machine.RemoveContent(i) {
		m.notice = fmt.Sprintf("removed %q", title)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.machine.Snapshot()
	var body string
	switch snap.State {
	case session.StatePreStart:
		body = m.viewPreStart(snap)
	case session.StateTyping:
		body = m.viewTyping(snap)
	case session.StatePaused:
		body = m.viewPaused(snap)
	case session.StateResult:
		body = m.viewResult(snap)
	default:
		body = m.viewMenu(snap)
	}
	return m.frame(body, m.help.View(m.keys))
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) frame(body, footer string) string {
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return body
		}
		return body + "\n\n" + footer
	}
	body = lipgloss.NewStyle().Width(m.contentWidth()).Render(body)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	main := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return main + "\n" + footerLine
}

func (m *Model) previewLines() int {
	if m.height == 0 {
		return 8
	}
	return max(2, m.height/3)
}

func (m *Model) viewMenu(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("furitype"))
	b.WriteString("\n\n")
	if len(snap.Titles) == 0 {
		b.WriteString(pendingStyle.Render("No contents yet. Run `furitype add <file>`"))
		if m.opts.ContentDir != "" {
			b.WriteString(pendingStyle.Render(" or drop files into " + m.opts.ContentDir))
		}
		b.WriteString("\n")
	}
	for i, title := range snap.Titles {
		if i == snap.Selected {
			b.WriteString(currentWordStyle.Render("> " + title))
		} else {
			b.WriteString(pendingStyle.Render("  " + title))
		}
		b.WriteString("\n")
	}
	if contents := m.machine.Contents(); snap.Selected < len(contents) {
		b.WriteString("\n")
		b.WriteString(renderContent(contents[snap.Selected], view{}, m.contentWidth(), m.previewLines()))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	return b.String()
}

func (m *Model) viewPreStart(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(snap.Content.Title))
	b.WriteString("\n\n")
	b.WriteString(renderContent(*snap.Content, view{}, m.contentWidth(), m.previewLines()))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d characters. Press enter to start.", snap.Content.Len())))
	return b.String()
}

func (m *Model) viewTyping(snap session.Snapshot) string {
	maxLines := 0
	if m.height > 0 {
		maxLines = max(2, m.height-6)
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(snap.Content.Title))
	b.WriteString("\n\n")
	b.WriteString(renderContent(*snap.Content, view{marks: snap.Marks, cursor: snap.Cursor}, m.contentWidth(), maxLines))
	b.WriteString("\n\n")
	b.WriteString(m.renderInput(snap))
	b.WriteString("\n")
	b.WriteString(renderFooter(snap))
	return b.String()
}

func (m *Model) viewPaused(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Paused"))
	b.WriteString("\n\n")
	b.WriteString(snap.Content.Title)
	b.WriteString("\n")
	b.WriteString(renderFooter(snap))
	return b.String()
}

func (m *Model) viewResult(snap session.Snapshot) string {
	var b strings.Builder
	if snap.Completed {
		b.WriteString(titleStyle.Render("Completed"))
	} else {
		b.WriteString(titleStyle.Render("Ended early"))
	}
	b.WriteString("\n\n")
	if err := stats.RenderResult(&b, snap.Content.Title, *snap.Metrics, snap.Chars); err != nil {
		m.opts.Logger.Warn("failed to render result", "error", err)
	}
	return b.String()
}

// renderInput shows the pending keys, the rest of a suggested spelling, and
// the last rejected key.
func (m *Model) renderInput(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(footerStyle.Render("› "))
	b.WriteString(correctStyle.Render(snap.Pending))
	if m.opts.Hinter != nil && snap.Cursor != nil {
		target := snap.Content.At(*snap.Cursor)
		hint := m.opts.Hinter.Hint(target, translit.SplitKeys(snap.Pending))
		if rest, ok := strings.CutPrefix(hint, snap.Pending); ok {
			b.WriteString(pendingStyle.Render(rest))
		}
	}
	if snap.LastRejected != "" {
		b.WriteString("  ")
		b.WriteString(incorrectStyle.Render("✗ " + snap.LastRejected))
	}
	return b.String()
}

func renderFooter(snap session.Snapshot) string {
	if snap.Content == nil || snap.Metrics == nil {
		return ""
	}
	met := *snap.Metrics
	progress := 0
	if total := snap.Content.Len(); total > 0 {
		progress = int(float64(met.TypeCount) / float64(total) * 100)
	}
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("Accuracy %.1f%%", met.Accuracy*100),
		fmt.Sprintf("%.1f CPM", met.CPM()),
		fmt.Sprintf("Misses %d", met.MissCount),
		stats.FormatDuration(met.TotalTime),
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
