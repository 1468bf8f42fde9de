// Package session drives the practice screens: menu, pre-start, typing,
// pause and result.
package session

import (
	"log/slog"

	"github.com/verte-zerg/furitype/internal/engine"
	"github.com/verte-zerg/furitype/internal/model"
	"github.com/verte-zerg/furitype/internal/stats"
	"github.com/verte-zerg/furitype/internal/translit"
)

// State identifies the active screen.
type State int

const (
	StateMenu State = iota
	StatePreStart
	StateTyping
	StatePaused
	StateResult
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePreStart:
		return "prestart"
	case StateTyping:
		return "typing"
	case StatePaused:
		return "paused"
	case StateResult:
		return "result"
	default:
		return "menu"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Signal is a control input that may change the active screen.
type Signal int

const (
	SignalUp Signal = iota
	SignalDown
	SignalSelect
	SignalStart
	SignalCancel
	SignalEscape
	SignalResume
	SignalRetry
	SignalBack
)

// String implements fmt.Stringer.
func (s Signal) String() string {
	switch s {
	case SignalUp:
		return "up"
	case SignalDown:
		return "down"
	case SignalSelect:
		return "select"
	case SignalStart:
		return "start"
	case SignalCancel:
		return "cancel"
	case SignalEscape:
		return "escape"
	case SignalResume:
		return "resume"
	case SignalRetry:
		return "retry"
	case SignalBack:
		return "back"
	default:
		return "unknown"
	}
}

// Session is one attempt at a content, alive only while typing or paused.
type Session struct {
	engine *engine.Engine
	watch  *stats.Stopwatch
}

// Engine exposes the match engine for read-only queries.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Metrics computes metrics from the current counters and elapsed time.
func (s *Session) Metrics() stats.Metrics {
	e := s.engine
	return stats.Compute(e.TypeCount(), e.CorrectCount(), e.MissCount(), s.watch.Elapsed())
}

// Result is what survives a finished or abandoned attempt.
type Result struct {
	Content   model.Content
	Metrics   stats.Metrics
	Chars     []engine.CharStat
	Completed bool
}

// Machine owns the active screen and, while typing or paused, the session.
// It is a single-writer reducer and is not safe for concurrent use.
type Machine struct {
	state    State
	contents []model.Content
	selected int

	content model.Content
	session *Session
	result  *Result

	resolver translit.Resolver
	clock    stats.Clock
	logger   *slog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock sets the time source used for typing time.
func WithClock(clock stats.Clock) Option {
	return func(m *Machine) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithContents seeds the menu with contents.
func WithContents(contents ...model.Content) Option {
	return func(m *Machine) {
		m.contents = append(m.contents, contents...)
	}
}

// New returns a machine in the menu state.
func New(resolver translit.Resolver, opts ...Option) *Machine {
	m := &Machine{
		state:    StateMenu,
		resolver: resolver,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the active screen.
func (m *Machine) State() State {
	return m.state
}

// Session returns the active session, or nil outside typing and pause.
func (m *Machine) Session() *Session {
	return m.session
}

// Result returns the last result, or nil outside the result screen.
func (m *Machine) Result() *Result {
	return m.result
}

// Contents returns the available contents.
func (m *Machine) Contents() []model.Content {
	return append([]model.Content(nil), m.contents...)
}

// Selected returns the menu selection index.
func (m *Machine) Selected() int {
	return m.selected
}

// SubmitContent appends content to the menu. It only has an effect in the
// menu and reports whether the content was added. Content with nothing to
// type is refused.
func (m *Machine) SubmitContent(c model.Content) bool {
	if m.state != StateMenu {
		return false
	}
	if _, ok := c.First(); !ok {
		return false
	}
	m.contents = append(m.contents, c)
	m.logger.Debug("content added", "title", c.Title, "count", len(m.contents))
	return true
}

// RemoveContent drops the content at index i from the menu. It only has an
// effect in the menu.
func (m *Machine) RemoveContent(i int) bool {
	if m.state != StateMenu || i < 0 || i >= len(m.contents) {
		return false
	}
	title := m.contents[i].Title
	m.contents = append(m.contents[:i], m.contents[i+1:]...)
	if m.selected >= len(m.contents) && m.selected > 0 {
		m.selected = len(m.contents) - 1
	}
	m.logger.Debug("content removed", "title", title, "count", len(m.contents))
	return true
}

// SubmitKeystroke forwards a keystroke to the match engine. Outside typing
// it does nothing and reports false.
func (m *Machine) SubmitKeystroke(key translit.Key) (engine.Step, bool) {
	if m.state != StateTyping {
		return engine.Step{}, false
	}
	step := m.session.engine.Submit(key)
	if step.Signal == engine.ContentComplete {
		m.session.watch.Pause()
		m.finish(true)
	}
	return step, true
}

// Dispatch applies a control signal and reports whether it was handled.
func (m *Machine) Dispatch(sig Signal) bool {
	from := m.state
	handled := m.dispatch(sig)
	if handled {
		m.logger.Debug("dispatch", "signal", sig.String(), "from", from.String(), "to", m.state.String())
	}
	return handled
}

func (m *Machine) dispatch(sig Signal) bool {
	switch m.state {
	case StateMenu:
		switch sig {
		case SignalUp:
			if m.selected > 0 {
				m.selected--
			}
			return true
		case SignalDown:
			if m.selected < len(m.contents)-1 {
				m.selected++
			}
			return true
		case SignalSelect:
			if m.selected >= len(m.contents) {
				return false
			}
			m.content = m.contents[m.selected]
			m.state = StatePreStart
			return true
		}
	case StatePreStart:
		switch sig {
		case SignalStart:
			m.start()
			return true
		case SignalCancel:
			m.toMenu()
			return true
		}
	case StateTyping:
		if sig == SignalEscape {
			m.session.watch.Pause()
			m.state = StatePaused
			return true
		}
	case StatePaused:
		switch sig {
		case SignalResume:
			m.session.watch.Resume()
			m.state = StateTyping
			return true
		case SignalEscape:
			m.finish(false)
			return true
		}
	case StateResult:
		switch sig {
		case SignalRetry:
			m.content = m.result.Content
			m.result = nil
			m.state = StatePreStart
			return true
		case SignalBack:
			m.toMenu()
			return true
		}
	}
	return false
}

func (m *Machine) start() {
	watch := stats.NewStopwatch(m.clock)
	m.session = &Session{
		engine: engine.New(m.content, m.resolver),
		watch:  watch,
	}
	watch.Start()
	m.state = StateTyping
}

func (m *Machine) finish(completed bool) {
	s := m.session
	m.result = &Result{
		Content:   m.content,
		Metrics:   s.Metrics(),
		Chars:     s.engine.CharStats(),
		Completed: completed,
	}
	m.session = nil
	m.state = StateResult
	m.logger.Info("attempt finished",
		"title", m.content.Title,
		"completed", completed,
		"typed", m.result.Metrics.TypeCount,
		"misses", m.result.Metrics.MissCount,
		"elapsed", m.result.Metrics.TotalTime,
	)
}

func (m *Machine) toMenu() {
	m.session = nil
	m.result = nil
	m.content = model.Content{}
	m.state = StateMenu
}
