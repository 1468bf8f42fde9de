package session

import (
	"github.com/verte-zerg/furitype/internal/engine"
	"github.com/verte-zerg/furitype/internal/model"
	"github.com/verte-zerg/furitype/internal/stats"
	"github.com/verte-zerg/furitype/internal/translit"
)

// Snapshot is a read-only view of the machine for renderers. State comes
// first and decides which of the other fields are set.
type Snapshot struct {
	State State `json:"state"`

	// Menu.
	Titles   []string `json:"titles,omitempty"`
	Selected int      `json:"selected"`

	// PreStart, Typing, Paused, Result.
	Content *model.Content `json:"content,omitempty"`
	Metrics *stats.Metrics `json:"metrics,omitempty"`

	// Typing and Paused.
	Cursor       *model.Pos        `json:"cursor,omitempty"`
	Marks        [][][]engine.Mark `json:"marks,omitempty"`
	Pending      string            `json:"pending,omitempty"`
	LastRejected string            `json:"last_rejected,omitempty"`

	// Result.
	Chars     []engine.CharStat `json:"chars,omitempty"`
	Completed bool              `json:"completed,omitempty"`
}

// Snapshot returns the current view. It never changes the machine.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{State: m.state}
	switch m.state {
	case StateMenu:
		snap.Titles = make([]string, len(m.contents))
		for i, c := range m.contents {
			snap.Titles[i] = c.Title
		}
		snap.Selected = m.selected
	case StatePreStart:
		c := m.content
		snap.Content = &c
		empty := stats.Compute(0, 0, 0, 0)
		snap.Metrics = &empty
	case StateTyping, StatePaused:
		e := m.session.engine
		c := e.Content()
		cursor := e.Cursor()
		metrics := m.session.Metrics()
		snap.Content = &c
		snap.Metrics = &metrics
		snap.Cursor = &cursor
		snap.Marks = e.Marks()
		snap.Pending = translit.JoinKeys(e.Pending())
		if k, ok := e.LastRejected(); ok {
			snap.LastRejected = string(k)
		}
	case StateResult:
		c := m.result.Content
		metrics := m.result.Metrics
		snap.Content = &c
		snap.Metrics = &metrics
		snap.Chars = append([]engine.CharStat(nil), m.result.Chars...)
		snap.Completed = m.result.Completed
	}
	return snap
}
