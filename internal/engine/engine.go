// Package engine matches keystrokes against practice content one target
// character at a time.
package engine

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/furitype/internal/model"
	"github.com/verte-zerg/furitype/internal/translit"
)

// Mark is the classification of one target character.
type Mark int

const (
	// Pending characters have not been typed yet.
	Pending Mark = iota
	// Correct characters were spelled without an invalid keystroke.
	Correct
	// Incorrect characters saw at least one invalid keystroke.
	Incorrect
)

// String implements fmt.Stringer.
func (m Mark) String() string {
	switch m {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Signal tells the caller what a keystroke did to the cursor.
type Signal int

const (
	// Continue means the cursor stayed inside the current segment.
	Continue Signal = iota
	// SegmentComplete means the cursor moved past a segment boundary.
	SegmentComplete
	// ContentComplete means the last character was confirmed.
	ContentComplete
)

// Step is the outcome of a single keystroke.
type Step struct {
	Result translit.Result
	Signal Signal
	// Pos is the cursor the keystroke was judged against.
	Pos model.Pos
}

// CharStat tallies classifications for one target character.
type CharStat struct {
	Char      rune `json:"char"`
	Correct   int  `json:"correct"`
	Incorrect int  `json:"incorrect"`
}

// Engine owns the cursor, the correctness table, and the pending buffer
// for one attempt at a content. It is not safe for concurrent use.
type Engine struct {
	content  model.Content
	resolver translit.Resolver

	cursor       model.Pos
	done         bool
	marks        [][][]Mark
	pending      []translit.Key
	lastRejected translit.Key
	hasRejected  bool

	typeCount    int
	missCount    int
	correctCount int
	charStats    map[rune]*CharStat
}

// New starts an attempt at c with the cursor on its first character.
// Content without any target character panics.
func New(c model.Content, resolver translit.Resolver) *Engine {
	first, ok := c.First()
	if !ok {
		panic("engine: content has no characters to type")
	}
	marks := make([][][]Mark, len(c.Lines))
	for l, line := range c.Lines {
		marks[l] = make([][]Mark, len(line.Segments))
		for s := range line.Segments {
			marks[l][s] = make([]Mark, c.SegmentLen(l, s))
		}
	}
	return &Engine{
		content:   c,
		resolver:  resolver,
		cursor:    first,
		marks:     marks,
		charStats: map[rune]*CharStat{},
	}
}

// Submit judges one keystroke against the character under the cursor.
// Calling Submit after ContentComplete panics.
func (e *Engine) Submit(key translit.Key) Step {
	if e.done {
		panic("engine: keystroke submitted after content complete")
	}
	pos := e.cursor
	target := e.content.At(pos)
	e.pending = append(e.pending, key)
	res := e.resolver.Resolve(target, e.pending)
	step := Step{Result: res, Signal: Continue, Pos: pos}

	switch res.Kind {
	case translit.Matched:
		if e.markAt(pos) == Pending {
			e.setMark(pos, Correct)
			e.correctCount++
			e.charStat(target).Correct++
		}
		e.pending = e.pending[:0]
		e.clearRejected()
		e.typeCount++
		step.Signal = e.advance()
	case translit.Prefix:
		e.clearRejected()
	default:
		if e.markAt(pos) == Pending {
			e.setMark(pos, Incorrect)
			e.charStat(target).Incorrect++
		}
		e.missCount++
		e.pending = e.pending[:len(e.pending)-1]
		e.lastRejected = key
		e.hasRejected = true
	}
	return step
}

func (e *Engine) advance() Signal {
	next, ok := e.content.Next(e.cursor)
	if !ok {
		e.done = true
		return ContentComplete
	}
	if !e.cursor.Less(next) {
		panic(fmt.Sprintf("engine: cursor moved backwards from %v to %v", e.cursor, next))
	}
	crossed := next.Line != e.cursor.Line || next.Segment != e.cursor.Segment
	e.cursor = next
	if crossed {
		return SegmentComplete
	}
	return Continue
}

func (e *Engine) markAt(p model.Pos) Mark {
	return e.marks[p.Line][p.Segment][p.Char]
}

func (e *Engine) setMark(p model.Pos, m Mark) {
	if cur := e.markAt(p); cur != Pending {
		panic(fmt.Sprintf("engine: mark at %v already %v", p, cur))
	}
	e.marks[p.Line][p.Segment][p.Char] = m
}

func (e *Engine) clearRejected() {
	e.lastRejected = ""
	e.hasRejected = false
}

func (e *Engine) charStat(r rune) *CharStat {
	entry, ok := e.charStats[r]
	if !ok {
		entry = &CharStat{Char: r}
		e.charStats[r] = entry
	}
	return entry
}

// Content returns the content being typed.
func (e *Engine) Content() model.Content {
	return e.content
}

// Cursor returns the position of the next character to type. After
// completion it stays on the last character.
func (e *Engine) Cursor() model.Pos {
	return e.cursor
}

// Done reports whether the last character has been confirmed.
func (e *Engine) Done() bool {
	return e.done
}

// Mark returns the classification at p. Out of range panics.
func (e *Engine) Mark(p model.Pos) Mark {
	return e.markAt(p)
}

// Marks returns a copy of the correctness table.
func (e *Engine) Marks() [][][]Mark {
	out := make([][][]Mark, len(e.marks))
	for l, line := range e.marks {
		out[l] = make([][]Mark, len(line))
		for s, seg := range line {
			out[l][s] = append([]Mark(nil), seg...)
		}
	}
	return out
}

// Pending returns a copy of the unresolved keystrokes.
func (e *Engine) Pending() []translit.Key {
	return append([]translit.Key(nil), e.pending...)
}

// LastRejected returns the most recent invalid keystroke, if any.
func (e *Engine) LastRejected() (translit.Key, bool) {
	return e.lastRejected, e.hasRejected
}

// TypeCount is the number of confirmed characters.
func (e *Engine) TypeCount() int {
	return e.typeCount
}

// MissCount is the number of invalid keystrokes.
func (e *Engine) MissCount() int {
	return e.missCount
}

// CorrectCount is the number of characters marked Correct.
func (e *Engine) CorrectCount() int {
	return e.correctCount
}

// CharStats returns per-character tallies sorted by code point.
func (e *Engine) CharStats() []CharStat {
	out := make([]CharStat, 0, len(e.charStats))
	for _, s := range e.charStats {
		out = append(out, *s)
	}
	sortCharStats(out)
	return out
}

func sortCharStats(stats []CharStat) {
	sort.Slice(stats, func(i, j int) bool { return stats[i].Char < stats[j].Char })
}
