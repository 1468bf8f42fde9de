package model

import (
	"errors"
	"fmt"
)

// SegmentKind distinguishes plain text from annotated (base/reading) text.
type SegmentKind int

const (
	// SegmentPlain is typed and displayed as-is.
	SegmentPlain SegmentKind = iota
	// SegmentAnnotated displays Base and is typed via Reading.
	SegmentAnnotated
)

// String implements fmt.Stringer.
func (k SegmentKind) String() string {
	if k == SegmentAnnotated {
		return "annotated"
	}
	return "plain"
}

// MarshalText implements encoding.TextMarshaler.
func (k SegmentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Segment is a span of a line: either plain text or a base/reading pair.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Base    string      `json:"base,omitempty"`
	Reading string      `json:"reading,omitempty"`
}

// Plain builds a plain-text segment.
func Plain(text string) Segment {
	return Segment{Kind: SegmentPlain, Text: text}
}

// Annotated builds a segment displayed as base and typed as reading.
func Annotated(base, reading string) Segment {
	return Segment{Kind: SegmentAnnotated, Base: base, Reading: reading}
}

// Target returns the characters a typist must produce for this segment.
func (s Segment) Target() []rune {
	if s.Kind == SegmentAnnotated {
		return []rune(s.Reading)
	}
	return []rune(s.Text)
}

// Display returns the text shown for the segment.
func (s Segment) Display() string {
	if s.Kind == SegmentAnnotated {
		return s.Base
	}
	return s.Text
}

// Line is one line of segments.
type Line struct {
	Segments []Segment `json:"segments"`
}

// Content is a titled practice text. It is not modified once selected.
type Content struct {
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

// Pos addresses one target character inside a Content.
type Pos struct {
	Line    int `json:"line"`
	Segment int `json:"segment"`
	Char    int `json:"char"`
}

// Less reports whether p comes strictly before q in typing order.
func (p Pos) Less(q Pos) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	if p.Segment != q.Segment {
		return p.Segment < q.Segment
	}
	return p.Char < q.Char
}

// String implements fmt.Stringer.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.Line, p.Segment, p.Char)
}

// Segment returns the segment at line l, index s. Out of range panics.
func (c Content) Segment(l, s int) Segment {
	return c.Lines[l].Segments[s]
}

// SegmentLen returns the number of target characters in a segment.
func (c Content) SegmentLen(l, s int) int {
	return len(c.Segment(l, s).Target())
}

// LineLen returns the number of target characters in a line.
func (c Content) LineLen(l int) int {
	total := 0
	for s := range c.Lines[l].Segments {
		total += c.SegmentLen(l, s)
	}
	return total
}

// Len returns the number of target characters in the whole content.
func (c Content) Len() int {
	total := 0
	for l := range c.Lines {
		total += c.LineLen(l)
	}
	return total
}

// At returns the target character at p. Out of range panics.
func (c Content) At(p Pos) rune {
	target := c.Segment(p.Line, p.Segment).Target()
	return target[p.Char]
}

// IsLastInSegment reports whether p is the final character of its segment.
func (c Content) IsLastInSegment(p Pos) bool {
	return p.Char == c.SegmentLen(p.Line, p.Segment)-1
}

// IsLastInLine reports whether p is the final character of its line.
func (c Content) IsLastInLine(p Pos) bool {
	if !c.IsLastInSegment(p) {
		return false
	}
	segs := c.Lines[p.Line].Segments
	for s := p.Segment + 1; s < len(segs); s++ {
		if c.SegmentLen(p.Line, s) > 0 {
			return false
		}
	}
	return true
}

// IsLast reports whether p is the final character of the content.
func (c Content) IsLast(p Pos) bool {
	if !c.IsLastInLine(p) {
		return false
	}
	for l := p.Line + 1; l < len(c.Lines); l++ {
		if c.LineLen(l) > 0 {
			return false
		}
	}
	return true
}

// First returns the position of the first target character and false if
// the content has none.
func (c Content) First() (Pos, bool) {
	return c.seek(Pos{})
}

// Next returns the position following p and false when p is the last one.
func (c Content) Next(p Pos) (Pos, bool) {
	return c.seek(Pos{Line: p.Line, Segment: p.Segment, Char: p.Char + 1})
}

// seek returns the first valid position at or after p, skipping empty
// segments and lines.
func (c Content) seek(p Pos) (Pos, bool) {
	for p.Line < len(c.Lines) {
		segs := c.Lines[p.Line].Segments
		for p.Segment < len(segs) {
			if p.Char < c.SegmentLen(p.Line, p.Segment) {
				return p, true
			}
			p.Segment++
			p.Char = 0
		}
		p.Line++
		p.Segment = 0
		p.Char = 0
	}
	return p, false
}

// ErrEmptyContent is returned when content has nothing to type.
var ErrEmptyContent = errors.New("content has no characters to type")

// Validate checks that every segment has a non-empty target.
func (c Content) Validate() error {
	if len(c.Lines) == 0 {
		return ErrEmptyContent
	}
	for l, line := range c.Lines {
		if len(line.Segments) == 0 {
			return fmt.Errorf("line %d has no segments", l+1)
		}
		for s, seg := range line.Segments {
			if len(seg.Target()) == 0 {
				return fmt.Errorf("line %d segment %d has an empty reading", l+1, s+1)
			}
			if seg.Kind == SegmentAnnotated && seg.Base == "" {
				return fmt.Errorf("line %d segment %d has an empty base", l+1, s+1)
			}
		}
	}
	return nil
}
