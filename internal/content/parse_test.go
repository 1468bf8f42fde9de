package content

import (
	"strings"
	"testing"

	"github.com/verte-zerg/furitype/internal/model"
)

func TestParseTitleAndSegments(t *testing.T) {
	src := "#title  Greeting \n\n(今日/きょう)は、(良/よ)い天気\nplain line\n"
	c, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Title != "Greeting" {
		t.Fatalf("expected title Greeting, got %q", c.Title)
	}
	if len(c.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Lines))
	}
	want := []model.Segment{
		model.Annotated("今日", "きょう"),
		model.Plain("は、"),
		model.Annotated("良", "よ"),
		model.Plain("い天気"),
	}
	got := c.Lines[0].Segments
	if len(got) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if c.Lines[1].Segments[0] != model.Plain("plain line") {
		t.Fatalf("unexpected second line: %+v", c.Lines[1].Segments)
	}
}

func TestParseWithoutTitle(t *testing.T) {
	c, err := Parse("abc")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Title != "" {
		t.Fatalf("expected empty title, got %q", c.Title)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("expected first line to be content, got %d lines", len(c.Lines))
	}
}

func TestParseEscapes(t *testing.T) {
	c, err := Parse(`a\(b\)c(x\/y/z)`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	segs := c.Lines[0].Segments
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %+v", segs)
	}
	if segs[0] != model.Plain("a(b)c") {
		t.Fatalf("unexpected plain segment %+v", segs[0])
	}
	if segs[1] != model.Annotated("x/y", "z") {
		t.Fatalf("unexpected annotated segment %+v", segs[1])
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"missing slash": "(abc)",
		"unterminated":  "(a/b",
		"empty reading": "(a/)",
		"empty":         "#title only\n\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(src); err == nil {
				t.Fatalf("expected error for %q", src)
			}
		})
	}
}

func TestParseCRLF(t *testing.T) {
	c, err := Parse("#title win\r\nab\r\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Title != "win" || strings.ContainsRune(c.Lines[0].Segments[0].Text, '\r') {
		t.Fatalf("carriage returns leaked: %+v", c)
	}
}
