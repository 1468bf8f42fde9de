package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/furitype/internal/engine"
	"github.com/verte-zerg/furitype/internal/model"
)

func plainCells(text string) []cell {
	c := model.Content{Lines: []model.Line{{Segments: []model.Segment{model.Plain(text)}}}}
	return buildCells(c, 0, view{})
}

func TestBuildCellsCursorAndMarks(t *testing.T) {
	c := model.Content{Lines: []model.Line{{Segments: []model.Segment{model.Plain("ab")}}}}
	cursor := model.Pos{Char: 1}
	v := view{marks: [][][]engine.Mark{{{engine.Correct, engine.Pending}}}, cursor: &cursor}
	cells := buildCells(c, 0, v)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].base != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first char")
	}
	if cells[1].base != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined current style for cursor char")
	}
	if !cells[1].cursor || cells[0].cursor {
		t.Fatalf("cursor flag on wrong cell")
	}
}

func TestBuildCellsWrongSpaceDot(t *testing.T) {
	c := model.Content{Lines: []model.Line{{Segments: []model.Segment{model.Plain("a b")}}}}
	cursor := model.Pos{Char: 1}
	v := view{marks: [][][]engine.Mark{{{engine.Correct, engine.Incorrect, engine.Pending}}}, cursor: &cursor}
	cells := buildCells(c, 0, v)
	if cells[1].base != incorrectStyle.Underline(true).Render("•") {
		t.Fatalf("expected red dot for wrong space, got %q", cells[1].base)
	}
	if !cells[1].isSpace {
		t.Fatalf("space cell must stay breakable")
	}
}

func TestBuildCellsAnnotatedWidth(t *testing.T) {
	c := model.Content{Lines: []model.Line{{Segments: []model.Segment{model.Annotated("漢字", "かんじ")}}}}
	cells := buildCells(c, 0, view{})
	if len(cells) != 1 {
		t.Fatalf("annotated segment must be one cell, got %d", len(cells))
	}
	if cells[0].width != 6 || !cells[0].hasRuby {
		t.Fatalf("unexpected cell %+v", cells[0])
	}
	if got := lipgloss.Width(cells[0].base); got != 6 {
		t.Fatalf("base must be padded to the reading width, got %d", got)
	}
}

func TestBaseStyleFollowsReadingMarks(t *testing.T) {
	if baseStyle([]engine.Mark{engine.Correct, engine.Pending}, false).Render("x") != pendingStyle.Render("x") {
		t.Fatalf("unfinished segment must be pending")
	}
	if baseStyle([]engine.Mark{engine.Correct, engine.Incorrect}, false).Render("x") != incorrectStyle.Render("x") {
		t.Fatalf("segment with a miss must be incorrect")
	}
	if baseStyle([]engine.Mark{engine.Correct}, false).Render("x") != correctStyle.Render("x") {
		t.Fatalf("clean segment must be correct")
	}
}

func TestWrapCellsPrefersSpaces(t *testing.T) {
	rows := wrapCells(plainCells("ab cd ef"), 6)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if lineWidthOf(rows[0]) != 6 || lineWidthOf(rows[1]) != 2 {
		t.Fatalf("unexpected row widths %d %d", lineWidthOf(rows[0]), lineWidthOf(rows[1]))
	}
}

func TestWrapCellsHardBreaksWideRunes(t *testing.T) {
	rows := wrapCells(plainCells("かなかな"), 5)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if lineWidthOf(row) > 5 {
			t.Fatalf("row too wide: %d", lineWidthOf(row))
		}
	}
}

func TestRenderRowOmitsEmptyRubyLine(t *testing.T) {
	if got := renderRow(plainCells("ab")); len(got) != 1 {
		t.Fatalf("expected single line, got %d", len(got))
	}
	c := model.Content{Lines: []model.Line{{Segments: []model.Segment{model.Plain("a"), model.Annotated("字", "じ")}}}}
	if got := renderRow(buildCells(c, 0, view{})); len(got) != 2 {
		t.Fatalf("expected ruby line, got %d", len(got))
	}
}

func TestRenderContentScrollsToCursor(t *testing.T) {
	var lines []model.Line
	for _, text := range []string{"one", "two", "three", "four", "five", "six"} {
		lines = append(lines, model.Line{Segments: []model.Segment{model.Plain(text)}})
	}
	c := model.Content{Lines: lines}
	cursor := model.Pos{Line: 4}
	out := ansi.Strip(renderContent(c, view{cursor: &cursor}, 0, 3))
	if strings.Contains(out, "one") {
		t.Fatalf("expected early lines scrolled out: %q", out)
	}
	if !strings.Contains(out, "five") {
		t.Fatalf("expected cursor line visible: %q", out)
	}
	if n := len(strings.Split(out, "\n")); n > 3 {
		t.Fatalf("expected at most 3 lines, got %d", n)
	}
}
