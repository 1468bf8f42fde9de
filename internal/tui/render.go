package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/furitype/internal/engine"
	"github.com/verte-zerg/furitype/internal/model"
)

// cell is the smallest unit that wraps: one plain character or one whole
// annotated segment with its reading above the base.
type cell struct {
	ruby    string
	base    string
	width   int
	hasRuby bool
	isSpace bool
	cursor  bool
}

type view struct {
	marks  [][][]engine.Mark
	cursor *model.Pos
}

func (v view) mark(p model.Pos) engine.Mark {
	if v.marks == nil {
		return engine.Pending
	}
	return v.marks[p.Line][p.Segment][p.Char]
}

func (v view) isCursor(p model.Pos) bool {
	return v.cursor != nil && *v.cursor == p
}

func (v view) inCurrentSegment(l, s int) bool {
	return v.cursor != nil && v.cursor.Line == l && v.cursor.Segment == s
}

func charStyle(m engine.Mark, current, cursor bool) lipgloss.Style {
	style := pendingStyle
	switch m {
	case engine.Correct:
		style = correctStyle
	case engine.Incorrect:
		style = incorrectStyle
	default:
		if current {
			style = currentWordStyle
		}
	}
	if cursor {
		style = style.Underline(true)
	}
	return style
}

func baseStyle(marks []engine.Mark, current bool) lipgloss.Style {
	if current {
		return currentWordStyle
	}
	done, wrong := true, false
	for _, m := range marks {
		switch m {
		case engine.Pending:
			done = false
		case engine.Incorrect:
			wrong = true
		}
	}
	switch {
	case !done:
		return pendingStyle
	case wrong:
		return incorrectStyle
	default:
		return correctStyle
	}
}

func buildCells(c model.Content, l int, v view) []cell {
	var out []cell
	for s, seg := range c.Lines[l].Segments {
		current := v.inCurrentSegment(l, s)
		target := seg.Target()
		if seg.Kind == model.SegmentPlain {
			for i, r := range target {
				p := model.Pos{Line: l, Segment: s, Char: i}
				m := v.mark(p)
				displayed := r
				if r == ' ' && m == engine.Incorrect {
					displayed = '•'
				}
				width := runewidth.RuneWidth(displayed)
				out = append(out, cell{
					ruby:    strings.Repeat(" ", width),
					base:    charStyle(m, current, v.isCursor(p)).Render(string(displayed)),
					width:   width,
					isSpace: r == ' ',
					cursor:  v.isCursor(p),
				})
			}
			continue
		}

		var ruby strings.Builder
		marks := make([]engine.Mark, len(target))
		hasCursor := false
		for i, r := range target {
			p := model.Pos{Line: l, Segment: s, Char: i}
			marks[i] = v.mark(p)
			hasCursor = hasCursor || v.isCursor(p)
			ruby.WriteString(charStyle(marks[i], current, v.isCursor(p)).Render(string(r)))
		}
		rubyWidth := runewidth.StringWidth(string(target))
		baseWidth := runewidth.StringWidth(seg.Base)
		width := max(rubyWidth, baseWidth)
		out = append(out, cell{
			ruby:    lipgloss.PlaceHorizontal(width, lipgloss.Center, ruby.String()),
			base:    lipgloss.PlaceHorizontal(width, lipgloss.Center, baseStyle(marks, current).Render(seg.Base)),
			width:   width,
			hasRuby: true,
			cursor:  hasCursor,
		})
	}
	return out
}

// wrapCells splits cells into rows no wider than width, preferring to break
// after the last space on the row.
func wrapCells(cells []cell, width int) [][]cell {
	if width <= 0 {
		return [][]cell{cells}
	}
	var rows [][]cell
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				rows = append(rows, append([]cell{}, line[:lastSpaceIdx+1]...))
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				rows = append(rows, append([]cell{}, line...))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(rows, line)
}

func lineWidthOf(line []cell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// renderRow returns the row as one or two terminal lines; the reading line
// is omitted when nothing on the row is annotated.
func renderRow(row []cell) []string {
	var ruby, base strings.Builder
	hasRuby := false
	for _, item := range row {
		ruby.WriteString(item.ruby)
		base.WriteString(item.base)
		hasRuby = hasRuby || item.hasRuby
	}
	if !hasRuby {
		return []string{base.String()}
	}
	return []string{ruby.String(), base.String()}
}

type renderedRow struct {
	lines  []string
	cursor bool
}

func layoutContent(c model.Content, v view, width int) []renderedRow {
	var out []renderedRow
	for l := range c.Lines {
		for _, row := range wrapCells(buildCells(c, l, v), width) {
			hasCursor := false
			for _, item := range row {
				hasCursor = hasCursor || item.cursor
			}
			out = append(out, renderedRow{lines: renderRow(row), cursor: hasCursor})
		}
	}
	return out
}

// renderContent lays out c and returns at most maxLines terminal lines,
// scrolled so the row holding the cursor stays in view.
func renderContent(c model.Content, v view, width, maxLines int) string {
	rows := layoutContent(c, v, width)
	start := 0
	if maxLines > 0 {
		cursorRow := 0
		for i, row := range rows {
			if row.cursor {
				cursorRow = i
				break
			}
		}
		// Keep roughly a third of the window above the cursor row.
		used := 0
		for i := cursorRow; i >= 0; i-- {
			used += len(rows[i].lines)
			if used > maxLines/3 && i < cursorRow {
				break
			}
			start = i
		}
	}
	var lines []string
	for _, row := range rows[start:] {
		if maxLines > 0 && len(lines) > 0 && len(lines)+len(row.lines) > maxLines {
			break
		}
		lines = append(lines, row.lines...)
	}
	return strings.Join(lines, "\n")
}
