package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/furitype/internal/engine"
)

// RenderResult prints the result summary and the per-character table.
func RenderResult(w io.Writer, title string, m Metrics, chars []engine.CharStat) error {
	if _, err := fmt.Fprintf(w, "Result: %s\n", title); err != nil {
		return err
	}
	summary := [][]string{
		{"Accuracy", fmt.Sprintf("%.2f%%", m.Accuracy*100)},
		{"Speed", fmt.Sprintf("%.2f chars/s", m.Speed)},
		{"CPM", fmt.Sprintf("%.1f", m.CPM())},
		{"Typed", fmt.Sprintf("%d", m.TypeCount)},
		{"Misses", fmt.Sprintf("%d", m.MissCount)},
		{"Time", FormatDuration(m.TotalTime)},
	}
	for _, line := range alignColumns(summary) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return RenderCharTable(w, chars)
}

// RenderCharTable prints per-character tallies, weakest first.
func RenderCharTable(w io.Writer, chars []engine.CharStat) error {
	if len(chars) == 0 {
		_, err := fmt.Fprintln(w, "No character stats.")
		return err
	}
	type row struct {
		char      string
		acc       float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(chars))
	for _, cs := range chars {
		label := string(cs.Char)
		if cs.Char == ' ' {
			label = "<space>"
		}
		acc := 0.0
		if total := cs.Correct + cs.Incorrect; total > 0 {
			acc = float64(cs.Correct) / float64(total)
		}
		rows = append(rows, row{char: label, acc: acc, correct: cs.Correct, incorrect: cs.Incorrect})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	tableRows := make([][]string, 0, len(rows)+1)
	tableRows = append(tableRows, []string{"Char", "Accuracy", "Correct", "Incorrect"})
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.char,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	for _, line := range alignColumns(tableRows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// alignColumns pads rows into columns measured in terminal cells. The first
// column is a label and is left aligned; the rest are numbers and are right
// aligned.
func alignColumns(rows [][]string) []string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for i, width := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := strings.Repeat(" ", width-runewidth.StringWidth(cell))
			if i == 0 {
				b.WriteString(cell + pad)
			} else {
				b.WriteString(" " + pad + cell)
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

// FormatDuration renders d as m:ss.d.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d.%d", secs/60, secs%60, (ms%1000)/100)
}
