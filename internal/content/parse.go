// Package content parses and loads practice texts.
package content

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/verte-zerg/furitype/internal/model"
)

const titleDirective = "#title"

// Parse converts practice text into a Content.
//
// The first line may be "#title <name>". Blank lines are skipped.
// "(base/reading)" produces an annotated segment, "\x" escapes x, and
// everything else is plain text.
func Parse(text string) (model.Content, error) {
	var c model.Content
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if strings.HasPrefix(line, titleDirective) {
				c.Title = strings.TrimSpace(strings.TrimPrefix(line, titleDirective))
				continue
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		segments, err := parseLine(line)
		if err != nil {
			return model.Content{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		c.Lines = append(c.Lines, model.Line{Segments: segments})
	}
	if err := scanner.Err(); err != nil {
		return model.Content{}, err
	}
	if err := c.Validate(); err != nil {
		return model.Content{}, err
	}
	return c, nil
}

func parseLine(line string) ([]model.Segment, error) {
	runes := []rune(line)
	var segments []model.Segment
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			segments = append(segments, model.Plain(plain.String()))
			plain.Reset()
		}
	}
	for pos := 0; pos < len(runes); {
		switch runes[pos] {
		case '\\':
			if pos+1 < len(runes) {
				plain.WriteRune(runes[pos+1])
			}
			pos += 2
		case '(':
			flush()
			seg, next, err := parseAnnotated(runes, pos)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			pos = next
		default:
			plain.WriteRune(runes[pos])
			pos++
		}
	}
	flush()
	return segments, nil
}

// parseAnnotated reads "(base/reading)" starting at the '(' at start.
func parseAnnotated(runes []rune, start int) (model.Segment, int, error) {
	var base, reading strings.Builder
	pos := start + 1
	for pos < len(runes) && runes[pos] != '/' && runes[pos] != ')' {
		if runes[pos] == '\\' {
			pos++
			if pos >= len(runes) {
				break
			}
		}
		base.WriteRune(runes[pos])
		pos++
	}
	if pos >= len(runes) || runes[pos] != '/' {
		return model.Segment{}, 0, fmt.Errorf("column %d: annotation is missing '/'", start+1)
	}
	pos++
	for pos < len(runes) && runes[pos] != ')' {
		if runes[pos] == '\\' {
			pos++
			if pos >= len(runes) {
				break
			}
		}
		reading.WriteRune(runes[pos])
		pos++
	}
	if pos >= len(runes) {
		return model.Segment{}, 0, fmt.Errorf("column %d: annotation is missing ')'", start+1)
	}
	return model.Annotated(base.String(), reading.String()), pos + 1, nil
}
