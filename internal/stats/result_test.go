package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/furitype/internal/engine"
)

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	m := Compute(8, 7, 2, 4*time.Second+500*time.Millisecond)
	chars := []engine.CharStat{
		{Char: 'か', Correct: 3, Incorrect: 1},
		{Char: 'し', Correct: 4},
	}
	if err := RenderResult(&buf, "Haiku", m, chars); err != nil {
		t.Fatalf("RenderResult failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Result: Haiku", "77.78%", "1.78 chars/s", "0:04.5", "Char", "75.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "か") > strings.Index(out, "し") {
		t.Fatalf("expected weakest character first:\n%s", out)
	}
}

func TestRenderCharTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCharTable(&buf, nil); err != nil {
		t.Fatalf("RenderCharTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No character stats.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "0:00.0",
		1500 * time.Millisecond: "0:01.5",
		time.Minute + 5*time.Second + 990*time.Millisecond: "1:05.9",
		-time.Second: "0:00.0",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("%v: expected %s, got %s", in, want, got)
		}
	}
}

func TestAlignColumns(t *testing.T) {
	lines := alignColumns([][]string{
		{"Char", "Accuracy", "Correct"},
		{"か", "97.50%", "12"},
		{"<space>", "8.00%", "3"},
	})
	want := []string{
		"Char    Accuracy Correct",
		"か        97.50%      12",
		"<space>    8.00%       3",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected layout:\n%s", strings.Join(lines, "\n"))
	}
}
