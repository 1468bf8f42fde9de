package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/furitype/internal/config"
	"github.com/verte-zerg/furitype/internal/model"
	"github.com/verte-zerg/furitype/internal/store"
	"github.com/verte-zerg/furitype/internal/translit"
)

func TestSuggestTitles(t *testing.T) {
	titles := []string{"Haiku collection", "Hojoki", "Rashomon", "haiku-2"}
	got := suggestTitles("haiku", titles, 3)
	if len(got) != 2 {
		t.Fatalf("expected two haiku suggestions, got %v", got)
	}
	for _, title := range got {
		if !strings.Contains(strings.ToLower(title), "haiku") {
			t.Fatalf("unexpected suggestion %q", title)
		}
	}
	if got := suggestTitles("rashomn", titles, 3); len(got) == 0 || got[0] != "Rashomon" {
		t.Fatalf("expected Rashomon for typo, got %v", got)
	}
	if got := suggestTitles("zzzz", titles, 3); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var layout string
	var watch bool
	cmd.Flags().StringVar(&layout, "layout", "", "")
	cmd.Flags().BoolVar(&watch, "watch", true, "")
	if err := cmd.Flags().Set("watch", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	fromFile := "file.yaml"
	off := false
	applyStringConfig(cmd, "layout", &layout, &fromFile)
	applyBoolConfig(cmd, "watch", &watch, &off)
	if layout != "file.yaml" {
		t.Fatalf("unset flag must take config value, got %q", layout)
	}
	if !watch {
		t.Fatalf("changed flag must win over config")
	}
	applyStringConfig(cmd, "layout", &layout, nil)
	if layout != "file.yaml" {
		t.Fatalf("nil config value must not change target")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template must decode: %v", err)
	}
	var raw map[string]any
	if _, err := toml.Decode(defaultConfigTemplate(), &raw); err != nil {
		t.Fatalf("template must be valid TOML: %v", err)
	}
}

func TestKeymapFromConfig(t *testing.T) {
	if keymapFromConfig(nil) != nil {
		t.Fatalf("expected nil keymap")
	}
	km := keymapFromConfig(map[string]string{";": "p"})
	if km.Map(";") != "p" || km.Map("a") != "a" {
		t.Fatalf("unexpected keymap %v", km)
	}
}

func TestWriteTableListsSpellings(t *testing.T) {
	var buf bytes.Buffer
	table := translit.NewTable(map[rune][]string{'し': {"shi", "si"}, 'か': {"ka"}})
	if err := writeTable(&buf, table); err != nil {
		t.Fatalf("write table: %v", err)
	}
	if buf.String() != "か\tka\nし\tshi si\n" {
		t.Fatalf("unexpected table %q", buf.String())
	}
}

func TestWriteEntries(t *testing.T) {
	var buf bytes.Buffer
	entries := []model.LibraryEntry{{Title: "poem", Path: "/tmp/poem.txt", AddedAt: time.Date(2024, 5, 6, 12, 0, 0, 0, time.Local)}}
	if err := writeEntries(&buf, entries); err != nil {
		t.Fatalf("write entries: %v", err)
	}
	if buf.String() != "2024-05-06\tpoem\t/tmp/poem.txt\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestCollectContentsMergesLibraryAndDir(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "furitype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := st.AddContent(ctx, model.LibraryEntry{Title: "stored", Source: "#title stored\nかな\n"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := st.AddContent(ctx, model.LibraryEntry{Title: "untitled", Source: "(字/じ)\n"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	dir := t.TempDir()
	files := map[string]string{
		"dup.txt":   "#title stored\nほか\n",
		"fresh.ntq": "#title fresh\nあめ\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	contents, err := collectContents(ctx, st, dir, logger)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var titles []string
	for _, c := range contents {
		titles = append(titles, c.Title)
	}
	if strings.Join(titles, ",") != "stored,untitled,fresh" {
		t.Fatalf("unexpected titles %v", titles)
	}

	missing, err := collectContents(ctx, st, filepath.Join(dir, "absent"), logger)
	if err != nil || len(missing) != 2 {
		t.Fatalf("missing dir must fall back to the library: %v %d", err, len(missing))
	}
}
