package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Layout != nil || cfg.Keymap != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[practice]
layout = "custom.yaml"
watch = false

[keymap]
";" = "p"

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Layout == nil || *cfg.Practice.Layout != "custom.yaml" {
		t.Fatalf("unexpected layout %v", cfg.Practice.Layout)
	}
	if cfg.Practice.Watch == nil || *cfg.Practice.Watch {
		t.Fatalf("expected watch=false")
	}
	if cfg.Practice.ContentDir != nil {
		t.Fatalf("unset key must stay nil")
	}
	if cfg.Keymap[";"] != "p" {
		t.Fatalf("unexpected keymap %v", cfg.Keymap)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[practice]\nlang = \"en\"\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "practice.lang") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigRejectsBadKeymap(t *testing.T) {
	path := writeConfig(t, "[keymap]\nab = \"c\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected keymap error")
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "furitype", "config.toml") {
		t.Fatalf("config path %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "furitype", "furitype.db") {
		t.Fatalf("db path %s", got)
	}
	if got := DefaultContentDir(); got != filepath.Join("/data", "furitype", "content") {
		t.Fatalf("content dir %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "furitype", "furitype.log") {
		t.Fatalf("log path %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/u")
	if got := ExpandHome("~/x"); got != filepath.Join("/home/u", "x") {
		t.Fatalf("got %s", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Fatalf("got %s", got)
	}
}
