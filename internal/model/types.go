// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	LayoutPath string
	ContentDir string
	Watch      bool
	Keymap     map[string]string
}

// LibraryEntry is a stored content source available from the menu.
type LibraryEntry struct {
	ID      int64
	Title   string
	Source  string
	Path    string
	AddedAt time.Time
}
