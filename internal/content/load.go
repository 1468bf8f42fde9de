package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/furitype/internal/model"
)

const maxParallelLoads = 8

// Extensions lists the file extensions recognised as practice texts.
var Extensions = []string{".txt", ".ntq"}

// IsContentFile reports whether path has a practice text extension.
func IsContentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads and parses one practice text. A missing #title falls back
// to the file name without extension.
func LoadFile(path string) (model.Content, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Content{}, "", err
	}
	source := string(data)
	c, err := Parse(source)
	if err != nil {
		return model.Content{}, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if c.Title == "" {
		c.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, source, nil
}

// Loaded is a parsed file together with its source text.
type Loaded struct {
	Path    string
	Source  string
	Content model.Content
}

// LoadFiles parses the given files concurrently. Results keep input order;
// the first error cancels the remaining loads.
func LoadFiles(ctx context.Context, paths []string) ([]Loaded, error) {
	out := make([]Loaded, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, source, err := LoadFile(path)
			if err != nil {
				return err
			}
			out[i] = Loaded{Path: path, Source: source, Content: c}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadDir parses every practice text directly inside dir, sorted by name.
func LoadDir(ctx context.Context, dir string) ([]Loaded, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsContentFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return LoadFiles(ctx, paths)
}
