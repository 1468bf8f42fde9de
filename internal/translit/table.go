package translit

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed layouts/romaji.json layouts/table.schema.json
var layoutFS embed.FS

const (
	defaultLayout = "layouts/romaji.json"
	schemaPath    = "layouts/table.schema.json"
	schemaURL     = "table.schema.json"

	hiraganaFirst = 'ぁ'
	hiraganaLast  = 'ゖ'
	katakanaShift = 'ァ' - 'ぁ'
)

// Table maps target characters to their keystroke spellings. Characters
// missing from the table are spelled by typing themselves.
type Table struct {
	spellings map[rune][][]Key
}

// NewTable builds a table from character to spelling strings.
func NewTable(entries map[rune][]string) *Table {
	t := &Table{spellings: make(map[rune][][]Key, len(entries))}
	for r, list := range entries {
		keys := make([][]Key, 0, len(list))
		for _, sp := range list {
			keys = append(keys, SplitKeys(sp))
		}
		t.spellings[r] = keys
	}
	return t
}

// Spellings returns the candidate spellings for target.
func (t *Table) Spellings(target rune) [][]Key {
	if t != nil {
		if sp, ok := t.spellings[target]; ok {
			return sp
		}
	}
	return [][]Key{{Key(string(target))}}
}

// Resolve implements Resolver.
func (t *Table) Resolve(target rune, buffer []Key) Result {
	return Resolve(t.Spellings(target), buffer)
}

// Hint returns the shortest spelling of target that continues buffer, or
// the shortest spelling overall when none does.
func (t *Table) Hint(target rune, buffer []Key) string {
	var best []Key
	for _, sp := range t.Spellings(target) {
		if len(buffer) > len(sp) || !hasPrefix(sp, buffer) {
			continue
		}
		if best == nil || len(sp) < len(best) {
			best = sp
		}
	}
	if best == nil {
		for _, sp := range t.Spellings(target) {
			if best == nil || len(sp) < len(best) {
				best = sp
			}
		}
	}
	return JoinKeys(best)
}

// Len returns the number of characters with explicit spellings.
func (t *Table) Len() int {
	return len(t.spellings)
}

// Chars returns the characters with explicit spellings in code point order.
func (t *Table) Chars() []rune {
	out := make([]rune, 0, len(t.spellings))
	for r := range t.spellings {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Default returns the built-in romaji table covering hiragana, katakana,
// and common Japanese punctuation.
func Default() *Table {
	data, err := layoutFS.ReadFile(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("embedded layout missing: %v", err))
	}
	t, err := parseJSON(data)
	if err != nil {
		panic(fmt.Sprintf("embedded layout invalid: %v", err))
	}
	return withKatakana(t)
}

// LoadFile reads a spelling table from JSON or YAML, chosen by extension.
// Hiragana entries also cover the matching katakana unless the file
// spells those explicitly.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", path, err)
	}
	var t *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		t, err = parseJSON(data)
	case ".yaml", ".yml":
		t, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported layout format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", path, err)
	}
	return withKatakana(t), nil
}

func parseJSON(data []byte) (*Table, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return fromRaw(raw), nil
}

func parseYAML(data []byte) (*Table, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	doc := make(map[string]any, len(raw))
	for k, list := range raw {
		items := make([]any, len(list))
		for i, sp := range list {
			items[i] = sp
		}
		doc[k] = items
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return fromRaw(raw), nil
}

func validate(doc any) error {
	schemaData, err := layoutFS.ReadFile(schemaPath)
	if err != nil {
		return err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
		return fmt.Errorf("failed to add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema.Validate(doc)
}

func fromRaw(raw map[string][]string) *Table {
	entries := make(map[rune][]string, len(raw))
	for k, list := range raw {
		r, _ := utf8.DecodeRuneInString(k)
		entries[r] = list
	}
	return NewTable(entries)
}

func withKatakana(t *Table) *Table {
	for r := hiraganaFirst; r <= hiraganaLast; r++ {
		sp, ok := t.spellings[r]
		if !ok {
			continue
		}
		if _, exists := t.spellings[r+katakanaShift]; !exists {
			t.spellings[r+katakanaShift] = sp
		}
	}
	return t
}
