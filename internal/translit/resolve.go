// Package translit resolves keystroke buffers against the spellings of a
// target character.
package translit

// Key identifies one physical keystroke after remapping.
type Key string

// Kind classifies a keystroke buffer against a target character.
type Kind int

const (
	// Invalid means the buffer cannot lead to any spelling.
	Invalid Kind = iota
	// Prefix means more keystrokes may still complete a spelling.
	Prefix
	// Matched means the buffer is a complete spelling.
	Matched
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Matched:
		return "matched"
	case Prefix:
		return "prefix"
	default:
		return "invalid"
	}
}

// Result is the outcome of resolving one buffer.
type Result struct {
	Kind     Kind
	Consumed int
}

// Resolver decides how a keystroke buffer relates to a target character.
type Resolver interface {
	Resolve(target rune, buffer []Key) Result
}

// Resolve checks buffer against every spelling at once. A complete
// spelling wins over a longer one it prefixes. Consumed is the whole
// buffer on a match; nothing is carried over to the next character.
func Resolve(spellings [][]Key, buffer []Key) Result {
	prefix := false
	for _, sp := range spellings {
		if len(buffer) > len(sp) || !hasPrefix(sp, buffer) {
			continue
		}
		if len(sp) == len(buffer) {
			return Result{Kind: Matched, Consumed: len(buffer)}
		}
		prefix = true
	}
	if prefix {
		return Result{Kind: Prefix}
	}
	return Result{Kind: Invalid}
}

func hasPrefix(s, prefix []Key) bool {
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

// SplitKeys turns a spelling string into one key per rune.
func SplitKeys(spelling string) []Key {
	keys := make([]Key, 0, len(spelling))
	for _, r := range spelling {
		keys = append(keys, Key(string(r)))
	}
	return keys
}

// JoinKeys renders keys back into a string.
func JoinKeys(keys []Key) string {
	n := 0
	for _, k := range keys {
		n += len(k)
	}
	b := make([]byte, 0, n)
	for _, k := range keys {
		b = append(b, k...)
	}
	return string(b)
}

// Keymap translates raw keys before they reach the resolver.
type Keymap map[Key]Key

// Map returns the remapped key, or k itself when it has no mapping.
func (m Keymap) Map(k Key) Key {
	if mapped, ok := m[k]; ok {
		return mapped
	}
	return k
}
