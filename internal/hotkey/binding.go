package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Binding is a parsed global hotkey: one or more modifiers plus a key.
type Binding struct {
	Modifiers []string // canonical order: alt, ctrl, meta, shift
	Key       string   // lowercase key name, e.g. "p", "space", "f2"
}

var (
	// ErrInvalidBinding reports a descriptor that does not parse into a
	// non-empty modifier+key combination.
	ErrInvalidBinding = errors.New("invalid hotkey binding")

	// ErrReserved reports a combination the system refuses to bind.
	ErrReserved = errors.New("hotkey binding is reserved")
)

var modifierNames = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"option":  "alt",
	"meta":    "meta",
	"super":   "meta",
	"cmd":     "meta",
	"command": "meta",
	"win":     "meta",
}

// reserved combinations that would shadow universal editing shortcuts or the
// paste keystroke the pipeline itself synthesizes.
var reserved = map[string]struct{}{
	"ctrl+c": {},
	"ctrl+v": {},
	"ctrl+x": {},
	"alt+f4": {},
	"meta+c": {},
	"meta+v": {},
}

// ParseBinding parses a user-supplied descriptor such as "Ctrl+Shift+P" into
// a canonical Binding. The descriptor must contain at least one modifier and
// exactly one key.
func ParseBinding(raw string) (Binding, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Binding{}, fmt.Errorf("%w: empty descriptor", ErrInvalidBinding)
	}

	parts := strings.Split(trimmed, "+")
	var mods []string
	seen := make(map[string]struct{})
	key := ""

	for _, part := range parts {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			return Binding{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidBinding, raw)
		}
		if canonical, ok := modifierNames[p]; ok {
			if _, dup := seen[canonical]; !dup {
				seen[canonical] = struct{}{}
				mods = append(mods, canonical)
			}
			continue
		}
		if key != "" {
			return Binding{}, fmt.Errorf("%w: multiple keys in %q", ErrInvalidBinding, raw)
		}
		key = p
	}

	if key == "" {
		return Binding{}, fmt.Errorf("%w: no key in %q", ErrInvalidBinding, raw)
	}
	if len(mods) == 0 {
		return Binding{}, fmt.Errorf("%w: no modifier in %q", ErrInvalidBinding, raw)
	}

	sort.Strings(mods)
	b := Binding{Modifiers: mods, Key: key}

	if _, bad := reserved[b.String()]; bad {
		return Binding{}, fmt.Errorf("%w: %q", ErrReserved, b.String())
	}
	return b, nil
}

// String returns the canonical descriptor, e.g. "ctrl+shift+p".
func (b Binding) String() string {
	if b.Key == "" {
		return ""
	}
	return strings.Join(append(append([]string(nil), b.Modifiers...), b.Key), "+")
}

// Equal reports whether two bindings describe the same combination.
func (b Binding) Equal(other Binding) bool {
	return b.String() == other.String()
}
