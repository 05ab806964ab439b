package options

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Define is one projected CMake define.
type Define struct {
	Key   string
	Value string
}

func (d Define) String() string {
	return d.Key + "=" + d.Value
}

// Value is the user-supplied value of one option.
type Value struct {
	kind Kind
	on   bool
	text string // Text and Path values, and the path of a TriState
}

// Kind reports the kind the value was constructed for.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the CMake projection of v.
func (v Value) String() string {
	switch v.kind {
	case Bool:
		return onOff(v.on)
	case TriState:
		if v.text != "" {
			return v.text
		}
		return onOff(v.on)
	}
	return v.text
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// InvalidValueError reports user input that does not fit an option's kind.
type InvalidValueError struct {
	Key      string
	Given    string
	Expected []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: expected %s", e.Given, e.Key, strings.Join(e.Expected, ", "))
}

// UnknownOptionError reports a key that is not part of the catalog.
type UnknownOptionError struct {
	Key string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown build option %q", e.Key)
}

// Set holds the options a user explicitly set. The zero value is empty and
// ready to use. A Set is not safe for concurrent mutation.
type Set struct {
	values map[ID]Value
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

func (s *Set) put(id ID, want Kind, v Value) {
	if got := catalog[id].Kind; got != want {
		panic(fmt.Sprintf("options: %s is a %v option, not %v", id, got, want))
	}
	if s.values == nil {
		s.values = make(map[ID]Value)
	}
	s.values[id] = v
}

// SetBool sets a Bool option.
func (s *Set) SetBool(id ID, on bool) *Set {
	s.put(id, Bool, Value{kind: Bool, on: on})
	return s
}

// SetTriState sets a TriState option to ON or OFF.
func (s *Set) SetTriState(id ID, on bool) *Set {
	s.put(id, TriState, Value{kind: TriState, on: on})
	return s
}

// SetTriStatePath enables a TriState option with an explicit path.
func (s *Set) SetTriStatePath(id ID, path string) *Set {
	s.put(id, TriState, Value{kind: TriState, on: true, text: path})
	return s
}

// SetText sets a Text option.
func (s *Set) SetText(id ID, text string) *Set {
	s.put(id, Text, Value{kind: Text, text: text})
	return s
}

// SetPath sets a Path option.
func (s *Set) SetPath(id ID, path string) *Set {
	s.put(id, Path, Value{kind: Path, text: path})
	return s
}

// Parse sets the option named key from raw user input, interpreting raw
// according to the option's kind.
func (s *Set) Parse(key, raw string) error {
	opt, ok := Lookup(key)
	if !ok {
		return &UnknownOptionError{Key: key}
	}
	v, err := ParseValue(opt, raw)
	if err != nil {
		return err
	}
	s.put(opt.ID, opt.Kind, v)
	return nil
}

// ParseValue converts raw into a Value of opt's kind.
func ParseValue(opt Option, raw string) (Value, error) {
	word := strings.ToLower(strings.TrimSpace(raw))
	switch opt.Kind {
	case Bool:
		switch word {
		case "on", "true", "yes", "1":
			return Value{kind: Bool, on: true}, nil
		case "off", "false", "no", "0":
			return Value{kind: Bool}, nil
		}
		return Value{}, &InvalidValueError{Key: opt.Key, Given: raw, Expected: []string{"on", "off"}}
	case TriState:
		switch word {
		case "on":
			return Value{kind: TriState, on: true}, nil
		case "off":
			return Value{kind: TriState}, nil
		}
		if isPathLike(raw) {
			return Value{kind: TriState, on: true, text: raw}, nil
		}
		return Value{}, &InvalidValueError{Key: opt.Key, Given: raw, Expected: []string{"on", "off", "a filesystem path"}}
	case Path:
		if strings.TrimSpace(raw) == "" {
			return Value{}, &InvalidValueError{Key: opt.Key, Given: raw, Expected: []string{"a filesystem path"}}
		}
		return Value{kind: Path, text: raw}, nil
	}
	return Value{kind: Text, text: raw}, nil
}

// notPaths are words that look like switch values and are never taken as
// a path.
var notPaths = []string{"true", "false", "yes", "no", "1", "0", "enable", "enabled", "disable", "disabled", "none", "auto"}

// isPathLike accepts anything that is not blank and does not look like a
// misspelled switch value, so "llvm-config-12" is a path but "onn" is not.
// Values with a path separator are always paths.
func isPathLike(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if filepath.IsAbs(s) || strings.ContainsAny(s, `/\`) {
		return true
	}
	word := strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(notPaths, word) {
		return false
	}
	return !oneEditAway(word, "on") && !oneEditAway(word, "off")
}

// oneEditAway reports whether a becomes b with at most one insertion,
// deletion or substitution.
func oneEditAway(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > 1 {
		return false
	}
	i := 0
	for i < len(a) && a[i] == b[i] {
		i++
	}
	if len(a) == len(b) {
		return a[i+min(1, len(a)-i):] == b[i+min(1, len(b)-i):]
	}
	return a[i:] == b[i+1:]
}
