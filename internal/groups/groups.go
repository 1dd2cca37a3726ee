// Package groups defines named fixture groups: contiguous id ranges bound to a
// keyboard shortcut.
package groups

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidRange      = errors.New("group range is invalid")
	ErrDuplicateKey      = errors.New("duplicate group key")
	ErrDuplicateShortcut = errors.New("duplicate group shortcut")
	ErrInvalidShortcut   = errors.New("shortcut must be a single character")
	ErrMissingKey        = errors.New("group key is required")
)

// Group selects every fixture with From <= id <= To.
type Group struct {
	Key      string `yaml:"key" json:"key"`
	Name     string `yaml:"name" json:"name"`
	From     int    `yaml:"from" json:"from"`
	To       int    `yaml:"to" json:"to"`
	Shortcut string `yaml:"shortcut" json:"shortcut"`
}

// Contains reports whether id falls inside the group's range.
func (g Group) Contains(id int) bool {
	return id >= g.From && id <= g.To
}

// Set is an ordered, validated list of groups.
type Set struct {
	groups []Group
}

type file struct {
	Groups []Group `yaml:"groups"`
}

// Defaults matches the 68-fixture default rig.
func Defaults() *Set {
	s, err := NewSet([]Group{
		{Key: "flat", Name: "Flat wash", From: 1, To: 16, Shortcut: "q"},
		{Key: "par1", Name: "Par row 1", From: 17, To: 28, Shortcut: "w"},
		{Key: "par2", Name: "Par row 2", From: 29, To: 40, Shortcut: "e"},
		{Key: "par3", Name: "Par row 3", From: 41, To: 49, Shortcut: "r"},
		{Key: "par4", Name: "Par row 4", From: 50, To: 58, Shortcut: "t"},
		{Key: "beam1", Name: "Beam row 1", From: 59, To: 62, Shortcut: "y"},
		{Key: "beam2", Name: "Beam row 2", From: 63, To: 68, Shortcut: "u"},
	})
	if err != nil {
		panic(err)
	}
	return s
}

// NewSet validates groups: keys are required and unique, ranges satisfy
// 1 <= From <= To, and shortcuts are single unique characters (case folded).
func NewSet(groups []Group) (*Set, error) {
	keys := make(map[string]bool)
	shortcuts := make(map[string]bool)

	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		g.Key = strings.TrimSpace(g.Key)
		if g.Key == "" {
			return nil, ErrMissingKey
		}
		if keys[g.Key] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, g.Key)
		}
		keys[g.Key] = true

		if g.From < 1 || g.From > g.To {
			return nil, fmt.Errorf("%w: %s %d-%d", ErrInvalidRange, g.Key, g.From, g.To)
		}

		if g.Shortcut != "" {
			g.Shortcut = strings.ToLower(g.Shortcut)
			if utf8.RuneCountInString(g.Shortcut) != 1 {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidShortcut, g.Key, g.Shortcut)
			}
			if shortcuts[g.Shortcut] {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateShortcut, g.Shortcut)
			}
			shortcuts[g.Shortcut] = true
		}
		if g.Name == "" {
			g.Name = g.Key
		}
		out = append(out, g)
	}
	return &Set{groups: out}, nil
}

// Parse reads a YAML document with a top-level "groups" list.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse groups: %w", err)
	}
	return NewSet(f.Groups)
}

// Load reads groups from a YAML file.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read groups file: %w", err)
	}
	return Parse(data)
}

// Marshal writes the set back out as YAML.
func (s *Set) Marshal() ([]byte, error) {
	return yaml.Marshal(file{Groups: s.groups})
}

func (s *Set) All() []Group {
	out := make([]Group, len(s.groups))
	copy(out, s.groups)
	return out
}

func (s *Set) ByKey(key string) (Group, bool) {
	for _, g := range s.groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// ByShortcut looks a group up by its key binding, ignoring case.
func (s *Set) ByShortcut(r rune) (Group, bool) {
	want := strings.ToLower(string(r))
	for _, g := range s.groups {
		if g.Shortcut == want {
			return g, true
		}
	}
	return Group{}, false
}
