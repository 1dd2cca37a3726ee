package export

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/stagerig/rigsim/backend-go/internal/fixture"
)

// RareThreshold is the largest category size whose fixtures are highlighted.
const RareThreshold = 2

// palette names the common stage colors. Matching is exact on the hex value.
var palette = []struct {
	hex  string
	name string
}{
	{"#ff0000", "red"},
	{"#00ff00", "green"},
	{"#0000ff", "blue"},
	{"#ffff00", "yellow"},
	{"#00ffff", "cyan"},
	{"#ff00ff", "magenta"},
	{"#ffffff", "white"},
	{"#f2bd83", "warm white"},
	{"#e6cbb3", "daylight"},
	{"#ffd3aa", "dawn"},
	{"#ffa54f", "gold"},
	{"#f08080", "rose"},
	{"#f0e68c", "pale yellow"},
	{"#87cefa", "light blue"},
	{"#7b68ee", "violet"},
}

// ColorName returns the palette name of c, or its RGB(r,g,b) form.
func ColorName(c fixture.Color) string {
	hex := c.Hex()
	for _, p := range palette {
		if p.hex == hex {
			return p.name
		}
	}
	return rgbLabel(c.Colorful())
}

func rgbLabel(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("RGB(%d,%d,%d)", r, g, b)
}

// FlatLevel maps a flat fixture's intensity onto 0-255.
func FlatLevel(intensity float64) int {
	return int(math.Min(255, math.Max(0, math.Round(intensity*85))))
}

// Group is one category of fixtures sharing a color or level.
type Group struct {
	Label string `json:"label"`
	IDs   []int  `json:"ids"`
	level int
}

func (g Group) Count() int { return len(g.IDs) }

func (g Group) Rare() bool { return len(g.IDs) <= RareThreshold }

// Section lists the categories of one fixture kind.
type Section struct {
	Kind   fixture.Kind `json:"kind"`
	Title  string       `json:"title"`
	Groups []Group      `json:"groups"`
}

func (s *Section) add(label string, level, id int) {
	for i := range s.Groups {
		if s.Groups[i].Label == label {
			s.Groups[i].IDs = append(s.Groups[i].IDs, id)
			return
		}
	}
	s.Groups = append(s.Groups, Group{Label: label, IDs: []int{id}, level: level})
}

// Summary is the per-category count of a rig. Rare holds the ids of every
// fixture in a category with at most RareThreshold members.
type Summary struct {
	Sections []Section `json:"sections"`
	Rare     []int     `json:"rare"`
}

// Summarize groups RGB pars by exact color, flats by intensity level and
// beams by color name. Sections without fixtures are left out.
func Summarize(fixtures []*fixture.Fixture) Summary {
	sections := []Section{
		{Kind: fixture.RGB, Title: "RGB colors"},
		{Kind: fixture.Flat, Title: "Flat intensity (0-255)"},
		{Kind: fixture.Beam, Title: "Beam colors"},
	}

	for _, f := range fixtures {
		switch f.Kind() {
		case fixture.RGB:
			sections[0].add(rgbLabel(f.Color().Colorful()), 0, f.ID())
		case fixture.Flat:
			level := FlatLevel(f.Intensity())
			sections[1].add(strconv.Itoa(level), level, f.ID())
		case fixture.Beam:
			sections[2].add(ColorName(f.Color()), 0, f.ID())
		}
	}
	slices.SortStableFunc(sections[1].Groups, func(a, b Group) int {
		return cmp.Compare(a.level, b.level)
	})

	var s Summary
	for _, sec := range sections {
		if len(sec.Groups) == 0 {
			continue
		}
		s.Sections = append(s.Sections, sec)
		for _, g := range sec.Groups {
			if g.Rare() {
				s.Rare = append(s.Rare, g.IDs...)
			}
		}
	}
	return s
}

// Line is one row of the photo caption.
type Line struct {
	Text    string
	Heading bool
	Note    bool
}

const rareNote = "* highlighted fixtures have rare settings"

// Lines renders the summary as caption rows.
func (s Summary) Lines() []Line {
	var lines []Line
	for _, sec := range s.Sections {
		lines = append(lines, Line{Text: sec.Title + ":", Heading: true})
		for _, g := range sec.Groups {
			lines = append(lines, Line{Text: fmt.Sprintf("%s: %d", g.Label, g.Count())})
		}
	}
	if len(s.Rare) > 0 {
		lines = append(lines, Line{Text: rareNote, Note: true})
	}
	return lines
}
