// Package fixture models the three light fixtures the editor places on a rig:
// flat wash lights, RGB pars and moving beam lights.
package fixture

import (
	"math"
	"strings"
)

// Kind is the closed set of fixture variants.
type Kind string

const (
	Flat Kind = "flat"
	RGB  Kind = "rgb"
	Beam Kind = "beam"
)

// Kinds lists every kind in panel order.
var Kinds = []Kind{RGB, Flat, Beam}

// ParseKind maps a kind token ("flat", "rgb", "beam") to a Kind. Matching
// ignores case. Unknown tokens return false.
func ParseKind(token string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(token))) {
	case Flat:
		return Flat, true
	case RGB:
		return RGB, true
	case Beam:
		return Beam, true
	}
	return "", false
}

// KindFromTypeName maps a scene file type ("FlatLight") to a Kind.
func KindFromTypeName(name string) (Kind, bool) {
	return ParseKind(strings.TrimSuffix(name, "Light"))
}

// TypeName is the type tag used in scene files.
func (k Kind) TypeName() string {
	switch k {
	case Flat:
		return "FlatLight"
	case RGB:
		return "RGBLight"
	case Beam:
		return "BeamLight"
	}
	return ""
}

func (k Kind) String() string {
	return string(k)
}

// Defaults holds the per-kind starting values.
type Defaults struct {
	Color Color
	// BaseIntensity is set at construction; AddIntensity when placed on a rig.
	BaseIntensity float64
	AddIntensity  float64
	Angle         float64
	Penumbra      float64
	// MinIntensity and MaxIntensity bound the panel slider.
	MinIntensity float64
	MaxIntensity float64
	// PickRadius is the bounding sphere radius used for click picking.
	PickRadius float64
}

const (
	DefaultFocalLength    = 10.0
	MinFocalLength        = 1.0
	MaxFocalLength        = 20.0
	DefaultStageBoundaryY = -50.0

	MinBeamAngle = 0.1
	MaxBeamAngle = 0.4
	MinFlatAngle = 0.01
	MaxFlatAngle = math.Pi / 2
)

// DefaultsFor returns the starting values for a kind.
func DefaultsFor(k Kind) Defaults {
	switch k {
	case Flat:
		return Defaults{
			Color:         0xf2bd83,
			BaseIntensity: 2,
			AddIntensity:  1.5,
			Angle:         math.Pi / 8,
			Penumbra:      1,
			MinIntensity:  0,
			MaxIntensity:  2,
			PickRadius:    0.8,
		}
	case RGB:
		return Defaults{
			Color:         0xff0000,
			BaseIntensity: 2,
			AddIntensity:  1.5,
			Angle:         math.Pi / 8,
			Penumbra:      0.5,
			MinIntensity:  0,
			MaxIntensity:  1,
			PickRadius:    0.4,
		}
	case Beam:
		return Defaults{
			Color:         0x00ffff,
			BaseIntensity: 5,
			AddIntensity:  25,
			Angle:         math.Pi / 8,
			Penumbra:      0.8,
			MinIntensity:  0,
			MaxIntensity:  3,
			PickRadius:    0.5,
		}
	}
	return Defaults{}
}
