// Package document converts a rig to and from the scene file format: a JSON
// array with one record per fixture.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed scene file")

// EulerOrder is the only rotation order scene files use.
const EulerOrder = "XYZ"

// Record is one fixture in a scene file.
type Record struct {
	Type        string     `json:"type"`
	Position    [3]float64 `json:"position"`
	Rotation    Rotation   `json:"rotation"`
	Color       int        `json:"color"`
	Intensity   float64    `json:"intensity"`
	Angle       *float64   `json:"angle,omitempty"`
	FocalLength *float64   `json:"focalLength,omitempty"`
	BeamLength  *float64   `json:"beamLength,omitempty"`
}

// Rotation is an XYZ Euler rotation in radians. It decodes both [x, y, z] and
// the renderer's [x, y, z, "XYZ"] form and always encodes the short form.
type Rotation [3]float64

func (r *Rotation) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 && len(raw) != 4 {
		return fmt.Errorf("rotation needs 3 angles, got %d elements", len(raw))
	}
	for i := 0; i < 3; i++ {
		if err := json.Unmarshal(raw[i], &r[i]); err != nil {
			return fmt.Errorf("rotation[%d]: %w", i, err)
		}
	}
	if len(raw) == 4 {
		var order string
		if err := json.Unmarshal(raw[3], &order); err != nil {
			return fmt.Errorf("rotation order: %w", err)
		}
		if order != EulerOrder {
			return fmt.Errorf("unsupported rotation order %q", order)
		}
	}
	return nil
}

func (r Rotation) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64(r))
}

// Parse decodes a scene file. Any decode failure wraps ErrMalformed.
func Parse(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: expected an array of fixtures", ErrMalformed)
	}
	return records, nil
}

func float64Ptr(v float64) *float64 {
	return &v
}
