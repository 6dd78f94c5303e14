// Package point defines the analysis point entity and its validation rules.
//
// An analysis point records one target location for the laser-ablation
// instrument: integer pixel coordinates in the currently loaded image,
// a spot diameter, the pixels-per-micron scale in force when the point
// was placed, and free-text sample metadata.
package point

import (
	"errors"
	"fmt"
	"strings"
)

// Label classifies an analysis point.
type Label string

const (
	// LabelRefMark marks a reference point used for recoordination.
	LabelRefMark Label = "RefMark"
	// LabelSpot marks an ordinary analysis target.
	LabelSpot Label = "Spot"
)

// ErrInvalidLabel is returned when a label is neither RefMark nor Spot.
var ErrInvalidLabel = errors.New("invalid label")

// ParseLabel normalises a user- or file-supplied label string.
// Matching is case-insensitive to aid hand-edited files.
func ParseLabel(s string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REFMARK":
		return LabelRefMark, nil
	case "SPOT":
		return LabelSpot, nil
	default:
		return "", fmt.Errorf("%w: %q (use 'Spot' or 'RefMark')", ErrInvalidLabel, s)
	}
}

// Point is one annotated location. The ID is assigned by the registry and
// never changes once set, except through the registry's bulk ID reset.
type Point struct {
	ID         int     `json:"id"`
	Label      Label   `json:"label"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Diameter   int     `json:"diameter"`
	Scale      float64 `json:"scale"`
	Colour     string  `json:"colour"`
	SampleName string  `json:"sample_name"`
	MountName  string  `json:"mount_name"`
	Material   string  `json:"material"`
	Notes      string  `json:"notes"`
}

// Validate checks the invariants every stored point must satisfy.
func (p Point) Validate() error {
	if _, err := ParseLabel(string(p.Label)); err != nil {
		return err
	}
	if p.Diameter <= 0 {
		return fmt.Errorf("diameter must be positive, got %d", p.Diameter)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", p.Scale)
	}
	return nil
}

// MetadataSentinel is the placeholder recorded for absent free-text fields.
const MetadataSentinel = "None"

// Settings holds the current default values applied to newly placed or
// imported points. It is threaded into each operation explicitly rather
// than kept as ambient state.
type Settings struct {
	Label      Label   `json:"label" toml:"label"`
	Diameter   int     `json:"diameter" toml:"diameter"`
	Scale      float64 `json:"scale" toml:"scale"`
	Colour     string  `json:"colour" toml:"colour"`
	SampleName string  `json:"sample_name" toml:"sample_name"`
	MountName  string  `json:"mount_name" toml:"mount_name"`
	Material   string  `json:"material" toml:"material"`
}

// DefaultSettings returns the settings in force before the user changes
// anything.
func DefaultSettings() Settings {
	return Settings{
		Label:      LabelRefMark,
		Diameter:   10,
		Scale:      1.0,
		Colour:     "#ffff00",
		SampleName: MetadataSentinel,
		MountName:  MetadataSentinel,
		Material:   MetadataSentinel,
	}
}

// NewPoint builds an unregistered point at (x, y) from the given settings.
// The registry assigns the ID on insertion.
func (s Settings) NewPoint(x, y int) Point {
	return Point{
		Label:      s.Label,
		X:          x,
		Y:          y,
		Diameter:   s.Diameter,
		Scale:      s.Scale,
		Colour:     s.Colour,
		SampleName: s.SampleName,
		MountName:  s.MountName,
		Material:   s.Material,
	}
}
