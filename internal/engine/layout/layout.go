// Package layout picks the model placement for a viewport width.
package layout

import (
	"errors"
	"fmt"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

// ErrInvalidTable is returned by Validate for malformed breakpoint tables.
var ErrInvalidTable = errors.New("invalid layout table")

// Band names a breakpoint band.
type Band string

const (
	Small  Band = "small"
	Medium Band = "medium"
	Large  Band = "large"
)

// Placement is the model group transform for a band.
type Placement struct {
	Position math.Vec3
	Scale    float32
}

// Breakpoint applies to widths strictly below MaxWidth. The last entry of a
// table has MaxWidth 0 and catches every remaining width.
type Breakpoint struct {
	Band      Band
	MaxWidth  int
	Placement Placement
}

// Table is an ordered list of breakpoints.
type Table []Breakpoint

// DefaultTable returns the shipped bands: below 768 small, below 1200
// medium, otherwise large.
func DefaultTable() Table {
	return Table{
		{Band: Small, MaxWidth: 768, Placement: Placement{Position: math.Vec3{Y: -1.5}, Scale: 0.6}},
		{Band: Medium, MaxWidth: 1200, Placement: Placement{Position: math.Vec3{Y: -2}, Scale: 0.8}},
		{Band: Large, Placement: Placement{Position: math.Vec3{Y: -2}, Scale: 1}},
	}
}

// Select returns the breakpoint for width.
func (t Table) Select(width int) Breakpoint {
	for _, bp := range t {
		if bp.MaxWidth <= 0 || width < bp.MaxWidth {
			return bp
		}
	}
	if len(t) == 0 {
		return Breakpoint{Band: Large, Placement: Placement{Scale: 1}}
	}
	return t[len(t)-1]
}

// Validate checks that widths strictly increase, only the last entry is
// open-ended and every scale is positive.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no breakpoints", ErrInvalidTable)
	}
	prev := 0
	for i, bp := range t {
		last := i == len(t)-1
		switch {
		case bp.Band == "":
			return fmt.Errorf("%w: breakpoint %d has no band name", ErrInvalidTable, i)
		case !last && bp.MaxWidth <= prev:
			return fmt.Errorf("%w: breakpoint %q max width %d must exceed %d", ErrInvalidTable, bp.Band, bp.MaxWidth, prev)
		case last && bp.MaxWidth != 0:
			return fmt.Errorf("%w: last breakpoint %q must be open-ended", ErrInvalidTable, bp.Band)
		case !(bp.Placement.Scale > 0) || !math.IsFinite(float64(bp.Placement.Scale)):
			return fmt.Errorf("%w: breakpoint %q scale %v", ErrInvalidTable, bp.Band, bp.Placement.Scale)
		case !bp.Placement.Position.IsFinite():
			return fmt.Errorf("%w: breakpoint %q position %v", ErrInvalidTable, bp.Band, bp.Placement.Position)
		}
		prev = bp.MaxWidth
	}
	return nil
}
