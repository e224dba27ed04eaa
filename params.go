package stitch

import (
	"fmt"
	"math"
)

// FillStyle selects the fill strategy for a partition.
// The zero value is AutoFill.
type FillStyle uint8

const (
	// AutoFill is a row-based scan fill that merges adjacent short
	// segments separated by sub-pixel gaps to avoid spurious jumps.
	AutoFill FillStyle = iota

	// LegacyFill is the row-based scan fill without segment merging,
	// reproducing the older behavior bit-for-bit for previously saved
	// designs.
	LegacyFill

	// CircularFill stitches concentric closed rings from the outside of
	// the masked area inward.
	CircularFill

	// ContourFill traces the boundary of each connected component and
	// offsets it progressively inward (onion peel).
	ContourFill

	// SpiralCW stitches a single continuous spiral, sweeping clockwise.
	SpiralCW

	// SpiralCCW stitches a single continuous spiral, sweeping
	// counter-clockwise. SpiralCW and SpiralCCW are mirror images of each
	// other for identical masks.
	SpiralCCW

	// RandomFill covers the mask at AutoFill density but stitches the
	// segments in a deterministic pseudo-random order seeded from the
	// mask content.
	RandomFill

	// ManualPath passes the user-drawn path through unchanged, after
	// validating that it stays on (or within pull compensation of) the
	// masked area.
	ManualPath
)

var fillStyleNames = map[FillStyle]string{
	AutoFill:     "auto_fill",
	LegacyFill:   "legacy_fill",
	CircularFill: "circular_fill",
	ContourFill:  "contour_fill",
	SpiralCW:     "spiral_cw",
	SpiralCCW:    "spiral_ccw",
	RandomFill:   "random",
	ManualPath:   "manual_path",
}

// String returns the canonical name of the style, as used in design files.
func (s FillStyle) String() string {
	if name, ok := fillStyleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("FillStyle(%d)", uint8(s))
}

// ParseFillStyle converts a design-file style name to a FillStyle.
func ParseFillStyle(name string) (FillStyle, error) {
	for s, n := range fillStyleNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("stitch: unknown fill style %q: %w", name, ErrConfiguration)
}

// FillParameters selects and tunes the fill strategy for one partition.
type FillParameters struct {
	// Style selects the fill strategy.
	Style FillStyle

	// OddRowAngle and EvenRowAngle rotate the scan lines of angle-aware
	// fills, in degrees. Distinct values produce a cross-hatch texture on
	// alternating rows.
	OddRowAngle  float64
	EvenRowAngle float64

	// Underlay requests a sparse stabilizing fill stitched beneath the
	// main fill.
	Underlay bool

	// Manual holds the user-drawn path for ManualPath, in partition-local
	// millimetres. Ignored by the generated styles.
	Manual Polyline
}

// DefaultFillParameters returns the parameter values new partitions start
// with: contour fill, 0/90 degree cross-hatch angles, underlay enabled.
func DefaultFillParameters() FillParameters {
	return FillParameters{
		Style:        ContourFill,
		OddRowAngle:  0,
		EvenRowAngle: 90,
		Underlay:     true,
	}
}

// Constraints describes the machine limits a stitch path must satisfy.
type Constraints struct {
	// MaxStitchLength is the longest allowed stitch, in millimetres.
	// Must be positive.
	MaxStitchLength float64

	// MinJumpLength is the travel-distance threshold below which two
	// segment endpoints are connected with ordinary travel stitches
	// instead of a thread jump. Must be non-negative. It is a policy
	// threshold, not required to be <= MaxStitchLength: travel runs are
	// themselves subdivided so they never exceed MaxStitchLength.
	MinJumpLength float64

	// PullCompensation offsets fill stitch endpoints perpendicular to the
	// travel direction to pre-compensate fabric contraction, in
	// millimetres. Must be non-negative. Never applied to travel or jump
	// stitches, which must stay geometrically exact.
	PullCompensation float64
}

// DefaultConstraints returns permissive machine limits suitable for
// previews: long stitches, no forced jumps, no compensation.
func DefaultConstraints() Constraints {
	return Constraints{MaxStitchLength: 1000}
}

// Validate checks the constraint values. All violations are reported as
// ErrConfiguration before any geometry is generated.
func (c Constraints) Validate() error {
	if math.IsNaN(c.MaxStitchLength) || c.MaxStitchLength <= 0 {
		return fmt.Errorf("stitch: max stitch length must be > 0, got %v: %w",
			c.MaxStitchLength, ErrConfiguration)
	}
	if math.IsNaN(c.MinJumpLength) || c.MinJumpLength < 0 {
		return fmt.Errorf("stitch: min jump stitch length must be >= 0, got %v: %w",
			c.MinJumpLength, ErrConfiguration)
	}
	if math.IsNaN(c.PullCompensation) || c.PullCompensation < 0 {
		return fmt.Errorf("stitch: pull compensation must be >= 0, got %v: %w",
			c.PullCompensation, ErrConfiguration)
	}
	return nil
}
