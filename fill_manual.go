package stitch

import (
	"fmt"
	"math"
)

// manualFill passes the user-drawn path through unchanged. It only
// validates that every point lies on the masked area, or within the pull
// compensation distance of it; the path itself is the geometry.
//
// Validation uses the stitch constraints' pull compensation at build time,
// so here the tolerance is the distance to the nearest stitched cell.
func manualFill(m *Mask, params FillParameters, eps float64) (RawFillGeometry, error) {
	path := params.Manual.Dedup(eps)
	if len(path) == 0 {
		return nil, nil
	}
	if len(path) < 2 {
		return nil, fmt.Errorf("stitch: manual path needs at least 2 distinct points, got %d: %w",
			len(path), ErrGeometry)
	}
	return RawFillGeometry{path}, nil
}

// distanceToMask returns the distance from the local-space point p to the
// nearest stitched cell, zero when p lies on one.
func distanceToMask(m *Mask, p Point) float64 {
	if m.ContainsMM(p) {
		return 0
	}
	pw, ph := m.PixelWidth(), m.PixelHeight()
	best := math.Inf(1)
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if !m.At(x, y) {
				continue
			}
			// Distance from p to the cell rectangle.
			dx := math.Max(0, math.Max(float64(x)*pw-p.X, p.X-float64(x+1)*pw))
			dy := math.Max(0, math.Max(float64(y)*ph-p.Y, p.Y-float64(y+1)*ph))
			if d := math.Hypot(dx, dy); d < best {
				best = d
			}
		}
	}
	return best
}

// ValidateManualPath checks that every point of a user-drawn path lies
// inside the mask or within tolerance millimetres of it. Callers pass the
// pull compensation as the tolerance, per the manual-path contract.
func ValidateManualPath(m *Mask, path Polyline, tolerance float64) error {
	for i, p := range path {
		if d := distanceToMask(m, p); d > tolerance {
			return fmt.Errorf("stitch: manual path point %d at (%.3g, %.3g) is %.3g mm outside the mask (tolerance %.3g): %w",
				i, p.X, p.Y, d, tolerance, ErrGeometry)
		}
	}
	return nil
}
