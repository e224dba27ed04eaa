package stitch

import (
	"context"
	"math"
)

// coverRadius returns the largest distance from center to any corner of a
// stitched cell, i.e. the radius a ring family or spiral must reach to
// cover the whole mask.
func coverRadius(m *Mask, center Point) float64 {
	pw, ph := m.PixelWidth(), m.PixelHeight()
	var maxR float64
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if !m.At(x, y) {
				continue
			}
			for _, c := range [4]Point{
				{float64(x) * pw, float64(y) * ph},
				{float64(x+1) * pw, float64(y) * ph},
				{float64(x) * pw, float64(y+1) * ph},
				{float64(x+1) * pw, float64(y+1) * ph},
			} {
				if d := c.Distance(center); d > maxR {
					maxR = d
				}
			}
		}
	}
	return maxR
}

// splitInside cuts a sampled curve into the sub-polylines that lie on
// stitched cells.
func splitInside(m *Mask, samples Polyline) []Polyline {
	var out []Polyline
	var cur Polyline
	for _, p := range samples {
		if m.ContainsMM(p) {
			cur = append(cur, p)
		} else if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// circularFill produces concentric closed rings around the fill centroid,
// spaced one PixelHeight apart and clipped to the mask, worked from the
// outside inward. A single-pixel mask yields exactly one ring.
func circularFill(ctx context.Context, m *Mask) (RawFillGeometry, error) {
	center := m.Centroid()
	step := m.PixelHeight()
	maxR := coverRadius(m, center)

	var radii []float64
	for r := maxR - step/2; r > 0; r -= step {
		radii = append(radii, r)
	}
	if len(radii) == 0 {
		// Mask smaller than one ring spacing: one degenerate ring.
		radii = append(radii, maxR/2)
	}

	arcStep := math.Min(m.PixelWidth(), m.PixelHeight()) / 2

	var geom RawFillGeometry
	for _, r := range radii {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := int(math.Ceil(2 * math.Pi * r / arcStep))
		if n < 8 {
			n = 8
		}
		samples := make(Polyline, 0, n+1)
		for i := 0; i <= n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			samples = append(samples, Point{
				X: center.X + r*math.Cos(a),
				Y: center.Y + r*math.Sin(a),
			})
		}
		geom = append(geom, splitInside(m, samples)...)
	}
	return geom, nil
}
