package stitch

import (
	"context"
	"math"
)

// spiralFill produces a single continuous Archimedean spiral from the fill
// centroid outward, with a radial step of one PixelHeight per turn, sampled
// finely and clipped to the mask. The sweep starts pointing straight up so
// that the clockwise and counter-clockwise variants are exact mirror images
// about the mask's vertical axis.
func spiralFill(ctx context.Context, m *Mask, clockwise bool) (RawFillGeometry, error) {
	center := m.Centroid()
	step := m.PixelHeight()
	maxR := coverRadius(m, center)

	arcStep := math.Min(m.PixelWidth(), m.PixelHeight()) / 2
	phiMax := 2 * math.Pi * maxR / step

	samples := Polyline{center}
	for phi := 0.0; phi < phiMax; {
		r := step * phi / (2 * math.Pi)
		// Advance by roughly arcStep of arc length; near the centre the
		// radius is tiny, so clamp the divisor to keep steps finite.
		dphi := arcStep / math.Max(r, arcStep)
		phi += dphi
		if phi > phiMax {
			phi = phiMax
		}
		r = step * phi / (2 * math.Pi)

		angle := math.Pi/2 + phi
		if clockwise {
			angle = math.Pi/2 - phi
		}
		samples = append(samples, Point{
			X: center.X + r*math.Cos(angle),
			Y: center.Y + r*math.Sin(angle),
		})

		if len(samples)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return splitInside(m, samples), nil
}
