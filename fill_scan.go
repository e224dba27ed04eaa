package stitch

import (
	"context"
	"math"
)

// span is a parametric interval [t0, t1] along a scan line where the line
// runs through stitched cells.
type span struct {
	t0, t1 float64
}

// scanLine is one scan row: the line origin/direction and the mask spans
// along it.
type scanLine struct {
	origin Point // point on the line at t=0
	dir    Point // unit direction
	spans  []span
}

// scanFill produces the row-based fills (AutoFill, LegacyFill). Rows are
// spaced one PixelHeight apart along the scan normal. Alternating rows use
// OddRowAngle and EvenRowAngle; when the two angles are equal this is a
// plain parallel fill. mergeGap > 0 bridges gaps shorter than mergeGap
// millimetres within a row (AutoFill); mergeGap == 0 keeps every run as its
// own segment (LegacyFill).
func scanFill(ctx context.Context, m *Mask, params FillParameters, mergeGap float64) (RawFillGeometry, error) {
	evenRows := scanRows(m, params.EvenRowAngle, m.PixelHeight())
	rows := evenRows
	if params.OddRowAngle != params.EvenRowAngle {
		oddRows := scanRows(m, params.OddRowAngle, m.PixelHeight())
		rows = interleaveRows(evenRows, oddRows)
	}

	var geom RawFillGeometry
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spans := row.spans
		if mergeGap > 0 {
			spans = mergeSpans(spans, mergeGap)
		}
		for _, s := range spans {
			line := Polyline{
				row.origin.Add(row.dir.Mul(s.t0)),
				row.origin.Add(row.dir.Mul(s.t1)),
			}
			// Serpentine: alternate direction so consecutive rows
			// meet at nearby endpoints.
			if len(geom)%2 == 1 {
				line = line.Reverse()
			}
			geom = append(geom, line)
		}
	}
	return geom, nil
}

// interleaveRows picks even-indexed rows from the even family and
// odd-indexed rows from the odd family, preserving row order. This is what
// produces the cross-hatch texture for distinct angles.
func interleaveRows(even, odd []scanLine) []scanLine {
	n := len(even)
	if len(odd) > n {
		n = len(odd)
	}
	out := make([]scanLine, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 && i < len(even) {
			out = append(out, even[i])
		} else if i%2 == 1 && i < len(odd) {
			out = append(out, odd[i])
		}
	}
	return out
}

// scanRows intersects a family of parallel scan lines at the given angle
// (degrees) with the mask. Rows are spaced `spacing` millimetres apart,
// offset half a row so that axis-aligned scans pass through pixel centres.
func scanRows(m *Mask, angleDeg, spacing float64) []scanLine {
	theta := angleDeg * math.Pi / 180
	dir := Point{X: math.Cos(theta), Y: math.Sin(theta)}
	normal := dir.Perp()

	w, h := m.SizeMM()
	corners := [4]Point{{0, 0}, {w, 0}, {0, h}, {w, h}}
	cmin, cmax := math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		d := c.Dot(normal)
		cmin = math.Min(cmin, d)
		cmax = math.Max(cmax, d)
	}

	var rows []scanLine
	for j := 0; ; j++ {
		c := cmin + (float64(j)+0.5)*spacing
		if c >= cmax {
			break
		}
		origin := normal.Mul(c)
		t0, t1, ok := clipToRect(origin, dir, w, h)
		if !ok {
			continue
		}
		spans := traverseSpans(m, origin, dir, t0, t1)
		if len(spans) == 0 {
			continue
		}
		rows = append(rows, scanLine{origin: origin, dir: dir, spans: spans})
	}
	return rows
}

// clipToRect clips the parametric line origin + t*dir against the rectangle
// [0,w] x [0,h] using the slab method, returning the visible t interval.
func clipToRect(origin, dir Point, w, h float64) (t0, t1 float64, ok bool) {
	t0, t1 = math.Inf(-1), math.Inf(1)

	clipAxis := func(o, d, lo, hi float64) bool {
		if d == 0 {
			return o >= lo && o <= hi
		}
		ta := (lo - o) / d
		tb := (hi - o) / d
		if ta > tb {
			ta, tb = tb, ta
		}
		t0 = math.Max(t0, ta)
		t1 = math.Min(t1, tb)
		return t0 <= t1
	}

	if !clipAxis(origin.X, dir.X, 0, w) || !clipAxis(origin.Y, dir.Y, 0, h) {
		return 0, 0, false
	}
	return t0, t1, true
}

// traverseSpans walks the line origin + t*dir through the cell grid between
// t0 and t1 and collects the t intervals where it passes through stitched
// cells. Axis-aligned traversals produce exact interval endpoints, which is
// what keeps scan fill segment lengths exact multiples of the pixel size.
func traverseSpans(m *Mask, origin, dir Point, t0, t1 float64) []span {
	pw, ph := m.PixelWidth(), m.PixelHeight()
	w, hgt := m.Width(), m.Height()

	// Start cell from a point nudged inside the interval to avoid
	// boundary ambiguity at t0.
	const nudge = 1e-9
	start := origin.Add(dir.Mul(t0 + nudge*(t1-t0+1)))
	cx := clampInt(int(math.Floor(start.X/pw)), 0, w-1)
	cy := clampInt(int(math.Floor(start.Y/ph)), 0, hgt-1)

	stepX, stepY := 0, 0
	tMaxX, tMaxY := math.Inf(1), math.Inf(1)
	tDeltaX, tDeltaY := math.Inf(1), math.Inf(1)

	if dir.X > 0 {
		stepX = 1
		tMaxX = (float64(cx+1)*pw - origin.X) / dir.X
		tDeltaX = pw / dir.X
	} else if dir.X < 0 {
		stepX = -1
		tMaxX = (float64(cx)*pw - origin.X) / dir.X
		tDeltaX = -pw / dir.X
	}
	if dir.Y > 0 {
		stepY = 1
		tMaxY = (float64(cy+1)*ph - origin.Y) / dir.Y
		tDeltaY = ph / dir.Y
	} else if dir.Y < 0 {
		stepY = -1
		tMaxY = (float64(cy)*ph - origin.Y) / dir.Y
		tDeltaY = -ph / dir.Y
	}

	var spans []span
	runStart := math.NaN()
	t := t0
	for t < t1 {
		next := math.Min(t1, math.Min(tMaxX, tMaxY))
		inside := m.At(cx, cy)
		if inside && math.IsNaN(runStart) {
			runStart = t
		}
		if !inside && !math.IsNaN(runStart) {
			spans = appendSpan(spans, runStart, t)
			runStart = math.NaN()
		}

		t = next
		if t >= t1 {
			break
		}
		if tMaxX <= tMaxY {
			cx += stepX
			tMaxX += tDeltaX
			if cx < 0 || cx >= w {
				break
			}
		} else {
			cy += stepY
			tMaxY += tDeltaY
			if cy < 0 || cy >= hgt {
				break
			}
		}
	}
	if !math.IsNaN(runStart) {
		spans = appendSpan(spans, runStart, t)
	}
	return spans
}

// appendSpan adds a run, skipping runs of (near) zero extent produced by
// lines grazing a cell corner.
func appendSpan(spans []span, t0, t1 float64) []span {
	if t1-t0 < 1e-9 {
		return spans
	}
	return append(spans, span{t0: t0, t1: t1})
}

// mergeSpans bridges gaps shorter than gap millimetres between consecutive
// spans of one row.
func mergeSpans(spans []span, gap float64) []span {
	if len(spans) < 2 {
		return spans
	}
	out := make([]span, 1, len(spans))
	out[0] = spans[0]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.t0-last.t1 < gap {
			last.t1 = s.t1
		} else {
			out = append(out, s)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
