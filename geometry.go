package stitch

// Polyline is an ordered sequence of points in millimetres.
// Fill strategies produce polylines in partition-local coordinates and the
// engine maps them to world coordinates before stitch generation.
type Polyline []Point

// Length returns the total arc length of the polyline.
func (p Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += p[i-1].Distance(p[i])
	}
	return total
}

// Dedup returns a copy of the polyline with consecutive points closer
// than tol collapsed into one. The first occurrence wins.
func (p Polyline) Dedup(tol float64) Polyline {
	if len(p) == 0 {
		return nil
	}
	out := make(Polyline, 0, len(p))
	out = append(out, p[0])
	for _, pt := range p[1:] {
		if pt.Distance(out[len(out)-1]) > tol {
			out = append(out, pt)
		}
	}
	return out
}

// Reverse returns a reversed copy of the polyline.
func (p Polyline) Reverse() Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Transform returns a copy of the polyline with m applied to every point.
func (p Polyline) Transform(m Matrix) Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[i] = m.TransformPoint(pt)
	}
	return out
}

// RawFillGeometry is the unconstrained output of a fill strategy: an
// ordered collection of disjoint polylines covering the masked area.
// It is produced fresh per computation and consumed by exactly one
// PathBuilder call; nothing retains it afterwards.
type RawFillGeometry []Polyline

// Transform applies m to every polyline.
func (g RawFillGeometry) Transform(m Matrix) RawFillGeometry {
	if m.IsIdentity() {
		return g
	}
	out := make(RawFillGeometry, len(g))
	for i, line := range g {
		out[i] = line.Transform(m)
	}
	return out
}

// TotalLength returns the summed arc length of all polylines.
func (g RawFillGeometry) TotalLength() float64 {
	var total float64
	for _, line := range g {
		total += line.Length()
	}
	return total
}
