package stitch

// StitchPoint is one needle penetration point in world millimetres.
type StitchPoint struct {
	Pos Point

	// Jump marks "lift the needle before moving here": the machine
	// travels from the previous point without laying thread.
	Jump bool
}

// StitchPath is an ordered sequence of needle penetration points.
// It is immutable once returned by the engine; rendering and export
// collaborators must not mutate it.
type StitchPath []StitchPoint

// Jumps returns the number of jump stitches in the path.
func (p StitchPath) Jumps() int {
	n := 0
	for _, sp := range p {
		if sp.Jump {
			n++
		}
	}
	return n
}

// Bounds returns the axis-aligned bounding box of the path.
// ok is false for an empty path.
func (p StitchPath) Bounds() (min, max Point, ok bool) {
	if len(p) == 0 {
		return Point{}, Point{}, false
	}
	min, max = p[0].Pos, p[0].Pos
	for _, sp := range p[1:] {
		if sp.Pos.X < min.X {
			min.X = sp.Pos.X
		}
		if sp.Pos.Y < min.Y {
			min.Y = sp.Pos.Y
		}
		if sp.Pos.X > max.X {
			max.X = sp.Pos.X
		}
		if sp.Pos.Y > max.Y {
			max.Y = sp.Pos.Y
		}
	}
	return min, max, true
}

// ThreadLength returns the length of thread laid by non-jump moves.
func (p StitchPath) ThreadLength() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		if !p[i].Jump {
			total += p[i-1].Pos.Distance(p[i].Pos)
		}
	}
	return total
}
