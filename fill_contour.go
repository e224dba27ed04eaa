package stitch

import "context"

// cellGrid is a mutable working copy of mask occupancy used by the
// contour and circular fills. Coordinates follow the mask grid.
type cellGrid struct {
	w, h int
	bits []bool
}

func newCellGrid(m *Mask) *cellGrid {
	g := &cellGrid{w: m.Width(), h: m.Height(), bits: make([]bool, m.Width()*m.Height())}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			g.bits[y*g.w+x] = m.At(x, y)
		}
	}
	return g
}

func (g *cellGrid) at(x, y int) bool {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return false
	}
	return g.bits[y*g.w+x]
}

func (g *cellGrid) count() int {
	n := 0
	for _, b := range g.bits {
		if b {
			n++
		}
	}
	return n
}

// erode removes every cell with an unset 4-neighbor, peeling one ring.
func (g *cellGrid) erode() *cellGrid {
	out := &cellGrid{w: g.w, h: g.h, bits: make([]bool, len(g.bits))}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if g.at(x, y) && g.at(x-1, y) && g.at(x+1, y) && g.at(x, y-1) && g.at(x, y+1) {
				out.bits[y*g.w+x] = true
			}
		}
	}
	return out
}

type gridCell struct{ x, y int }

// components labels 4-connected components and returns each as its cell
// set, components ordered by their top-left-most cell for determinism.
func (g *cellGrid) components() [][]gridCell {
	seen := make([]bool, len(g.bits))
	var comps [][]gridCell
	for i, b := range g.bits {
		if !b || seen[i] {
			continue
		}
		// BFS flood fill from the first unseen cell.
		start := gridCell{x: i % g.w, y: i / g.w}
		queue := []gridCell{start}
		seen[i] = true
		var comp []gridCell
		for len(queue) > 0 {
			c := queue[0]
			queue = queue[1:]
			comp = append(comp, c)
			for _, n := range [4]gridCell{{c.x, c.y - 1}, {c.x - 1, c.y}, {c.x + 1, c.y}, {c.x, c.y + 1}} {
				if g.at(n.x, n.y) && !seen[n.y*g.w+n.x] {
					seen[n.y*g.w+n.x] = true
					queue = append(queue, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// mooreOffsets enumerates the 8-neighborhood in clockwise order starting
// from west, for boundary tracing.
var mooreOffsets = [8]gridCell{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// traceBoundary returns the ordered closed boundary of one component using
// Moore-neighbor tracing. The result lists boundary cells clockwise
// starting from the component's top-left-most cell. A single-cell
// component traces to itself.
func traceBoundary(g *cellGrid, comp []gridCell) []gridCell {
	start := comp[0]
	for _, c := range comp {
		if c.y < start.y || (c.y == start.y && c.x < start.x) {
			start = c
		}
	}

	inComp := make(map[gridCell]bool, len(comp))
	for _, c := range comp {
		inComp[c] = true
	}

	// Walk state: current boundary cell plus the outside cell the search
	// resumes from. The walk is deterministic, so the first repeated
	// state closes the boundary cycle.
	type traceState struct {
		cur, back gridCell
	}
	offsetIndex := func(cur, back gridCell) int {
		d := gridCell{x: back.x - cur.x, y: back.y - cur.y}
		for i, o := range mooreOffsets {
			if o == d {
				return i
			}
		}
		return 0
	}

	ring := []gridCell{start}
	// The cell west of the top-left-most cell is always outside.
	state := traceState{cur: start, back: gridCell{x: start.x - 1, y: start.y}}
	seen := map[traceState]bool{state: true}

	for {
		bi := offsetIndex(state.cur, state.back)
		next := state
		found := false
		for i := 1; i <= 8; i++ {
			k := (bi + i) % 8
			cand := gridCell{x: state.cur.x + mooreOffsets[k].x, y: state.cur.y + mooreOffsets[k].y}
			if inComp[cand] {
				prev := gridCell{
					x: state.cur.x + mooreOffsets[(bi+i-1)%8].x,
					y: state.cur.y + mooreOffsets[(bi+i-1)%8].y,
				}
				next = traceState{cur: cand, back: prev}
				found = true
				break
			}
		}
		if !found {
			// Isolated cell.
			break
		}
		if seen[next] {
			break
		}
		seen[next] = true
		ring = append(ring, next.cur)
		state = next
	}
	return ring
}

// contourFill traces the boundary of every connected component, then
// offsets it progressively inward one pixel ring at a time until the
// interior is exhausted (onion peel). Iteration is bounded by half the
// smaller mask dimension; a grid on which erosion makes no progress stops
// early instead of looping.
func contourFill(ctx context.Context, m *Mask) (RawFillGeometry, error) {
	g := newCellGrid(m)

	minDim := m.Width()
	if m.Height() < minDim {
		minDim = m.Height()
	}
	maxIter := (minDim + 1) / 2

	var geom RawFillGeometry
	for iter := 0; iter < maxIter && g.count() > 0; iter++ {
		for _, comp := range g.components() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ring := traceBoundary(g, comp)
			line := make(Polyline, 0, len(ring)+1)
			for _, c := range ring {
				line = append(line, m.CellCenter(c.x, c.y))
			}
			if len(ring) > 2 && line[len(line)-1] != line[0] {
				// Close the ring.
				line = append(line, line[0])
			}
			geom = append(geom, line)
		}

		eroded := g.erode()
		if eroded.count() >= g.count() {
			// No further erosion possible.
			break
		}
		g = eroded
	}
	return geom, nil
}
