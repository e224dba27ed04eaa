package stitch

import (
	"context"
	"fmt"
	"math"
)

// PathBuilder turns raw fill geometry into a stitch path that satisfies
// the machine constraints: stitches no longer than the maximum, pull
// compensation on fill stitches, travel ordering that approximately
// minimizes thread movement, and jump markers where travel distance
// exceeds the jump threshold.
//
// A PathBuilder is immutable after construction and safe for concurrent
// use.
type PathBuilder struct {
	cons Constraints
	eps  float64
}

// NewPathBuilder validates the constraints and returns a builder.
// Invalid constraints are rejected here, before any geometry is generated.
func NewPathBuilder(cons Constraints) (*PathBuilder, error) {
	if err := cons.Validate(); err != nil {
		return nil, err
	}
	return &PathBuilder{cons: cons, eps: 1e-6}, nil
}

// newPathBuilderEps is the engine entry point with a configurable
// degenerate-stitch epsilon.
func newPathBuilderEps(cons Constraints, eps float64) (*PathBuilder, error) {
	b, err := NewPathBuilder(cons)
	if err != nil {
		return nil, err
	}
	b.eps = eps
	return b, nil
}

// Build produces the stitch path for the given geometry.
//
// start is the deterministic entry hint: the polyline endpoint nearest to
// it becomes the first stitch. Callers computing from a mask pass the
// centre of the top-left-most stitched pixel; Pt(0, 0) is a reasonable
// default otherwise.
//
// The path visits every polyline exactly once, fully. Empty geometry
// yields an empty path and no error. A polyline that is empty after
// deduplication is ErrGeometry; single-point polylines are legal and
// become one tack stitch.
func (b *PathBuilder) Build(ctx context.Context, geom RawFillGeometry, start Point) (StitchPath, error) {
	lines := make([]Polyline, 0, len(geom))
	for i, raw := range geom {
		line := raw.Dedup(b.eps)
		if len(line) == 0 {
			return nil, fmt.Errorf("stitch: polyline %d has no points after deduplication: %w",
				i, ErrGeometry)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	var path StitchPath
	visited := make([]bool, len(lines))
	cur := start
	first := true

	for range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idx, reversed := b.nearestOpenEndpoint(lines, visited, cur)
		visited[idx] = true
		line := lines[idx]
		if reversed {
			line = line.Reverse()
		}

		entry := line[0]
		if first {
			path = append(path, StitchPoint{Pos: entry})
			first = false
		} else {
			path = b.appendConnection(path, cur, entry)
		}
		path = b.appendFill(path, line)
		cur = path[len(path)-1].Pos
	}
	return path, nil
}

// nearestOpenEndpoint implements the greedy nearest-open-endpoint
// heuristic: among all endpoints of unvisited polylines, pick the one
// closest to cur. Ties are broken by generation order (lower index, start
// endpoint before end endpoint) so repeated runs produce identical paths.
func (b *PathBuilder) nearestOpenEndpoint(lines []Polyline, visited []bool, cur Point) (idx int, reversed bool) {
	best := math.Inf(1)
	idx = -1
	for i, line := range lines {
		if visited[i] {
			continue
		}
		if d := cur.Distance(line[0]); d < best {
			best, idx, reversed = d, i, false
		}
		if len(line) > 1 {
			if d := cur.Distance(line[len(line)-1]); d < best {
				best, idx, reversed = d, i, true
			}
		}
	}
	return idx, reversed
}

// appendConnection emits the stitches connecting cur to the entry point of
// the next polyline. Travel within the jump threshold is stitched down,
// subdivided like any other segment; anything longer becomes a single
// needle-lift move. Connection stitches are geometrically exact: pull
// compensation never applies to them.
func (b *PathBuilder) appendConnection(path StitchPath, cur, entry Point) StitchPath {
	d := cur.Distance(entry)
	switch {
	case d <= b.eps:
		// Continuous: the previous polyline ends where the next begins.
		return path
	case d <= b.cons.MinJumpLength:
		n := int(math.Ceil(d / b.cons.MaxStitchLength))
		if n < 1 {
			n = 1
		}
		for s := 1; s <= n; s++ {
			path = append(path, StitchPoint{Pos: cur.Lerp(entry, float64(s)/float64(n))})
		}
		return path
	default:
		return append(path, StitchPoint{Pos: entry, Jump: true})
	}
}

// appendFill emits the fill stitches of one polyline, assuming its first
// vertex has already been emitted (as the path start or as the terminus of
// a connection). Every original vertex is kept — a deliberate direction
// change is never skipped — and each segment is subdivided into equal
// stitches no longer than the maximum. Pull compensation offsets each
// emitted stitch perpendicular to its travel direction.
func (b *PathBuilder) appendFill(path StitchPath, line Polyline) StitchPath {
	comp := b.cons.PullCompensation
	limit := b.cons.MaxStitchLength
	var prevOff Point
	for i := 1; i < len(line); i++ {
		seg := line[i].Sub(line[i-1])
		length := seg.Length()
		if length <= b.eps {
			continue
		}
		var offset Point
		if comp > 0 {
			offset = seg.Normalize().Perp().Mul(comp)
		}
		// The first stitch of a segment also carries the change in
		// compensation offset relative to the previously emitted point, so
		// it gets a reduced length budget. An offset change too large for
		// any budget is stitched out as its own perpendicular move first.
		step := limit
		if d := offset.Sub(prevOff).Length(); d > b.eps {
			if d < limit/2 {
				step = math.Sqrt(limit*limit - d*d)
			} else {
				from := line[i-1].Add(prevOff)
				to := line[i-1].Add(offset)
				m := int(math.Ceil(d / limit))
				for s := 1; s <= m; s++ {
					path = append(path, StitchPoint{Pos: from.Lerp(to, float64(s)/float64(m))})
				}
			}
		}
		n := int(math.Ceil(length / step))
		if n < 1 {
			n = 1
		}
		for s := 1; s <= n; s++ {
			p := line[i-1].Lerp(line[i], float64(s)/float64(n))
			path = append(path, StitchPoint{Pos: p.Add(offset)})
		}
		prevOff = offset
	}
	return path
}

// joinPaths appends next to path, applying the connection rule between the
// last point of path and the first point of next. Used when concatenating
// underlay before main fill and partition paths within a layer.
func (b *PathBuilder) joinPaths(path, next StitchPath) StitchPath {
	if len(next) == 0 {
		return path
	}
	if len(path) == 0 {
		return append(path, next...)
	}
	cur := path[len(path)-1].Pos
	entry := next[0].Pos
	if cur.Distance(entry) <= b.eps {
		return append(path, next[1:]...)
	}
	path = b.appendConnection(path, cur, entry)
	return append(path, next[1:]...)
}
