package stitch

import (
	"context"
	"math"
	"testing"
)

func TestCircularFillSingleCell(t *testing.T) {
	m := mustMask(t, "#", SquarePixels(1))
	geom, err := GenerateFill(context.Background(), m, FillParameters{Style: CircularFill})
	if err != nil {
		t.Fatal(err)
	}
	if len(geom) != 1 {
		t.Fatalf("got %d rings, want exactly 1", len(geom))
	}
	ring := geom[0]
	if len(ring) < 8 {
		t.Fatalf("ring has %d samples, want at least 8", len(ring))
	}
	if !ring[0].Approx(ring[len(ring)-1], 1e-9) {
		t.Error("ring is not closed")
	}
	center := Pt(0.5, 0.5)
	for i, p := range ring {
		if d := p.Distance(center); d > 0.75 {
			t.Errorf("sample %d is %g mm from the centre, outside the cell", i, d)
		}
	}
}

func TestCircularFillCoversOutsideIn(t *testing.T) {
	m := mustMask(t, "#####\n#####\n#####\n#####\n#####", SquarePixels(1))
	geom, err := GenerateFill(context.Background(), m, FillParameters{Style: CircularFill})
	if err != nil {
		t.Fatal(err)
	}
	if len(geom) < 3 {
		t.Fatalf("got %d ring segments, want several", len(geom))
	}
	center := Pt(2.5, 2.5)
	// All samples stay on the mask, and radii decrease over the sequence:
	// the first segment belongs to the outermost ring, the last to the
	// innermost.
	for i, line := range geom {
		for _, p := range line {
			if !m.ContainsMM(p) {
				t.Fatalf("segment %d sample %v is off the mask", i, p)
			}
		}
	}
	first := geom[0][0].Distance(center)
	last := geom[len(geom)-1][0].Distance(center)
	if first <= last {
		t.Errorf("first ring radius %g should exceed last ring radius %g", first, last)
	}
}

func TestCoverRadius(t *testing.T) {
	tests := []struct {
		name   string
		art    string
		center Point
		want   float64
	}{
		{"single cell from centre", "#", Pt(0.5, 0.5), math.Sqrt2 / 2},
		{"single cell from corner", "#", Pt(0, 0), math.Sqrt2},
		{"row of three", "###", Pt(1.5, 0.5), math.Hypot(1.5, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMask(t, tt.art, SquarePixels(1))
			if got := coverRadius(m, tt.center); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("coverRadius = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestSplitInside(t *testing.T) {
	m := mustMask(t, "#.#", SquarePixels(1))
	samples := Polyline{
		Pt(0.2, 0.5), Pt(0.8, 0.5), // first cell
		Pt(1.5, 0.5),               // hole
		Pt(2.2, 0.5), Pt(2.8, 0.5), // last cell
	}
	parts := splitInside(m, samples)
	if len(parts) != 2 {
		t.Fatalf("got %d sub-polylines, want 2", len(parts))
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		t.Errorf("split = %v, want two 2-point runs", parts)
	}
}
