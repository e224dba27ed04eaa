package stitch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func testPartition(t *testing.T, art string, geom MaskGeometry) *Partition {
	t.Helper()
	return &Partition{
		Name: "test",
		Mask: mustMask(t, art, geom),
		Fill: FillParameters{Style: AutoFill},
		Constraints: Constraints{
			MaxStitchLength: 3.0,
			MinJumpLength:   1.5,
		},
	}
}

func TestComputePartitionWorkedExample(t *testing.T) {
	e := NewEngine()
	p := testPartition(t, "####\n####\n####\n####", SquarePixels(1))

	path, err := e.ComputePartition(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 12 {
		t.Fatalf("got %d stitches, want 12", len(path))
	}
	if n := path.Jumps(); n != 0 {
		t.Errorf("got %d jumps, want 0", n)
	}
	if g := maxNonJumpGap(path); g > 3.0+1e-9 {
		t.Errorf("longest stitch %g exceeds the 3.0 mm maximum", g)
	}
}

func TestComputePartitionEmptyMask(t *testing.T) {
	e := NewEngine()
	p := testPartition(t, "....", SquarePixels(1))

	path, err := e.ComputePartition(context.Background(), p)
	if err != nil {
		t.Errorf("empty mask = %v, want no error", err)
	}
	if len(path) != 0 {
		t.Errorf("empty mask produced %d stitches", len(path))
	}
}

func TestComputePartitionInvalidConstraints(t *testing.T) {
	e := NewEngine()
	p := testPartition(t, "##", SquarePixels(1))
	p.Constraints = Constraints{} // zero max stitch length

	_, err := e.ComputePartition(context.Background(), p)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("ComputePartition = %v, want ErrConfiguration", err)
	}
}

func TestComputePartitionMemoized(t *testing.T) {
	e := NewEngine()
	p := testPartition(t, "####\n####", SquarePixels(1))

	first, err := e.ComputePartition(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.memo.Len(); got != 1 {
		t.Fatalf("cache holds %d entries after first compute, want 1", got)
	}

	second, err := e.ComputePartition(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("memoized result differs from the original")
	}
	if got := e.memo.Len(); got != 1 {
		t.Errorf("cache holds %d entries after cache hit, want 1", got)
	}

	e.InvalidateAll()
	if got := e.memo.Len(); got != 0 {
		t.Errorf("cache holds %d entries after InvalidateAll, want 0", got)
	}
	third, err := e.ComputePartition(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, third) {
		t.Error("recomputation after invalidation is not bit-for-bit identical")
	}
}

func TestComputePartitionIdempotent(t *testing.T) {
	styles := []FillStyle{AutoFill, LegacyFill, CircularFill, ContourFill, SpiralCW, SpiralCCW, RandomFill}
	for _, style := range styles {
		t.Run(style.String(), func(t *testing.T) {
			p := testPartition(t, "#####\n#####\n#####\n#####", SquarePixels(1))
			p.Fill.Style = style

			// Fresh engines rule out the memo cache: the computation
			// itself must be deterministic.
			a, err := NewEngine().ComputePartition(context.Background(), p)
			if err != nil {
				t.Fatal(err)
			}
			b, err := NewEngine().ComputePartition(context.Background(), p)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(a, b) {
				t.Error("identical inputs produced different stitch paths")
			}
		})
	}
}

func TestComputePartitionStitchLengthBound(t *testing.T) {
	styles := []FillStyle{AutoFill, LegacyFill, CircularFill, ContourFill, SpiralCW, SpiralCCW, RandomFill}
	comps := []float64{0, 0.4}
	for _, style := range styles {
		for _, comp := range comps {
			t.Run(fmt.Sprintf("%s comp=%g", style, comp), func(t *testing.T) {
				p := testPartition(t, "..###..\n.#####.\n#######\n#######\n.#####.\n..###..", SquarePixels(1))
				p.Fill.Style = style
				p.Constraints.MaxStitchLength = 1.7
				p.Constraints.MinJumpLength = 2.0
				p.Constraints.PullCompensation = comp

				path, err := NewEngine().ComputePartition(context.Background(), p)
				if err != nil {
					t.Fatal(err)
				}
				if len(path) == 0 {
					t.Fatal("no stitches generated")
				}
				if g := maxNonJumpGap(path); g > 1.7+1e-9 {
					t.Errorf("longest stitch %g exceeds the 1.7 mm maximum", g)
				}
			})
		}
	}
}

func TestComputePartitionUnderlay(t *testing.T) {
	bare := testPartition(t, "####\n####\n####\n####", SquarePixels(1))
	padded := testPartition(t, "####\n####\n####\n####", SquarePixels(1))
	padded.Fill.Underlay = true

	plain, err := NewEngine().ComputePartition(context.Background(), bare)
	if err != nil {
		t.Fatal(err)
	}
	with, err := NewEngine().ComputePartition(context.Background(), padded)
	if err != nil {
		t.Fatal(err)
	}

	if len(with) <= len(plain) {
		t.Errorf("underlay path has %d stitches, plain %d; underlay must add stitches",
			len(with), len(plain))
	}
	if with.ThreadLength() <= plain.ThreadLength() {
		t.Error("underlay must add thread before the main fill")
	}
	// The main fill still ends the sequence, unchanged.
	tail := with[len(with)-len(plain)+1:]
	for i := range tail {
		if !tail[i].Pos.Approx(plain[i+1].Pos, 1e-9) {
			t.Fatalf("main fill tail diverges at %d: %v vs %v", i, tail[i].Pos, plain[i+1].Pos)
		}
	}
}

func TestComputePartitionManualPath(t *testing.T) {
	t.Run("valid path passes through", func(t *testing.T) {
		p := testPartition(t, "###", SquarePixels(1))
		p.Fill = FillParameters{
			Style:  ManualPath,
			Manual: Polyline{Pt(0.5, 0.5), Pt(2.5, 0.5)},
		}
		path, err := NewEngine().ComputePartition(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if len(path) != 2 {
			t.Fatalf("got %d stitches, want 2", len(path))
		}
		if !path[0].Pos.Approx(Pt(0.5, 0.5), 1e-9) || !path[1].Pos.Approx(Pt(2.5, 0.5), 1e-9) {
			t.Errorf("manual path altered: %v", path)
		}
	})

	t.Run("off-mask point rejected", func(t *testing.T) {
		p := testPartition(t, "###", SquarePixels(1))
		p.Fill = FillParameters{
			Style:  ManualPath,
			Manual: Polyline{Pt(0.5, 0.5), Pt(0.5, 8)},
		}
		_, err := NewEngine().ComputePartition(context.Background(), p)
		if !errors.Is(err, ErrGeometry) {
			t.Errorf("ComputePartition = %v, want ErrGeometry", err)
		}
	})

	t.Run("pull compensation widens the tolerance", func(t *testing.T) {
		p := testPartition(t, "###", SquarePixels(1))
		p.Fill = FillParameters{
			Style:  ManualPath,
			Manual: Polyline{Pt(0.5, 0.5), Pt(2.5, 1.3)},
		}
		p.Constraints.PullCompensation = 0.5

		if _, err := NewEngine().ComputePartition(context.Background(), p); err != nil {
			t.Errorf("point within compensation distance rejected: %v", err)
		}
	})
}

func TestComputePartitionCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testPartition(t, "####\n####", SquarePixels(1))
	_, err := NewEngine().ComputePartition(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ComputePartition with cancelled context = %v, want context.Canceled", err)
	}
}

func TestAssembleLayer(t *testing.T) {
	e := NewEngine()
	near := testPartition(t, "##", SquarePixels(1))
	far := testPartition(t, "##", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(20, 0)})
	layer := &Layer{Name: "front", Visible: true, Partitions: []*Partition{near, far}}

	path, err := e.AssembleLayer(context.Background(), layer)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 4 {
		t.Fatalf("got %d stitches, want 4", len(path))
	}
	if n := path.Jumps(); n != 1 {
		t.Fatalf("got %d jumps, want 1 between the distant partitions", n)
	}
	if !path[2].Jump {
		t.Error("the first stitch of the second partition should be a jump")
	}
	if !path[2].Pos.Approx(Pt(20, 0.5), 1e-9) {
		t.Errorf("second partition entry = %v, want (20, 0.5)", path[2].Pos)
	}
}

func TestAssembleLayerSkipsEmptyPartitions(t *testing.T) {
	e := NewEngine()
	empty := testPartition(t, "..", SquarePixels(1))
	full := testPartition(t, "##", SquarePixels(1))
	layer := &Layer{Name: "l", Visible: true, Partitions: []*Partition{empty, full}}

	path, err := e.AssembleLayer(context.Background(), layer)
	if err != nil {
		t.Fatal(err)
	}
	alone, err := e.ComputePartition(context.Background(), full)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(path, alone) {
		t.Errorf("layer with an empty partition = %v, want just %v", path, alone)
	}
}

func TestAssembleLayerSkipsDegenerateGeometry(t *testing.T) {
	e := NewEngine()
	bad := testPartition(t, "#", SquarePixels(1))
	bad.Fill = FillParameters{
		Style:  ManualPath,
		Manual: Polyline{Pt(0.5, 0.5), Pt(0.5, 0.5)},
	}
	good := testPartition(t, "##", SquarePixels(1))
	layer := &Layer{Name: "l", Visible: true, Partitions: []*Partition{bad, good}}

	path, err := e.AssembleLayer(context.Background(), layer)
	if err != nil {
		t.Fatalf("degenerate partition should be skipped, got %v", err)
	}
	if len(path) != 2 {
		t.Errorf("got %d stitches, want just the good partition's 2", len(path))
	}
}

func TestAssembleProject(t *testing.T) {
	e := NewEngine()
	front := &Layer{Name: "front", Visible: true, Partitions: []*Partition{
		testPartition(t, "##", SquarePixels(1)),
	}}
	hidden := &Layer{Name: "hidden", Visible: false, Partitions: []*Partition{
		testPartition(t, "##", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(100, 100)}),
	}}
	back := &Layer{Name: "back", Visible: true, Partitions: []*Partition{
		testPartition(t, "##", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(30, 0)}),
	}}
	project := &Project{Name: "p", Layers: []*Layer{front, hidden, back}}

	path, err := e.AssembleProject(context.Background(), project)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 4 {
		t.Fatalf("got %d stitches, want 4 (hidden layer excluded)", len(path))
	}
	if n := path.Jumps(); n != 1 {
		t.Errorf("got %d jumps, want 1 across the layer boundary", n)
	}
	min, max, _ := path.Bounds()
	if max.X > 40 {
		t.Errorf("path reaches x=%g; the hidden layer leaked in", max.X)
	}
	if min.X < 0 {
		t.Errorf("path reaches x=%g", min.X)
	}

	again, err := e.AssembleProject(context.Background(), project)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(path, again) {
		t.Error("project assembly is not deterministic")
	}
}

func TestAssembleProjectWorkerCounts(t *testing.T) {
	project := &Project{Name: "p", Layers: []*Layer{
		{Name: "a", Visible: true, Partitions: []*Partition{
			testPartition(t, "####\n####", SquarePixels(1)),
			testPartition(t, "##", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(10, 0)}),
		}},
		{Name: "b", Visible: true, Partitions: []*Partition{
			testPartition(t, "###", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(0, 10)}),
		}},
	}}

	serial, err := NewEngine(WithWorkers(1)).AssembleProject(context.Background(), project)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewEngine(WithWorkers(4)).AssembleProject(context.Background(), project)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Error("worker count changed the assembled path")
	}
}

func TestPreviewFill(t *testing.T) {
	e := NewEngine()
	m := mustMask(t, "####\n####", SquarePixels(1))

	geom, err := e.PreviewFill(context.Background(), m, FillParameters{Style: AutoFill})
	if err != nil {
		t.Fatal(err)
	}
	if len(geom) != 2 {
		t.Fatalf("got %d preview polylines, want 2", len(geom))
	}
	// Previews are raw geometry: endpoints only, no stitch subdivision.
	for i, line := range geom {
		if len(line) != 2 {
			t.Errorf("preview polyline %d has %d points, want 2", i, len(line))
		}
	}
	if e.memo.Len() != 0 {
		t.Error("previews must not populate the memo cache")
	}
}
