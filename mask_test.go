package stitch

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestParseMask(t *testing.T) {
	m := mustMask(t, `
##.
.#.
..#
`, SquarePixels(2))

	if m.Width() != 3 || m.Height() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", m.Width(), m.Height())
	}
	wantSet := [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 2}}
	for _, c := range wantSet {
		if !m.At(c[0], c[1]) {
			t.Errorf("At(%d, %d) = false, want true", c[0], c[1])
		}
	}
	if m.At(2, 0) || m.At(0, 2) {
		t.Error("unexpected stitched cell")
	}
	if got := m.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
}

func TestParseMaskRaggedRowsPadded(t *testing.T) {
	m := mustMask(t, "####\n##", SquarePixels(1))
	if m.Width() != 4 || m.Height() != 2 {
		t.Fatalf("size = %dx%d, want 4x2", m.Width(), m.Height())
	}
	if m.At(2, 1) || m.At(3, 1) {
		t.Error("padded cells must be empty")
	}
}

func TestNewMaskValidation(t *testing.T) {
	t.Run("zero pixel size", func(t *testing.T) {
		_, err := NewMask([][]bool{{true}}, MaskGeometry{PixelWidth: 0, PixelHeight: 1})
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("NewMask = %v, want ErrConfiguration", err)
		}
	})
	t.Run("ragged rows", func(t *testing.T) {
		_, err := NewMask([][]bool{{true, true}, {true}}, SquarePixels(1))
		if !errors.Is(err, ErrGeometry) {
			t.Errorf("NewMask = %v, want ErrGeometry", err)
		}
	})
	t.Run("empty grid is valid", func(t *testing.T) {
		m, err := NewMask(nil, SquarePixels(1))
		if err != nil {
			t.Fatalf("NewMask(nil) = %v", err)
		}
		if !m.Empty() {
			t.Error("empty grid should report Empty")
		}
	})
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{G: 20, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{B: 30, A: 128}) // translucent, not stitched

	m, err := MaskFromImage(img, SquarePixels(1))
	if err != nil {
		t.Fatal(err)
	}
	if !m.At(0, 0) || !m.At(1, 1) {
		t.Error("fully opaque pixels must be stitched")
	}
	if m.At(1, 0) || m.At(0, 1) {
		t.Error("translucent and transparent pixels must not be stitched")
	}
}

func TestMaskGeometryQueries(t *testing.T) {
	m := mustMask(t, ".#\n##", MaskGeometry{PixelWidth: 2, PixelHeight: 3})

	if w, h := m.SizeMM(); w != 4 || h != 6 {
		t.Errorf("SizeMM = %gx%g, want 4x6", w, h)
	}
	if got := m.CellCenter(1, 0); !got.Approx(Pt(3, 1.5), 1e-12) {
		t.Errorf("CellCenter(1,0) = %v, want (3, 1.5)", got)
	}
	if !m.ContainsMM(Pt(3, 1)) {
		t.Error("ContainsMM should report a point in a stitched cell")
	}
	if m.ContainsMM(Pt(1, 1)) {
		t.Error("ContainsMM should reject a point in an empty cell")
	}
	x, y, ok := m.FirstSet()
	if !ok || x != 1 || y != 0 {
		t.Errorf("FirstSet = (%d, %d, %v), want (1, 0, true)", x, y, ok)
	}
}

func TestMaskCentroid(t *testing.T) {
	m := mustMask(t, "##\n##", SquarePixels(1))
	if got := m.Centroid(); !got.Approx(Pt(1, 1), 1e-12) {
		t.Errorf("Centroid = %v, want (1, 1)", got)
	}
	empty := mustMask(t, "..", SquarePixels(1))
	if got := empty.Centroid(); !got.Approx(Pt(1, 0.5), 1e-12) {
		t.Errorf("empty Centroid = %v, want the grid centre (1, 0.5)", got)
	}
}

func TestMaskWorldTransform(t *testing.T) {
	t.Run("identity placement", func(t *testing.T) {
		m := mustMask(t, "##", SquarePixels(1))
		if !m.WorldTransform().IsIdentity() {
			t.Error("unplaced mask should map through the identity")
		}
	})
	t.Run("translation", func(t *testing.T) {
		m := mustMask(t, "##", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(10, 20)})
		got := m.WorldTransform().TransformPoint(Pt(0.5, 0.5))
		if !got.Approx(Pt(10.5, 20.5), 1e-12) {
			t.Errorf("transformed = %v, want (10.5, 20.5)", got)
		}
	})
	t.Run("rotation about the centre", func(t *testing.T) {
		m := mustMask(t, "##\n##", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Rotation: 90})
		// The grid centre is a fixed point of the rotation.
		center := Pt(1, 1)
		if got := m.WorldTransform().TransformPoint(center); !got.Approx(center, 1e-12) {
			t.Errorf("centre moved to %v under rotation", got)
		}
		// A quarter turn sends the top-left cell centre to the bottom-left.
		got := m.WorldTransform().TransformPoint(Pt(0.5, 0.5))
		if !got.Approx(Pt(1.5, 0.5), 1e-12) {
			t.Errorf("rotated (0.5, 0.5) = %v, want (1.5, 0.5)", got)
		}
	})
}

func TestMaskHash(t *testing.T) {
	base := mustMask(t, "##\n#.", SquarePixels(1))

	same := mustMask(t, "##\n#.", SquarePixels(1))
	if base.Hash() != same.Hash() {
		t.Error("identical masks must hash equal")
	}

	variants := map[string]*Mask{
		"flipped bit":     mustMask(t, "##\n##", SquarePixels(1)),
		"different scale": mustMask(t, "##\n#.", SquarePixels(2)),
		"moved origin":    mustMask(t, "##\n#.", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Origin: Pt(1, 0)}),
		"rotated":         mustMask(t, "##\n#.", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Rotation: 45}),
	}
	for name, v := range variants {
		if v.Hash() == base.Hash() {
			t.Errorf("%s mask must hash differently", name)
		}
	}
}

func TestMaskRotatedFillStaysRigid(t *testing.T) {
	// Rotation must not change fill geometry lengths, only placement.
	flat := mustMask(t, "####\n####", SquarePixels(1))
	turned := mustMask(t, "####\n####", MaskGeometry{PixelWidth: 1, PixelHeight: 1, Rotation: 30})

	a := flat.WorldTransform()
	b := turned.WorldTransform()
	p, q := Pt(0, 0.5), Pt(4, 0.5)
	da := a.TransformPoint(p).Distance(a.TransformPoint(q))
	db := b.TransformPoint(p).Distance(b.TransformPoint(q))
	if math.Abs(da-db) > 1e-9 {
		t.Errorf("rigid transform changed a length: %g vs %g", da, db)
	}
}
