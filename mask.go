package stitch

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Mask is the geometric input to the engine: an immutable boolean occupancy
// grid plus the physical scale, offset and rotation that place it in the
// design. A true cell means "stitched".
//
// The grid lives in a partition-local coordinate system where cell (x, y)
// spans [x*PixelWidth, (x+1)*PixelWidth) x [y*PixelHeight, (y+1)*PixelHeight)
// millimetres. WorldTransform maps local coordinates to world coordinates.
//
// A Mask is immutable once constructed and safe for concurrent use.
type Mask struct {
	width, height int
	bits          []bool // row-major, len = width*height

	pixelWidth  float64 // mm per cell, horizontal
	pixelHeight float64 // mm per cell, vertical
	origin      Point   // world offset of the local origin, mm
	rotation    float64 // degrees, about the mask centre
}

// MaskGeometry carries the physical placement of a mask.
// Non-uniform pixel scaling is allowed.
type MaskGeometry struct {
	PixelWidth  float64 // mm, must be > 0
	PixelHeight float64 // mm, must be > 0
	Origin      Point   // mm
	Rotation    float64 // degrees
}

// SquarePixels returns a MaskGeometry with square pixels of the given side
// and no offset or rotation.
func SquarePixels(mm float64) MaskGeometry {
	return MaskGeometry{PixelWidth: mm, PixelHeight: mm}
}

// NewMask creates a mask from a row-major grid of booleans.
// rows[y][x] == true marks cell (x, y) as stitched. All rows must have the
// same length. An empty grid (or one with all-false cells) is valid and
// simply produces empty fills downstream.
func NewMask(rows [][]bool, geom MaskGeometry) (*Mask, error) {
	if geom.PixelWidth <= 0 || geom.PixelHeight <= 0 {
		return nil, fmt.Errorf("stitch: pixel size must be positive, got %gx%g: %w",
			geom.PixelWidth, geom.PixelHeight, ErrConfiguration)
	}
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	bits := make([]bool, width*height)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("stitch: mask row %d has %d cells, want %d: %w",
				y, len(row), width, ErrGeometry)
		}
		copy(bits[y*width:], row)
	}
	return &Mask{
		width:       width,
		height:      height,
		bits:        bits,
		pixelWidth:  geom.PixelWidth,
		pixelHeight: geom.PixelHeight,
		origin:      geom.Origin,
		rotation:    geom.Rotation,
	}, nil
}

// ParseMask creates a mask from "ASCII art": one string per row, where '#'
// marks a stitched cell and any other character an empty one. Intended for
// tests and hand-written design files.
func ParseMask(art string, geom MaskGeometry) (*Mask, error) {
	var rows [][]bool
	for _, line := range strings.Split(strings.Trim(art, "\n"), "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		row := make([]bool, len(line))
		for i, c := range line {
			row[i] = c == '#'
		}
		rows = append(rows, row)
	}
	// Pad ragged rows to the widest one; trailing cells are empty.
	widest := 0
	for _, row := range rows {
		if len(row) > widest {
			widest = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < widest {
			padded := make([]bool, widest)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return NewMask(rows, geom)
}

// MaskFromImage creates a mask from an image: fully opaque pixels are
// stitched, everything else is empty. This mirrors how pixel-art sources
// treat transparency.
func MaskFromImage(img image.Image, geom MaskGeometry) (*Mask, error) {
	b := img.Bounds()
	rows := make([][]bool, b.Dy())
	for y := range rows {
		row := make([]bool, b.Dx())
		for x := range row {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = a == 0xffff
		}
		rows[y] = row
	}
	return NewMask(rows, geom)
}

// Width returns the grid width in cells.
func (m *Mask) Width() int { return m.width }

// Height returns the grid height in cells.
func (m *Mask) Height() int { return m.height }

// PixelWidth returns the horizontal cell size in millimetres.
func (m *Mask) PixelWidth() float64 { return m.pixelWidth }

// PixelHeight returns the vertical cell size in millimetres.
func (m *Mask) PixelHeight() float64 { return m.pixelHeight }

// Origin returns the world offset of the local origin in millimetres.
func (m *Mask) Origin() Point { return m.origin }

// Rotation returns the rotation about the mask centre in degrees.
func (m *Mask) Rotation() float64 { return m.rotation }

// At reports whether cell (x, y) is stitched.
// Out-of-range coordinates are empty.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// Empty reports whether no cell is stitched.
func (m *Mask) Empty() bool {
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// Count returns the number of stitched cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// SizeMM returns the local-space dimensions of the grid in millimetres.
func (m *Mask) SizeMM() (w, h float64) {
	return float64(m.width) * m.pixelWidth, float64(m.height) * m.pixelHeight
}

// ContainsMM reports whether the local-space point p lies inside a
// stitched cell.
func (m *Mask) ContainsMM(p Point) bool {
	x := int(math.Floor(p.X / m.pixelWidth))
	y := int(math.Floor(p.Y / m.pixelHeight))
	return m.At(x, y)
}

// CellCenter returns the local-space centre of cell (x, y) in millimetres.
func (m *Mask) CellCenter(x, y int) Point {
	return Point{
		X: (float64(x) + 0.5) * m.pixelWidth,
		Y: (float64(y) + 0.5) * m.pixelHeight,
	}
}

// FirstSet returns the top-left-most stitched cell in row-major scan order
// and ok=false when the mask is empty. Fill ordering starts from this cell
// so that repeated computations pick the same deterministic entry point.
func (m *Mask) FirstSet() (x, y int, ok bool) {
	for i, b := range m.bits {
		if b {
			return i % m.width, i / m.width, true
		}
	}
	return 0, 0, false
}

// Centroid returns the local-space centroid of all stitched cells.
// For an empty mask it returns the grid centre.
func (m *Mask) Centroid() Point {
	var sx, sy float64
	n := 0
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.At(x, y) {
				c := m.CellCenter(x, y)
				sx += c.X
				sy += c.Y
				n++
			}
		}
	}
	if n == 0 {
		w, h := m.SizeMM()
		return Point{X: w / 2, Y: h / 2}
	}
	return Point{X: sx / float64(n), Y: sy / float64(n)}
}

// WorldTransform returns the rigid transform from local millimetre
// coordinates to world coordinates: rotation about the grid centre followed
// by the origin translation. Pixel scaling is already part of the local
// millimetre space, so the transform preserves distances.
func (m *Mask) WorldTransform() Matrix {
	w, h := m.SizeMM()
	rot := RotateAbout(m.rotation*math.Pi/180, w/2, h/2)
	return Translate(m.origin.X, m.origin.Y).Multiply(rot)
}

// Hash returns a content hash over the mask bits and all geometric
// parameters. Two masks with equal hashes produce identical fills, which
// makes the hash suitable as a memoization key and as a deterministic seed
// for the random fill order.
func (m *Mask) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}
	writeF64 := func(v float64) { writeU64(math.Float64bits(v)) }

	writeU64(uint64(m.width))
	writeU64(uint64(m.height))
	writeF64(m.pixelWidth)
	writeF64(m.pixelHeight)
	writeF64(m.origin.X)
	writeF64(m.origin.Y)
	writeF64(m.rotation)

	// Pack bits eight to a byte.
	var acc byte
	var nbits int
	for _, b := range m.bits {
		acc <<= 1
		if b {
			acc |= 1
		}
		nbits++
		if nbits == 8 {
			d.Write([]byte{acc})
			acc, nbits = 0, 0
		}
	}
	if nbits > 0 {
		d.Write([]byte{acc})
	}
	return d.Sum64()
}
