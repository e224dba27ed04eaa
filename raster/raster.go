// Package raster renders stitch paths into RGBA images for quick
// previews: laid thread as stroked segments, jump moves as thin gray
// guides. It uses golang.org/x/image/vector for anti-aliased coverage.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/vector"

	"github.com/gostitch/stitch"
)

// Options controls preview rendering.
type Options struct {
	// Scale is the number of pixels per millimetre. Zero selects 4.
	Scale float64

	// Margin is the border around the path, in millimetres.
	Margin float64

	// Thread is the thread color. The zero value selects black.
	Thread color.Color

	// Background is the image background. The zero value selects white.
	Background color.Color

	// ThreadWidth is the rendered thread width in millimetres.
	// Zero selects 0.3.
	ThreadWidth float64

	// ShowJumps renders jump moves as thin gray lines.
	ShowJumps bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 4
	}
	return o.Scale
}

func (o Options) thread() color.Color {
	if o.Thread == nil {
		return color.Black
	}
	return o.Thread
}

func (o Options) background() color.Color {
	if o.Background == nil {
		return color.White
	}
	return o.Background
}

func (o Options) threadWidth() float64 {
	if o.ThreadWidth <= 0 {
		return 0.3
	}
	return o.ThreadWidth
}

// Render draws the stitch path into a new RGBA image sized to fit it.
// An empty path renders to a 1x1 background image.
func Render(path stitch.StitchPath, opts Options) *image.RGBA {
	scale := opts.scale()
	min, max, ok := path.Bounds()
	if !ok {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, opts.background())
		return img
	}

	w := int((max.X-min.X+2*opts.Margin)*scale) + 1
	h := int((max.Y-min.Y+2*opts.Margin)*scale) + 1
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.background()), image.Point{}, draw.Src)

	toPx := func(p stitch.Point) stitch.Point {
		return stitch.Pt((p.X-min.X+opts.Margin)*scale, (p.Y-min.Y+opts.Margin)*scale)
	}

	threadHalf := opts.threadWidth() * scale / 2
	jumpHalf := threadHalf / 2
	jumpColor := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}

	r := vector.NewRasterizer(w, h)
	for i := 1; i < len(path); i++ {
		a, b := toPx(path[i-1].Pos), toPx(path[i].Pos)
		if path[i].Jump {
			if opts.ShowJumps {
				strokeSegment(r, img, a, b, jumpHalf, jumpColor)
			}
			continue
		}
		strokeSegment(r, img, a, b, threadHalf, opts.thread())
	}
	return img
}

// RenderFile renders the path and writes it as a PNG file.
func RenderFile(filename string, path stitch.StitchPath, opts Options) error {
	img := Render(path, opts)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// strokeSegment fills the quad covering the segment a-b with the given
// half-width, anti-aliased. The rasterizer is reused between segments.
func strokeSegment(r *vector.Rasterizer, dst *image.RGBA, a, b stitch.Point, half float64, c color.Color) {
	d := b.Sub(a)
	if d.Length() == 0 {
		d = stitch.Pt(1, 0)
	}
	n := d.Normalize().Perp().Mul(half)

	p0 := a.Add(n)
	p1 := b.Add(n)
	p2 := b.Sub(n)
	p3 := a.Sub(n)

	r.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	r.DrawOp = draw.Over
	r.MoveTo(float32(p0.X), float32(p0.Y))
	r.LineTo(float32(p1.X), float32(p1.Y))
	r.LineTo(float32(p2.X), float32(p2.Y))
	r.LineTo(float32(p3.X), float32(p3.Y))
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}
