// Package svg writes stitch paths as SVG documents: fill and travel
// stitches become polyline segments, jump stitches become explicit
// pen-lifts rendered as dashed guide lines that machines and previewers
// can distinguish from laid thread.
package svg

import (
	"fmt"
	"io"
	"os"

	"github.com/gostitch/stitch"
)

// Options controls document generation.
type Options struct {
	// Width and Height are the document dimensions in millimetres.
	// When zero, the path bounding box plus Margin is used.
	Width, Height float64

	// Margin is added around auto-sized documents, in millimetres.
	Margin float64

	// ThreadColor is the stroke color of stitched thread.
	// Empty selects black.
	ThreadColor string

	// ShowJumps renders jump moves as dashed gray lines.
	// When false, jumps are invisible pen-lifts.
	ShowJumps bool

	// StrokeWidth is the rendered thread width in millimetres.
	// Zero selects 0.2.
	StrokeWidth float64
}

func (o Options) threadColor() string {
	if o.ThreadColor == "" {
		return "#000000"
	}
	return o.ThreadColor
}

func (o Options) strokeWidth() float64 {
	if o.StrokeWidth <= 0 {
		return 0.2
	}
	return o.StrokeWidth
}

// Encode writes one stitch path as a complete SVG document.
func Encode(w io.Writer, path stitch.StitchPath, opts Options) error {
	width, height, offset := documentBox(path, opts)

	if _, err := fmt.Fprintf(w,
		"<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n"+
			"<svg\n"+
			"  width=\"%gmm\"\n"+
			"  height=\"%gmm\"\n"+
			"  viewBox=\"0 0 %g %g\"\n"+
			"  version=\"1.1\"\n"+
			"  xmlns=\"http://www.w3.org/2000/svg\"\n"+
			">\n", width, height, width, height); err != nil {
		return err
	}
	if err := writePath(w, path, offset, opts); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "</svg>\n")
	return err
}

// EncodeFile writes the document to a file.
func EncodeFile(filename string, path stitch.StitchPath, opts Options) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Encode(f, path, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// documentBox sizes the document and returns the translation applied to
// the path so that auto-sized documents start at the margin.
func documentBox(path stitch.StitchPath, opts Options) (width, height float64, offset stitch.Point) {
	if opts.Width > 0 && opts.Height > 0 {
		return opts.Width, opts.Height, stitch.Point{}
	}
	min, max, ok := path.Bounds()
	if !ok {
		return opts.Margin*2 + 1, opts.Margin*2 + 1, stitch.Point{}
	}
	offset = stitch.Pt(opts.Margin-min.X, opts.Margin-min.Y)
	return max.X - min.X + 2*opts.Margin, max.Y - min.Y + 2*opts.Margin, offset
}

// writePath emits the stitch path as one <g> with a polyline per thread
// run, split at jumps.
func writePath(w io.Writer, path stitch.StitchPath, offset stitch.Point, opts Options) error {
	if _, err := fmt.Fprintf(w, "<g fill=\"none\" stroke-linecap=\"round\" stroke-linejoin=\"round\">\n"); err != nil {
		return err
	}

	flushRun := func(run []stitch.Point) error {
		if len(run) < 2 {
			return nil
		}
		if _, err := fmt.Fprintf(w, "<polyline stroke=\"%s\" stroke-width=\"%g\" points=\"",
			opts.threadColor(), opts.strokeWidth()); err != nil {
			return err
		}
		for i, p := range run {
			sep := " "
			if i == 0 {
				sep = ""
			}
			if _, err := fmt.Fprintf(w, "%s%g,%g", sep, p.X, p.Y); err != nil {
				return err
			}
		}
		_, err := fmt.Fprint(w, "\"/>\n")
		return err
	}

	var run []stitch.Point
	var prev stitch.Point
	for i, sp := range path {
		p := sp.Pos.Add(offset)
		if sp.Jump && i > 0 {
			if err := flushRun(run); err != nil {
				return err
			}
			if opts.ShowJumps {
				if _, err := fmt.Fprintf(w,
					"<line stroke=\"#999999\" stroke-width=\"%g\" stroke-dasharray=\"1 1\" x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\"/>\n",
					opts.strokeWidth()/2, prev.X, prev.Y, p.X, p.Y); err != nil {
					return err
				}
			}
			run = []stitch.Point{p}
		} else {
			run = append(run, p)
		}
		prev = p
	}
	if err := flushRun(run); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "</g>\n")
	return err
}
