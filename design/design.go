// Package design loads embroidery design documents: YAML files describing
// layers, their partitions as mask art, and the fill parameters and
// machine constraints for each. It is the document model consumed by the
// stitchc command line tool.
package design

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gostitch/stitch"
)

// Document is the top-level design file.
type Document struct {
	Name   string  `yaml:"name"`
	Layers []Layer `yaml:"layers"`
}

// Layer mirrors stitch.Layer with document-level placement shared by all
// partitions of the layer.
type Layer struct {
	Name      string      `yaml:"name"`
	Visible   *bool       `yaml:"visible"`    // default true
	Position  [2]float64  `yaml:"position"`   // mm
	Rotation  float64     `yaml:"rotation"`   // degrees
	PixelSize *[2]float64 `yaml:"pixel_size"` // mm, default 2.5 x 2.5
	Parts     []Partition `yaml:"partitions"`
}

// Partition holds one mask with its fill and constraints.
type Partition struct {
	Name        string       `yaml:"name"`
	Mask        string       `yaml:"mask"` // '#' stitched, '.' empty
	Fill        *Fill        `yaml:"fill"`
	Constraints *Constraints `yaml:"constraints"`
}

// Fill mirrors stitch.FillParameters.
type Fill struct {
	Style      string       `yaml:"style"`
	OddAngle   float64      `yaml:"odd_angle"`
	EvenAngle  float64      `yaml:"even_angle"`
	Underlay   bool         `yaml:"underlay"`
	ManualPath [][2]float64 `yaml:"manual_path"`
}

// Constraints mirrors stitch.Constraints.
type Constraints struct {
	MaxStitchLength  float64 `yaml:"max_stitch_length"`
	MinJumpLength    float64 `yaml:"min_jump_length"`
	PullCompensation float64 `yaml:"pull_compensation"`
}

// defaultPixelSize matches what new layers start with in the editor.
const defaultPixelSize = 2.5

// Load parses a design document and converts it into a stitch.Project.
func Load(r io.Reader) (*stitch.Project, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("design: parsing document: %w", err)
	}
	return doc.Project()
}

// LoadFile parses the design document at the given path.
func LoadFile(filename string) (*stitch.Project, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	project, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("design: %s: %w", filename, err)
	}
	return project, nil
}

// Project converts the parsed document into engine types.
func (d *Document) Project() (*stitch.Project, error) {
	project := &stitch.Project{Name: d.Name}
	for li, layer := range d.Layers {
		converted, err := layer.convert()
		if err != nil {
			return nil, fmt.Errorf("design: layer %d (%s): %w", li, layer.Name, err)
		}
		project.Layers = append(project.Layers, converted)
	}
	return project, nil
}

func (l *Layer) convert() (*stitch.Layer, error) {
	pixelW, pixelH := defaultPixelSize, defaultPixelSize
	if l.PixelSize != nil {
		pixelW, pixelH = l.PixelSize[0], l.PixelSize[1]
	}
	geom := stitch.MaskGeometry{
		PixelWidth:  pixelW,
		PixelHeight: pixelH,
		Origin:      stitch.Pt(l.Position[0], l.Position[1]),
		Rotation:    l.Rotation,
	}

	out := &stitch.Layer{
		Name:    l.Name,
		Visible: l.Visible == nil || *l.Visible,
	}
	for pi, part := range l.Parts {
		converted, err := part.convert(geom)
		if err != nil {
			return nil, fmt.Errorf("partition %d (%s): %w", pi, part.Name, err)
		}
		out.Partitions = append(out.Partitions, converted)
	}
	return out, nil
}

func (p *Partition) convert(geom stitch.MaskGeometry) (*stitch.Partition, error) {
	mask, err := stitch.ParseMask(p.Mask, geom)
	if err != nil {
		return nil, err
	}

	fill := stitch.DefaultFillParameters()
	if p.Fill != nil {
		style, err := stitch.ParseFillStyle(p.Fill.Style)
		if err != nil {
			return nil, err
		}
		fill = stitch.FillParameters{
			Style:        style,
			OddRowAngle:  p.Fill.OddAngle,
			EvenRowAngle: p.Fill.EvenAngle,
			Underlay:     p.Fill.Underlay,
		}
		for _, pt := range p.Fill.ManualPath {
			fill.Manual = append(fill.Manual, stitch.Pt(pt[0], pt[1]))
		}
	}

	cons := stitch.DefaultConstraints()
	if p.Constraints != nil {
		cons = stitch.Constraints{
			MaxStitchLength:  p.Constraints.MaxStitchLength,
			MinJumpLength:    p.Constraints.MinJumpLength,
			PullCompensation: p.Constraints.PullCompensation,
		}
	}
	if err := cons.Validate(); err != nil {
		return nil, err
	}

	return &stitch.Partition{
		Name:        p.Name,
		Mask:        mask,
		Fill:        fill,
		Constraints: cons,
	}, nil
}
