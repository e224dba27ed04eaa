package stitch

// Partition is one user-delineated pixel region (typically one color)
// within a layer, stitched independently with its own fill parameters and
// machine constraints.
type Partition struct {
	Name        string
	Mask        *Mask
	Fill        FillParameters
	Constraints Constraints
}

// Layer groups partitions in their user-defined z-order: the slice order
// is the stitching order.
type Layer struct {
	Name       string
	Visible    bool
	Partitions []*Partition
}

// Project is an ordered sequence of layers, bottom to top. Invisible
// layers are excluded from assembly entirely, not merely skipped at render
// time.
type Project struct {
	Name   string
	Layers []*Layer
}

// VisibleLayers returns the layers that participate in assembly, in order.
func (p *Project) VisibleLayers() []*Layer {
	out := make([]*Layer, 0, len(p.Layers))
	for _, l := range p.Layers {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}
