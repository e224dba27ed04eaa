package stitch

import "context"

// underlayRowSpacingFactor makes the underlay half as dense as the main
// fill: one row per two pixel heights.
const underlayRowSpacingFactor = 2.0

// generateUnderlay produces the sparse stabilizing fill stitched beneath
// the main fill when FillParameters.Underlay is set. Rows run perpendicular
// to the main fill's odd row angle at twice the row spacing, so the
// underlay crosses the top stitching instead of sinking into it. Short
// gaps are always merged; an underlay exists to hold fabric, not to
// reproduce fine detail.
func generateUnderlay(ctx context.Context, m *Mask, params FillParameters) (RawFillGeometry, error) {
	if m.Empty() {
		return nil, nil
	}
	angle := params.OddRowAngle + 90
	spacing := underlayRowSpacingFactor * m.PixelHeight()

	var geom RawFillGeometry
	for _, row := range scanRows(m, angle, spacing) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, s := range mergeSpans(row.spans, m.PixelWidth()) {
			line := Polyline{
				row.origin.Add(row.dir.Mul(s.t0)),
				row.origin.Add(row.dir.Mul(s.t1)),
			}
			if len(geom)%2 == 1 {
				line = line.Reverse()
			}
			geom = append(geom, line)
		}
	}
	return geom.Transform(m.WorldTransform()), nil
}
