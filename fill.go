package stitch

import (
	"context"
	"fmt"
)

// fillPolicy carries the tunable policy constants of fill generation.
// The exact values were never part of a file format, so they are engine
// options rather than per-partition parameters.
type fillPolicy struct {
	// mergeFactor scales the AutoFill segment-merge tolerance:
	// gaps shorter than mergeFactor*PixelWidth are bridged.
	mergeFactor float64

	// epsilon is the degenerate-stitch threshold in millimetres.
	epsilon float64
}

func defaultFillPolicy() fillPolicy {
	return fillPolicy{
		mergeFactor: 1.0,
		epsilon:     1e-6,
	}
}

// GenerateFill converts a mask and fill parameters into raw, unconstrained
// fill polylines in world coordinates, at a density of one row (or ring, or
// spiral arm) per physical pixel height.
//
// An empty mask yields empty geometry and no error. The context is checked
// between polylines; a cancelled computation returns ctx.Err with no
// partial side effects.
func GenerateFill(ctx context.Context, m *Mask, params FillParameters) (RawFillGeometry, error) {
	return generateFill(ctx, m, params, defaultFillPolicy())
}

func generateFill(ctx context.Context, m *Mask, params FillParameters, pol fillPolicy) (RawFillGeometry, error) {
	// Degenerate partitions are valid input: no cells means no fill,
	// not an error.
	if m.Empty() {
		return nil, nil
	}

	var (
		geom RawFillGeometry
		err  error
	)
	switch params.Style {
	case AutoFill:
		geom, err = scanFill(ctx, m, params, pol.mergeFactor*m.PixelWidth())
	case LegacyFill:
		geom, err = scanFill(ctx, m, params, 0)
	case CircularFill:
		geom, err = circularFill(ctx, m)
	case ContourFill:
		geom, err = contourFill(ctx, m)
	case SpiralCW:
		geom, err = spiralFill(ctx, m, true)
	case SpiralCCW:
		geom, err = spiralFill(ctx, m, false)
	case RandomFill:
		geom, err = randomFill(ctx, m, params, pol.mergeFactor*m.PixelWidth())
	case ManualPath:
		geom, err = manualFill(m, params, pol.epsilon)
	default:
		return nil, fmt.Errorf("stitch: unknown fill style %v: %w", params.Style, ErrConfiguration)
	}
	if err != nil {
		return nil, err
	}

	Logger().Debug("fill generated",
		"style", params.Style.String(),
		"polylines", len(geom),
		"length_mm", geom.TotalLength())

	return geom.Transform(m.WorldTransform()), nil
}
