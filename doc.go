// Package stitch converts masked regions of pixel-art layers into
// physically realizable embroidery stitch paths.
//
// # Overview
//
// The input is a partition mask: a boolean occupancy grid with a physical
// pixel size, offset and rotation. A fill strategy converts the mask into
// raw fill polylines (scan rows, concentric rings, contour peels, spirals,
// or a user-drawn path), and a path builder turns those polylines into an
// ordered sequence of needle penetration points that respects the machine
// constraints: a maximum stitch length, a travel threshold above which the
// thread jumps, and pull compensation for fabric distortion.
//
// # Quick Start
//
//	mask, _ := stitch.ParseMask(`
//	####
//	####
//	####
//	####`, stitch.SquarePixels(1.0))
//
//	eng := stitch.NewEngine()
//	path, err := eng.ComputePartition(ctx, &stitch.Partition{
//		Mask: mask,
//		Fill: stitch.FillParameters{Style: stitch.AutoFill},
//		Constraints: stitch.Constraints{
//			MaxStitchLength: 3.0,
//			MinJumpLength:   1.5,
//		},
//	})
//
// Layers group partitions in z-order and projects group layers;
// Engine.AssembleLayer and Engine.AssembleProject concatenate their paths
// with the same jump-insertion rule.
//
// # Architecture
//
// The engine is a pure computation: identical inputs always produce an
// identical path, there is no hidden mutable state and no I/O. Results are
// memoized keyed by a content hash of the inputs. The Scheduler type adds
// the interactive editing model on top: coalesced, cancellable
// per-partition recomputation.
//
// The library is organized into:
//   - Core: Mask, FillParameters, Constraints, PathBuilder, Engine
//   - Export: svg/ (vector output), raster/ (PNG previews)
//   - Documents: design/ (YAML design files for the CLI)
package stitch
