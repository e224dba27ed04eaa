package stitch

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gostitch/stitch/internal/cache"
)

// Engine is the front door of the stitch path computation. It is a pure
// function of its inputs — identical (mask, fill parameters, constraints)
// always produce an identical path — which makes it safe to call from any
// goroutine. Results are memoized keyed by a content hash of all inputs,
// so unrelated document edits do not trigger recomputation.
type Engine struct {
	policy    fillPolicy
	cacheSize int
	workers   int

	memo *cache.Cache[uint64, StitchPath]
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		policy:    defaultFillPolicy(),
		cacheSize: 256,
		workers:   0,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.memo = cache.New[uint64, StitchPath](e.cacheSize)
	return e
}

// InvalidateAll drops every memoized result. Call when the owning
// document closes.
func (e *Engine) InvalidateAll() {
	e.memo.Clear()
}

// PreviewFill returns the raw, unconstrained fill polylines for a
// partition, in world coordinates. Callers use it to preview fill lines
// before constraint application; the geometry is produced fresh and not
// memoized.
func (e *Engine) PreviewFill(ctx context.Context, m *Mask, params FillParameters) (RawFillGeometry, error) {
	return generateFill(ctx, m, params, e.policy)
}

// ComputePartition converts one partition into its stitch path, applying
// underlay (when requested), fill generation, stitch constraints and
// travel ordering. An empty mask yields an empty path and no error.
//
// The computation is memoized: recomputing with unchanged inputs returns
// the cached path bit-for-bit.
func (e *Engine) ComputePartition(ctx context.Context, p *Partition) (StitchPath, error) {
	if p.Mask == nil || p.Mask.Empty() {
		return nil, nil
	}

	builder, err := newPathBuilderEps(p.Constraints, e.policy.epsilon)
	if err != nil {
		return nil, err
	}

	if p.Fill.Style == ManualPath {
		if err := ValidateManualPath(p.Mask, p.Fill.Manual, p.Constraints.PullCompensation); err != nil {
			return nil, err
		}
	}

	key := e.partitionKey(p)
	if path, ok := e.memo.Get(key); ok {
		Logger().Debug("stitch path cache hit", "partition", p.Name)
		return path, nil
	}

	start := e.startHint(p.Mask)

	var path StitchPath
	if p.Fill.Underlay && p.Fill.Style != ManualPath {
		underGeom, err := generateUnderlay(ctx, p.Mask, p.Fill)
		if err != nil {
			return nil, err
		}
		path, err = builder.Build(ctx, underGeom, start)
		if err != nil {
			return nil, err
		}
	}

	geom, err := generateFill(ctx, p.Mask, p.Fill, e.policy)
	if err != nil {
		return nil, err
	}
	main, err := builder.Build(ctx, geom, start)
	if err != nil {
		return nil, err
	}
	path = builder.joinPaths(path, main)

	Logger().Debug("stitch path computed",
		"partition", p.Name,
		"style", p.Fill.Style.String(),
		"stitches", len(path),
		"jumps", path.Jumps())

	e.memo.Set(key, path)
	return path, nil
}

// AssembleLayer concatenates the stitch paths of a layer's partitions in
// their z-order. Partitions are computed in parallel; the concatenation
// waits for all of them. A jump stitch is inserted between consecutive
// partitions whenever the gap exceeds the next partition's own jump
// threshold. Partitions whose mask is empty are skipped; partitions with
// degenerate geometry are skipped with a warning.
func (e *Engine) AssembleLayer(ctx context.Context, layer *Layer) (StitchPath, error) {
	path, _, err := e.assembleLayer(ctx, layer)
	return path, err
}

// assembleLayer also reports the constraints of the first partition that
// contributed stitches, which the project assembler uses to classify the
// connection across layer boundaries.
func (e *Engine) assembleLayer(ctx context.Context, layer *Layer) (StitchPath, Constraints, error) {
	paths := make([]StitchPath, len(layer.Partitions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerLimit())
	for i, part := range layer.Partitions {
		i, part := i, part
		g.Go(func() error {
			p, err := e.ComputePartition(gctx, part)
			if err != nil {
				if errors.Is(err, ErrGeometry) {
					Logger().Warn("skipping partition with degenerate geometry",
						"layer", layer.Name, "partition", part.Name, "err", err)
					return nil
				}
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Constraints{}, err
	}

	var (
		out       StitchPath
		firstCons Constraints
		haveFirst bool
	)
	for i, p := range paths {
		if len(p) == 0 {
			continue
		}
		if !haveFirst {
			firstCons = layer.Partitions[i].Constraints
			haveFirst = true
		}
		builder, err := newPathBuilderEps(layer.Partitions[i].Constraints, e.policy.epsilon)
		if err != nil {
			return nil, Constraints{}, err
		}
		out = builder.joinPaths(out, p)
	}
	return out, firstCons, nil
}

// AssembleProject concatenates the assembled sequences of all visible
// layers in document order into the final design-wide stitch path,
// applying the jump-insertion rule across layer boundaries. Invisible
// layers are excluded entirely.
func (e *Engine) AssembleProject(ctx context.Context, project *Project) (StitchPath, error) {
	layers := project.VisibleLayers()

	type assembled struct {
		path StitchPath
		cons Constraints
	}
	results := make([]assembled, len(layers))

	g, gctx := errgroup.WithContext(ctx)
	for i, layer := range layers {
		i, layer := i, layer
		g.Go(func() error {
			p, cons, err := e.assembleLayer(gctx, layer)
			if err != nil {
				return err
			}
			results[i] = assembled{path: p, cons: cons}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out StitchPath
	for _, r := range results {
		if len(r.path) == 0 {
			continue
		}
		builder, err := newPathBuilderEps(r.cons, e.policy.epsilon)
		if err != nil {
			return nil, err
		}
		out = builder.joinPaths(out, r.path)
	}
	return out, nil
}

func (e *Engine) workerLimit() int {
	if e.workers > 0 {
		return e.workers
	}
	return runtime.GOMAXPROCS(0)
}

// startHint returns the deterministic initial point for travel ordering:
// the world position of the top-left-most stitched pixel's centre.
func (e *Engine) startHint(m *Mask) Point {
	x, y, ok := m.FirstSet()
	if !ok {
		return Point{}
	}
	return m.WorldTransform().TransformPoint(m.CellCenter(x, y))
}

// partitionKey hashes every input that influences the computed path.
func (e *Engine) partitionKey(p *Partition) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}
	writeF64 := func(v float64) { writeU64(math.Float64bits(v)) }

	writeU64(p.Mask.Hash())
	writeU64(uint64(p.Fill.Style))
	writeF64(p.Fill.OddRowAngle)
	writeF64(p.Fill.EvenRowAngle)
	if p.Fill.Underlay {
		writeU64(1)
	} else {
		writeU64(0)
	}
	for _, pt := range p.Fill.Manual {
		writeF64(pt.X)
		writeF64(pt.Y)
	}
	writeF64(p.Constraints.MaxStitchLength)
	writeF64(p.Constraints.MinJumpLength)
	writeF64(p.Constraints.PullCompensation)
	writeF64(e.policy.mergeFactor)
	writeF64(e.policy.epsilon)
	return d.Sum64()
}
