package stitch

// Option configures an Engine during creation.
//
// Example:
//
//	eng := stitch.NewEngine(
//		stitch.WithCacheSize(512),
//		stitch.WithMergeFactor(0.5),
//	)
type Option func(*Engine)

// WithCacheSize sets the soft limit of the stitch path memoization cache,
// in entries. 0 means unlimited. The default is 256.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithMergeFactor tunes the AutoFill segment-merge tolerance: row gaps
// shorter than factor multiplied by the mask's pixel width are bridged
// with a fill stitch instead of becoming separate segments. The default
// is 1.0 (one pixel width). LegacyFill ignores this and never merges.
func WithMergeFactor(factor float64) Option {
	return func(e *Engine) {
		if factor >= 0 {
			e.policy.mergeFactor = factor
		}
	}
}

// WithEpsilon sets the degenerate-stitch threshold in millimetres:
// stitches shorter than this are dropped, not emitted. The default is
// 1e-6 mm.
func WithEpsilon(mm float64) Option {
	return func(e *Engine) {
		if mm > 0 {
			e.policy.epsilon = mm
		}
	}
}

// WithWorkers bounds the number of partition computations an Engine runs
// in parallel during layer and project assembly. Values below 1 select
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}
