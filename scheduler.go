package stitch

import (
	"context"
	"errors"
	"sync"
)

// Scheduler coalesces partition recomputation requests for interactive
// use: every edit to a partition's mask or parameters submits a request,
// and only the latest request per partition matters. An older in-flight
// computation for the same partition is cancelled; it detects the
// cancellation at a polyline boundary and its partial result is discarded
// silently. The engine itself holds no mutable state, so aborting leaves
// no partial side effects.
//
// Computations for distinct partitions run in parallel, bounded by the
// worker limit.
type Scheduler struct {
	engine *Engine
	sem    chan struct{}

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	closed   bool

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler running at most workers computations
// concurrently. Values below 1 select the engine's worker limit.
func NewScheduler(engine *Engine, workers int) *Scheduler {
	if workers < 1 {
		workers = engine.workerLimit()
	}
	return &Scheduler{
		engine:   engine,
		sem:      make(chan struct{}, workers),
		inflight: make(map[string]context.CancelFunc),
	}
}

// Submit enqueues a recomputation of p under the given coalescing key
// (typically the partition's UUID in the document). A previous in-flight
// request with the same key is cancelled and discarded. done is invoked
// exactly once with the result unless the request is superseded or the
// scheduler shuts down first.
func (s *Scheduler) Submit(ctx context.Context, key string, p *Partition, done func(StitchPath, error)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if cancel, ok := s.inflight[key]; ok {
		cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	s.inflight[key] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		select {
		case s.sem <- struct{}{}:
			defer func() { <-s.sem }()
		case <-cctx.Done():
			return
		}

		path, err := s.engine.ComputePartition(cctx, p)

		s.mu.Lock()
		current := s.inflight[key]
		superseded := s.closed || current == nil
		if !superseded {
			// Compare by dropping our own registration: if another
			// Submit replaced it, ours was cancelled above.
			superseded = cctx.Err() != nil
			if !superseded {
				delete(s.inflight, key)
			}
		}
		s.mu.Unlock()

		if superseded || errors.Is(err, context.Canceled) {
			return
		}
		done(path, err)
	}()
}

// Close cancels all in-flight computations and waits for their goroutines
// to exit. The scheduler accepts no further requests.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for _, cancel := range s.inflight {
		cancel()
	}
	s.inflight = make(map[string]context.CancelFunc)
	s.mu.Unlock()
	s.wg.Wait()
}
