package stitch

import "errors"

// ErrConfiguration indicates invalid constraint or parameter values.
// It is fatal to the single computation that received the configuration;
// callers surface it to the user and never retry automatically.
var ErrConfiguration = errors.New("stitch: invalid configuration")

// ErrGeometry indicates degenerate or otherwise unusable input geometry
// for one partition. It is recoverable: the assemblers skip the offending
// partition, log a warning and continue with the rest of the layer.
var ErrGeometry = errors.New("stitch: degenerate geometry")

// Cancellation is not an error class of its own: a superseded computation
// returns its context's error (context.Canceled or context.DeadlineExceeded)
// and the partial result is discarded.
