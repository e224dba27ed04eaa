package stitch

import (
	"context"
	"math/rand"
)

// randomFill covers the mask at AutoFill density but emits the segments in
// a shuffled order. The shuffle is seeded from the mask content hash, so
// recomputation on unchanged input reproduces the same order bit-for-bit.
func randomFill(ctx context.Context, m *Mask, params FillParameters, mergeGap float64) (RawFillGeometry, error) {
	geom, err := scanFill(ctx, m, params, mergeGap)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(int64(m.Hash())))
	rng.Shuffle(len(geom), func(i, j int) {
		geom[i], geom[j] = geom[j], geom[i]
	})
	// Also flip segment direction pseudo-randomly so the shuffled order
	// does not keep the serpentine orientation pattern.
	for i := range geom {
		if rng.Intn(2) == 1 {
			geom[i] = geom[i].Reverse()
		}
	}
	return geom, nil
}
