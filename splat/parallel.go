package splat

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEachChunk runs fn over [0, n) in ChunkSize slices on up to workers
// goroutines (0 means GOMAXPROCS). Each call owns its slice of the output.
func forEachChunk(n, workers int, fn func(chunk, lo, hi int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for c, lo := 0, 0; lo < n; c, lo = c+1, lo+ChunkSize {
		hi := min(lo+ChunkSize, n)
		g.Go(func() error { return fn(c, lo, hi) })
	}
	return g.Wait()
}
