package editor

import (
	"context"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type regionKey struct{ rx, rz int }

// Save flushes every touched chunk to .mca region files under <outDir>/region,
// one file per 32x32-chunk region, written in parallel bounded by GOMAXPROCS
// (spec §4.D point 6 / §6). It takes a read lock for the duration of the
// snapshot pass; mutating the Editor concurrently with Save is unsupported.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.RLock()
	regions := make(map[regionKey]map[[2]int]*Chunk)
	for key, chunk := range e.chunks {
		rx, rz := floorDiv(key.cx, regionWidth), floorDiv(key.cz, regionWidth)
		lx, lz := floorMod(key.cx, regionWidth), floorMod(key.cz, regionWidth)
		rk := regionKey{rx, rz}
		if regions[rk] == nil {
			regions[rk] = make(map[[2]int]*Chunk)
		}
		regions[rk][[2]int{lx, lz}] = chunk
	}
	e.mu.RUnlock()

	regionDir := filepath.Join(e.outDir, "region")

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSaves())
	for rk, chunks := range regions {
		rk, chunks := rk, chunks
		g.Go(func() error {
			path := filepath.Join(regionDir, regionFileName(rk.rx, rk.rz))
			return writeRegionFile(path, chunks)
		})
	}
	return g.Wait()
}

func maxParallelSaves() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}
