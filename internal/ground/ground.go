// Package ground wraps an elevation.Grid (or a flat ground level when
// elevation is disabled) behind a small, pure, idempotent query surface, per
// spec §4.C and original_source/src/ground.rs.
package ground

import "github.com/jcobol-labs/osm2mc/internal/elevation"

// Point is a cartesian world-block (x,z) coordinate relative to the grid's
// origin.
type Point struct {
	X, Z int
}

// Ground is immutable after construction.
type Ground struct {
	elevationEnabled bool
	groundLevel      int
	grid             *elevation.Grid
}

// NewFlat builds a Ground with elevation disabled: level always returns
// groundLevel.
func NewFlat(groundLevel int) *Ground {
	return &Ground{groundLevel: groundLevel}
}

// NewFromGrid builds a Ground backed by a fetched elevation grid.
func NewFromGrid(groundLevel int, grid *elevation.Grid) *Ground {
	return &Ground{elevationEnabled: true, groundLevel: groundLevel, grid: grid}
}

// ElevationEnabled reports whether this Ground is backed by real terrain
// data rather than a flat plane.
func (g *Ground) ElevationEnabled() bool {
	return g.elevationEnabled
}

// GroundLevel returns the configured flat ground level regardless of
// whether elevation data is available.
func (g *Ground) GroundLevel() int {
	return g.groundLevel
}

// Level returns the terrain height at p: the flat ground level if elevation
// is disabled, otherwise the nearest elevation grid cell (clamped to the
// grid's edges).
func (g *Ground) Level(p Point) int {
	if !g.elevationEnabled || g.grid == nil {
		return g.groundLevel
	}
	x, z := g.dataCoordinates(p)
	return g.grid.HeightAt(x, z)
}

func (g *Ground) dataCoordinates(p Point) (int, int) {
	xRatio := clamp01(float64(p.X) / float64(g.grid.Width))
	zRatio := clamp01(float64(p.Z) / float64(g.grid.Height))
	x := clampIdx(int(roundf(xRatio*float64(g.grid.Width-1))), g.grid.Width)
	z := clampIdx(int(roundf(zRatio*float64(g.grid.Height-1))), g.grid.Height)
	return x, z
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampIdx(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

func roundf(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

// MinLevel returns the minimum Level over points, or groundLevel when
// elevation is disabled or points is empty.
func (g *Ground) MinLevel(points []Point) int {
	if !g.elevationEnabled || len(points) == 0 {
		return g.groundLevel
	}
	min := g.Level(points[0])
	for _, p := range points[1:] {
		if l := g.Level(p); l < min {
			min = l
		}
	}
	return min
}

// MaxLevel returns the maximum Level over points, or groundLevel when
// elevation is disabled or points is empty.
func (g *Ground) MaxLevel(points []Point) int {
	if !g.elevationEnabled || len(points) == 0 {
		return g.groundLevel
	}
	max := g.Level(points[0])
	for _, p := range points[1:] {
		if l := g.Level(p); l > max {
			max = l
		}
	}
	return max
}
