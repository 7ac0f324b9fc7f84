// Package elevation fetches and decodes Terrarium-format digital elevation
// tiles and reprojects them into an interpolated Minecraft height grid,
// grounded on original_source/src/elevation_data.rs and ground.rs.
package elevation

import "math"

// MaxY is Minecraft's build height limit.
const MaxY = 319

// Grid is a dense width x height raster of raw elevation meters plus the
// derived scaling parameters used to convert a raw value into a Minecraft Y
// level. Invariant: for any (x,z) within the grid, HeightAt(x,z) is
// monotonic in the raw value and lies in [GroundLevel, MaxY].
type Grid struct {
	Width, Height int
	heights       []int16 // raw meters, row-major: index = z*Width + x

	Min         int16
	Range       int16
	ScaledRange float64
	GroundLevel int
}

// NewGrid allocates a grid of the given size with all cells unwritten
// (sentinel value, replaced with 0 before Finalize).
func NewGrid(width, height, groundLevel int) *Grid {
	g := &Grid{
		Width:       width,
		Height:      height,
		GroundLevel: groundLevel,
	}
	g.heights = make([]int16, width*height)
	for i := range g.heights {
		g.heights[i] = minInt16
	}
	return g
}

const minInt16 = -1 << 15

// Deposit records a rounded raw-meter reading at grid cell (x,z), keeping
// the grid's sentinel-fill semantics (later writes within the same tile
// pass simply overwrite, matching the upstream per-pixel reprojection loop).
func (g *Grid) Deposit(x, z int, meters int16) {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Height {
		return
	}
	g.heights[z*g.Width+x] = meters
}

// Finalize replaces unwritten cells with 0, computes (min, range), and
// derives ScaledRange from scale per spec §4.B steps 4-5.
func (g *Grid) Finalize(scale float64) {
	var min, max int16 = 1<<15 - 1, -1 << 15
	for i, h := range g.heights {
		if h == minInt16 {
			h = 0
			g.heights[i] = 0
		}
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	g.Min = min
	g.Range = max - min

	heightScale := 0.7 * math.Sqrt(scale)
	scaledRange := float64(g.Range) * heightScale

	availableRange := float64(MaxY - g.GroundLevel)
	maxAllowed := availableRange * 0.9
	if scaledRange > maxAllowed && scaledRange > 0 {
		heightScale *= maxAllowed / scaledRange
		scaledRange = float64(g.Range) * heightScale
	}
	g.ScaledRange = scaledRange
}

// RawAt returns the raw meters stored at grid cell (x,z).
func (g *Grid) RawAt(x, z int) int16 {
	return g.heights[z*g.Width+x]
}

// HeightAt converts grid cell (x,z)'s raw elevation into a Minecraft Y
// level, per spec §4.B step 6.
func (g *Grid) HeightAt(x, z int) int {
	raw := g.RawAt(x, z)
	if g.Range == 0 {
		return clampInt(g.GroundLevel, g.GroundLevel, MaxY)
	}
	relative := float64(raw-g.Min) / float64(g.Range)
	scaled := relative * g.ScaledRange
	h := int(math.Round(float64(g.GroundLevel) + scaled))
	return clampInt(h, g.GroundLevel, MaxY)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
