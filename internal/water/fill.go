// Package water implements the polygon-driven inverse flood-fill that
// decides which world cells lie inside (or, for coastlines, outside) a
// water polygon, and the deterministic tag-to-biome mapping used to label
// the cells it fills (spec §4.F, §4.G).
package water

import (
	"math"
	"time"

	"github.com/paulmach/orb"

	"github.com/jcobol-labs/osm2mc/internal/block"
	"github.com/jcobol-labs/osm2mc/internal/editor"
	"github.com/jcobol-labs/osm2mc/internal/geom"
	"github.com/jcobol-labs/osm2mc/internal/ground"
	"github.com/jcobol-labs/osm2mc/internal/osm"
)

// defaultQuadrantCellThreshold is the cell-count floor below which the
// inverse flood-fill switches from quadrant recursion to per-cell iteration
// (spec §4.F step 5 / §9).
const defaultQuadrantCellThreshold = 10000

// defaultRecursionBudget is the wall-clock cap on the inverse flood-fill's
// recursive phase; on expiry the remaining quadrant completes via per-cell
// iteration rather than aborting (spec §5).
const defaultRecursionBudget = 25 * time.Second

// Filler places water cells for OSM water elements into an Editor.
// QuadrantCellThreshold and RecursionBudget are tunables normally sourced
// from internal/config; their zero value falls back to the spec defaults.
type Filler struct {
	Editor                *editor.Editor
	Ground                *ground.Ground
	Rect                  geom.Rect
	QuadrantCellThreshold int
	RecursionBudget       time.Duration
}

// New returns a Filler bounded by rect, writing into ed and reading terrain
// heights from g.
func New(ed *editor.Editor, g *ground.Ground, rect geom.Rect) *Filler {
	return &Filler{
		Editor:                ed,
		Ground:                g,
		Rect:                  rect,
		QuadrantCellThreshold: defaultQuadrantCellThreshold,
		RecursionBudget:       defaultRecursionBudget,
	}
}

func (f *Filler) quadrantCellThreshold() int64 {
	if f.QuadrantCellThreshold != 0 {
		return int64(f.QuadrantCellThreshold)
	}
	return defaultQuadrantCellThreshold
}

func (f *Filler) recursionBudget() time.Duration {
	if f.RecursionBudget != 0 {
		return f.RecursionBudget
	}
	return defaultRecursionBudget
}

// Fill runs the full water-area pipeline for one element: tag gate, ring
// assembly, clipping, water-level computation, inverse flood-fill, and cell
// fill — falling back to barrier rasterize-and-seal when the element's
// rings never close (spec §4.F).
func (f *Filler) Fill(elem Element, fillOutside bool) {
	if !fillOutside && !passesTagGate(elem.Tags, elem.IsWay) {
		return
	}

	outerRings, outerClosed := mergeLoops(elem.Outer)
	innerRings, _ := mergeLoops(elem.Inner)

	if !outerClosed || len(outerRings) == 0 {
		f.barrierFallback(elem, fillOutside)
		return
	}

	var clippedOuters []orb.Ring
	for _, r := range outerRings {
		c := geom.ClipRingToRect(r, f.Rect)
		if len(c) >= 4 {
			clippedOuters = append(clippedOuters, c)
		}
	}

	waterLevel := f.waterLevelFromRings(outerRings)
	biome := BiomeFor(elem.Tags)

	if len(clippedOuters) == 0 {
		if !fillOutside {
			return
		}
		for z := f.Rect.MinZ; z < f.Rect.MaxZ; z++ {
			for x := f.Rect.MinX; x < f.Rect.MaxX; x++ {
				f.fillCell(x, z, waterLevel, biome)
			}
		}
		return
	}

	deadline := time.Now().Add(f.recursionBudget())
	f.inverseFloodFill(f.Rect, clippedOuters, innerRings, fillOutside, deadline, func(x, z int) {
		f.fillCell(x, z, waterLevel, biome)
	})
}

// fillCell implements spec §4.F step 6: submerge terrain up to water_level
// when the terrain sits at or above it, else place a single water cell.
func (f *Filler) fillCell(x, z int, waterLevel int, biome block.Biome) {
	terrain := f.Ground.Level(ground.Point{X: x, Z: z})
	if terrain >= waterLevel {
		for y := waterLevel; y <= terrain; y++ {
			f.Editor.SetBlockAbsolute(block.Water, x, y, z, nil, nil)
		}
		f.Editor.SetBiomeAbsolute(biome, x, terrain, z)
		return
	}
	f.Editor.SetBlockAbsolute(block.Water, x, waterLevel, z, nil, nil)
	f.Editor.SetBiomeAbsolute(biome, x, waterLevel, z)
}

func (f *Filler) waterLevelFromRings(rings []orb.Ring) int {
	if !f.Ground.ElevationEnabled() {
		return f.Ground.GroundLevel()
	}
	min := math.MaxInt
	for _, ring := range rings {
		for _, p := range ring {
			lvl := f.Ground.Level(ground.Point{X: int(p[0]), Z: int(p[1])})
			if lvl < min {
				min = lvl
			}
		}
	}
	if min == math.MaxInt {
		return f.Ground.GroundLevel()
	}
	return min
}

// ringIntersectsCell reports whether ring shares any point with cell: an
// edge crossing, a ring vertex inside the cell, or a cell corner inside the
// ring all count, matching the geometry-library "do these regions overlap
// at all" test original_source runs per quadrant/cell.
func ringIntersectsCell(ring orb.Ring, cell geom.Rect) bool {
	return geom.RingIntersectsRect(ring, cell) || geom.RingContainsRect(ring, cell)
}

func anyRingIntersects(rings []orb.Ring, cell geom.Rect) bool {
	for _, r := range rings {
		if ringIntersectsCell(r, cell) {
			return true
		}
	}
	return false
}

type fillDecision int

const (
	skipQuadrant fillDecision = iota
	fillQuadrant
	mixedQuadrant
)

// classifyQuadrant implements spec §4.F step 5's terminal conditions: in
// !fillOutside mode, an outer containing the rect with no inner crossing it
// fills unconditionally; in fill_outside/coastline mode a rect fully inside
// an outer is land, so that same condition must NOT fill it there — only a
// rect touched by no outer and no inner at all (fully outside the land
// polygon) fills in that mode.
func classifyQuadrant(rect geom.Rect, outers, inners []orb.Ring, fillOutside bool) fillDecision {
	anyContains := false
	for _, o := range outers {
		if geom.RingContainsRect(o, rect) {
			anyContains = true
			break
		}
	}
	anyInnerIntersects := anyRingIntersects(inners, rect)
	if !fillOutside && anyContains && !anyInnerIntersects {
		return fillQuadrant
	}

	anyOuterIntersects := anyRingIntersects(outers, rect)
	if !anyOuterIntersects && !anyInnerIntersects {
		if fillOutside {
			return fillQuadrant
		}
		return skipQuadrant
	}
	return mixedQuadrant
}

func (f *Filler) inverseFloodFill(rect geom.Rect, outers, inners []orb.Ring, fillOutside bool, deadline time.Time, fillFn func(x, z int)) {
	switch classifyQuadrant(rect, outers, inners, fillOutside) {
	case fillQuadrant:
		for z := rect.MinZ; z < rect.MaxZ; z++ {
			for x := rect.MinX; x < rect.MaxX; x++ {
				fillFn(x, z)
			}
		}
		return
	case skipQuadrant:
		return
	}

	width := rect.MaxX - rect.MinX
	height := rect.MaxZ - rect.MinZ
	cells := int64(width) * int64(height)
	if width <= 1 || height <= 1 || cells < f.quadrantCellThreshold() || time.Now().After(deadline) {
		f.perCellFill(rect, outers, inners, fillOutside, fillFn)
		return
	}

	for _, q := range splitQuadrant(rect) {
		f.inverseFloodFill(q, outers, inners, fillOutside, deadline, fillFn)
	}
}

func splitQuadrant(rect geom.Rect) []geom.Rect {
	midX := rect.MinX + (rect.MaxX-rect.MinX)/2
	midZ := rect.MinZ + (rect.MaxZ-rect.MinZ)/2
	return []geom.Rect{
		{MinX: rect.MinX, MinZ: rect.MinZ, MaxX: midX, MaxZ: midZ},
		{MinX: midX, MinZ: rect.MinZ, MaxX: rect.MaxX, MaxZ: midZ},
		{MinX: rect.MinX, MinZ: midZ, MaxX: midX, MaxZ: rect.MaxZ},
		{MinX: midX, MinZ: midZ, MaxX: rect.MaxX, MaxZ: rect.MaxZ},
	}
}

// perCellFill is the per-cell fallback of spec §4.F step 5: each cell is
// tested for polygon overlap directly, mirroring original_source's
// per-cell intersects/contains test rather than a single center-point
// containment check.
func (f *Filler) perCellFill(rect geom.Rect, outers, inners []orb.Ring, fillOutside bool, fillFn func(x, z int)) {
	for z := rect.MinZ; z < rect.MaxZ; z++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			cell := geom.Rect{MinX: x, MinZ: z, MaxX: x + 1, MaxZ: z + 1}
			inOuter := anyRingIntersects(outers, cell)
			inInner := anyRingIntersects(inners, cell)
			water := (fillOutside && (!inOuter || inInner)) || (!fillOutside && inOuter && !inInner)
			if water {
				fillFn(x, z)
			}
		}
	}
}

// barrierFallback implements spec §4.F step 7, used when ring assembly
// never closes: rasterize every member line with boundary sealing, then
// flood-fill the outside from the rectangle border.
func (f *Filler) barrierFallback(elem Element, fillOutside bool) {
	var lines [][]geom.Point3
	allWays := append(append([]osm.ProcessedWay{}, elem.Outer...), elem.Inner...)
	for _, w := range allWays {
		pts := make([]geom.Point3, len(w.Nodes))
		for i, n := range w.Nodes {
			pts[i] = geom.Point3{X: n.X, Z: n.Z}
		}
		lines = append(lines, pts)
	}
	if len(lines) == 0 {
		return
	}

	barrier := geom.RasterizeAndSeal(lines, f.Rect)
	outside := geom.FloodFillOutside(barrier)

	waterLevel := f.waterLevelFromWays(allWays)
	biome := BiomeFor(elem.Tags)

	for lz := range outside {
		for lx := range outside[lz] {
			isOutside := outside[lz][lx]
			isBarrier := barrier[lz][lx]
			var water bool
			if fillOutside {
				water = isOutside || isBarrier
			} else {
				water = !isOutside
			}
			if water {
				f.fillCell(f.Rect.MinX+lx, f.Rect.MinZ+lz, waterLevel, biome)
			}
		}
	}
}

func (f *Filler) waterLevelFromWays(ways []osm.ProcessedWay) int {
	if !f.Ground.ElevationEnabled() {
		return f.Ground.GroundLevel()
	}
	min := math.MaxInt
	for _, w := range ways {
		for _, n := range w.Nodes {
			lvl := f.Ground.Level(ground.Point{X: n.X, Z: n.Z})
			if lvl < min {
				min = lvl
			}
		}
	}
	if min == math.MaxInt {
		return f.Ground.GroundLevel()
	}
	return min
}
