package editor

import (
	"sync"

	"github.com/jcobol-labs/osm2mc/internal/block"
	"github.com/jcobol-labs/osm2mc/internal/ground"
)

// Rect is the inclusive-exclusive world-block bounding rectangle an Editor
// will accept writes within: [MinX,MaxX) x [MinZ,MaxZ).
type Rect struct {
	MinX, MinZ, MaxX, MaxZ int
}

func (r Rect) contains(x, z int) bool {
	return x >= r.MinX && x < r.MaxX && z >= r.MinZ && z < r.MaxZ
}

type chunkKey struct{ cx, cz int }

// Editor is the sparse, write-buffered voxel world (spec §4.D). It owns the
// chunk map, the world's bounding rectangle, and an optional Ground used to
// translate relative Y offsets into absolute Y. Mutation operations take a
// write lock. Save holds a read lock only while it snapshots the chunk map
// and then writes region files without it, so mutating the Editor while
// Save runs is unsupported.
type Editor struct {
	mu     sync.RWMutex
	rect   Rect
	chunks map[chunkKey]*Chunk
	ground *ground.Ground
	outDir string
}

// New returns an Editor bounded by rect, writing region files under outDir
// on Save.
func New(rect Rect, outDir string) *Editor {
	return &Editor{
		rect:   rect,
		chunks: make(map[chunkKey]*Chunk),
		outDir: outDir,
	}
}

// SetGround attaches (or replaces) the ground model used by GetAbsoluteY.
func (e *Editor) SetGround(g *ground.Ground) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ground = g
}

// GetGround returns the currently attached ground model, or nil.
func (e *Editor) GetGround() *ground.Ground {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ground
}

// GetAbsoluteY converts a relative Y offset (e.g. "2 blocks above terrain")
// at world column (x,z) into an absolute world Y, using the attached
// ground model. With no ground attached it treats relY as already absolute.
func (e *Editor) GetAbsoluteY(x, relY, z int) int {
	e.mu.RLock()
	g := e.ground
	e.mu.RUnlock()
	if g == nil {
		return relY
	}
	return g.Level(ground.Point{X: x, Z: z}) + relY
}

func chunkAndLocal(x, z int) (cx, cz, lx, lz int) {
	cx, cz = floorDiv(x, SectionSize), floorDiv(z, SectionSize)
	lx, lz = floorMod(x, SectionSize), floorMod(z, SectionSize)
	return
}

func sectionAndLocalY(y int) (sy, ly int) {
	sy = floorDiv(y, SectionSize)
	ly = floorMod(y, SectionSize)
	return
}

// GetBlockAbsolute returns the block currently at absolute (x,y,z) and
// whether that cell is within bounds and has a backing section at all
// (an out-of-bounds or never-touched-section cell reads as air, ok=false).
func (e *Editor) GetBlockAbsolute(x, y, z int) (block.Block, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.rect.contains(x, z) || y < MinY || y > MaxY {
		return block.Air, false
	}
	cx, cz, lx, lz := chunkAndLocal(x, z)
	sy, ly := sectionAndLocalY(y)
	chunk, ok := e.chunks[chunkKey{cx, cz}]
	if !ok {
		return block.Air, false
	}
	sec := chunk.sectionAt(sy, false)
	if sec == nil {
		return block.Air, false
	}
	return sec.CurrentBlock(lx, ly, lz), true
}

// SetBlockAbsolute writes handle at absolute (x,y,z), subject to gating:
// if overwriteOnly is non-nil, the write is dropped unless the current
// block is a member of it; if skipIfIn is non-nil, the write is dropped if
// the current block is a member of it. Writes outside the world rectangle
// or legal section-Y range are silently dropped (spec §4.D / §9).
func (e *Editor) SetBlockAbsolute(handle block.Block, x, y, z int, overwriteOnly, skipIfIn map[block.Block]bool) {
	e.SetBlockWithPropertiesAbsolute(block.Bare(handle), x, y, z, overwriteOnly, skipIfIn)
}

// SetBlockWithPropertiesAbsolute is SetBlockAbsolute for a block that
// carries block-state properties.
func (e *Editor) SetBlockWithPropertiesAbsolute(w block.WithProperties, x, y, z int, overwriteOnly, skipIfIn map[block.Block]bool) {
	if !e.rect.contains(x, z) {
		return
	}
	sy, ly := sectionAndLocalY(y)
	if sy < MinSectionY || sy > MaxSectionY {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cx, cz, lx, lz := chunkAndLocal(x, z)
	key := chunkKey{cx, cz}
	chunk, ok := e.chunks[key]
	if !ok {
		chunk = newChunk(cx, cz)
		e.chunks[key] = chunk
	}
	sec := chunk.sectionAt(sy, true)

	if overwriteOnly != nil || skipIfIn != nil {
		current := sec.CurrentBlock(lx, ly, lz)
		if overwriteOnly != nil && !overwriteOnly[current] {
			return
		}
		if skipIfIn != nil && skipIfIn[current] {
			return
		}
	}
	sec.SetBlock(lx, ly, lz, w)
}

// SetBiomeAbsolute writes biome into the 4x4x4 sub-cube containing absolute
// (x,y,z). Out-of-bounds writes are silently dropped.
func (e *Editor) SetBiomeAbsolute(biome block.Biome, x, y, z int) {
	if !e.rect.contains(x, z) {
		return
	}
	sy, ly := sectionAndLocalY(y)
	if sy < MinSectionY || sy > MaxSectionY {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cx, cz, lx, lz := chunkAndLocal(x, z)
	key := chunkKey{cx, cz}
	chunk, ok := e.chunks[key]
	if !ok {
		chunk = newChunk(cx, cz)
		e.chunks[key] = chunk
	}
	sec := chunk.sectionAt(sy, true)
	sec.SetBiome(lx, ly, lz, biome)
}

// ChunkCount returns the number of chunks currently touched, for tests and
// progress reporting.
func (e *Editor) ChunkCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.chunks)
}
