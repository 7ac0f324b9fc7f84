package editor

import (
	"testing"

	"github.com/jcobol-labs/osm2mc/internal/block"
	"github.com/jcobol-labs/osm2mc/internal/ground"
)

func testRect() Rect {
	return Rect{MinX: -8, MinZ: -8, MaxX: 8, MaxZ: 8}
}

func TestSetBlockAbsoluteOutOfRectDropped(t *testing.T) {
	e := New(testRect(), t.TempDir())
	e.SetBlockAbsolute(block.Stone, 1000, 0, 1000, nil, nil)
	if e.ChunkCount() != 0 {
		t.Error("write outside the world rectangle should be dropped")
	}
}

func TestSetBlockAbsoluteOutOfSectionYDropped(t *testing.T) {
	e := New(testRect(), t.TempDir())
	e.SetBlockAbsolute(block.Stone, 0, 100000, 0, nil, nil)
	got, ok := e.GetBlockAbsolute(0, 100000, 0)
	if ok || got != block.Air {
		t.Errorf("write far outside the legal Y range should be dropped, got (%v, %v)", got, ok)
	}
}

func TestSetBlockAbsoluteRoundTrip(t *testing.T) {
	e := New(testRect(), t.TempDir())
	e.SetBlockAbsolute(block.Stone, 3, 10, -3, nil, nil)
	got, ok := e.GetBlockAbsolute(3, 10, -3)
	if !ok || got != block.Stone {
		t.Errorf("GetBlockAbsolute = (%v, %v), want (Stone, true)", got, ok)
	}
	if e.ChunkCount() != 1 {
		t.Errorf("ChunkCount = %d, want 1", e.ChunkCount())
	}
}

func TestOverwriteOnlyGating(t *testing.T) {
	e := New(testRect(), t.TempDir())
	onlyWater := map[block.Block]bool{block.Water: true}

	// Cell starts as air: overwrite_only={water} should drop this write.
	e.SetBlockAbsolute(block.Stone, 0, 0, 0, onlyWater, nil)
	if got, _ := e.GetBlockAbsolute(0, 0, 0); got != block.Air {
		t.Errorf("expected drop (current=air not in overwrite_only), got %v", got)
	}

	e.SetBlockAbsolute(block.Water, 0, 0, 0, nil, nil)
	e.SetBlockAbsolute(block.Stone, 0, 0, 0, onlyWater, nil)
	if got, _ := e.GetBlockAbsolute(0, 0, 0); got != block.Stone {
		t.Errorf("expected write through (current=water in overwrite_only), got %v", got)
	}
}

func TestSkipIfInGating(t *testing.T) {
	e := New(testRect(), t.TempDir())
	skipStone := map[block.Block]bool{block.Stone: true}

	e.SetBlockAbsolute(block.Stone, 0, 0, 0, nil, nil)
	e.SetBlockAbsolute(block.Water, 0, 0, 0, nil, skipStone)
	if got, _ := e.GetBlockAbsolute(0, 0, 0); got != block.Stone {
		t.Errorf("expected drop (current=stone is in skip_if_in), got %v", got)
	}

	e.SetBlockAbsolute(block.Stone, 1, 0, 0, nil, skipStone)
	e.SetBlockAbsolute(block.Water, 1, 0, 0, nil, skipStone)
	if got, _ := e.GetBlockAbsolute(1, 0, 0); got != block.Stone {
		t.Errorf("expected drop (current=stone from prior write is in skip_if_in), got %v", got)
	}
}

func TestGetAbsoluteYUsesGround(t *testing.T) {
	e := New(testRect(), t.TempDir())
	e.SetGround(ground.NewFlat(-40))
	if y := e.GetAbsoluteY(0, 2, 0); y != -38 {
		t.Errorf("GetAbsoluteY = %d, want -38", y)
	}
}

func TestGetAbsoluteYWithoutGroundTreatsOffsetAsAbsolute(t *testing.T) {
	e := New(testRect(), t.TempDir())
	if y := e.GetAbsoluteY(0, 72, 0); y != 72 {
		t.Errorf("GetAbsoluteY = %d, want 72 (no ground attached)", y)
	}
}

func TestSetBiomeAbsoluteAffectsWholeSubCube(t *testing.T) {
	e := New(testRect(), t.TempDir())
	e.SetBiomeAbsolute(block.Forest, 0, 0, 0)
	if e.ChunkCount() != 1 {
		t.Errorf("ChunkCount = %d, want 1", e.ChunkCount())
	}
	// No public biome getter is exposed, so read the section directly: every
	// cell of the 4x4x4 sub-cube holding (0,0,0) is forest, the next one is not.
	sec := e.chunks[chunkKey{0, 0}].sectionAt(0, false)
	biomeAt := func(x, y, z int) block.Biome { return sec.biomePalette[sec.biomeIdx[biomeCellIndex(x, y, z)]] }
	if got := biomeAt(3, 3, 3); got != block.Forest {
		t.Errorf("biome at (3,3,3) = %v, want Forest", got)
	}
	if got := biomeAt(4, 0, 0); got != block.Plains {
		t.Errorf("biome at (4,0,0) = %v, want Plains", got)
	}
}
