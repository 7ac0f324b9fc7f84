package water

import (
	"testing"

	"github.com/jcobol-labs/osm2mc/internal/block"
	"github.com/jcobol-labs/osm2mc/internal/editor"
	"github.com/jcobol-labs/osm2mc/internal/geom"
	"github.com/jcobol-labs/osm2mc/internal/ground"
	"github.com/jcobol-labs/osm2mc/internal/osm"
)

func closedSquareWay(minX, minZ, maxX, maxZ int) osm.ProcessedWay {
	return wayOf(100,
		node(1, minX, minZ),
		node(2, maxX, minZ),
		node(3, maxX, maxZ),
		node(4, minX, maxZ),
		node(1, minX, minZ),
	)
}

func TestFillClosedSquareRiverbankFillsInteriorNotExterior(t *testing.T) {
	ed := editor.New(editor.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, t.TempDir())
	g := ground.NewFlat(0)
	ed.SetGround(g)

	f := New(ed, g, geom.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20})

	way := closedSquareWay(0, 0, 10, 10)
	elem := Element{Tags: osm.Tags{"waterway": "riverbank"}, Outer: []osm.ProcessedWay{way}, IsWay: true}

	f.Fill(elem, false)

	if b, ok := ed.GetBlockAbsolute(5, 0, 5); !ok || b != block.Water {
		t.Fatalf("expected water at clearly interior cell (5,5), got %v ok=%v", b, ok)
	}
	if b, ok := ed.GetBlockAbsolute(-15, 0, -15); ok && b == block.Water {
		t.Fatalf("expected no water at clearly exterior cell (-15,-15), got %v", b)
	}
}

func TestFillLakeWayWithReservoirTag(t *testing.T) {
	ed := editor.New(editor.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, t.TempDir())
	g := ground.NewFlat(0)
	ed.SetGround(g)

	f := New(ed, g, geom.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20})

	way := closedSquareWay(-5, -5, 5, 5)
	elem := FromWay(way)
	elem.Tags = osm.Tags{"natural": "water", "water": "reservoir"}

	f.Fill(elem, false)

	if b, ok := ed.GetBlockAbsolute(0, 0, 0); !ok || b != block.Water {
		t.Fatalf("expected water at lake center, got %v ok=%v", b, ok)
	}
	if b, ok := ed.GetBlockAbsolute(-15, 0, -15); ok && b == block.Water {
		t.Fatalf("expected no water outside lake, got %v", b)
	}
}

func TestFillGatedOutByLayerTag(t *testing.T) {
	ed := editor.New(editor.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, t.TempDir())
	g := ground.NewFlat(0)
	ed.SetGround(g)
	f := New(ed, g, geom.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20})

	way := closedSquareWay(0, 0, 10, 10)
	elem := Element{Tags: osm.Tags{"waterway": "riverbank", "layer": "-1"}, Outer: []osm.ProcessedWay{way}, IsWay: true}

	f.Fill(elem, false)

	if b, ok := ed.GetBlockAbsolute(5, 0, 5); ok && b == block.Water {
		t.Fatalf("expected no water once layer<0 gates the element out, got %v", b)
	}
}

func TestFillCellSubmergesTerrainAboveWaterLevel(t *testing.T) {
	ed := editor.New(editor.Rect{MinX: -5, MinZ: -5, MaxX: 20, MaxZ: 20}, t.TempDir())
	g := ground.NewFlat(5)
	f := &Filler{Editor: ed, Ground: g, Rect: geom.Rect{MinX: -5, MinZ: -5, MaxX: 20, MaxZ: 20}}

	f.fillCell(5, 3, 3, block.River)

	for y := 3; y <= 5; y++ {
		if b, ok := ed.GetBlockAbsolute(5, y, 3); !ok || b != block.Water {
			t.Fatalf("expected water at y=%d, got %v ok=%v", y, b, ok)
		}
	}
}

func TestFillCellSingleBlockWhenTerrainBelowWaterLevel(t *testing.T) {
	ed := editor.New(editor.Rect{MinX: -5, MinZ: -5, MaxX: 20, MaxZ: 20}, t.TempDir())
	g := ground.NewFlat(1)
	f := &Filler{Editor: ed, Ground: g, Rect: geom.Rect{MinX: -5, MinZ: -5, MaxX: 20, MaxZ: 20}}

	f.fillCell(15, 3, 3, block.River)

	if b, ok := ed.GetBlockAbsolute(15, 3, 3); !ok || b != block.Water {
		t.Fatalf("expected single water block at y=3, got %v ok=%v", b, ok)
	}
	if b, ok := ed.GetBlockAbsolute(15, 1, 3); ok && b == block.Water {
		t.Fatalf("expected no water at terrain level y=1, got %v", b)
	}
}

func TestFillCoastlineFloodsOutsideLandNotInsideLand(t *testing.T) {
	// World is 300x300 = 90,000 cells, well above QuadrantCellThreshold
	// (10,000), so the recursive quadrant-splitting path runs rather than
	// falling straight to perCellFill.
	ed := editor.New(editor.Rect{MinX: 0, MinZ: 0, MaxX: 300, MaxZ: 300}, t.TempDir())
	g := ground.NewFlat(0)
	ed.SetGround(g)

	f := New(ed, g, geom.Rect{MinX: 0, MinZ: 0, MaxX: 300, MaxZ: 300})

	land := closedSquareWay(100, 100, 200, 200)
	elem := Element{Tags: osm.Tags{"natural": "coastline"}, Outer: []osm.ProcessedWay{land}, IsWay: true}

	f.Fill(elem, true)

	if b, ok := ed.GetBlockAbsolute(150, 0, 150); ok && b == block.Water {
		t.Fatalf("expected no water deep inside the land polygon, got %v", b)
	}
	if b, ok := ed.GetBlockAbsolute(10, 0, 10); !ok || b != block.Water {
		t.Fatalf("expected water well outside the land polygon, got %v ok=%v", b, ok)
	}
	if b, ok := ed.GetBlockAbsolute(290, 0, 290); !ok || b != block.Water {
		t.Fatalf("expected water in the far corner outside the land polygon, got %v ok=%v", b, ok)
	}
}

func TestFillBarrierFallbackUsedWhenRingNeverCloses(t *testing.T) {
	ed := editor.New(editor.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20}, t.TempDir())
	g := ground.NewFlat(0)
	ed.SetGround(g)
	f := New(ed, g, geom.Rect{MinX: -20, MinZ: -20, MaxX: 20, MaxZ: 20})

	// The open way runs out past the world's west edge at both ends; the
	// seal along that edge closes it, since only world-boundary crossings
	// are sealed.
	open := wayOf(200, node(1, -30, -10), node(2, 10, -10), node(3, 10, 10), node(4, -30, 10))
	elem := Element{Tags: osm.Tags{"natural": "water"}, Outer: []osm.ProcessedWay{open}, IsWay: true}

	f.Fill(elem, false)

	if b, ok := ed.GetBlockAbsolute(0, 0, 0); !ok || b != block.Water {
		t.Fatalf("expected barrier fallback to fill interior, got %v ok=%v", b, ok)
	}
}
