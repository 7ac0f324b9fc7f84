package ground

import (
	"testing"

	"github.com/jcobol-labs/osm2mc/internal/elevation"
)

func TestFlatGroundAlwaysReturnsGroundLevel(t *testing.T) {
	g := NewFlat(-62)
	if g.Level(Point{X: 100, Z: -50}) != -62 {
		t.Errorf("Level = %d, want -62", g.Level(Point{X: 100, Z: -50}))
	}
	if g.MinLevel([]Point{{X: 1, Z: 1}, {X: 2, Z: 2}}) != -62 {
		t.Error("MinLevel on flat ground should equal ground level")
	}
}

func TestElevationGroundClampsToEdges(t *testing.T) {
	grid := elevation.NewGrid(2, 2, 0)
	grid.Deposit(0, 0, 10)
	grid.Deposit(1, 0, 10)
	grid.Deposit(0, 1, 10)
	grid.Deposit(1, 1, 10)
	grid.Finalize(1.0)
	g := NewFromGrid(0, grid)

	inBounds := g.Level(Point{X: 1, Z: 1})
	farOutside := g.Level(Point{X: 1000, Z: 1000})
	if inBounds != farOutside {
		t.Errorf("expected clamping to edge cell, got %d vs %d", inBounds, farOutside)
	}
}

func TestMinMaxLevelAggregate(t *testing.T) {
	grid := elevation.NewGrid(2, 1, 0)
	grid.Deposit(0, 0, 0)
	grid.Deposit(1, 0, 1000)
	grid.Finalize(1.0)
	g := NewFromGrid(0, grid)

	points := []Point{{X: 0, Z: 0}, {X: 1, Z: 0}}
	min := g.MinLevel(points)
	max := g.MaxLevel(points)
	if min > max {
		t.Errorf("min (%d) should not exceed max (%d)", min, max)
	}
}
