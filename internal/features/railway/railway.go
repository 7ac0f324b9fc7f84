// Package railway is a worked example of the excluded feature-generator
// surface (spec §1's Non-goals, detailed in SPEC_FULL.md §4.H): it walks a
// railway way's node line and places rail blocks, exercising
// geom.Line3D/geom.SmoothDiagonalRails and the Editor's absolute-coordinate
// write path end to end. Grounded on
// original_source/src/element_processing/railways.rs's generate_railways.
package railway

import (
	"github.com/jcobol-labs/osm2mc/internal/block"
	"github.com/jcobol-labs/osm2mc/internal/editor"
	"github.com/jcobol-labs/osm2mc/internal/geom"
	"github.com/jcobol-labs/osm2mc/internal/osm"
)

var (
	gravel       = block.InternBlock("minecraft:gravel")
	rail         = block.InternBlock("minecraft:rail")
	poweredRail  = block.InternBlock("minecraft:powered_rail")
	redstone     = block.InternBlock("minecraft:redstone_block")
	oakLog       = block.InternBlock("minecraft:oak_log")
)

// skippedRailwayTypes are railway= values that never get track placed:
// proposals, abandoned/razed lines, subway (underground, out of the
// surface-voxel model), construction, and turntables (need bespoke
// geometry this generator doesn't model).
var skippedRailwayTypes = map[string]bool{
	"proposed":     true,
	"abandoned":    true,
	"subway":       true,
	"construction": true,
	"razed":        true,
	"turntable":    true,
}

// Generate places one way's rail track into ed. DefaultOrientation picks the
// smoothing fallback used when a diagonal segment has no directional
// context at all (spec §9 Open Question, carried forward as configurable).
func Generate(ed *editor.Editor, w osm.ProcessedWay, defaultOrientation geom.RailOrientation) {
	railwayType, ok := w.Tags["railway"]
	if !ok || skippedRailwayTypes[railwayType] {
		return
	}
	if w.Tags["subway"] == "yes" || w.Tags["tunnel"] == "yes" {
		return
	}
	if len(w.Nodes) < 2 {
		return
	}

	path := buildSmoothedPath(w.Nodes, defaultOrientation)
	if len(path) == 0 {
		return
	}

	baseHeights := make([]int, len(path))
	for i, p := range path {
		baseHeights[i] = ed.GetAbsoluteY(p.X, 0, p.Z)
	}
	levelCorners(path, baseHeights)

	railCounter := 0
	for i, p := range path {
		baseY := baseHeights[i]
		railY := baseY + 1

		ed.SetBlockAbsolute(gravel, p.X, baseY, p.Z, nil, map[block.Block]bool{})
		ed.SetBlockAbsolute(block.Air, p.X, railY, p.Z, nil, map[block.Block]bool{})
		ed.SetBlockAbsolute(block.Air, p.X, railY+1, p.Z, nil, map[block.Block]bool{})

		var prev, next *railNeighbor
		if i > 0 {
			prev = &railNeighbor{X: path[i-1].X, Z: path[i-1].Z, Y: baseHeights[i-1] + 1}
		}
		if i+1 < len(path) {
			next = &railNeighbor{X: path[i+1].X, Z: path[i+1].Z, Y: baseHeights[i+1] + 1}
		}
		shape := determineRailShape(p.X, p.Z, railY, prev, next)

		if railCounter%8 == 7 && shape.straightOrAscending() {
			ed.SetBlockAbsolute(redstone, p.X, baseY, p.Z, nil, map[block.Block]bool{})
			ed.SetBlockWithPropertiesAbsolute(block.WithProperties{
				Block:      poweredRail,
				Properties: block.Properties{"shape": shape.String(), "powered": "true"},
			}, p.X, railY, p.Z, nil, map[block.Block]bool{})
		} else {
			ed.SetBlockWithPropertiesAbsolute(block.WithProperties{
				Block:      rail,
				Properties: block.Properties{"shape": shape.String()},
			}, p.X, railY, p.Z, nil, map[block.Block]bool{})
			if railCounter%4 == 0 {
				ed.SetBlockAbsolute(oakLog, p.X, baseY, p.Z, nil, map[block.Block]bool{})
			}
		}
		railCounter++
	}
}

// buildSmoothedPath flattens a way's node line into a single Y=0 point path,
// smoothing every consecutive node pair and stitching the per-segment
// results together without duplicating shared endpoints.
func buildSmoothedPath(nodes []osm.ProcessedNode, defaultOrientation geom.RailOrientation) []geom.Point3 {
	var path []geom.Point3
	for i := 1; i < len(nodes); i++ {
		seg := geom.Line3D(
			geom.Point3{X: nodes[i-1].X, Y: 0, Z: nodes[i-1].Z},
			geom.Point3{X: nodes[i].X, Y: 0, Z: nodes[i].Z},
		)
		smoothed := geom.SmoothDiagonalRails(seg, defaultOrientation)
		if len(path) == 0 {
			path = append(path, smoothed...)
		} else {
			path = append(path, smoothed[1:]...)
		}
	}
	return path
}

// levelCorners lowers either neighbour of a direction change that sits above
// the corner to the corner's base height, since the game cannot otherwise
// render a turn-and-climb transition in a single block. A neighbour below
// the corner keeps its height.
func levelCorners(path []geom.Point3, baseHeights []int) {
	for j := 1; j < len(path)-1; j++ {
		dirPrevX, dirPrevZ := path[j].X-path[j-1].X, path[j].Z-path[j-1].Z
		dirNextX, dirNextZ := path[j+1].X-path[j].X, path[j+1].Z-path[j].Z
		if dirPrevX == dirNextX && dirPrevZ == dirNextZ {
			continue
		}
		current := baseHeights[j]
		if baseHeights[j+1] > current {
			baseHeights[j+1] = current
		}
		if baseHeights[j-1] > current {
			baseHeights[j-1] = current
		}
	}
}

type railNeighbor struct{ X, Z, Y int }

// railShape mirrors original_source's RailShape enum: the set of
// orientations Minecraft's rail/powered_rail "shape" block-state accepts.
type railShape int

const (
	shapeNorthSouth railShape = iota
	shapeEastWest
	shapeNorthEast
	shapeNorthWest
	shapeSouthEast
	shapeSouthWest
	shapeAscendingEast
	shapeAscendingWest
	shapeAscendingNorth
	shapeAscendingSouth
)

func (s railShape) String() string {
	switch s {
	case shapeNorthSouth:
		return "north_south"
	case shapeEastWest:
		return "east_west"
	case shapeNorthEast:
		return "north_east"
	case shapeNorthWest:
		return "north_west"
	case shapeSouthEast:
		return "south_east"
	case shapeSouthWest:
		return "south_west"
	case shapeAscendingEast:
		return "ascending_east"
	case shapeAscendingWest:
		return "ascending_west"
	case shapeAscendingNorth:
		return "ascending_north"
	default:
		return "ascending_south"
	}
}

func (s railShape) straightOrAscending() bool {
	switch s {
	case shapeNorthSouth, shapeEastWest, shapeAscendingEast, shapeAscendingWest, shapeAscendingNorth, shapeAscendingSouth:
		return true
	default:
		return false
	}
}

func ascendingShapeFromDirection(dx, dz int) (railShape, bool) {
	switch {
	case dx == 1 && dz == 0:
		return shapeAscendingEast, true
	case dx == -1 && dz == 0:
		return shapeAscendingWest, true
	case dx == 0 && dz == 1:
		return shapeAscendingSouth, true
	case dx == 0 && dz == -1:
		return shapeAscendingNorth, true
	default:
		return 0, false
	}
}

// determineRailShape reproduces original_source's determine_rail_shape:
// prefer an ascending shape toward whichever neighbor sits higher, else
// derive a straight/curved shape from the prev/next positions.
func determineRailShape(x, z, currentY int, prev, next *railNeighbor) railShape {
	if prev != nil && prev.Y > currentY {
		if shape, ok := ascendingShapeFromDirection(prev.X-x, prev.Z-z); ok {
			return shape
		}
	}
	if next != nil && next.Y > currentY {
		if shape, ok := ascendingShapeFromDirection(next.X-x, next.Z-z); ok {
			return shape
		}
	}

	switch {
	case prev != nil && next != nil:
		if prev.X == next.X {
			return shapeNorthSouth
		}
		if prev.Z == next.Z {
			return shapeEastWest
		}
		fromPrevX, fromPrevZ := prev.X-x, prev.Z-z
		toNextX, toNextZ := next.X-x, next.Z-z
		switch {
		case (fromPrevX == -1 && fromPrevZ == 0 && toNextX == 0 && toNextZ == -1) ||
			(fromPrevX == 0 && fromPrevZ == -1 && toNextX == -1 && toNextZ == 0):
			return shapeNorthWest
		case (fromPrevX == 1 && fromPrevZ == 0 && toNextX == 0 && toNextZ == -1) ||
			(fromPrevX == 0 && fromPrevZ == -1 && toNextX == 1 && toNextZ == 0):
			return shapeNorthEast
		case (fromPrevX == -1 && fromPrevZ == 0 && toNextX == 0 && toNextZ == 1) ||
			(fromPrevX == 0 && fromPrevZ == 1 && toNextX == -1 && toNextZ == 0):
			return shapeSouthWest
		case (fromPrevX == 1 && fromPrevZ == 0 && toNextX == 0 && toNextZ == 1) ||
			(fromPrevX == 0 && fromPrevZ == 1 && toNextX == 1 && toNextZ == 0):
			return shapeSouthEast
		default:
			if abs(prev.X-x) > abs(prev.Z-z) {
				return shapeEastWest
			}
			return shapeNorthSouth
		}
	case prev != nil:
		return shapeFromSingleNeighbor(x, z, prev.X, prev.Z)
	case next != nil:
		return shapeFromSingleNeighbor(x, z, next.X, next.Z)
	default:
		return shapeNorthSouth
	}
}

func shapeFromSingleNeighbor(x, z, nx, nz int) railShape {
	if nx == x {
		return shapeNorthSouth
	}
	if nz == z {
		return shapeEastWest
	}
	return shapeNorthSouth
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
