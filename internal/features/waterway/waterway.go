// Package waterway is a worked example of the excluded feature-generator
// surface (spec §1's Non-goals, detailed in SPEC_FULL.md §4.H): it walks a
// linear waterway way (not an area — those go through internal/water
// instead) and carves a sloped-bank channel along it, exercising
// geom.Line3D and the Editor's relative-to-absolute Y translation.
// Grounded on original_source/src/element_processing/waterways.rs's
// generate_waterways/create_water_channel.
package waterway

import (
	"strconv"
	"strings"

	"github.com/jcobol-labs/osm2mc/internal/block"
	"github.com/jcobol-labs/osm2mc/internal/editor"
	"github.com/jcobol-labs/osm2mc/internal/geom"
	"github.com/jcobol-labs/osm2mc/internal/osm"
)

var dirt = block.InternBlock("minecraft:dirt")

var vegetation = map[block.Block]bool{
	block.InternBlock("minecraft:grass"):    true,
	block.InternBlock("minecraft:wheat"):    true,
	block.InternBlock("minecraft:carrots"):  true,
	block.InternBlock("minecraft:potatoes"): true,
}

var skippedLayers = map[string]bool{"-1": true, "-2": true, "-3": true}

// dimension is the (width, depth) pair a waterway= value maps to.
type dimension struct{ width, depth int }

var waterwayDimensions = map[string]dimension{
	"river":    {8, 3},
	"canal":    {6, 2},
	"stream":   {3, 2},
	"fairway":  {12, 3},
	"flowline": {2, 1},
	"brook":    {2, 1},
	"ditch":    {2, 1},
	"drain":    {1, 1},
}

var defaultDimension = dimension{4, 2}

var widthTagKeys = []string{
	"width",
	"riverbank:width",
	"riverbank_width",
	"est_width",
	"estimated_width",
	"avg_width",
	"average_width",
	"width:avg",
	"width:est",
}

// Generate carves one linear waterway way's channel into ed.
func Generate(ed *editor.Editor, w osm.ProcessedWay) {
	waterwayType, ok := w.Tags["waterway"]
	if !ok {
		return
	}
	if skippedLayers[w.Tags["layer"]] {
		return
	}

	dim := waterwayDimensions[waterwayType]
	if dim == (dimension{}) {
		dim = defaultDimension
	}
	width := inferWidthFromTags(w.Tags, dim.width)

	for i := 1; i < len(w.Nodes); i++ {
		line := geom.Line3D(
			geom.Point3{X: w.Nodes[i-1].X, Z: w.Nodes[i-1].Z},
			geom.Point3{X: w.Nodes[i].X, Z: w.Nodes[i].Z},
		)
		for _, p := range line {
			carveChannel(ed, p.X, p.Z, width, dim.depth)
		}
	}
}

func inferWidthFromTags(tags osm.Tags, fallback int) int {
	for _, key := range widthTagKeys {
		if v, ok := tags[key]; ok {
			if w, ok := parseWidthToBlocks(v); ok {
				return w
			}
		}
	}
	return fallback
}

func parseWidthToBlocks(s string) (int, bool) {
	var number, unit strings.Builder
	for _, c := range strings.TrimSpace(s) {
		switch {
		case c >= '0' && c <= '9' || c == '.':
			number.WriteRune(c)
		case c == ',':
			number.WriteByte('.')
		case c == ' ' || c == '\t':
		default:
			unit.WriteRune(toLower(c))
		}
	}
	value, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return 0, false
	}
	u := unit.String()
	meters := value
	switch {
	case strings.Contains(u, "ft") || strings.Contains(u, "foot") || strings.Contains(u, "feet") || strings.Contains(u, "'"):
		meters = value * 0.3048
	case strings.Contains(u, "km"):
		meters = value * 1000
	}
	blocks := int(meters + 0.5)
	if blocks < 1 {
		blocks = 1
	}
	return blocks, true
}

func toLower(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// carveChannel reproduces create_water_channel: a square channel of water
// out to half_width, dirt-lined at its floor, with one ring of sloped bank
// beyond it when depth allows a slope step, all expressed relative to
// ground level through Editor.GetAbsoluteY.
func carveChannel(ed *editor.Editor, centerX, centerZ, width, depth int) {
	halfWidth := width / 2

	for x := centerX - halfWidth - 1; x <= centerX+halfWidth+1; x++ {
		for z := centerZ - halfWidth - 1; z <= centerZ+halfWidth+1; z++ {
			dx, dz := abs(x-centerX), abs(z-centerZ)
			distance := dx
			if dz > distance {
				distance = dz
			}

			switch {
			case distance <= halfWidth:
				for relY := 1 - depth; relY <= 0; relY++ {
					ed.SetBlockAbsolute(block.Water, x, ed.GetAbsoluteY(x, relY, z), z, nil, nil)
				}
				ed.SetBlockAbsolute(dirt, x, ed.GetAbsoluteY(x, -depth, z), z, nil, nil)
				ed.SetBlockAbsolute(block.Air, x, ed.GetAbsoluteY(x, 1, z), z, vegetation, nil)
			case distance == halfWidth+1 && depth > 1:
				slopeDepth := depth - 1
				if slopeDepth < 1 {
					slopeDepth = 1
				}
				for relY := 1 - slopeDepth; relY <= 0; relY++ {
					if relY == 0 {
						ed.SetBlockAbsolute(block.Water, x, ed.GetAbsoluteY(x, relY, z), z, nil, nil)
					} else {
						ed.SetBlockAbsolute(block.Air, x, ed.GetAbsoluteY(x, relY, z), z, nil, nil)
					}
				}
				ed.SetBlockAbsolute(dirt, x, ed.GetAbsoluteY(x, -slopeDepth, z), z, nil, nil)
				ed.SetBlockAbsolute(block.Air, x, ed.GetAbsoluteY(x, 1, z), z, vegetation, nil)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
