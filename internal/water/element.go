package water

import (
	"strconv"

	"github.com/jcobol-labs/osm2mc/internal/osm"
)

// Element is the water-area filler's input: a tag dictionary plus
// partitioned outer/inner way members (spec §4.F). A single closed way is
// modeled as one outer member with no inners.
type Element struct {
	Tags  osm.Tags
	Outer []osm.ProcessedWay
	Inner []osm.ProcessedWay
	// IsWay marks an Element built from a bare way rather than a relation,
	// which unlocks the extra water=river / waterway=river+area=yes tag
	// gate rules of spec §4.F step 1.
	IsWay bool
}

// FromWay builds an Element from a single closed or open way.
func FromWay(w osm.ProcessedWay) Element {
	return Element{Tags: w.Tags, Outer: []osm.ProcessedWay{w}, IsWay: true}
}

// FromRelation builds an Element from a multipolygon-style relation,
// partitioning members by role.
func FromRelation(r osm.ProcessedRelation) Element {
	e := Element{Tags: r.Tags}
	for _, m := range r.Members {
		switch m.Role {
		case osm.Inner:
			e.Inner = append(e.Inner, m.Way)
		default:
			e.Outer = append(e.Outer, m.Way)
		}
	}
	return e
}

// passesTagGate implements spec §4.F step 1 for non-coastline elements.
// isWay distinguishes a bare way (which additionally accepts water=river or
// waterway=river+area=yes) from a relation.
func passesTagGate(tags osm.Tags, isWay bool) bool {
	if layer, ok := tags["layer"]; ok {
		if n, err := strconv.Atoi(layer); err == nil && n < 0 {
			return false
		}
	}

	if _, ok := tags["water"]; ok {
		return true
	}
	if tags["natural"] == "water" {
		return true
	}
	if tags["waterway"] == "riverbank" {
		return true
	}
	if isWay {
		if tags["water"] == "river" {
			return true
		}
		if tags["waterway"] == "river" && tags["area"] == "yes" {
			return true
		}
	}
	return false
}
