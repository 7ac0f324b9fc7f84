package water

import "github.com/jcobol-labs/osm2mc/internal/block"

var knownBiomeNames = map[string]block.Biome{
	"plains":          block.Plains,
	"forest":          block.Forest,
	"river":           block.River,
	"beach":           block.Beach,
	"desert":          block.Desert,
	"ocean":           block.Ocean,
	"jungle":          block.Jungle,
	"swamp":           block.Swamp,
	"taiga":           block.Taiga,
	"savanna":         block.Savanna,
	"mountains":       block.Mountains,
	"snowy_tundra":    block.SnowyTundra,
	"snowy_taiga":     block.SnowyTaiga,
	"mushroom_fields": block.MushroomFields,
}

var naturalBiomes = map[string]block.Biome{
	"beach":     block.Beach,
	"coastline": block.Beach,
	"wetland":   block.Swamp,
	"swamp":     block.Swamp,
	"marsh":     block.Swamp,
	"wood":      block.Forest,
	"tree":      block.Forest,
	"woodland":  block.Forest,
	"scrub":     block.Savanna,
	"grassland": block.Savanna,
	"heath":     block.Savanna,
	"taiga":     block.Taiga,
	"fell":      block.Mountains,
	"bare_rock": block.Mountains,
	"scree":     block.Mountains,
	"rock":      block.Mountains,
	"sand":      block.Desert,
	"glacier":   block.SnowyTundra,
	"ice":       block.SnowyTundra,
}

var waterValueBiomes = map[string]block.Biome{
	"river":     block.River,
	"canal":     block.River,
	"stream":    block.River,
	"lake":      block.Ocean,
	"reservoir": block.Ocean,
	"lagoon":    block.Ocean,
	"pond":      block.Ocean,
	"sea":       block.Ocean,
	"ocean":     block.Ocean,
	"wetland":   block.Swamp,
	"swamp":     block.Swamp,
}

var waterwayBiomes = map[string]block.Biome{
	"river":  block.River,
	"canal":  block.River,
	"stream": block.River,
	"drain":  block.Swamp,
}

var landuseBiomes = map[string]block.Biome{
	"forest":   block.Forest,
	"wood":     block.Forest,
	"grass":    block.Plains,
	"meadow":   block.Plains,
	"farmland": block.Plains,
	"farmyard": block.Plains,
}

var leisureForestBiomes = map[string]bool{
	"nature_reserve": true,
}

var leisurePlainsBiomes = map[string]bool{
	"park":        true,
	"pitch":       true,
	"golf_course": true,
	"garden":      true,
}

// BiomeFor applies the deterministic, total, priority-ordered tag-to-biome
// mapping (spec §4.G) to a water element's tags. Pure: identical tags always
// yield the same biome.
func BiomeFor(tags map[string]string) block.Biome {
	if b, ok := knownBiomeNames[tags["biome"]]; ok {
		return b
	}

	if tags["natural"] == "water" {
		if b, ok := waterValueBiomes[tags["water"]]; ok {
			return b
		}
		if b, ok := waterValueBiomes[tags["waterway"]]; ok {
			return b
		}
		return block.River
	}

	if b, ok := naturalBiomes[tags["natural"]]; ok {
		return b
	}

	if b, ok := waterwayBiomes[tags["waterway"]]; ok {
		return b
	}

	if b, ok := landuseBiomes[tags["landuse"]]; ok {
		return b
	}
	if leisurePlainsBiomes[tags["leisure"]] {
		return block.Plains
	}
	if leisureForestBiomes[tags["leisure"]] {
		return block.Forest
	}

	return block.Plains
}
