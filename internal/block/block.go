// Package block defines the Block and Biome handle types and the
// properties-bearing block value used throughout the editor. Names are
// interned through two process-wide registry.Table instances so that equal
// names always yield equal handles, matching original_source's
// biome_definitions.rs/biome_registry.rs split between the Biome value type
// and its backing registry.
package block

import (
	"sort"
	"strings"

	"github.com/jcobol-labs/osm2mc/internal/registry"
)

// Block identifies a block kind by its namespaced name (e.g.
// "minecraft:oak_planks"). Equal names yield equal Blocks.
type Block registry.ID

// Biome identifies a biome by its namespaced name, in a namespace separate
// from Block.
type Biome registry.ID

// blockNames and biomeNames are the process-wide registries. Well-known
// handles are seeded in the enumeration order fixed by spec §4.A so tests
// and on-disk tooling can reason about stable IDs.
var (
	blockNames = registry.New(
		"minecraft:air",
		"minecraft:stone",
		"minecraft:water",
	)
	biomeNames = registry.New(
		"minecraft:plains",
		"minecraft:forest",
		"minecraft:river",
		"minecraft:beach",
		"minecraft:desert",
		"minecraft:ocean",
		"minecraft:jungle",
		"minecraft:swamp",
		"minecraft:taiga",
		"minecraft:savanna",
		"minecraft:mountains",
		"minecraft:snowy_tundra",
		"minecraft:snowy_taiga",
		"minecraft:mushroom_fields",
	)
)

// Well-known handles, stable for the process lifetime.
var (
	Air   = Block(blockNames.Intern("minecraft:air"))
	Stone = Block(blockNames.Intern("minecraft:stone"))
	Water = Block(blockNames.Intern("minecraft:water"))

	Plains         = Biome(biomeNames.Intern("minecraft:plains"))
	Forest         = Biome(biomeNames.Intern("minecraft:forest"))
	River          = Biome(biomeNames.Intern("minecraft:river"))
	Beach          = Biome(biomeNames.Intern("minecraft:beach"))
	Desert         = Biome(biomeNames.Intern("minecraft:desert"))
	Ocean          = Biome(biomeNames.Intern("minecraft:ocean"))
	Jungle         = Biome(biomeNames.Intern("minecraft:jungle"))
	Swamp          = Biome(biomeNames.Intern("minecraft:swamp"))
	Taiga          = Biome(biomeNames.Intern("minecraft:taiga"))
	Savanna        = Biome(biomeNames.Intern("minecraft:savanna"))
	Mountains      = Biome(biomeNames.Intern("minecraft:mountains"))
	SnowyTundra    = Biome(biomeNames.Intern("minecraft:snowy_tundra"))
	SnowyTaiga     = Biome(biomeNames.Intern("minecraft:snowy_taiga"))
	MushroomFields = Biome(biomeNames.Intern("minecraft:mushroom_fields"))
)

// InternBlock interns a namespaced block name, returning its stable handle.
func InternBlock(name string) Block {
	return Block(blockNames.Intern(name))
}

// InternBiome interns a namespaced biome name, returning its stable handle.
func InternBiome(name string) Biome {
	return Biome(biomeNames.Intern(name))
}

// Name returns the namespaced name for a Block handle.
func (b Block) Name() string {
	name, err := blockNames.Name(registry.ID(b))
	if err != nil {
		return ""
	}
	return name
}

// Name returns the namespaced name for a Biome handle.
func (b Biome) Name() string {
	name, err := biomeNames.Name(registry.ID(b))
	if err != nil {
		return ""
	}
	return name
}

// Properties is the block-state NBT compound: short ASCII keys to short
// ASCII string values.
type Properties map[string]string

// Key returns a canonical, order-independent string encoding of the
// properties compound, used for palette value-equality comparisons.
func (p Properties) Key() string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(p[k])
	}
	return sb.String()
}

// Equal reports whether two Properties compounds are value-equal.
func (p Properties) Equal(other Properties) bool {
	return p.Key() == other.Key()
}

// WithProperties is a (Block, Properties) palette value. Two entries are
// distinct iff the block name differs or the properties compound differs by
// value equality.
type WithProperties struct {
	Block      Block
	Properties Properties
}

// Key returns a canonical string uniquely identifying this palette value,
// used to deduplicate section palette entries before bitpacking.
func (w WithProperties) Key() string {
	return w.Block.Name() + "|" + w.Properties.Key()
}

// Bare returns the BlockWithProperties form of a plain Block, with no
// properties compound.
func Bare(b Block) WithProperties {
	return WithProperties{Block: b}
}
