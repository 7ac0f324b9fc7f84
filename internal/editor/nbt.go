package editor

import (
	"bytes"
	"fmt"

	"github.com/Tnze/go-mc/nbt"

	"github.com/jcobol-labs/osm2mc/internal/block"
)

// dataVersion is the anvil DataVersion stamped onto every chunk, selecting
// the post-1.16 palette/bitpack rules this writer implements.
const dataVersion = int32(3465)

type paletteEntryNBT struct {
	Name       string           `nbt:"Name"`
	Properties block.Properties `nbt:"Properties,omitempty"`
}

type blockStatesNBT struct {
	Palette []paletteEntryNBT `nbt:"palette"`
	Data    []int64           `nbt:"data,omitempty"`
}

type biomesNBT struct {
	Palette []string `nbt:"palette"`
	Data    []int64  `nbt:"data,omitempty"`
}

type sectionNBT struct {
	Y           int8           `nbt:"Y"`
	BlockStates blockStatesNBT `nbt:"block_states"`
	Biomes      biomesNBT      `nbt:"biomes"`
}

// blockEntityNBT is a placeholder compound type for the (always empty, in
// this converter) block_entities list — no feature generator emits tile
// entities.
type blockEntityNBT struct{}

type chunkNBT struct {
	DataVersion   int32             `nbt:"DataVersion"`
	XPos          int32             `nbt:"xPos"`
	ZPos          int32             `nbt:"zPos"`
	YPos          int32             `nbt:"yPos"`
	Status        string            `nbt:"Status"`
	Sections      []sectionNBT      `nbt:"sections"`
	BlockEntities []blockEntityNBT  `nbt:"block_entities"`
}

func blockName(b block.Block) string {
	if name := b.Name(); name != "" {
		return name
	}
	return "minecraft:air"
}

func biomeName(b block.Biome) string {
	if name := b.Name(); name != "" {
		return name
	}
	return "minecraft:plains"
}

// buildSectionNBT serializes one Section into its anvil form, omitting the
// biome data array entirely when the section references a single biome (spec
// §4.D point 4). The block-state data array is always written.
func buildSectionNBT(y int, s *Section) sectionNBT {
	blocks, blockBits, blockData := s.serializedBlocks()
	biomes, _, biomeData, omitBiomeData := s.serializedBiomes()

	blockPalette := make([]paletteEntryNBT, len(blocks))
	for i, w := range blocks {
		blockPalette[i] = paletteEntryNBT{Name: blockName(w.Block), Properties: w.Properties}
	}
	_ = blockBits // width is implicit in len(blockData); kept for callers/tests

	biomePalette := make([]string, len(biomes))
	for i, b := range biomes {
		biomePalette[i] = biomeName(b)
	}

	bs := blockStatesNBT{Palette: blockPalette, Data: blockData}
	bm := biomesNBT{Palette: biomePalette}
	if !omitBiomeData {
		bm.Data = biomeData
	}
	return sectionNBT{Y: int8(y), BlockStates: bs, Biomes: bm}
}

// buildChunkNBT assembles the serializable NBT tree for a chunk, dropping
// sections that never diverged from default (spec §4.D point 5).
func buildChunkNBT(c *Chunk) chunkNBT {
	var sections []sectionNBT
	for _, y := range c.sortedSectionYs() {
		sec := c.sections[y]
		if sec.IsDefault() {
			continue
		}
		sections = append(sections, buildSectionNBT(y, sec))
	}
	return chunkNBT{
		DataVersion:   dataVersion,
		XPos:          int32(c.CX),
		ZPos:          int32(c.CZ),
		YPos:          int32(MinSectionY),
		Status:        "minecraft:full",
		Sections:      sections,
		BlockEntities: []blockEntityNBT{},
	}
}

// marshalChunk encodes a chunk to its uncompressed NBT byte form.
func marshalChunk(c *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(buildChunkNBT(c), ""); err != nil {
		return nil, fmt.Errorf("encode chunk (%d,%d): %w", c.CX, c.CZ, err)
	}
	return buf.Bytes(), nil
}
