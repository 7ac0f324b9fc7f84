// Package editor implements the write-buffered, chunked voxel store (spec
// §4.D): a sparse chunk map of 16x16x16 sections, each holding a runtime
// block/biome palette that doubles as the serialization palette, plus the
// region-file writer (spec §4.D/§6).
package editor

import "github.com/jcobol-labs/osm2mc/internal/block"

const (
	// SectionSize is the edge length of a section cube.
	SectionSize = 16
	// BlocksPerSection is the number of block cells in a section.
	BlocksPerSection = SectionSize * SectionSize * SectionSize
	// biomeSubGrid is the edge length of the biome sub-grid (4x4x4 cells per
	// sub-cube across a 16-wide section).
	biomeSubGrid    = 4
	biomesPerSection = (SectionSize / biomeSubGrid) * (SectionSize / biomeSubGrid) * (SectionSize / biomeSubGrid)
)

// Section is a 16x16x16 cube of voxels plus a 4x4x4 biome sub-grid. Its
// runtime palettes double as the serialization palette: every distinct
// (block, properties) or biome value placed in the section gets exactly one
// palette slot, built in first-encountered order.
type Section struct {
	blockPalette []block.WithProperties
	blockByKey   map[string]uint16
	blockIdx     [BlocksPerSection]uint16

	biomePalette []block.Biome
	biomeByKey   map[block.Biome]uint16
	biomeIdx     [biomesPerSection]uint16
}

// NewSection returns a section default-initialized to all air (block) and
// all plains (biome), per spec §3.
func NewSection() *Section {
	s := &Section{
		blockByKey: make(map[string]uint16, 4),
		biomeByKey: make(map[block.Biome]uint16, 4),
	}
	air := block.Bare(block.Air)
	s.blockPalette = append(s.blockPalette, air)
	s.blockByKey[air.Key()] = 0
	s.biomePalette = append(s.biomePalette, block.Plains)
	s.biomeByKey[block.Plains] = 0
	return s
}

// blockCellIndex implements spec §3's "Block index = y*256 + z*16 + x".
func blockCellIndex(x, y, z int) int { return y*256 + z*16 + x }

// biomeCellIndex implements spec §3's "Biome index = (y/4)*16 + (z/4)*4 + (x/4)".
func biomeCellIndex(x, y, z int) int { return (y/4)*16 + (z/4)*4 + (x / 4) }

func (s *Section) paletteIndexForBlock(w block.WithProperties) uint16 {
	key := w.Key()
	if idx, ok := s.blockByKey[key]; ok {
		return idx
	}
	idx := uint16(len(s.blockPalette))
	s.blockPalette = append(s.blockPalette, w)
	s.blockByKey[key] = idx
	return idx
}

func (s *Section) paletteIndexForBiome(b block.Biome) uint16 {
	if idx, ok := s.biomeByKey[b]; ok {
		return idx
	}
	idx := uint16(len(s.biomePalette))
	s.biomePalette = append(s.biomePalette, b)
	s.biomeByKey[b] = idx
	return idx
}

// CurrentBlock returns the block handle (without properties) at local (x,y,z).
func (s *Section) CurrentBlock(x, y, z int) block.Block {
	return s.blockPalette[s.blockIdx[blockCellIndex(x, y, z)]].Block
}

// SetBlock overwrites the cell at local (x,y,z) with w.
func (s *Section) SetBlock(x, y, z int, w block.WithProperties) {
	s.blockIdx[blockCellIndex(x, y, z)] = s.paletteIndexForBlock(w)
}

// SetBiome overwrites the 4x4x4 sub-cube containing local (x,y,z) with b.
// Writes to different cells within the same sub-cube race; last write wins
// (spec §9 biome sub-grid addressing note).
func (s *Section) SetBiome(x, y, z int, b block.Biome) {
	s.biomeIdx[biomeCellIndex(x, y, z)] = s.paletteIndexForBiome(b)
}

// IsDefault reports whether the section has never diverged from all-air,
// all-plains — such sections may be omitted from serialization (spec §4.D
// point 5).
func (s *Section) IsDefault() bool {
	return len(s.blockPalette) == 1 && s.blockPalette[0].Block == block.Air && len(s.blockPalette[0].Properties) == 0 &&
		len(s.biomePalette) == 1 && s.biomePalette[0] == block.Plains
}

// serializedBlocks computes the final, de-duplicated block palette and the
// bit-packed cell data for NBT serialization (spec §4.D points 1-2).
func (s *Section) serializedBlocks() ([]block.WithProperties, int, []int64) {
	referenced, remap := compactReferencedBlocks(s.blockPalette, s.blockIdx[:])

	bits := bitsPerEntry(len(referenced), 4)
	indices := make([]int, BlocksPerSection)
	for i, oldIdx := range s.blockIdx {
		indices[i] = remap[oldIdx]
	}
	return referenced, bits, packEntries(indices, bits)
}

// compactReferencedBlocks walks cells in index order, collecting each
// distinct palette entry actually referenced in first-encountered order,
// then forces air to index 0 if it is among them (spec §4.D point 1).
func compactReferencedBlocks(palette []block.WithProperties, cells []uint16) ([]block.WithProperties, []int) {
	seen := make(map[uint16]bool, len(palette))
	var order []uint16
	for _, oldIdx := range cells {
		if !seen[oldIdx] {
			seen[oldIdx] = true
			order = append(order, oldIdx)
		}
	}

	airOld := uint16(0)
	hasAir := false
	for _, oldIdx := range order {
		if palette[oldIdx].Block == block.Air && len(palette[oldIdx].Properties) == 0 {
			airOld = oldIdx
			hasAir = true
			break
		}
	}
	if hasAir {
		reordered := make([]uint16, 0, len(order))
		reordered = append(reordered, airOld)
		for _, oldIdx := range order {
			if oldIdx != airOld {
				reordered = append(reordered, oldIdx)
			}
		}
		order = reordered
	}

	referenced := make([]block.WithProperties, len(order))
	remap := make([]int, len(palette))
	for newIdx, oldIdx := range order {
		referenced[newIdx] = palette[oldIdx]
		remap[oldIdx] = newIdx
	}
	return referenced, remap
}

// serializedBiomes computes the final biome palette and bit-packed data, or
// reports that data should be omitted when only one biome is referenced
// (spec §4.D point 4).
func (s *Section) serializedBiomes() ([]block.Biome, int, []int64, bool) {
	seen := make(map[uint16]bool, len(s.biomePalette))
	var order []uint16
	for _, oldIdx := range s.biomeIdx {
		if !seen[oldIdx] {
			seen[oldIdx] = true
			order = append(order, oldIdx)
		}
	}

	referenced := make([]block.Biome, len(order))
	remap := make(map[uint16]int, len(order))
	for newIdx, oldIdx := range order {
		referenced[newIdx] = s.biomePalette[oldIdx]
		remap[oldIdx] = newIdx
	}

	if len(referenced) <= 1 {
		return referenced, bitsPerEntry(len(referenced), 1), nil, true
	}

	bits := bitsPerEntry(len(referenced), 1)
	indices := make([]int, biomesPerSection)
	for i, oldIdx := range s.biomeIdx {
		indices[i] = remap[oldIdx]
	}
	return referenced, bits, packEntries(indices, bits), false
}
