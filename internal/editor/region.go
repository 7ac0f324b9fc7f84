package editor

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	sectorSize      = 4096
	headerSectors   = 2 // location table + timestamp table
	compressionZlib = 2
	regionWidth     = 32 // chunks per region edge
)

// sectorAllocator hands out first-fit runs of sectors starting after the
// two header sectors, mirroring anvil's free-sector bitmap allocation.
type sectorAllocator struct {
	used map[int]bool
}

func newSectorAllocator() *sectorAllocator {
	return &sectorAllocator{used: make(map[int]bool)}
}

func (a *sectorAllocator) alloc(n int) int {
	start := headerSectors
	for {
		free := true
		for i := 0; i < n; i++ {
			if a.used[start+i] {
				free = false
				start = start + i + 1
				break
			}
		}
		if free {
			for i := 0; i < n; i++ {
				a.used[start+i] = true
			}
			return start
		}
	}
}

// compressChunkPayload zlib-compresses an encoded chunk and prefixes it with
// the anvil chunk-payload header (4-byte length, 1-byte compression scheme).
func compressChunkPayload(raw []byte) ([]byte, error) {
	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("zlib compress chunk: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}

	body := compressed.Bytes()
	payload := make([]byte, 4+1+len(body))
	binary.BigEndian.PutUint32(payload, uint32(len(body)+1))
	payload[4] = compressionZlib
	copy(payload[5:], body)
	return payload, nil
}

// writeRegionFile serializes chunks (keyed by local (lx,lz) within the
// region) into the anvil .mca layout: an 8KiB header (location + timestamp
// tables) followed by 4KiB-aligned, zlib-compressed chunk payloads.
func writeRegionFile(path string, chunks map[[2]int]*Chunk) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir region dir: %w", err)
	}

	locations := make([]uint32, regionWidth*regionWidth)
	timestamps := make([]uint32, regionWidth*regionWidth)
	alloc := newSectorAllocator()
	now := uint32(time.Now().Unix())

	var body bytes.Buffer
	for lz := 0; lz < regionWidth; lz++ {
		for lx := 0; lx < regionWidth; lx++ {
			chunk, ok := chunks[[2]int{lx, lz}]
			if !ok {
				continue
			}
			raw, err := marshalChunk(chunk)
			if err != nil {
				return err
			}
			payload, err := compressChunkPayload(raw)
			if err != nil {
				return err
			}

			sectorCount := (len(payload) + sectorSize - 1) / sectorSize
			startSector := alloc.alloc(sectorCount)

			padded := make([]byte, sectorCount*sectorSize)
			copy(padded, payload)

			wantOffset := int64(startSector) * sectorSize
			if gap := wantOffset - headerSectors*sectorSize - int64(body.Len()); gap > 0 {
				body.Write(make([]byte, gap))
			}
			body.Write(padded)

			idx := lz*regionWidth + lx
			locations[idx] = uint32(startSector)<<8 | uint32(sectorCount&0xff)
			timestamps[idx] = now
		}
	}

	var header bytes.Buffer
	for _, loc := range locations {
		if err := binary.Write(&header, binary.BigEndian, loc); err != nil {
			return fmt.Errorf("write location table: %w", err)
		}
	}
	for _, ts := range timestamps {
		if err := binary.Write(&header, binary.BigEndian, ts); err != nil {
			return fmt.Errorf("write timestamp table: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create region file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(header.Bytes()); err != nil {
		return fmt.Errorf("write region header: %w", err)
	}
	if _, err := f.Write(body.Bytes()); err != nil {
		return fmt.Errorf("write region body: %w", err)
	}
	return nil
}

// regionFileName returns the anvil region-file name for region (rx,rz).
func regionFileName(rx, rz int) string {
	return fmt.Sprintf("r.%d.%d.mca", rx, rz)
}
