package splat

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// PixelFormat names the texel encoding of a texture region.
type PixelFormat string

const (
	R32UI    PixelFormat = "R32UI"
	RGBA8    PixelFormat = "RGBA8"
	RGBA32UI PixelFormat = "RGBA32UI"
)

// BytesPerTexel returns the texel size, or 0 for an unknown format.
func (f PixelFormat) BytesPerTexel() int {
	switch f {
	case R32UI, RGBA8:
		return 4
	case RGBA32UI:
		return 16
	}
	return 0
}

// Region is a named slice of an output blob. Width, Height and Format are
// only set for texture regions.
type Region struct {
	Name   string
	Offset int
	Size   int

	Width  int
	Height int
	Format PixelFormat
}

// Digest is the xxh64 of the region bytes, as lowercase hex.
func (r Region) Digest(blob []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(blob[r.Offset:r.Offset+r.Size]))
}

// appendRegion appends data to blob and records it under name.
func appendRegion(regions []Region, blob []byte, r Region, data []byte) ([]Region, []byte) {
	r.Offset = len(blob)
	r.Size = len(data)
	return append(regions, r), append(blob, data...)
}

func findRegion(regions []Region, name string) (Region, bool) {
	for _, r := range regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}
