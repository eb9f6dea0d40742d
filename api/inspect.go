package api

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelsplace/splatpack/splat"
)

var glbMagic = []byte("glTF")

// RegionInfo is one region of an inspected container.
type RegionInfo struct {
	Name   string            `json:"name"`
	Size   int               `json:"size"`
	Format splat.PixelFormat `json:"format,omitempty"`
	Width  int               `json:"width,omitempty"`
	Height int               `json:"height,omitempty"`
	XXH64  string            `json:"xxh64"`
}

// Manifest summarizes a GLB or SPB container.
type Manifest struct {
	Container   string       `json:"container"`
	Compression string       `json:"compression"`
	Schema      string       `json:"schema"`
	Name        string       `json:"name,omitempty"`
	Points      int          `json:"points"`
	Quality     string       `json:"quality"`
	Padded      bool         `json:"padded,omitempty"`
	Trailing    int          `json:"trailing,omitempty"`
	Regions     []RegionInfo `json:"regions"`
}

// Inspect detects the container (after optional decompression) and
// describes it.
func Inspect(data []byte) (*Manifest, error) {
	data, comp, err := splat.Decompress(data)
	if err != nil {
		return nil, err
	}
	var m *Manifest
	if bytes.HasPrefix(data, glbMagic) {
		m, err = InspectGLB(data)
	} else {
		m, err = InspectSPB(data)
	}
	if err != nil {
		return nil, err
	}
	m.Compression = comp.String()
	return m, nil
}

// InspectSPB parses an SPB stream and hashes every declared buffer.
func InspectSPB(data []byte) (*Manifest, error) {
	f, err := splat.ReadSPB(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		Container:   "spb",
		Compression: splat.CompressNone.String(),
		Schema:      f.Header.Schema,
		Points:      f.Header.PointCount,
		Quality:     f.Header.Level.String(),
		Padded:      f.Header.Padded,
		Trailing:    f.Trailing,
	}
	for _, r := range f.Regions {
		m.Regions = append(m.Regions, RegionInfo{Name: r.Name, Size: r.Size, XXH64: r.Digest(f.Blob)})
	}
	return m, nil
}

// InspectGLB reads the node and image extras of a GLB and checks each
// image digest against its buffer view bytes.
func InspectGLB(data []byte) (*Manifest, error) {
	doc, err := DecodeGLB(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Nodes) == 0 || len(doc.Buffers) == 0 {
		return nil, errors.New("inspect glb: no splat node")
	}
	var node NodeExtras
	if err := decodeExtras(doc.Nodes[0].Extras, &node); err != nil {
		return nil, fmt.Errorf("inspect glb: node extras: %w", err)
	}
	m := &Manifest{
		Container:   "glb",
		Compression: splat.CompressNone.String(),
		Schema:      node.GSType,
		Name:        node.Name,
		Points:      node.Num,
		Quality:     node.Quality,
	}
	blob := doc.Buffers[0].Data
	for _, img := range doc.Images {
		if img.MimeType != RawImageMime || img.BufferView == nil {
			continue
		}
		var ex ImageExtras
		if err := decodeExtras(img.Extras, &ex); err != nil {
			return nil, fmt.Errorf("inspect glb: image %s: %w", img.Name, err)
		}
		view := doc.BufferViews[int(*img.BufferView)]
		lo, hi := int(view.ByteOffset), int(view.ByteOffset)+int(view.ByteLength)
		if hi > len(blob) {
			return nil, fmt.Errorf("inspect glb: image %s overruns the buffer", ex.Name)
		}
		if got := fmt.Sprintf("%016x", xxhash.Sum64(blob[lo:hi])); got != ex.XXH64 {
			return nil, fmt.Errorf("inspect glb: image %s digest %s, extras say %s", ex.Name, got, ex.XXH64)
		}
		m.Regions = append(m.Regions, RegionInfo{
			Name:   ex.Name,
			Size:   hi - lo,
			Format: ex.Format,
			Width:  ex.Width,
			Height: ex.Height,
			XXH64:  ex.XXH64,
		})
	}
	return m, nil
}
