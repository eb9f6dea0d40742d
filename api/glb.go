package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/splatpack/splat"
)

// RawImageMime marks images whose bytes are untyped texels described by
// the image extras.
const RawImageMime = "image/vnd.custom-raw"

// ImageExtras describes one texture region stored as a raw image.
type ImageExtras struct {
	Name   string            `json:"name"`
	Format splat.PixelFormat `json:"format"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	XXH64  string            `json:"xxh64"`
}

// NodeExtras tags the splat node.
type NodeExtras struct {
	GSType  string `json:"gsType"`
	Name    string `json:"name"`
	Num     int    `json:"num"`
	Quality string `json:"quality"`
}

type materialExtras struct {
	DataTextures map[string]int `json:"dataTextures"`
}

// gltf index fields are uint32 in older releases and int in newer ones
type gltfIndex interface{ ~int | ~uint32 }

func setInt[T gltfIndex](dst *T, v int) { *dst = T(v) }

func setIndex[T gltfIndex](dst **T, v int) {
	t := T(v)
	*dst = &t
}

func appendIndex[S ~[]T, T gltfIndex](s *S, v int) { *s = append(*s, T(v)) }

func setAttr[M ~map[string]T, T gltfIndex](m *M, key string, v int) {
	if *m == nil {
		*m = make(M)
	}
	(*m)[key] = T(v)
}

// BuildGLB lays a texture set out as a glTF document: one buffer, one
// nearest sampler, one raw image and texture per region, a material whose
// extras map region names to texture indices, and a single-point
// placeholder mesh on a node carrying the splat metadata.
func BuildGLB(res *splat.Result) (*gltf.Document, error) {
	tex := res.Texture
	if tex == nil {
		return nil, errors.New("api: conversion produced no texture set")
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "splatpack " + res.Schema.Name + " -> GLB"
	buf := &gltf.Buffer{}
	doc.Buffers = append(doc.Buffers, buf)
	doc.Samplers = append(doc.Samplers, &gltf.Sampler{MagFilter: gltf.MagNearest, MinFilter: gltf.MinNearest})

	dataTextures := make(map[string]int, len(tex.Regions))
	for _, r := range tex.Regions {
		for len(buf.Data)%4 != 0 {
			buf.Data = append(buf.Data, 0)
		}
		view := &gltf.BufferView{}
		setInt(&view.ByteOffset, len(buf.Data))
		setInt(&view.ByteLength, r.Size)
		buf.Data = append(buf.Data, tex.Blob[r.Offset:r.Offset+r.Size]...)
		doc.BufferViews = append(doc.BufferViews, view)

		img := &gltf.Image{
			Name:     r.Name,
			MimeType: RawImageMime,
			Extras: ImageExtras{
				Name:   r.Name,
				Format: r.Format,
				Width:  r.Width,
				Height: r.Height,
				XXH64:  r.Digest(tex.Blob),
			},
		}
		setIndex(&img.BufferView, len(doc.BufferViews)-1)
		doc.Images = append(doc.Images, img)

		t := &gltf.Texture{Name: r.Name}
		setIndex(&t.Sampler, 0)
		setIndex(&t.Source, len(doc.Images)-1)
		doc.Textures = append(doc.Textures, t)
		dataTextures[r.Name] = len(doc.Textures) - 1
	}
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:   res.Name,
		Extras: materialExtras{DataTextures: dataTextures},
	})

	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}})
	prim := &gltf.Primitive{Mode: gltf.PrimitivePoints}
	setAttr(&prim.Attributes, gltf.POSITION, int(pos))
	setIndex(&prim.Material, 0)
	setInt(&buf.ByteLength, len(buf.Data))
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "SplatPlaceholder", Primitives: []*gltf.Primitive{prim}})

	node := &gltf.Node{
		Name: res.Name,
		Extras: NodeExtras{
			GSType:  res.Schema.Name,
			Name:    res.Name,
			Num:     res.Points,
			Quality: res.Level.String(),
		},
	}
	setIndex(&node.Mesh, 0)
	doc.Nodes = append(doc.Nodes, node)
	appendIndex(&doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	return doc, nil
}

// EncodeGLB serializes a document as binary glTF.
func EncodeGLB(doc *gltf.Document) ([]byte, error) {
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EncodeGLTFJSON returns the indented JSON chunk of a document, without
// the binary buffer.
func EncodeGLTFJSON(doc *gltf.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeGLB parses binary glTF.
func DecodeGLB(data []byte) (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode glb: %w", err)
	}
	return doc, nil
}

// extras decoded by gltf are generic JSON values; round-trip them into v
func decodeExtras(extras any, v any) error {
	if extras == nil {
		return errors.New("missing extras")
	}
	b, err := json.Marshal(extras)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
