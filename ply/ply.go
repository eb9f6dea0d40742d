// Package ply reads and writes the binary little-endian PLY files that
// carry Gaussian splats: a vertex element of float properties, first in
// the file.
package ply

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	polyply "github.com/EliCDavis/polyform/formats/ply"
)

const (
	endHeader  = "end_header"
	vertexName = "vertex"
)

var (
	ErrNotPLY            = errors.New("not a PLY file")
	ErrUnsupportedFormat = errors.New("unsupported PLY format")
	ErrTruncated         = errors.New("PLY vertex data truncated")
)

// ReadHeader consumes the header through end_header, leaving r at the
// first data byte, and parses it with polyform.
func ReadHeader(r *bufio.Reader) (polyply.Header, error) {
	var raw bytes.Buffer
	for {
		line, err := r.ReadString('\n')
		raw.WriteString(line)
		if err != nil {
			return polyply.Header{}, fmt.Errorf("%w: missing %s", ErrNotPLY, endHeader)
		}
		if strings.TrimRight(line, "\r\n") == endHeader {
			break
		}
	}
	h, err := polyply.ReadHeader(&raw)
	if err != nil {
		return polyply.Header{}, fmt.Errorf("%w: %v", ErrNotPLY, err)
	}
	if h.Format != polyply.BinaryLittleEndian {
		return polyply.Header{}, fmt.Errorf("%w: only binary_little_endian is read", ErrUnsupportedFormat)
	}
	return h, nil
}

func vertexElement(h polyply.Header) (polyply.Element, error) {
	if len(h.Elements) == 0 || h.Elements[0].Name != vertexName {
		return polyply.Element{}, fmt.Errorf("%w: vertex must be the first element", ErrUnsupportedFormat)
	}
	return h.Elements[0], nil
}

func isFloat(p polyply.Property) bool {
	switch sp := p.(type) {
	case polyply.ScalarProperty:
		return sp.Type == polyply.Float
	case *polyply.ScalarProperty:
		return sp.Type == polyply.Float
	}
	return false
}

// FloatProperties returns the vertex property names in declaration order.
// Every property must be a scalar float.
func FloatProperties(h polyply.Header) ([]string, error) {
	v, err := vertexElement(h)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(v.Properties))
	for i, p := range v.Properties {
		if !isFloat(p) {
			return nil, fmt.Errorf("%w: property %s is not a scalar float", ErrUnsupportedFormat, p.Name())
		}
		names[i] = p.Name()
	}
	return names, nil
}

// ReadVertices copies the fixed-stride vertex rows that follow the header.
// Elements after the vertex element are left unread.
func ReadVertices(r io.Reader, h polyply.Header) ([]byte, error) {
	v, err := vertexElement(h)
	if err != nil {
		return nil, err
	}
	data := make([]byte, int64(v.Count)*4*int64(len(v.Properties)))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return data, nil
}

// Read parses a whole splat PLY stream into its float property names and
// raw vertex bytes.
func Read(r io.Reader) (names []string, data []byte, err error) {
	br := bufio.NewReader(r)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, nil, err
	}
	if names, err = FloatProperties(h); err != nil {
		return nil, nil, err
	}
	data, err = ReadVertices(br, h)
	return names, data, err
}

// element counts are int or int64 depending on the polyform release
func setCount[T ~int | ~int64](dst *T, n int) { *dst = T(n) }

// Write emits a binary little-endian PLY with one vertex element of float
// properties. len(values) must be a multiple of len(names).
func Write(w io.Writer, names []string, values []float32, comments ...string) error {
	if len(names) == 0 || len(values)%len(names) != 0 {
		return fmt.Errorf("ply: %d values for %d properties", len(values), len(names))
	}
	vertex := polyply.Element{Name: vertexName}
	setCount(&vertex.Count, len(values)/len(names))
	for _, n := range names {
		vertex.Properties = append(vertex.Properties, polyply.ScalarProperty{PropertyName: n, Type: polyply.Float})
	}
	h := polyply.Header{
		Format:   polyply.BinaryLittleEndian,
		Comments: comments,
		Elements: []polyply.Element{vertex},
	}

	bw := bufio.NewWriter(w)
	if err := h.Write(bw); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, values); err != nil {
		return err
	}
	return bw.Flush()
}
