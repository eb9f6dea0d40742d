package splat

import (
	"encoding/binary"
	"math"
)

// RawPointSet is N rows of Schema.Total float32 values, row-major.
type RawPointSet struct {
	Schema *Schema
	N      int
	Data   []float32
}

// NewRawPointSet interprets little-endian float32 bytes as rows of the
// schema. The byte count must be a whole number of rows.
func NewRawPointSet(schema *Schema, data []byte) (RawPointSet, error) {
	rowBytes := 4 * schema.Total
	if rowBytes == 0 || len(data)%rowBytes != 0 {
		return RawPointSet{}, newError(CodeMalformedRecordStream, "records", ErrMalformedRecordStream,
			"%d bytes is not a multiple of the %d-byte %s row", len(data), rowBytes, schema.Name)
	}
	vals := make([]float32, len(data)/4)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return RawPointSet{Schema: schema, N: len(data) / rowBytes, Data: vals}, nil
}

// Row returns the columns of point i.
func (r RawPointSet) Row(i int) []float32 {
	return r.Data[i*r.Schema.Total : (i+1)*r.Schema.Total]
}

// PaddedCount returns the smallest multiple of ChunkSize >= n.
func PaddedCount(n int) int {
	return (n + ChunkSize - 1) / ChunkSize * ChunkSize
}

// Pad returns a copy extended to a multiple of ChunkSize by repeating the
// last row with a fully transparent opacity. Aligned input is returned as is.
func (r RawPointSet) Pad() RawPointSet {
	target := PaddedCount(r.N)
	if target == r.N {
		return r
	}
	total := r.Schema.Total
	out := make([]float32, target*total)
	copy(out, r.Data[:r.N*total])
	last := make([]float32, total)
	copy(last, r.Row(r.N-1))
	last[r.Schema.col("opacity")] = paddingOpacity
	for i := r.N; i < target; i++ {
		copy(out[i*total:], last)
	}
	return RawPointSet{Schema: r.Schema, N: target, Data: out}
}
