package splat

import (
	"fmt"
	"math"
)

// Range is a closed [Min, Max] interval used to normalize one channel.
type Range struct {
	Min, Max float32
}

// Span is Max-Min, or 1 when the range is empty.
func (r Range) Span() float32 {
	if s := r.Max - r.Min; s != 0 {
		return s
	}
	return 1
}

// Step is the dequantization step for a given bit depth.
func (r Range) Step(bits uint) float32 {
	return (r.Max - r.Min) / float32(uint32(1)<<bits-1)
}

// Quantize maps v into [0, 2^bits-1]: normalize by r, scale, round half to
// even and clamp. Values outside r saturate.
func Quantize(v float32, r Range, bits uint) uint32 {
	top := float64(uint32(1)<<bits - 1)
	q := math.RoundToEven((float64(v) - float64(r.Min)) / float64(r.Span()) * top)
	switch {
	case q >= top:
		return uint32(top)
	case q > 0:
		return uint32(q)
	default:
		// negatives and NaN
		return 0
	}
}

// Dequantize is the inverse of Quantize up to one step.
func Dequantize(q uint32, r Range, bits uint) float32 {
	top := float32(uint32(1)<<bits - 1)
	return r.Min + float32(q)/top*r.Span()
}

// ChannelRanges returns the per-channel min/max of rows [lo, hi) of a
// stream holding width values per point.
func ChannelRanges(stream []float32, width, lo, hi int) []Range {
	out := make([]Range, width)
	for c := range out {
		out[c] = Range{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
	}
	for i := lo; i < hi; i++ {
		row := stream[i*width : (i+1)*width]
		for c, v := range row {
			out[c].Min = min(out[c].Min, v)
			out[c].Max = max(out[c].Max, v)
		}
	}
	return out
}

// ScalarRange returns one min/max over every channel of rows [lo, hi).
func ScalarRange(stream []float32, width, lo, hi int) Range {
	r := Range{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
	for _, v := range stream[lo*width : hi*width] {
		r.Min = min(r.Min, v)
		r.Max = max(r.Max, v)
	}
	return r
}

// HalfRange widens r outward to float16-representable bounds so that the
// stored record still contains every value of the chunk.
func HalfRange(r Range) Range {
	return Range{Min: halfFloor(r.Min).Float32(), Max: halfCeil(r.Max).Float32()}
}

// Level is the sequential encoder quality level; 0 keeps the most precision.
type Level int

const (
	LevelHigh Level = iota
	LevelMedium
	LevelLow
)

// Validate reports ErrInvalidQualityLevel for levels outside 0..2.
func (l Level) Validate() error {
	if l < LevelHigh || l > LevelLow {
		return newError(CodeInvalidQualityLevel, "level", ErrInvalidQualityLevel, "%d", int(l))
	}
	return nil
}

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	}
	return fmt.Sprintf("level(%d)", int(l))
}
