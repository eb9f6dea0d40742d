package splat

import (
	"encoding/binary"

	"github.com/x448/float16"
)

func halfBits(v float32) uint16 { return float16.Fromfloat32(v).Bits() }

func halfValue(b uint16) float32 { return float16.Frombits(b).Float32() }

// halfFloor returns the largest float16 value <= v.
func halfFloor(v float32) float16.Float16 {
	h := float16.Fromfloat32(v)
	if h.Float32() > v {
		h = halfStep(h, -1)
	}
	return h
}

// halfCeil returns the smallest float16 value >= v.
func halfCeil(v float32) float16.Float16 {
	h := float16.Fromfloat32(v)
	if h.Float32() < v {
		h = halfStep(h, 1)
	}
	return h
}

// halfStep moves h to the adjacent representable value in direction dir.
func halfStep(h float16.Float16, dir int) float16.Float16 {
	b := h.Bits()
	neg := b&0x8000 != 0
	mag := b & 0x7fff
	switch {
	case mag == 0 && dir < 0:
		return float16.Frombits(0x8001)
	case mag == 0:
		return float16.Frombits(0x0001)
	case neg == (dir < 0):
		return float16.Frombits(b + 1)
	default:
		return float16.Frombits(b - 1)
	}
}

// putHalfs writes vs as consecutive little-endian float16 values.
func putHalfs(dst []byte, vs ...float32) []byte {
	for _, v := range vs {
		dst = binary.LittleEndian.AppendUint16(dst, halfBits(v))
	}
	return dst
}
