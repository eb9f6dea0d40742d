package splat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMortonBits(t *testing.T) {
	assert.Equal(t, uint64(1), Morton3D(1, 0, 0))
	assert.Equal(t, uint64(2), Morton3D(0, 1, 0))
	assert.Equal(t, uint64(4), Morton3D(0, 0, 1))
	assert.Equal(t, uint64(1<<63-1), Morton3D(1<<21-1, 1<<21-1, 1<<21-1))

	assert.Equal(t, uint64(8), Morton4D(0, 0, 0, 1))
	assert.Equal(t, uint64(1<<4), Morton4D(2, 0, 0, 0))
	assert.Equal(t, ^uint64(0), Morton4D(0xffff, 0xffff, 0xffff, 0xffff))
}

func TestMortonRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 1000 {
		x, y, z := rng.Uint32()&(1<<21-1), rng.Uint32()&(1<<21-1), rng.Uint32()&(1<<21-1)
		gx, gy, gz := MortonDecode3D(Morton3D(x, y, z))
		assert.Equal(t, [3]uint32{x, y, z}, [3]uint32{gx, gy, gz})

		a, b, c, d := rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff
		ga, gb, gc, gd := MortonDecode4D(Morton4D(a, b, c, d))
		assert.Equal(t, [4]uint32{a, b, c, d}, [4]uint32{ga, gb, gc, gd})
	}
}
