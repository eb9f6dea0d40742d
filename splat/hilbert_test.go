package splat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHilbertDistanceKnown(t *testing.T) {
	for i, p := range [][]uint32{{0, 0}, {0, 1}, {1, 1}, {1, 0}} {
		assert.Equal(t, uint64(i), HilbertDistance(p, 1))
	}
	assert.Equal(t, uint64(401), HilbertDistance([]uint32{5, 3, 7}, 3))
	assert.Equal(t, uint64(66), HilbertDistance([]uint32{1, 2, 3, 0}, 2))
}

// every cell gets a distinct distance and consecutive distances are
// unit steps apart
func TestHilbertDistanceIsCurve(t *testing.T) {
	for _, tc := range []struct{ dims, bits int }{{2, 3}, {3, 2}, {4, 2}} {
		side := 1 << tc.bits
		total := 1
		for range tc.dims {
			total *= side
		}
		cells := make([][]uint32, total)
		for idx := range total {
			p := make([]uint32, tc.dims)
			v := idx
			for d := range p {
				p[d] = uint32(v % side)
				v /= side
			}
			dist := HilbertDistance(p, uint(tc.bits))
			require.Less(t, dist, uint64(total))
			require.Nil(t, cells[dist], "distance %d assigned twice", dist)
			cells[dist] = p
		}
		for i := 1; i < total; i++ {
			step := 0
			for d := range tc.dims {
				step += absDiff(cells[i][d], cells[i-1][d])
			}
			assert.Equal(t, 1, step, "dims=%d bits=%d at %d", tc.dims, tc.bits, i)
		}
	}
}

func absDiff(a, b uint32) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestTileOrder(t *testing.T) {
	order := TileOrder()
	seen := map[int]bool{}
	for _, d := range order {
		seen[d] = true
	}
	assert.Len(t, seen, ChunkSize)

	// d=0..3 trace the first 2x2 block: (0,0) (1,0) (1,1) (0,1)
	assert.Equal(t, 0, order[0])
	assert.Equal(t, 1, order[1])
	assert.Equal(t, 2, order[TileSide+1])
	assert.Equal(t, 3, order[TileSide])

	for d := 1; d < ChunkSize; d++ {
		x0, y0 := hilbertD2XY(d - 1)
		x1, y1 := hilbertD2XY(d)
		assert.Equal(t, 1, abs(x1-x0)+abs(y1-y0))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
