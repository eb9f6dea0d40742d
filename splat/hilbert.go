package splat

// HilbertDistance returns the position of point on the Hilbert curve that
// fills the n-dimensional cube of side 2^bits (n = len(point)). The
// coordinates are transformed in place into the transposed form and then
// interleaved most significant bit first, coordinate 0 leading. n*bits must
// not exceed 64.
func HilbertDistance(point []uint32, bits uint) uint64 {
	n := len(point)
	x := make([]uint32, n)
	copy(x, point)
	m := uint32(1) << (bits - 1)

	// inverse undo excess work
	for q := m; q > 1; q >>= 1 {
		p := q - 1
		for i := 0; i < n; i++ {
			if x[i]&q != 0 {
				x[0] ^= p
			} else {
				t := (x[0] ^ x[i]) & p
				x[0] ^= t
				x[i] ^= t
			}
		}
	}

	// gray encode
	for i := 1; i < n; i++ {
		x[i] ^= x[i-1]
	}
	var t uint32
	for q := m; q > 1; q >>= 1 {
		if x[n-1]&q != 0 {
			t ^= q - 1
		}
	}
	for i := range x {
		x[i] ^= t
	}

	var d uint64
	for b := int(bits) - 1; b >= 0; b-- {
		for i := 0; i < n; i++ {
			d = d<<1 | uint64(x[i]>>uint(b)&1)
		}
	}
	return d
}

// tileOrder[ly*TileSide+lx] is the chunk-local point index stored at texel
// (lx, ly) of a tile: the Hilbert index of that cell.
var tileOrder, tileInverse = buildTileOrder()

// hilbertD2XY maps a distance along the TileSide x TileSide Hilbert curve
// to its cell.
func hilbertD2XY(d int) (x, y int) {
	for s := 1; s < TileSide; s <<= 1 {
		rx := 1 & (d >> 1)
		ry := 1 & (d ^ rx)
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		d >>= 2
	}
	return
}

func buildTileOrder() (order, inverse [ChunkSize]int) {
	for d := 0; d < ChunkSize; d++ {
		x, y := hilbertD2XY(d)
		order[y*TileSide+x] = d
		inverse[d] = y*TileSide + x
	}
	return
}

// TileOrder returns, for each texel of a tile in row-major order, the
// chunk-local point index it holds.
func TileOrder() [ChunkSize]int { return tileOrder }
