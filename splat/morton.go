package splat

// Morton3D interleaves three 21-bit coordinates into a 63-bit key,
// x in bit 0.
func Morton3D(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

// MortonDecode3D is the inverse of Morton3D.
func MortonDecode3D(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

// Morton4D interleaves four 16-bit coordinates into a 64-bit key.
func Morton4D(x, y, z, t uint32) uint64 {
	return part1By3(uint64(x)) |
		(part1By3(uint64(y)) << 1) |
		(part1By3(uint64(z)) << 2) |
		(part1By3(uint64(t)) << 3)
}

// MortonDecode4D is the inverse of Morton4D.
func MortonDecode4D(index uint64) (x, y, z, t uint32) {
	x = uint32(compact1By3(index))
	y = uint32(compact1By3(index >> 1))
	z = uint32(compact1By3(index >> 2))
	t = uint32(compact1By3(index >> 3))
	return
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}

func part1By3(x uint64) uint64 {
	x &= 0xffff
	x = (x | (x << 24)) & 0x000000ff000000ff
	x = (x | (x << 12)) & 0x000f000f000f000f
	x = (x | (x << 6)) & 0x0303030303030303
	x = (x | (x << 3)) & 0x1111111111111111
	return x
}

func compact1By3(x uint64) uint64 {
	x &= 0x1111111111111111
	x = (x ^ (x >> 3)) & 0x0303030303030303
	x = (x ^ (x >> 6)) & 0x000f000f000f000f
	x = (x ^ (x >> 12)) & 0x000000ff000000ff
	x = (x ^ (x >> 24)) & 0xffff
	return x
}
