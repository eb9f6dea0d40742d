package splat

// TextureSize finds the narrowest width w such that n units fit in w
// columns of at most maxSide rows, and returns w with the row count
// ceil(n/w). n <= 0 yields (0, 0).
func TextureSize(n, maxSide int) (w, h int, err error) {
	if n <= 0 {
		return 0, 0, nil
	}
	if n > maxSide*maxSide {
		return 0, 0, newError(CodeCapacityExceeded, "layout", ErrCapacityExceeded,
			"%d units, limit %d", n, maxSide*maxSide)
	}
	w = (n + maxSide - 1) / maxSide
	return w, (n + w - 1) / w, nil
}

// ChunkGrid places chunks row-major on a Width x Height grid; each chunk
// covers a TileSide x TileSide block of texels.
type ChunkGrid struct {
	Width, Height int
	Chunks        int
}

// ChunkGridFor sizes the grid for n points.
func ChunkGridFor(n int) (ChunkGrid, error) {
	chunks := (n + ChunkSize - 1) / ChunkSize
	w, h, err := TextureSize(chunks, MaxChunkGridSide)
	if err != nil {
		return ChunkGrid{}, err
	}
	return ChunkGrid{Width: w, Height: h, Chunks: chunks}, nil
}

func (g ChunkGrid) TexelWidth() int  { return g.Width * TileSide }
func (g ChunkGrid) TexelHeight() int { return g.Height * TileSide }

// TexelOf returns the texel holding point j of a chunk.
func (g ChunkGrid) TexelOf(chunk, j int) (row, col int) {
	t := tileInverse[j]
	return (chunk/g.Width)*TileSide + t/TileSide, (chunk%g.Width)*TileSide + t%TileSide
}

// ChunkPointOf is the inverse of TexelOf; ok is false on padding texels.
func (g ChunkGrid) ChunkPointOf(row, col int) (chunk, j int, ok bool) {
	chunk = (row/TileSide)*g.Width + col/TileSide
	j = tileOrder[(row%TileSide)*TileSide+col%TileSide]
	return chunk, j, chunk < g.Chunks
}

// PackTiles lays out a per-point stream (texelBytes per point, chunks in
// order) as the grid image. Padding texels are zero.
func (g ChunkGrid) PackTiles(src []byte, texelBytes int) []byte {
	w, h := g.TexelWidth(), g.TexelHeight()
	dst := make([]byte, w*h*texelBytes)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			chunk, j, ok := g.ChunkPointOf(row, col)
			if !ok {
				continue
			}
			s := (chunk*ChunkSize + j) * texelBytes
			copy(dst[(row*w+col)*texelBytes:], src[s:s+texelBytes])
		}
	}
	return dst
}

// PackRecords lays out one record per chunk on the grid, without the
// in-tile reorder.
func (g ChunkGrid) PackRecords(src []byte, recordBytes int) []byte {
	dst := make([]byte, g.Width*g.Height*recordBytes)
	copy(dst, src[:g.Chunks*recordBytes])
	return dst
}
