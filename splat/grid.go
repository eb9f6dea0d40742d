package splat

const (
	// ChunkSize is the number of points sharing one quantization range.
	ChunkSize = 256
	// TileSide is the side of the square texel block a chunk occupies.
	TileSide = 16

	// MaxTextureSide bounds both texture dimensions, in texels.
	MaxTextureSide = 4096
	// MaxChunkGridSide bounds the chunk grid, in whole chunks.
	MaxChunkGridSide = MaxTextureSide / TileSide

	// paddingOpacity is the raw opacity given to padding rows; sigmoid(-70) ~ 4e-31.
	paddingOpacity = -70
)
