package splat

import (
	"encoding/binary"
	"log/slog"
	"math"
)

// Texture region keys; the region name is "u_" + key.
const (
	TexXYZ   = "u_xyz"
	TexQ     = "u_q"
	TexColor = "u_color"
	TexScale = "u_s"
	TexOther = "u_other"
	TexRange = "u_range"
)

var (
	unitRange    = Range{Min: -1, Max: 1}
	opacityRange = Range{Min: 0, Max: 1}
)

// float16 values per range record
const (
	staticHalfs    = 16
	spacetimeHalfs = 24
)

// TextureSet is the texture-path output: every region is a 2D image on
// Grid, except u_range which holds one record per chunk.
type TextureSet struct {
	Kind    Kind
	Grid    ChunkGrid
	Regions []Region
	Blob    []byte
}

// Region returns the named region and its bytes.
func (t *TextureSet) Region(name string) (Region, []byte, bool) {
	r, ok := findRegion(t.Regions, name)
	if !ok {
		return Region{}, nil, false
	}
	return r, t.Blob[r.Offset : r.Offset+r.Size], true
}

// RangeRecord decodes the float16 range record of a chunk.
func (t *TextureSet) RangeRecord(chunk int) []float32 {
	_, data, _ := t.Region(TexRange)
	n := staticHalfs
	if t.Kind == GaussianSpacetime {
		n = spacetimeHalfs
	}
	out := make([]float32, n)
	rec := data[chunk*2*n:]
	for i := range out {
		out[i] = halfValue(binary.LittleEndian.Uint16(rec[2*i:]))
	}
	return out
}

// TextureOptions configures EncodeTexture.
type TextureOptions struct {
	Workers int
	Logger  *slog.Logger
}

// per-point byte streams, chunk order, before tiling
type textureStreams struct {
	xyz, q, color []byte
	extra         []byte
	extraWidth    int
	ranges        []byte
	halfs         int
}

// EncodeTexture quantizes padded attributes chunk by chunk and lays them
// out as textures: u_xyz R32UI, u_q RGBA8, u_color RGBA8, then u_s RGBA8
// (static) or u_other RGBA32UI (spacetime), then the u_range records.
func EncodeTexture(a *Attributes, opts TextureOptions) (*TextureSet, error) {
	if a.N%ChunkSize != 0 {
		return nil, newError(CodeMalformedRecordStream, "texture", ErrMalformedRecordStream,
			"%d points is not a whole number of chunks", a.N)
	}
	grid, err := ChunkGridFor(a.N)
	if err != nil {
		return nil, err
	}
	st := textureStreams{
		xyz:   make([]byte, 4*a.N),
		q:     make([]byte, 4*a.N),
		color: make([]byte, 4*a.N),
	}
	format := RGBA8
	extraName := TexScale
	if a.Schema.HasTime() {
		st.extraWidth, st.halfs = 16, spacetimeHalfs
		format, extraName = RGBA32UI, TexOther
	} else {
		st.extraWidth, st.halfs = 4, staticHalfs
	}
	st.extra = make([]byte, st.extraWidth*a.N)
	st.ranges = make([]byte, 2*st.halfs*grid.Chunks)

	err = forEachChunk(a.N, opts.Workers, func(chunk, lo, hi int) error {
		encodeTextureChunk(a, &st, chunk, lo, hi)
		return nil
	})
	if err != nil {
		return nil, err
	}

	t := &TextureSet{Kind: a.Schema.Kind, Grid: grid}
	w, h := grid.TexelWidth(), grid.TexelHeight()
	for _, s := range []struct {
		name   string
		format PixelFormat
		data   []byte
	}{
		{TexXYZ, R32UI, st.xyz},
		{TexQ, RGBA8, st.q},
		{TexColor, RGBA8, st.color},
		{extraName, format, st.extra},
	} {
		img := grid.PackTiles(s.data, s.format.BytesPerTexel())
		t.Regions, t.Blob = appendRegion(t.Regions, t.Blob,
			Region{Name: s.name, Width: w, Height: h, Format: s.format}, img)
	}
	texelsPerRecord := 2 * st.halfs / RGBA32UI.BytesPerTexel()
	t.Regions, t.Blob = appendRegion(t.Regions, t.Blob,
		Region{Name: TexRange, Width: grid.Width * texelsPerRecord, Height: grid.Height, Format: RGBA32UI},
		grid.PackRecords(st.ranges, 2*st.halfs))

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Debug("texture encoded", "chunks", grid.Chunks, "grid", [2]int{grid.Width, grid.Height}, "bytes", len(t.Blob))
	return t, nil
}

func encodeTextureChunk(a *Attributes, st *textureStreams, chunk, lo, hi int) {
	xyz := ChannelRanges(a.Position, 3, lo, hi)
	for i := range xyz {
		xyz[i] = HalfRange(xyz[i])
	}
	rgba := ChannelRanges(a.Color, 4, lo, hi)
	for i := range 3 {
		rgba[i] = HalfRange(rgba[i])
	}
	rgba[3] = opacityRange

	sqrtScale := make([]float32, 3*(hi-lo))
	for i := range sqrtScale {
		sqrtScale[i] = float32(math.Sqrt(float64(a.Scale[3*lo+i])))
	}
	sRange := HalfRange(ScalarRange(sqrtScale, 3, 0, hi-lo))

	w := newBitWriter(4 * (hi - lo))
	for i := lo; i < hi; i++ {
		p := a.Position[3*i : 3*i+3]
		packXYZ(w,
			Quantize(p[0], xyz[0], xyzBitsX),
			Quantize(p[1], xyz[1], xyzBitsY),
			Quantize(p[2], xyz[2], xyzBitsZ))
		for k := range 4 {
			st.q[4*i+k] = byte(Quantize(a.Rotation[4*i+k], unitRange, 8))
			st.color[4*i+k] = byte(Quantize(a.Color[4*i+k], rgba[k], 8))
		}
	}
	copy(st.xyz[4*lo:], w.bytes())

	rec := make([]byte, 0, 2*st.halfs)
	rec = putHalfs(rec, xyz[0].Min, xyz[1].Min, xyz[2].Min, xyz[0].Max, xyz[1].Max, xyz[2].Max)
	rec = putHalfs(rec, sRange.Min, sRange.Max)

	if a.Schema.HasTime() {
		var motion [3]Range
		for m := range motion {
			motion[m] = HalfRange(ScalarRange(a.Motion[m], 3, lo, hi))
		}
		for i := lo; i < hi; i++ {
			px := st.extra[16*i : 16*i+16]
			for m := range 3 {
				for j := range 3 {
					px[4*m+j] = byte(Quantize(a.Motion[m][3*i+j], motion[m], 8))
				}
				px[4*m+3] = byte(Quantize(sqrtScale[3*(i-lo)+m], sRange, 8))
			}
			binary.LittleEndian.PutUint16(px[12:], halfBits(a.TimeCenter[i]))
			binary.LittleEndian.PutUint16(px[14:], halfBits(a.TimeScale[i]))
		}
		for _, m := range motion {
			rec = putHalfs(rec, m.Min, m.Max)
		}
		rec = putHalfs(rec, 0, 0)
	} else {
		for i := lo; i < hi; i++ {
			for k := range 3 {
				st.extra[4*i+k] = byte(Quantize(sqrtScale[3*(i-lo)+k], sRange, 8))
			}
		}
	}

	for _, r := range rgba {
		rec = putHalfs(rec, r.Min, r.Max)
	}
	copy(st.ranges[chunk*2*st.halfs:], rec)
}
