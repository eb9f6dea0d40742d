package splat

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"math"
)

type encoding uint8

const (
	encF32 encoding = iota
	encF16
	encU8
)

func (e encoding) size() int {
	switch e {
	case encF32:
		return 4
	case encF16:
		return 2
	}
	return 1
}

// source selects an attribute stream feeding a field.
type source uint8

const (
	srcPosition source = iota
	srcCov
	srcColor
	srcSH1
	srcSH2
	srcRotation
	srcOmega
	srcMotion1
	srcMotion2
	srcMotion3
	srcTimeCenter
	srcScale
	srcTimeScale
)

// Fixed quantization ranges of the sequential encoder.
var (
	shRange     = Range{Min: -1, Max: 1}
	rotRange    = Range{Min: -1, Max: 1.3}
	omegaRange  = Range{Min: -0.17, Max: 0.17}
	motionRange = Range{Min: -5, Max: 5}
	tcRange     = Range{Min: -0.05, Max: 1.05}
	colorRange  = Range{Min: 0, Max: 1}
)

// field is one attribute written at a fixed encoding, followed by pad
// zero bytes. rng is only used by encU8.
type field struct {
	src source
	enc encoding
	rng Range
	pad int
}

type regionLayout struct {
	name   string
	fields []field
}

func (l regionLayout) stride() int {
	n := 0
	for _, f := range l.fields {
		n += srcWidth[f.src]*f.enc.size() + f.pad
	}
	return n
}

var srcWidth = [...]int{
	srcPosition:   3,
	srcCov:        6,
	srcColor:      4,
	srcSH1:        9,
	srcSH2:        15,
	srcRotation:   4,
	srcOmega:      4,
	srcMotion1:    3,
	srcMotion2:    3,
	srcMotion3:    3,
	srcTimeCenter: 1,
	srcScale:      3,
	srcTimeScale:  1,
}

func f32(s source, pad int) field { return field{src: s, enc: encF32, pad: pad} }
func f16(s source, pad int) field { return field{src: s, enc: encF16, pad: pad} }
func u8(s source, r Range, pad int) field {
	return field{src: s, enc: encU8, rng: r, pad: pad}
}

var (
	pos12Pad4 = regionLayout{"Pos12Pad4", []field{f32(srcPosition, 4)}}
	pos6Pad2  = regionLayout{"Pos6Pad2", []field{f16(srcPosition, 2)}}
	cov12Col4 = regionLayout{"Cov12Col4", []field{f16(srcCov, 0), u8(srcColor, colorRange, 0)}}
)

// sequentialLayouts lists the SPB regions per schema and level.
var sequentialLayouts = map[Kind][3][]regionLayout{
	GaussianStatic: {
		LevelHigh: {pos12Pad4, cov12Col4,
			{"SH24", []field{u8(srcSH1, shRange, 0), u8(srcSH2, shRange, 0)}}},
		LevelMedium: {pos6Pad2, cov12Col4,
			{"SH9Pad3", []field{u8(srcSH1, shRange, 3)}}},
		LevelLow: {pos6Pad2, cov12Col4,
			{"SH0", nil}},
	},
	GaussianSpacetime: {
		LevelHigh: {pos12Pad4,
			{"Rot8Omega8", []field{f16(srcRotation, 0), f16(srcOmega, 0)}},
			{"Motion18Scale6Tc2Ts2Col4", []field{
				f16(srcMotion1, 0), f16(srcMotion2, 0), f16(srcMotion3, 0), f16(srcTimeCenter, 0),
				f16(srcScale, 0), f16(srcTimeScale, 0), u8(srcColor, colorRange, 0)}}},
		LevelMedium: {pos6Pad2,
			{"Rot8Omega4Col4", []field{f16(srcRotation, 0), u8(srcOmega, omegaRange, 0), u8(srcColor, colorRange, 0)}},
			{"Motion15Tc1Scale6Ts2", []field{
				f16(srcMotion1, 0), f16(srcMotion2, 0), u8(srcMotion3, motionRange, 0), u8(srcTimeCenter, tcRange, 0),
				f16(srcScale, 0), f16(srcTimeScale, 0)}}},
		LevelLow: {pos6Pad2,
			{"Rot4Omega4Scale6Ts2", []field{
				u8(srcRotation, rotRange, 0), u8(srcOmega, omegaRange, 0), f16(srcScale, 0), f16(srcTimeScale, 0)}},
			{"Motion11Tc1Col4", []field{
				u8(srcMotion1, motionRange, 1), u8(srcMotion2, motionRange, 1),
				u8(srcMotion3, motionRange, 0), u8(srcTimeCenter, tcRange, 0), u8(srcColor, colorRange, 0)}}},
	},
}

// SequentialOptions configures EncodeSequential.
type SequentialOptions struct {
	Level Level
	// Pad appends zero bytes up to the texture size that would hold the
	// splats, and sets the header flag.
	Pad    bool
	Logger *slog.Logger
}

// SequentialSet is the SPB output: header, regions in blob order, and the
// trailing zero padding length.
type SequentialSet struct {
	Header  SPBHeader
	Regions []Region
	Blob    []byte
	Padding int
}

// EncodeSequential writes every point once per region with the fixed
// layout of the schema and level.
func EncodeSequential(a *Attributes, opts SequentialOptions) (*SequentialSet, error) {
	if err := opts.Level.Validate(); err != nil {
		return nil, err
	}
	layouts := sequentialLayouts[a.Schema.Kind][opts.Level]
	var cov []float32
	if !a.Schema.HasTime() {
		cov = Covariances(a.Scale, a.Rotation)
	}

	s := &SequentialSet{Header: SPBHeader{
		Schema:     a.Schema.Name,
		Level:      opts.Level,
		PointCount: a.N,
		Padded:     opts.Pad,
	}}
	for _, l := range layouts {
		data := make([]byte, 0, l.stride()*a.N)
		for i := 0; i < a.N; i++ {
			for _, f := range l.fields {
				data = f.append(data, a.values(f.src, i, cov))
			}
		}
		s.Regions, s.Blob = appendRegion(s.Regions, s.Blob, Region{Name: l.name}, data)
		s.Header.Buffers = append(s.Header.Buffers, SPBBuffer{Name: l.name, Size: len(data)})
	}

	if opts.Pad {
		p, err := sequentialPadding(a.N, opts.Level)
		if err != nil {
			return nil, err
		}
		s.Padding = p
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Debug("sequential encoded", "schema", a.Schema.Name, "level", opts.Level, "bytes", len(s.Blob), "padding", s.Padding)
	return s, nil
}

// sequentialPadding is the zero tail that fills the texture a renderer
// would upload the splats to: two 12-byte texels per splat at level 0,
// one 12-byte texel at level 1, one 16-byte texel at level 2.
func sequentialPadding(n int, level Level) (int, error) {
	texels, texelBytes := n, 12
	switch level {
	case LevelHigh:
		texels = 2 * n
	case LevelLow:
		texelBytes = 16
	}
	w, h, err := TextureSize(texels, MaxTextureSide)
	if err != nil {
		return 0, err
	}
	return (w*h - texels) * texelBytes, nil
}

func (f field) append(dst []byte, vs []float32) []byte {
	for _, v := range vs {
		switch f.enc {
		case encF32:
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		case encF16:
			dst = binary.LittleEndian.AppendUint16(dst, halfBits(v))
		default:
			dst = append(dst, byte(Quantize(v, f.rng, 8)))
		}
	}
	for range f.pad {
		dst = append(dst, 0)
	}
	return dst
}

func (a *Attributes) values(src source, i int, cov []float32) []float32 {
	w := srcWidth[src]
	var s []float32
	switch src {
	case srcPosition:
		s = a.Position
	case srcCov:
		s = cov
	case srcColor:
		s = a.Color
	case srcSH1:
		s = a.SH[0]
	case srcSH2:
		s = a.SH[1]
	case srcRotation:
		s = a.Rotation
	case srcOmega:
		s = a.Omega
	case srcMotion1, srcMotion2, srcMotion3:
		s = a.Motion[src-srcMotion1]
	case srcTimeCenter:
		s = a.TimeCenter
	case srcScale:
		s = a.Scale
	case srcTimeScale:
		s = a.TimeScale
	}
	return s[i*w : (i+1)*w]
}

// Covariances returns the upper triangle (00 01 02 11 12 22) of Rᵀ·S²·R
// for every point, with R built from the unit quaternion (x y z w).
func Covariances(scale, rot []float32) []float32 {
	n := len(scale) / 3
	out := make([]float32, 6*n)
	for i := 0; i < n; i++ {
		x, y, z, w := float64(rot[4*i]), float64(rot[4*i+1]), float64(rot[4*i+2]), float64(rot[4*i+3])
		r := [3][3]float64{
			{1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y)},
			{2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x)},
			{2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y)},
		}
		var s2 [3]float64
		for k := range s2 {
			s := float64(scale[3*i+k])
			s2[k] = s * s
		}
		// (RᵀS²R)[a][b] = Σk R[k][a]·s²k·R[k][b]
		c := out[6*i : 6*i+6]
		for j, ab := range [6][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 2}, {2, 2}} {
			var v float64
			for k := range 3 {
				v += r[k][ab[0]] * s2[k] * r[k][ab[1]]
			}
			c[j] = float32(v)
		}
	}
	return out
}

// Marshal returns the complete SPB stream: header, blob, zero padding.
func (s *SequentialSet) Marshal() []byte {
	var buf bytes.Buffer
	_, _ = s.WriteTo(&buf)
	return buf.Bytes()
}

// WriteTo streams the SPB file to w.
func (s *SequentialSet) WriteTo(w io.Writer) (int64, error) {
	head, _ := s.Header.MarshalText()
	var total int64
	for _, part := range [][]byte{head, s.Blob, make([]byte, s.Padding)} {
		n, err := w.Write(part)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
