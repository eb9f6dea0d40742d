package splat

import (
	"log/slog"
	"math"
)

// shC0 is the degree-0 spherical harmonic constant.
const shC0 = 0.28209479177387814

// SH band sizes after interleaving, three channels per coefficient.
var shBandWidths = [3]int{9, 15, 21}

// Attributes holds the decoded streams of a point set, row-major with the
// per-point width noted on each field. Streams absent from the schema are nil.
type Attributes struct {
	Schema *Schema
	N      int

	Position []float32 // 3
	Scale    []float32 // 3, exponentiated
	Rotation []float32 // 4, x y z w, unit length
	Color    []float32 // 4, rgb + opacity

	SH [3][]float32 // 9, 15, 21; static only

	Motion     [3][]float32 // 3 each; spacetime only
	Omega      []float32    // 4
	TimeCenter []float32    // 1
	TimeScale  []float32    // 1, exp(-raw)^2

	// DegenerateRotations counts zero-length quaternions replaced by identity.
	DegenerateRotations int
}

type stream struct {
	data  *[]float32
	width int
}

func (a *Attributes) streams() []stream {
	out := []stream{
		{&a.Position, 3}, {&a.Scale, 3}, {&a.Rotation, 4}, {&a.Color, 4},
	}
	for i := range a.SH {
		out = append(out, stream{&a.SH[i], shBandWidths[i]})
	}
	for i := range a.Motion {
		out = append(out, stream{&a.Motion[i], 3})
	}
	return append(out, stream{&a.Omega, 4}, stream{&a.TimeCenter, 1}, stream{&a.TimeScale, 1})
}

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// ColorMax is the upper clamp of the decoded RGB channels.
	ColorMax float32
	// Workers bounds the decode goroutines; 0 means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Decode converts raw rows into semantic attribute streams.
func Decode(raw RawPointSet, opts DecodeOptions) (*Attributes, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := raw.Schema
	n := raw.N
	a := &Attributes{
		Schema:   s,
		N:        n,
		Position: make([]float32, 3*n),
		Scale:    make([]float32, 3*n),
		Rotation: make([]float32, 4*n),
		Color:    make([]float32, 4*n),
	}
	if s.HasTime() {
		for i := range a.Motion {
			a.Motion[i] = make([]float32, 3*n)
		}
		a.Omega = make([]float32, 4*n)
		a.TimeCenter = make([]float32, n)
		a.TimeScale = make([]float32, n)
	} else {
		for i, w := range shBandWidths {
			a.SH[i] = make([]float32, w*n)
		}
	}

	cols := newColumnSet(s)
	degenerate := make([]int, (n+ChunkSize-1)/ChunkSize)
	err := forEachChunk(n, opts.Workers, func(chunk, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if !cols.decodeRow(a, i, raw.Row(i), opts.ColorMax) {
				degenerate[chunk]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, d := range degenerate {
		a.DegenerateRotations += d
	}
	if a.DegenerateRotations > 0 {
		log.Warn("zero-length rotations replaced by identity", "count", a.DegenerateRotations)
	}
	return a, nil
}

// columnSet resolves every column Decode reads once per schema.
type columnSet struct {
	static  bool
	pos     [3]int
	scale   [3]int
	rot     [4]int // rot_1 rot_2 rot_3 rot_0
	dc      [3]int
	opacity int
	rest    [3][]int
	motion  [3][3]int
	omega   [4]int // omega_1 omega_2 omega_3 omega_0
	tc, ts  int
}

func newColumnSet(s *Schema) *columnSet {
	c := &columnSet{static: !s.HasTime(), opacity: s.col("opacity")}
	for i, n := range []string{"x", "y", "z"} {
		c.pos[i] = s.col(n)
	}
	for i := range 3 {
		c.scale[i] = s.col(seq("scale_", 3)[i])
		c.dc[i] = s.col(seq("f_dc_", 3)[i])
	}
	for i, k := range []int{1, 2, 3, 0} {
		c.rot[i] = s.col(seq("rot_", 4)[k])
	}
	if c.static {
		rest := seq("f_rest_", 45)
		// band b covers coefficients [first, first+count) of each channel,
		// written degree-major, channel-minor
		first := 0
		for b, w := range shBandWidths {
			count := w / 3
			for k := first; k < first+count; k++ {
				for ch := range 3 {
					c.rest[b] = append(c.rest[b], s.col(rest[ch*15+k]))
				}
			}
			first += count
		}
		return c
	}
	motion := seq("motion_", 9)
	for m := range 3 {
		for j := range 3 {
			c.motion[m][j] = s.col(motion[m*3+j])
		}
	}
	for i, k := range []int{1, 2, 3, 0} {
		c.omega[i] = s.col(seq("omega_", 4)[k])
	}
	c.tc = s.col("trbf_center")
	c.ts = s.col("trbf_scale")
	return c
}

// decodeRow fills point i and reports false when its quaternion was zero.
func (c *columnSet) decodeRow(a *Attributes, i int, row []float32, colorMax float32) bool {
	for k := range 3 {
		a.Position[3*i+k] = row[c.pos[k]]
		a.Scale[3*i+k] = float32(math.Exp(float64(row[c.scale[k]])))
		dc := row[c.dc[k]]
		if c.static {
			dc = 0.5 + shC0*dc
		}
		a.Color[4*i+k] = clamp(dc, 0, colorMax)
	}
	a.Color[4*i+3] = sigmoid(row[c.opacity])

	var q [4]float64
	var norm float64
	for k := range 4 {
		q[k] = float64(row[c.rot[k]])
		norm += q[k] * q[k]
	}
	ok := norm > 0
	if ok {
		norm = math.Sqrt(norm)
		for k := range 4 {
			a.Rotation[4*i+k] = float32(q[k] / norm)
		}
	} else {
		copy(a.Rotation[4*i:], []float32{0, 0, 0, 1})
	}

	if c.static {
		for b, idx := range c.rest {
			w := len(idx)
			for k, col := range idx {
				a.SH[b][w*i+k] = row[col]
			}
		}
		return ok
	}
	for m := range 3 {
		for j := range 3 {
			a.Motion[m][3*i+j] = row[c.motion[m][j]]
		}
	}
	for k := range 4 {
		a.Omega[4*i+k] = row[c.omega[k]]
	}
	a.TimeCenter[i] = row[c.tc]
	e := math.Exp(-float64(row[c.ts]))
	a.TimeScale[i] = float32(e * e)
	return ok
}

func sigmoid(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

// Permute returns a copy with point i of the result taken from point
// perm[i] of a.
func (a *Attributes) Permute(perm []int) *Attributes {
	out := *a
	dst := out.streams()
	for k, src := range a.streams() {
		if *src.data == nil {
			continue
		}
		w := src.width
		p := make([]float32, len(*src.data))
		for i, from := range perm {
			copy(p[i*w:(i+1)*w], (*src.data)[from*w:(from+1)*w])
		}
		*dst[k].data = p
	}
	return &out
}
