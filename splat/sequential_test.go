package splat

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The size suffixes in a region name add up to its stride.
func TestSequentialLayoutNames(t *testing.T) {
	digits := regexp.MustCompile(`\d+`)
	for kind, levels := range sequentialLayouts {
		for level, layouts := range levels {
			require.Len(t, layouts, 3, "kind %d level %d", kind, level)
			for _, l := range layouts {
				sum := 0
				for _, d := range digits.FindAllString(l.name, -1) {
					v, _ := strconv.Atoi(d)
					sum += v
				}
				assert.Equal(t, sum, l.stride(), l.name)
			}
		}
	}
}

func TestSequentialHeaderGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range []struct {
		schema string
		n      int
		pad    bool
	}{
		{"ThreeD", 300, false},
		{"SPACETIME", 1000, true},
	} {
		for level := LevelHigh; level <= LevelLow; level++ {
			name := fmt.Sprintf("spb_%s_%d", strings.ToLower(tc.schema), level)
			t.Run(name, func(t *testing.T) {
				res, err := Convert(synthInput(t, tc.schema, tc.n, 1), Options{
					Target: TargetSequential,
					Level:  level,
					Pad:    tc.pad,
				})
				require.NoError(t, err)
				seq := res.Sequential
				require.NotNil(t, seq)

				head, err := seq.Header.MarshalText()
				require.NoError(t, err)
				g.Assert(t, name, head)

				assert.Equal(t, seq.Header.BlobSize(), len(seq.Blob))
				for i, r := range seq.Regions {
					assert.Equal(t, seq.Header.Buffers[i].Size, r.Size)
					assert.Equal(t, sequentialLayouts[res.Schema.Kind][level][i].stride()*res.Points, r.Size)
				}
			})
		}
	}
}

func TestEncodeSequentialBytes(t *testing.T) {
	s, err := SchemaByName("ThreeD")
	require.NoError(t, err)
	a := &Attributes{
		Schema:   s,
		N:        1,
		Position: []float32{1, 2, 3},
		Scale:    []float32{1, 2, 3},
		Rotation: []float32{0, 0, 0, 1},
		Color:    []float32{1, 0, 0.5, 1},
		SH:       [3][]float32{make([]float32, 9), make([]float32, 15), make([]float32, 21)},
	}
	a.SH[0][0], a.SH[0][1] = -1, 1

	seq, err := EncodeSequential(a, SequentialOptions{Level: LevelMedium})
	require.NoError(t, err)
	want := putHalfs(nil, 1, 2, 3, 0)                              // Pos6Pad2
	want = putHalfs(want, 1, 0, 0, 4, 0, 9)                        // Cov12
	want = append(want, 255, 0, 128, 255)                          // Col4
	want = append(want, 0, 255, 128, 128, 128, 128, 128, 128, 128) // SH9
	want = append(want, 0, 0, 0)                                   // Pad3
	assert.Equal(t, want, seq.Blob)
}

func TestCovariances(t *testing.T) {
	h := float32(0.70710678)
	cov := Covariances([]float32{1, 2, 3, 1, 2, 3}, []float32{0, 0, 0, 1, 0, 0, h, h})
	assert.InDeltaSlice(t, []float32{1, 0, 0, 4, 0, 9}, cov[:6], 1e-6)
	assert.InDeltaSlice(t, []float32{4, 0, 0, 1, 0, 9}, cov[6:], 1e-5)
}

func TestSequentialPadding(t *testing.T) {
	for _, tc := range []struct {
		n     int
		level Level
		want  int
	}{
		{1024, LevelMedium, 0},
		{8704, LevelMedium, 24},
		{8704, LevelLow, 32},
		{8704, LevelHigh, 24},
	} {
		got, err := sequentialPadding(tc.n, tc.level)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "n=%d level=%d", tc.n, tc.level)
	}
}

func TestSequentialMarshal(t *testing.T) {
	res, err := Convert(synthInput(t, "SPACETIME", 8600, 2), Options{
		Target: TargetSequential,
		Level:  LevelLow,
		Pad:    true,
	})
	require.NoError(t, err)
	seq := res.Sequential
	require.Equal(t, 8704, res.Points)
	require.Equal(t, 32, seq.Padding)

	out := seq.Marshal()
	f, err := ReadSPB(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, seq.Header, f.Header)
	assert.Equal(t, seq.Blob, f.Blob)
	assert.Equal(t, seq.Padding, f.Trailing)
	assert.Equal(t, seq.Regions, f.Regions)
	assert.True(t, bytes.HasSuffix(out, make([]byte, 32)))
}
