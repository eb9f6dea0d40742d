package splat

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFromRows(t *testing.T, s *Schema, rows ...map[string]float32) RawPointSet {
	t.Helper()
	var data []byte
	for _, r := range rows {
		for _, name := range s.CanonicalProperties() {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(r[name]))
		}
	}
	raw, err := NewRawPointSet(s, data)
	require.NoError(t, err)
	return raw
}

func TestDecodeStatic(t *testing.T) {
	s, _ := SchemaByName("ThreeD")
	row := map[string]float32{
		"x": 1, "y": 2, "z": 3,
		"scale_0": 0, "scale_1": float32(math.Log(2)), "scale_2": -1,
		"rot_0": 2, "rot_1": 0, "rot_2": 0, "rot_3": 0,
		"f_dc_0": 0, "f_dc_1": 100, "f_dc_2": -100,
		"opacity": 0,
	}
	for k := range 45 {
		row[seq("f_rest_", 45)[k]] = float32(k)
	}
	a, err := Decode(rawFromRows(t, s, row), DecodeOptions{ColorMax: 6})
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 2, 3}, a.Position)
	assert.InDeltaSlice(t, []float32{1, 2, float32(math.Exp(-1))}, a.Scale, 1e-6)
	assert.Equal(t, []float32{0, 0, 0, 1}, a.Rotation, "rot_0 is w and moves last")
	assert.InDeltaSlice(t, []float32{0.5, 6, 0, 0.5}, a.Color, 1e-6)

	assert.Equal(t, []float32{0, 15, 30, 1, 16, 31, 2, 17, 32}, a.SH[0])
	assert.Equal(t, []float32{3, 18, 33, 4, 19, 34, 5, 20, 35, 6, 21, 36, 7, 22, 37}, a.SH[1])
	assert.Len(t, a.SH[2], 21)
	assert.Equal(t, []float32{8, 23, 38}, a.SH[2][:3])
	assert.Equal(t, []float32{14, 29, 44}, a.SH[2][18:])
	assert.Nil(t, a.Motion[0])
	assert.Zero(t, a.DegenerateRotations)
}

func TestDecodeSpacetime(t *testing.T) {
	s, _ := SchemaByName("SPACETIME")
	row := map[string]float32{
		"f_dc_0": 0.25, "f_dc_1": 3, "f_dc_2": -1,
		"rot_0": 0, "rot_1": 3, "rot_2": 0, "rot_3": 4,
		"omega_0": 0.4, "omega_1": 0.1, "omega_2": 0.2, "omega_3": 0.3,
		"trbf_center": 0.6, "trbf_scale": 1,
		"opacity": 100,
	}
	for k := range 9 {
		row[seq("motion_", 9)[k]] = float32(k)
	}
	a, err := Decode(rawFromRows(t, s, row), DecodeOptions{ColorMax: 1})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float32{0.6, 0, 0.8, 0}, a.Rotation, 1e-6)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, a.Omega)
	assert.InDeltaSlice(t, []float32{0.25, 1, 0, 1}, a.Color, 1e-6)
	assert.Equal(t, []float32{0, 1, 2}, a.Motion[0])
	assert.Equal(t, []float32{6, 7, 8}, a.Motion[2])
	assert.Equal(t, []float32{0.6}, a.TimeCenter)
	assert.InDelta(t, math.Exp(-2), a.TimeScale[0], 1e-7)
	assert.Nil(t, a.SH[0])
}

func TestDecodeZeroQuaternion(t *testing.T) {
	s, _ := SchemaByName("ThreeD")
	a, err := Decode(rawFromRows(t, s, map[string]float32{}, map[string]float32{"rot_1": 1}), DecodeOptions{ColorMax: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, a.DegenerateRotations)
	assert.Equal(t, []float32{0, 0, 0, 1, 1, 0, 0, 0}, a.Rotation)
	for _, v := range a.Rotation {
		assert.False(t, math.IsNaN(float64(v)))
	}
}

func TestDecodeParallelDeterministic(t *testing.T) {
	raw := synthRaw(t, "ThreeD", 5000, 8)
	one, err := Decode(raw, DecodeOptions{ColorMax: 6, Workers: 1})
	require.NoError(t, err)
	many, err := Decode(raw, DecodeOptions{ColorMax: 6, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, one, many)
}

func TestPermute(t *testing.T) {
	raw := synthRaw(t, "SPACETIME", 3, 4)
	a, err := Decode(raw, DecodeOptions{ColorMax: 1})
	require.NoError(t, err)
	p := a.Permute([]int{2, 0, 1})

	assert.Equal(t, a.Position[6:9], p.Position[0:3])
	assert.Equal(t, a.Rotation[0:4], p.Rotation[4:8])
	assert.Equal(t, a.Motion[1][3:6], p.Motion[1][6:9])
	assert.Equal(t, a.TimeScale[2], p.TimeScale[0])
	assert.Nil(t, p.SH[1])
	assert.NotSame(t, &a.Position[0], &p.Position[0], "permuted streams are copies")
}
