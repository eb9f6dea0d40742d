package splat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	static, err := SchemaByName("ThreeD")
	require.NoError(t, err)
	spacetime, err := SchemaByName("SPACETIME")
	require.NoError(t, err)

	s, err := Identify(static.CanonicalProperties())
	require.NoError(t, err)
	assert.Equal(t, GaussianStatic, s.Kind)
	assert.Equal(t, 62, s.Total)
	assert.False(t, s.HasTime())

	s, err = Identify(spacetime.CanonicalProperties())
	require.NoError(t, err)
	assert.Equal(t, GaussianSpacetime, s.Kind)
	assert.Equal(t, 32, s.Total)
	assert.True(t, s.HasTime())
}

func TestIdentifyDeclarationOrder(t *testing.T) {
	props := []string{"rot_0", "rot_1", "rot_2", "rot_3", "x", "y", "z"}
	props = append(props, seq("f_dc_", 3)...)
	props = append(props, seq("f_rest_", 45)...)
	props = append(props, "opacity", "scale_0", "scale_1", "scale_2")

	s, err := Identify(props)
	require.NoError(t, err)
	assert.Equal(t, GaussianStatic, s.Kind)
	assert.Equal(t, 0, s.Column("rot_0"))
	assert.Equal(t, 4, s.Column("x"))
	assert.Equal(t, -1, s.Column("nx"), "normals are optional")
	assert.Equal(t, len(props), s.Total)
	assert.Equal(t, props, s.CanonicalProperties())
}

func TestIdentifyRejects(t *testing.T) {
	static, _ := SchemaByName("ThreeD")
	full := static.CanonicalProperties()

	cases := map[string][]string{
		"empty":     nil,
		"unknown":   append(append([]string{}, full...), "bogus"),
		"missing":   full[:len(full)-1],
		"duplicate": append(append([]string{}, full...), "x"),
		"mixed":     append(append([]string{}, full...), "trbf_center"),
	}
	for name, props := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Identify(props)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownPointFormat))
			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, CodeUnknownPointFormat, e.Code)
		})
	}
}

func TestSchemaByName(t *testing.T) {
	s, err := SchemaByName("spacetime")
	require.NoError(t, err)
	assert.Equal(t, "SPACETIME", s.Name)

	_, err = SchemaByName("mesh")
	assert.ErrorIs(t, err, ErrUnknownPointFormat)
}
