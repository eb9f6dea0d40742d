package splat

import (
	"encoding/binary"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// synthValue returns a plausible raw value for a property.
func synthValue(rng *rand.Rand, name string) float32 {
	u := func(lo, hi float64) float32 { return float32(lo + rng.Float64()*(hi-lo)) }
	switch {
	case name == "x" || name == "y" || name == "z":
		return u(-10, 10)
	case strings.HasPrefix(name, "scale_"):
		return u(-5, -1)
	case strings.HasPrefix(name, "rot_"):
		return u(-1, 1)
	case name == "opacity":
		return u(-4, 4)
	case strings.HasPrefix(name, "f_rest_"):
		return u(-0.5, 0.5)
	case name == "trbf_center":
		return u(0, 1)
	case strings.HasPrefix(name, "omega_"):
		return u(-0.1, 0.1)
	case strings.HasPrefix(name, "n"):
		return 0
	}
	return u(-1, 1)
}

// synthInput builds n rows of the named schema in canonical column order.
func synthInput(t *testing.T, schemaName string, n int, seed int64) Input {
	t.Helper()
	s, err := SchemaByName(schemaName)
	require.NoError(t, err)
	props := s.CanonicalProperties()
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, 0, 4*n*len(props))
	for i := 0; i < n; i++ {
		for _, p := range props {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(synthValue(rng, p)))
		}
	}
	return Input{Name: schemaName, Properties: props, Data: data}
}

func synthRaw(t *testing.T, schemaName string, n int, seed int64) RawPointSet {
	t.Helper()
	in := synthInput(t, schemaName, n, seed)
	s, err := Identify(in.Properties)
	require.NoError(t, err)
	raw, err := NewRawPointSet(s, in.Data)
	require.NoError(t, err)
	return raw
}

func isPermutation(perm []int) bool {
	seen := make([]bool, len(perm))
	for _, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

func appendFloat(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}
