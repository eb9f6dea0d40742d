package ply

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	names := []string{"x", "y", "z", "opacity"}
	values := []float32{1, 2, 3, -1, 4, 5, 6, 0.5}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, names, values, "generated"))
	header := buf.String()[:strings.Index(buf.String(), "end_header\n")]
	assert.True(t, strings.HasPrefix(header, "ply\n"))
	assert.Contains(t, header, "binary_little_endian")
	assert.Contains(t, header, "element vertex 2\n")
	assert.Contains(t, header, "property float opacity\n")

	gotNames, data, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, names, gotNames)
	require.Len(t, data, 4*len(values))
	for i, v := range values {
		assert.Equal(t, v, math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:])))
	}
}

func TestReadHeaderStopsAtData(t *testing.T) {
	in := "ply\nformat binary_little_endian 1.0\ncomment scanner\n" +
		"element vertex 3\nproperty float x\nproperty float y\n" +
		"element camera 1\nproperty uchar id\n" +
		"end_header\n"
	br := bufio.NewReader(strings.NewReader(in + "end_header\n"))
	h, err := ReadHeader(br)
	require.NoError(t, err)
	names, err := FloatProperties(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names)

	rest, err := br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "end_header\n", rest, "payload bytes are left unread")

	payload := append(make([]byte, 24), 7)
	got, err := ReadVertices(bytes.NewReader(payload), h)
	require.NoError(t, err)
	assert.Len(t, got, 24, "trailing camera row ignored")
}

func TestReadErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		in  string
		err error
	}{
		"magic":        {"PLY\n", ErrNotPLY},
		"ascii":        {"ply\nformat ascii 1.0\nelement vertex 0\nend_header\n", ErrUnsupportedFormat},
		"double":       {"ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty double x\nend_header\n", ErrUnsupportedFormat},
		"vertex later": {"ply\nformat binary_little_endian 1.0\nelement face 0\nproperty uchar n\nelement vertex 1\nproperty float x\nend_header\n", ErrUnsupportedFormat},
		"no end":       {"ply\nformat binary_little_endian 1.0\n", ErrNotPLY},
		"short":        {"ply\nformat binary_little_endian 1.0\nelement vertex 2\nproperty float x\nend_header\n\x00\x00\x00\x00", ErrTruncated},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tc.in))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
