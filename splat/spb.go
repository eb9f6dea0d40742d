package splat

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MarshalText renders the header lines byte-exact, end_header included.
func (h SPBHeader) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	pad := 0
	if h.Padded {
		pad = 1
	}
	fmt.Fprintf(&buf, "%s %s %d %d %d\n", spbMagic, h.Schema, int(h.Level), h.PointCount, pad)
	for _, b := range h.Buffers {
		fmt.Fprintf(&buf, "%s %s %d\n", spbBuffer, b.Name, b.Size)
	}
	buf.WriteString(spbEndHeader + "\n")
	return buf.Bytes(), nil
}

// BlobSize is the sum of the declared buffer sizes.
func (h SPBHeader) BlobSize() int {
	n := 0
	for _, b := range h.Buffers {
		n += b.Size
	}
	return n
}

var errSPBHeader = errors.New("invalid SPB header")

// ParseSPBHeader reads header lines up to and including end_header. The
// reader is left positioned at the first blob byte.
func ParseSPBHeader(r *bufio.Reader) (SPBHeader, error) {
	var h SPBHeader
	line, err := readHeaderLine(r)
	if err != nil {
		return h, err
	}
	f := strings.Fields(line)
	if len(f) != 5 || f[0] != spbMagic {
		return h, fmt.Errorf("%w: %q", errSPBHeader, line)
	}
	h.Schema = f[1]
	level, err1 := strconv.Atoi(f[2])
	count, err2 := strconv.Atoi(f[3])
	if err := errors.Join(err1, err2); err != nil || (f[4] != "0" && f[4] != "1") {
		return h, fmt.Errorf("%w: %q", errSPBHeader, line)
	}
	h.Level, h.PointCount, h.Padded = Level(level), count, f[4] == "1"
	if err := h.Level.Validate(); err != nil {
		return h, err
	}

	for {
		line, err := readHeaderLine(r)
		if err != nil {
			return h, err
		}
		if line == spbEndHeader {
			return h, nil
		}
		f := strings.Fields(line)
		if len(f) != 3 || f[0] != spbBuffer {
			return h, fmt.Errorf("%w: %q", errSPBHeader, line)
		}
		size, err := strconv.Atoi(f[2])
		if err != nil || size < 0 {
			return h, fmt.Errorf("%w: buffer size %q", errSPBHeader, f[2])
		}
		h.Buffers = append(h.Buffers, SPBBuffer{Name: f[1], Size: size})
	}
}

func readHeaderLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: missing %s", errSPBHeader, spbEndHeader)
		}
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// SPBFile is a parsed SPB stream.
type SPBFile struct {
	Header  SPBHeader
	Regions []Region
	Blob    []byte
	// Trailing counts the zero padding after the declared buffers.
	Trailing int
}

// ReadSPB parses a whole SPB stream and checks the blob against the
// declared buffer sizes.
func ReadSPB(r io.Reader) (*SPBFile, error) {
	br := bufio.NewReader(r)
	h, err := ParseSPBHeader(br)
	if err != nil {
		return nil, err
	}
	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	if len(rest) < h.BlobSize() {
		return nil, fmt.Errorf("%w: blob has %d bytes, header declares %d", errSPBHeader, len(rest), h.BlobSize())
	}
	f := &SPBFile{Header: h, Blob: rest[:h.BlobSize()], Trailing: len(rest) - h.BlobSize()}
	off := 0
	for _, b := range h.Buffers {
		f.Regions = append(f.Regions, Region{Name: b.Name, Offset: off, Size: b.Size})
		off += b.Size
	}
	return f, nil
}
