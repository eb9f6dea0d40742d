package splat

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression is the optional whole-file codec applied to an output.
type Compression uint8

const (
	CompressNone Compression = 0
	CompressZlib Compression = 1
	CompressZstd Compression = 2
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func (c Compression) String() string {
	switch c {
	case CompressZlib:
		return "zlib"
	case CompressZstd:
		return "zstd"
	}
	return "none"
}

// Extension is the file suffix appended for the codec.
func (c Compression) Extension() string {
	switch c {
	case CompressZlib:
		return ".zz"
	case CompressZstd:
		return ".zst"
	}
	return ""
}

// ParseCompression accepts none, zlib or zstd.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressNone, nil
	case "zlib":
		return CompressZlib, nil
	case "zstd":
		return CompressZstd, nil
	}
	return CompressNone, fmt.Errorf("unsupported compression %q", s)
}

// Compress encodes data with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressNone:
		return data, nil
	case CompressZlib:
		var buf bytes.Buffer
		zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("unsupported compression: %d", c)
}

// DetectCompression sniffs the zstd frame magic or a zlib header.
// SPB and GLB streams start with ASCII magics, so neither is mistaken
// for compressed data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressZstd
	case len(data) >= 2 && data[0]&0x0f == 8 && (uint16(data[0])<<8|uint16(data[1]))%31 == 0:
		return CompressZlib
	}
	return CompressNone
}

// Decompress undoes Compress, detecting the codec from the data.
func Decompress(data []byte) ([]byte, Compression, error) {
	c := DetectCompression(data)
	switch c {
	case CompressZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, c, err
		}
		defer zr.Close()
		b, err := io.ReadAll(zr)
		return b, c, err
	case CompressZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, c, err
		}
		defer dec.Close()
		b, err := dec.DecodeAll(data, nil)
		return b, c, err
	}
	return data, CompressNone, nil
}
