package splat

import "io"

// bitWriter appends values LSB-first; the first field of a word lands in
// its low bits.
type bitWriter struct {
	buf []byte
	acc uint64
	n   uint8
}

func newBitWriter(size int) *bitWriter { return &bitWriter{buf: make([]byte, 0, size)} }

func (w *bitWriter) writeBits(v uint64, bits uint8) {
	w.acc |= (v & ((1 << bits) - 1)) << w.n
	w.n += bits
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc&0xFF))
		w.acc >>= 8
		w.n -= 8
	}
}

func (w *bitWriter) bytes() []byte {
	if w.n > 0 {
		w.buf = append(w.buf, byte(w.acc&0xFF))
		w.acc = 0
		w.n = 0
	}
	return w.buf
}

type bitReader struct {
	data []byte
	acc  uint64
	n    uint8
	pos  int
}

func newBitReader(b []byte) *bitReader { return &bitReader{data: b} }

func (r *bitReader) readBits(bits uint8) (uint64, error) {
	for r.n < bits {
		if r.pos >= len(r.data) {
			return 0, io.ErrUnexpectedEOF
		}
		r.acc |= uint64(r.data[r.pos]) << r.n
		r.n += 8
		r.pos++
	}
	v := r.acc & (1<<bits - 1)
	r.acc >>= bits
	r.n -= bits
	return v, nil
}

// packXYZ packs three quantized coordinates into one R32UI word:
// x in bits 0-10, y in 11-20, z in 21-31.
func packXYZ(w *bitWriter, x, y, z uint32) {
	w.writeBits(uint64(x), xyzBitsX)
	w.writeBits(uint64(y), xyzBitsY)
	w.writeBits(uint64(z), xyzBitsZ)
}

// UnpackXYZ reads back one word written by the position packer.
func UnpackXYZ(word []byte) (x, y, z uint32, err error) {
	r := newBitReader(word)
	var v [3]uint64
	for i, b := range [3]uint8{xyzBitsX, xyzBitsY, xyzBitsZ} {
		if v[i], err = r.readBits(b); err != nil {
			return 0, 0, 0, err
		}
	}
	return uint32(v[0]), uint32(v[1]), uint32(v[2]), nil
}

const (
	xyzBitsX = 11
	xyzBitsY = 10
	xyzBitsZ = 11
)
