package wire

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// Writer encodes little-endian primitives into a growing buffer.
type Writer struct {
	buf []byte
	tmp [8]byte
}

func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

func (w *Writer) Pos() int      { return len(w.buf) }
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) Bool(v bool) { w.U8(BoolByte(v)) }

func (w *Writer) I16(v int16) { w.U16(uint16(v)) }

func (w *Writer) U16(v uint16) {
	binary.LittleEndian.PutUint16(w.tmp[:2], v)
	w.buf = append(w.buf, w.tmp[:2]...)
}

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

func (w *Writer) U32(v uint32) {
	binary.LittleEndian.PutUint32(w.tmp[:4], v)
	w.buf = append(w.buf, w.tmp[:4]...)
}

func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) U64(v uint64) {
	binary.LittleEndian.PutUint64(w.tmp[:], v)
	w.buf = append(w.buf, w.tmp[:]...)
}

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

func (w *Writer) Raw(b []byte) { w.buf = append(w.buf, b...) }

func (w *Writer) Len7(n int) {
	v := uint32(n)
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

// String writes s as a 7-bit length prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.Len7(len(s))
	w.buf = append(w.buf, s...)
}

func (w *Writer) UUID(id uuid.UUID) { w.buf = append(w.buf, id[:]...) }

// PatchU32 overwrites four bytes at an absolute offset already written.
func (w *Writer) PatchU32(at int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[at:at+4], v)
}

func (w *Writer) PatchI32(at int, v int32) { w.PatchU32(at, uint32(v)) }

func BoolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
