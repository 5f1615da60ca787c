package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrShort is returned once a read runs past the end of the buffer.
var ErrShort = errors.New("wire: unexpected end of data")

// Reader decodes little-endian primitives from an in-memory buffer.
//
// Errors are sticky: after the first failure every read returns the zero value
// and Err reports the original cause, so callers check once per record.
type Reader struct {
	buf []byte
	pos int
	err error
}

func NewReader(b []byte) *Reader { return &Reader{buf: b} }

func (r *Reader) Pos() int       { return r.pos }
func (r *Reader) Len() int       { return len(r.buf) }
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }
func (r *Reader) Err() error     { return r.err }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(pos int) {
	if pos < 0 || pos > len(r.buf) {
		r.fail(fmt.Errorf("wire: seek %d outside [0,%d]", pos, len(r.buf)))
		return
	}
	r.pos = pos
}

// Fail records err unless an earlier error is already pending.
func (r *Reader) Fail(err error) { r.fail(err) }

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.buf) {
		r.fail(fmt.Errorf("%w: need %d bytes at %d, have %d", ErrShort, n, r.pos, len(r.buf)-r.pos))
		return nil
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool() bool { return r.U8() != 0 }

func (r *Reader) I16() int16 { return int16(r.U16()) }

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) I32() int32 { return int32(r.U32()) }

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) I64() int64 { return int64(r.U64()) }

func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }
func (r *Reader) F64() float64 { return math.Float64frombits(r.U64()) }

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) { r.take(n) }

// Peek returns the next n bytes without advancing; nil when fewer remain.
func (r *Reader) Peek(n int) []byte {
	if r.err != nil || r.pos+n > len(r.buf) {
		return nil
	}
	return r.buf[r.pos : r.pos+n]
}

// Len7 reads a 7-bit encoded length (at most five bytes).
func (r *Reader) Len7() int {
	var v uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b := r.U8()
		if r.err != nil {
			return 0
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			if v > math.MaxInt32 {
				r.fail(fmt.Errorf("wire: string length %d overflows", v))
				return 0
			}
			return int(v)
		}
	}
	r.fail(errors.New("wire: malformed 7-bit length"))
	return 0
}

// String reads a 7-bit length prefixed UTF-8 string.
func (r *Reader) String() string {
	n := r.Len7()
	if r.err != nil {
		return ""
	}
	b := r.take(n)
	if b == nil {
		return ""
	}
	if !utf8.Valid(b) {
		return string([]rune(string(b)))
	}
	return string(b)
}

func (r *Reader) UUID() uuid.UUID {
	var id uuid.UUID
	b := r.take(16)
	if b != nil {
		copy(id[:], b)
	}
	return id
}
