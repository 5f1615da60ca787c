package wire

// BitsByte is an 8-flag vector stored as one byte; index 0 is the least
// significant bit.
type BitsByte [8]bool

func FromByte(v byte) BitsByte {
	var b BitsByte
	for i := range b {
		b[i] = v&(1<<uint(i)) != 0
	}
	return b
}

func (b BitsByte) Byte() byte {
	var v byte
	for i, on := range b {
		if on {
			v |= 1 << uint(i)
		}
	}
	return v
}

func (b BitsByte) Any() bool { return b.Byte() != 0 }

func (r *Reader) Bits() BitsByte  { return FromByte(r.U8()) }
func (w *Writer) Bits(b BitsByte) { w.U8(b.Byte()) }

const chainFlagsPerByte = 7

// BitsChain packs flags seven per byte, using bit 7 of each byte to mark
// that another byte follows. At least one byte is always written; trailing
// all-false bytes are dropped.
func (w *Writer) BitsChain(flags []bool) {
	n := (len(flags) + chainFlagsPerByte - 1) / chainFlagsPerByte
	for n > 1 && !anySet(flags[(n-1)*chainFlagsPerByte:]) {
		n--
	}
	if n == 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		var v byte
		for j := 0; j < chainFlagsPerByte; j++ {
			k := i*chainFlagsPerByte + j
			if k < len(flags) && flags[k] {
				v |= 1 << uint(j)
			}
		}
		if i < n-1 {
			v |= 0x80
		}
		w.U8(v)
	}
}

// BitsChain reads a chain written by Writer.BitsChain and returns exactly n
// flags, padding with false when the stored chain was shorter.
func (r *Reader) BitsChain(n int) []bool {
	out := make([]bool, 0, n)
	for {
		v := r.U8()
		if r.err != nil {
			break
		}
		for j := 0; j < chainFlagsPerByte; j++ {
			out = append(out, v&(1<<uint(j)) != 0)
		}
		if v&0x80 == 0 {
			break
		}
	}
	for len(out) < n {
		out = append(out, false)
	}
	return out[:n]
}

func anySet(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}

// PackBits stores flags eight per byte, flag i in bit i%8 of byte i/8. This
// least-significant-bit-first order is the on-disk order of the
// frame-importance array.
func PackBits(flags []bool) []byte {
	out := make([]byte, (len(flags)+7)/8)
	for i, on := range flags {
		if on {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// UnpackBits is the inverse of PackBits for n flags.
func UnpackBits(b []byte, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		if i/8 < len(b) {
			out[i] = b[i/8]&(1<<uint(i%8)) != 0
		}
	}
	return out
}
