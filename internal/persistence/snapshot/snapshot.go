// Package snapshot stores raw save bytes zstd-compressed. Save files do not
// start with the zstd frame magic, so compressed and plain files can share a
// directory and be told apart by their first four bytes.
package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Ext is appended to the name of a compressed save.
const Ext = ".zst"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// IsCompressed reports whether b starts with a zstd frame.
func IsCompressed(b []byte) bool { return bytes.HasPrefix(b, zstdMagic) }

// Compress writes data to w as a single zstd stream.
func Compress(w io.Writer, data []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if _, err := bw.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Decompress returns the plain bytes of b. Input without the zstd magic is
// returned unchanged.
func Decompress(b []byte) ([]byte, error) {
	if !IsCompressed(b) {
		return b, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// WriteFile compresses data into path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Compress(f, data); err != nil {
		return err
	}
	return f.Close()
}

// ReadFile returns the plain contents of path, decompressing when the file
// carries a zstd frame.
func ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decompress(b)
}
