// Package section reads and writes the file-format header of segmented
// saves: magic, revision, the table of section end offsets and the packed
// frame-importance array.
package section

import (
	"errors"
	"fmt"

	"wldkit.dev/internal/wire"
)

// Section indices, in wire order.
const (
	FileHeader = iota
	WorldHeader
	Tiles
	Chests
	Signs
	NPCs
	TileEntities
	PressurePlates
	TownRooms
	Bestiary
	CreativePowers
)

var names = [...]string{
	"file header",
	"world header",
	"tiles",
	"chests",
	"signs",
	"npcs",
	"tile entities",
	"pressure plates",
	"town rooms",
	"bestiary",
	"creative powers",
}

// Name returns a readable name for section i.
func Name(i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("section %d", i)
	}
	return names[i]
}

const (
	VersionMagic          = 135
	VersionPressurePlates = 170
	VersionTownRooms      = 189
	VersionBestiary       = 210
	VersionCreative       = 220

	Magic      = "relogic"
	MagicChina = "xindong"
	FileType   = 2 // world

	favoriteFlag = 1 << 0
)

// Count returns how many sections a file of version carries.
func Count(version uint32) int {
	n := PressurePlates
	if version >= VersionPressurePlates {
		n++
	}
	if version >= VersionTownRooms {
		n++
	}
	if version >= VersionBestiary {
		n++
	}
	if version >= VersionCreative {
		n++
	}
	return n
}

var (
	ErrBadMagic   = errors.New("bad magic")
	ErrFileType   = errors.New("not a world file")
	ErrCount      = errors.New("section count does not match version")
	ErrMisaligned = errors.New("section misaligned")
	ErrFrameCount = errors.New("frame-importance count out of range")
)

// MisalignedError names the section whose end offset did not match.
type MisalignedError struct {
	Section int
	Want    int32
	Got     int
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("%s ends at %d, table says %d", Name(e.Section), e.Got, e.Want)
}

func (e *MisalignedError) Unwrap() error { return ErrMisaligned }

// Header is the decoded file-format header.
type Header struct {
	Version  uint32
	Magic    string
	FileType uint8
	Revision uint32
	Favorite bool
	Pointers []int32
	Frames   []bool
}

// Read decodes the file-format header starting at the version field.
func Read(r *wire.Reader) (*Header, error) {
	h := &Header{Version: r.U32()}
	if h.Version >= VersionMagic {
		h.Magic = string(r.Bytes(len(Magic)))
		h.FileType = r.U8()
		h.Revision = r.U32()
		h.Favorite = r.U64()&favoriteFlag != 0
		if err := r.Err(); err != nil {
			return nil, err
		}
		if h.Magic != Magic && h.Magic != MagicChina {
			return nil, fmt.Errorf("%w %q", ErrBadMagic, h.Magic)
		}
		if h.FileType != FileType {
			return nil, fmt.Errorf("%w: file type %d", ErrFileType, h.FileType)
		}
	}
	n := int(r.I16())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if want := Count(h.Version); n != want {
		return nil, fmt.Errorf("%w: %d sections, version %d has %d", ErrCount, n, h.Version, want)
	}
	h.Pointers = make([]int32, n)
	for i := range h.Pointers {
		h.Pointers[i] = r.I32()
	}
	bits := int(r.I16())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if bits < 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameCount, bits)
	}
	h.Frames = wire.UnpackBits(r.Bytes((bits+7)/8), bits)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

// Check reports whether section i ended at pos.
func (h *Header) Check(i, pos int) error {
	if i >= len(h.Pointers) {
		return fmt.Errorf("%s: no table entry", Name(i))
	}
	if int(h.Pointers[i]) != pos {
		return &MisalignedError{Section: i, Want: h.Pointers[i], Got: pos}
	}
	return nil
}

// Table tracks section end offsets while a file is written.
type Table struct {
	at       int // stream offset of the first pointer slot
	Pointers []int32
}

// Write emits the file-format header with zeroed pointer slots and returns
// the table to fill. magic is ignored below VersionMagic.
func Write(w *wire.Writer, h *Header) *Table {
	w.U32(h.Version)
	if h.Version >= VersionMagic {
		magic := h.Magic
		if magic != MagicChina {
			magic = Magic
		}
		w.Raw([]byte(magic))
		w.U8(FileType)
		w.U32(h.Revision)
		var flags uint64
		if h.Favorite {
			flags |= favoriteFlag
		}
		w.U64(flags)
	}
	n := Count(h.Version)
	w.I16(int16(n))
	t := &Table{at: w.Pos(), Pointers: make([]int32, n)}
	for i := 0; i < n; i++ {
		w.I32(0)
	}
	w.I16(int16(len(h.Frames)))
	w.Raw(wire.PackBits(h.Frames))
	t.Mark(w, FileHeader)
	return t
}

// Mark records the current stream position as the end of section i.
func (t *Table) Mark(w *wire.Writer, i int) {
	t.Pointers[i] = int32(w.Pos())
}

// Patch overwrites the placeholder slots with the recorded offsets.
func (t *Table) Patch(w *wire.Writer) {
	for i, p := range t.Pointers {
		w.PatchI32(t.at+4*i, p)
	}
}
