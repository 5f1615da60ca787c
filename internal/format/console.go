package format

import (
	"fmt"
	"hash/crc32"

	"wldkit.dev/internal/format/ancillary"
	"wldkit.dev/internal/format/header"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// consoleCodec is the console layout: version, a CRC32 of everything after
// the first eight bytes, then a flat body with no footer. A stored CRC of 0
// is accepted unchecked; older console files were written that way.
type consoleCodec struct {
	unchecked bool
}

const crcOffset = 4

func (consoleCodec) encode(w *wire.Writer, wd *world.World, s *session) error {
	w.U32(s.version)
	w.U32(0)
	header.Write(w, wd, world.GenConsole, s.hdr)
	writeTiles(w, wd, s.tiles.WriteConsoleColumn)
	ancillary.WriteChests(w, wd.Chests, s.anc)
	ancillary.WriteSigns(w, wd.Signs, s.anc)
	ancillary.WriteNPCs(w, wd, s.anc)
	ancillary.WriteLegacyNPCNames(w, wd.LegacyNPCNames, s.anc)
	w.PatchU32(crcOffset, crc32.ChecksumIEEE(w.Bytes()[crcOffset+4:]))
	return nil
}

func (c consoleCodec) decode(r *wire.Reader, wd *world.World, s *session) error {
	r.U32()
	stored := r.U32()
	if err := r.Err(); err != nil {
		return formatErr("file header", err)
	}
	if stored != 0 && !c.unchecked {
		payload := r.Peek(r.Remaining())
		if got := crc32.ChecksumIEEE(payload); got != stored {
			return checksumErr(stored, got)
		}
	}
	if err := header.Read(r, wd, world.GenConsole, s.hdr); err != nil {
		return formatErr("world header", err)
	}
	if err := allocGrid(wd); err != nil {
		return err
	}
	if !readTiles(r, wd, s.tiles.ReadConsoleColumn) {
		return nil
	}
	if err := readFlatBody(r, wd, s, false); err != nil {
		return err
	}
	if n := r.Remaining(); n != 0 {
		return formatf("npc names", "%d trailing bytes", n)
	}
	return nil
}

func checksumErr(stored, got uint32) *Error {
	return &Error{Kind: ChecksumError, Section: "file header",
		Err: fmt.Errorf("stored crc %08x, payload crc %08x", stored, got)}
}
