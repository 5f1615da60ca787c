package format

import (
	"wldkit.dev/internal/format/ancillary"
	"wldkit.dev/internal/format/header"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// flatCodec is the sequential layout of V0 and V1: version, world header,
// tile columns, chest and sign slots, NPCs, the legacy name list and the
// footer. V0 differs only in its header table and the absence of runs.
type flatCodec struct {
	gen world.Generation
}

func (c flatCodec) encode(w *wire.Writer, wd *world.World, s *session) error {
	w.U32(s.version)
	header.Write(w, wd, c.gen, s.hdr)
	writeTiles(w, wd, s.tiles.WriteFlatColumn)
	ancillary.WriteChests(w, wd.Chests, s.anc)
	ancillary.WriteSigns(w, wd.Signs, s.anc)
	ancillary.WriteNPCs(w, wd, s.anc)
	ancillary.WriteLegacyNPCNames(w, wd.LegacyNPCNames, s.anc)
	writeFooter(w, wd)
	return nil
}

func (c flatCodec) decode(r *wire.Reader, wd *world.World, s *session) error {
	r.U32()
	if err := header.Read(r, wd, c.gen, s.hdr); err != nil {
		return formatErr("world header", err)
	}
	if err := allocGrid(wd); err != nil {
		return err
	}
	if !readTiles(r, wd, s.tiles.ReadFlatColumn) {
		return nil
	}
	return readFlatBody(r, wd, s, true)
}

// readFlatBody reads everything after the tiles of a flat or console file.
func readFlatBody(r *wire.Reader, wd *world.World, s *session, footer bool) error {
	var err error
	if wd.Chests, err = ancillary.ReadChests(r, s.anc); err != nil {
		return formatErr("chests", err)
	}
	if wd.Signs, err = ancillary.ReadSigns(r, s.anc); err != nil {
		return formatErr("signs", err)
	}
	if err = ancillary.ReadNPCs(r, wd, s.anc); err != nil {
		return formatErr("npcs", err)
	}
	if wd.LegacyNPCNames, err = ancillary.ReadLegacyNPCNames(r, s.anc); err != nil {
		return formatErr("npc names", err)
	}
	if footer {
		return readFooter(r, wd)
	}
	return nil
}
