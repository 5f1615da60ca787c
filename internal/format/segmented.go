package format

import (
	"wldkit.dev/internal/format/ancillary"
	"wldkit.dev/internal/format/header"
	"wldkit.dev/internal/format/section"
	"wldkit.dev/internal/format/tile"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// segmentedCodec is the V2 layout: a section table whose end offsets are
// checked after every section, bit-packed tiles, then the footer.
type segmentedCodec struct{}

// part is one body section after the tiles.
type part struct {
	index int
	write func(*wire.Writer, *world.World, *session)
	read  func(*wire.Reader, *world.World, *session) error
}

var parts = []part{
	{
		index: section.Chests,
		write: func(w *wire.Writer, wd *world.World, s *session) { ancillary.WriteChests(w, wd.Chests, s.anc) },
		read: func(r *wire.Reader, wd *world.World, s *session) (err error) {
			wd.Chests, err = ancillary.ReadChests(r, s.anc)
			return err
		},
	},
	{
		index: section.Signs,
		write: func(w *wire.Writer, wd *world.World, s *session) { ancillary.WriteSigns(w, wd.Signs, s.anc) },
		read: func(r *wire.Reader, wd *world.World, s *session) (err error) {
			wd.Signs, err = ancillary.ReadSigns(r, s.anc)
			return err
		},
	},
	{
		index: section.NPCs,
		write: func(w *wire.Writer, wd *world.World, s *session) { ancillary.WriteNPCs(w, wd, s.anc) },
		read:  func(r *wire.Reader, wd *world.World, s *session) error { return ancillary.ReadNPCs(r, wd, s.anc) },
	},
	{
		// Empty before tile entities existed.
		index: section.TileEntities,
		write: func(w *wire.Writer, wd *world.World, s *session) {
			if s.version >= ancillary.VersionTileEntities {
				ancillary.WriteTileEntities(w, wd.TileEntities, s.anc)
			}
		},
		read: func(r *wire.Reader, wd *world.World, s *session) (err error) {
			if s.version >= ancillary.VersionTileEntities {
				wd.TileEntities, err = ancillary.ReadTileEntities(r, s.anc)
			}
			return err
		},
	},
	{
		index: section.PressurePlates,
		write: func(w *wire.Writer, wd *world.World, _ *session) { ancillary.WritePressurePlates(w, wd.PressurePlates) },
		read: func(r *wire.Reader, wd *world.World, _ *session) (err error) {
			wd.PressurePlates, err = ancillary.ReadPressurePlates(r)
			return err
		},
	},
	{
		index: section.TownRooms,
		write: func(w *wire.Writer, wd *world.World, _ *session) { ancillary.WriteTownRooms(w, wd.TownRooms) },
		read: func(r *wire.Reader, wd *world.World, _ *session) (err error) {
			wd.TownRooms, err = ancillary.ReadTownRooms(r)
			return err
		},
	},
	{
		index: section.Bestiary,
		write: func(w *wire.Writer, wd *world.World, _ *session) { ancillary.WriteBestiary(w, wd.Bestiary) },
		read: func(r *wire.Reader, wd *world.World, _ *session) (err error) {
			wd.Bestiary, err = ancillary.ReadBestiary(r)
			return err
		},
	},
	{
		index: section.CreativePowers,
		write: func(w *wire.Writer, wd *world.World, _ *session) { ancillary.WriteCreativePowers(w, wd.CreativePowers) },
		read: func(r *wire.Reader, wd *world.World, _ *session) (err error) {
			wd.CreativePowers, err = ancillary.ReadCreativePowers(r)
			return err
		},
	},
}

func (segmentedCodec) encode(w *wire.Writer, wd *world.World, s *session) error {
	t := section.Write(w, &section.Header{
		Version:  s.version,
		Magic:    wd.Meta.Magic,
		Revision: wd.Meta.Revision,
		Favorite: wd.Meta.Favorite,
		Frames:   s.limits.FrameBits(),
	})
	header.Write(w, wd, world.GenV2, s.hdr)
	t.Mark(w, section.WorldHeader)
	writeTiles(w, wd, s.tiles.WritePackedColumn)
	t.Mark(w, section.Tiles)

	n := section.Count(s.version)
	for _, p := range parts {
		if p.index >= n {
			break
		}
		p.write(w, wd, s)
		t.Mark(w, p.index)
	}
	t.Patch(w)
	writeFooter(w, wd)
	return nil
}

func (segmentedCodec) decode(r *wire.Reader, wd *world.World, s *session) error {
	h, err := section.Read(r)
	if err != nil {
		return formatErr(section.Name(section.FileHeader), err)
	}
	if err := h.Check(section.FileHeader, r.Pos()); err != nil {
		return formatErr(section.Name(section.FileHeader), err)
	}
	wd.Meta.Magic = h.Magic
	wd.Meta.FileType = h.FileType
	wd.Meta.Revision = h.Revision
	wd.Meta.Favorite = h.Favorite
	// Frame importance comes from the file, not the policy table.
	s.tiles.Frames = tile.FrameBits(h.Frames)

	if err := header.Read(r, wd, world.GenV2, s.hdr); err != nil {
		return formatErr(section.Name(section.WorldHeader), err)
	}
	if err := h.Check(section.WorldHeader, r.Pos()); err != nil {
		return formatErr(section.Name(section.WorldHeader), err)
	}
	if err := allocGrid(wd); err != nil {
		return err
	}
	if !readTiles(r, wd, s.tiles.ReadPackedColumn) {
		return nil
	}
	if err := h.Check(section.Tiles, r.Pos()); err != nil {
		return formatErr(section.Name(section.Tiles), err)
	}

	for _, p := range parts {
		if p.index >= len(h.Pointers) {
			break
		}
		name := section.Name(p.index)
		if err := p.read(r, wd, s); err != nil {
			return formatErr(name, err)
		}
		if err := h.Check(p.index, r.Pos()); err != nil {
			return formatErr(name, err)
		}
	}
	return readFooter(r, wd)
}
