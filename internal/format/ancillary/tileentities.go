package ancillary

import (
	"fmt"

	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// KindSupported reports whether version can store tile entities of kind k.
func KindSupported(k world.TileEntityKind, version uint32) bool {
	switch {
	case version < VersionTileEntities:
		return false
	case k <= world.TELogicSensor:
		return true
	case k <= world.TETeleportationPylon:
		return version >= VersionNewTileEntities
	}
	return false
}

// WriteTileEntities writes the tile entity section. Entities the version
// cannot store are omitted.
func WriteTileEntities(w *wire.Writer, tes []world.TileEntity, c *Context) {
	at := w.Pos()
	w.I32(0)
	n := int32(0)
	for _, te := range tes {
		if !KindSupported(te.Kind, c.Version) {
			continue
		}
		w.U8(byte(te.Kind))
		w.I32(te.ID)
		w.I16(te.X)
		w.I16(te.Y)
		c.writePayload(w, te)
		n++
	}
	w.PatchI32(at, n)
}

// writeEntityItem writes the int16 id, prefix, int16 stack triple used by single
// slot entities and by occupied doll and rack slots.
func (c *Context) writeEntityItem(w *wire.Writer, it world.Item) {
	it = c.clampItem(it)
	if it.ID > 0x7FFF {
		it = world.Item{}
	}
	w.I16(int16(it.ID))
	w.U8(it.Prefix)
	w.I16(it.Stack)
}

func readEntityItem(r *wire.Reader) world.Item {
	it := world.Item{ID: int32(r.I16())}
	it.Prefix = r.U8()
	it.Stack = r.I16()
	if it.Empty() {
		return world.Item{}
	}
	return it
}

func (c *Context) writePayload(w *wire.Writer, te world.TileEntity) {
	switch te.Kind {
	case world.TETrainingDummy:
		p, _ := te.Payload.(*world.DummyPayload)
		if p == nil {
			p = &world.DummyPayload{NPC: -1}
		}
		w.I16(p.NPC)
	case world.TEItemFrame, world.TEWeaponRack, world.TEFoodPlatter:
		var it world.Item
		if p, ok := te.Payload.(*world.ItemPayload); ok && p != nil {
			it = p.Item
		}
		c.writeEntityItem(w, it)
	case world.TELogicSensor:
		var p world.SensorPayload
		if sp, ok := te.Payload.(*world.SensorPayload); ok && sp != nil {
			p = *sp
		}
		w.U8(p.LogicCheck)
		w.Bool(p.On)
	case world.TEDisplayDoll, world.TEHatRack:
		var p world.SlotsPayload
		if sp, ok := te.Payload.(*world.SlotsPayload); ok && sp != nil {
			p = *sp
		}
		c.writeSlots(w, te.Kind.SlotCount(), p)
	case world.TETeleportationPylon:
	}
}

// writeSlots writes occupancy first so empty slots cost one bit. A display
// doll has one BitsByte for items and one for dyes; a hat rack packs both
// into one byte, items in bits 0-1 and dyes in bits 2-3.
func (c *Context) writeSlots(w *wire.Writer, n int, p world.SlotsPayload) {
	items := make([]world.Item, n)
	dyes := make([]world.Item, n)
	for i := 0; i < n; i++ {
		items[i] = c.clampItem(slot(p.Items, i))
		dyes[i] = c.clampItem(slot(p.Dyes, i))
		if items[i].ID > 0x7FFF {
			items[i] = world.Item{}
		}
		if dyes[i].ID > 0x7FFF {
			dyes[i] = world.Item{}
		}
	}
	if n == world.HatRackSlots {
		var b wire.BitsByte
		for i := 0; i < n; i++ {
			b[i] = !items[i].Empty()
			b[i+n] = !dyes[i].Empty()
		}
		w.Bits(b)
	} else {
		var bi, bd wire.BitsByte
		for i := 0; i < n; i++ {
			bi[i] = !items[i].Empty()
			bd[i] = !dyes[i].Empty()
		}
		w.Bits(bi)
		w.Bits(bd)
	}
	for _, set := range [][]world.Item{items, dyes} {
		for _, it := range set {
			if !it.Empty() {
				c.writeEntityItem(w, it)
			}
		}
	}
}

func readSlots(r *wire.Reader, n int) *world.SlotsPayload {
	p := &world.SlotsPayload{Items: make([]world.Item, n), Dyes: make([]world.Item, n)}
	var itemBits, dyeBits []bool
	if n == world.HatRackSlots {
		b := r.Bits()
		itemBits, dyeBits = b[:n], b[n:2*n]
	} else {
		bi, bd := r.Bits(), r.Bits()
		itemBits, dyeBits = bi[:n], bd[:n]
	}
	for i, set := range itemBits {
		if set {
			p.Items[i] = readEntityItem(r)
		}
	}
	for i, set := range dyeBits {
		if set {
			p.Dyes[i] = readEntityItem(r)
		}
	}
	return p
}

func ReadTileEntities(r *wire.Reader, c *Context) ([]world.TileEntity, error) {
	n := int(r.I32())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("tile entities: %w", ErrNegativeCount)
	}
	out := make([]world.TileEntity, 0, n)
	for i := 0; i < n; i++ {
		kind := world.TileEntityKind(r.U8())
		if err := r.Err(); err != nil {
			return nil, err
		}
		if !KindSupported(kind, c.Version) {
			return nil, fmt.Errorf("tile entity %d: %w %d at version %d", i, ErrUnknownEntityKind, kind, c.Version)
		}
		te := world.TileEntity{Kind: kind, ID: r.I32(), X: r.I16(), Y: r.I16()}
		switch kind {
		case world.TETrainingDummy:
			te.Payload = &world.DummyPayload{NPC: r.I16()}
		case world.TEItemFrame, world.TEWeaponRack, world.TEFoodPlatter:
			te.Payload = &world.ItemPayload{Item: readEntityItem(r)}
		case world.TELogicSensor:
			p := &world.SensorPayload{LogicCheck: r.U8()}
			p.On = r.Bool()
			te.Payload = p
		case world.TEDisplayDoll, world.TEHatRack:
			te.Payload = readSlots(r, kind.SlotCount())
		}
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("tile entity %d: %w", i, err)
		}
		out = append(out, te)
	}
	return out, nil
}
