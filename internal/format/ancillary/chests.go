package ancillary

import (
	"fmt"

	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// chestCap is the most chests version can hold.
func chestCap(version uint32) int {
	if version >= VersionMoreChests {
		return ChestCapExpanded
	}
	return ChestCap
}

// slotsFor is the per-chest slot count of the flat layouts.
func slotsFor(version uint32) int {
	if version < VersionFullChest {
		return world.ChestLegacyMaxItems
	}
	return world.ChestMaxItems
}

func slot(items []world.Item, i int) world.Item {
	if i < len(items) {
		return items[i]
	}
	return world.Item{}
}

// WriteChests writes the chest section. Chests beyond the version's cap are
// dropped and unnameable items become empty slots.
func WriteChests(w *wire.Writer, chests []world.Chest, c *Context) {
	if len(chests) > chestCap(c.Version) {
		chests = chests[:chestCap(c.Version)]
	}
	if c.segmented() {
		w.I16(int16(len(chests)))
		w.I16(world.ChestMaxItems)
		for _, ch := range chests {
			w.I32(ch.X)
			w.I32(ch.Y)
			w.String(ch.Name)
			for i := 0; i < world.ChestMaxItems; i++ {
				it := c.clampItem(slot(ch.Items, i))
				w.I16(it.Stack)
				if it.Stack > 0 {
					w.I32(it.ID)
					w.U8(it.Prefix)
				}
			}
		}
		return
	}

	slots := slotsFor(c.Version)
	for i := 0; i < LegacySlots; i++ {
		if i >= len(chests) {
			w.Bool(false)
			continue
		}
		ch := chests[i]
		w.Bool(true)
		w.I32(ch.X)
		w.I32(ch.Y)
		if c.Version >= VersionChestNames {
			w.String(ch.Name)
		}
		for s := 0; s < slots; s++ {
			c.writeFlatItem(w, slot(ch.Items, s))
		}
	}
}

func (c *Context) writeFlatItem(w *wire.Writer, it world.Item) {
	it = c.clampItem(it)
	name := ""
	if c.Version < VersionItemIDs && !it.Empty() {
		if name = c.names().ItemName(it.ID, c.Version); name == "" {
			it = world.Item{}
		}
	}
	if c.Version < VersionStackInt16 {
		if it.Stack > 0xFF {
			it.Stack = 0xFF
		}
		w.U8(byte(it.Stack))
	} else {
		w.I16(it.Stack)
	}
	if it.Stack <= 0 {
		return
	}
	if c.Version < VersionItemIDs {
		w.String(name)
	} else {
		w.I32(it.ID)
	}
	if c.Version >= VersionItemPrefix {
		w.U8(it.Prefix)
	}
}

func (c *Context) readFlatItem(r *wire.Reader) world.Item {
	var it world.Item
	if c.Version < VersionStackInt16 {
		it.Stack = int16(r.U8())
	} else {
		it.Stack = r.I16()
	}
	if it.Stack <= 0 {
		return world.Item{}
	}
	if c.Version < VersionItemIDs {
		it.ID = c.names().ItemID(r.String(), c.Version)
	} else {
		it.ID = r.I32()
	}
	if c.Version >= VersionItemPrefix {
		it.Prefix = r.U8()
	}
	if it.ID == 0 {
		return world.Item{}
	}
	return it
}

// ReadChests reads the chest section. A file that declares more slots per
// chest than world.ChestMaxItems has the extra slots read and discarded.
func ReadChests(r *wire.Reader, c *Context) ([]world.Chest, error) {
	var out []world.Chest
	if c.segmented() {
		n := int(r.I16())
		slots := int(r.I16())
		if err := r.Err(); err != nil {
			return nil, err
		}
		if n < 0 || slots < 0 {
			return nil, fmt.Errorf("chests: %w", ErrNegativeCount)
		}
		overflow := 0
		if slots > world.ChestMaxItems {
			overflow = slots - world.ChestMaxItems
			slots = world.ChestMaxItems
		}
		out = make([]world.Chest, 0, n)
		for i := 0; i < n; i++ {
			ch := world.NewChest(r.I32(), r.I32())
			ch.Name = r.String()
			for s := 0; s < slots+overflow; s++ {
				var it world.Item
				it.Stack = r.I16()
				if it.Stack > 0 {
					it.ID = r.I32()
					it.Prefix = r.U8()
				} else {
					it = world.Item{}
				}
				if s < slots {
					ch.Items[s] = it
				}
			}
			if err := r.Err(); err != nil {
				return nil, fmt.Errorf("chest %d: %w", i, err)
			}
			out = append(out, ch)
		}
		return out, nil
	}

	slots := slotsFor(c.Version)
	for i := 0; i < LegacySlots; i++ {
		if !r.Bool() {
			continue
		}
		ch := world.NewChest(r.I32(), r.I32())
		if c.Version >= VersionChestNames {
			ch.Name = r.String()
		}
		for s := 0; s < slots; s++ {
			ch.Items[s] = c.readFlatItem(r)
		}
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("chest %d: %w", i, err)
		}
		out = append(out, ch)
	}
	return out, r.Err()
}

// WriteSigns writes the sign section, capped at SignCap entries.
func WriteSigns(w *wire.Writer, signs []world.Sign, c *Context) {
	if len(signs) > SignCap {
		signs = signs[:SignCap]
	}
	if c.segmented() {
		w.I16(int16(len(signs)))
		for _, s := range signs {
			w.String(s.Text)
			w.I32(s.X)
			w.I32(s.Y)
		}
		return
	}
	for i := 0; i < LegacySlots; i++ {
		if i >= len(signs) {
			w.Bool(false)
			continue
		}
		s := signs[i]
		w.Bool(true)
		w.String(s.Text)
		w.I32(s.X)
		w.I32(s.Y)
	}
}

func ReadSigns(r *wire.Reader, c *Context) ([]world.Sign, error) {
	var out []world.Sign
	if c.segmented() {
		n := int(r.I16())
		if err := r.Err(); err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("signs: %w", ErrNegativeCount)
		}
		out = make([]world.Sign, 0, n)
		for i := 0; i < n; i++ {
			s := world.Sign{Text: r.String()}
			s.X = r.I32()
			s.Y = r.I32()
			out = append(out, s)
		}
		return out, r.Err()
	}
	for i := 0; i < LegacySlots; i++ {
		if !r.Bool() {
			continue
		}
		s := world.Sign{Text: r.String()}
		s.X = r.I32()
		s.Y = r.I32()
		out = append(out, s)
	}
	return out, r.Err()
}
