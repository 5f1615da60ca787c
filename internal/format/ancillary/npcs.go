package ancillary

import (
	"fmt"

	"wldkit.dev/internal/format/legacy"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// legacyNPCNameList is the fixed order of town NPC display names stored by
// flat saves from version 31.
var legacyNPCNameList = []string{
	"Merchant", "Nurse", "Arms Dealer", "Dryad", "Guide", "Clothier",
	"Demolitionist", "Goblin Tinkerer", "Wizard", // 31
	"Mechanic", // 35
	"Truffle", "Steampunker", "Dye Trader", "Party Girl", "Cyborg",
	"Painter", "Witch Doctor", "Pirate", // 65
}

// LegacyNPCNameCount is how many display names a flat save of version holds.
func LegacyNPCNameCount(version uint32) int {
	switch {
	case version >= VersionLegacyNPCNames2:
		return 18
	case version >= VersionLegacyMechanic:
		return 10
	case version >= VersionLegacyNPCNames:
		return 9
	}
	return 0
}

// LegacyNPCNameSlots lists which town NPC each display name slot belongs to.
func LegacyNPCNameSlots(version uint32) []string {
	return legacyNPCNameList[:LegacyNPCNameCount(version)]
}

func WriteLegacyNPCNames(w *wire.Writer, names []string, c *Context) {
	for i := 0; i < LegacyNPCNameCount(c.Version); i++ {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		w.String(name)
	}
}

func ReadLegacyNPCNames(r *wire.Reader, c *Context) ([]string, error) {
	n := LegacyNPCNameCount(c.Version)
	if n == 0 {
		return nil, nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.String()
	}
	return out, r.Err()
}

// npcName is the type name written below VersionNPCSpriteIDs. The table
// name of a known sprite id wins over a stored Name.
func (c *Context) npcName(id int32, name string) string {
	if known := c.names().NPCName(id); known != "" {
		return known
	}
	return name
}

// npcID splits a stored type name into a sprite id and the Name kept on the
// record: names the table knows become ids and leave Name empty.
func (c *Context) npcID(name string) (int32, string) {
	if id := c.names().NPCID(name); id != legacy.FallbackID {
		return id, ""
	}
	return legacy.FallbackID, name
}

// WriteNPCs writes the town NPC list, the mob list from VersionMobs and, on
// segmented saves from VersionShimmeredNPCs, the shimmered NPC ids first.
// Records whose sprite id is above the version's ceiling are omitted, and so
// are records a name-based version cannot name.
func WriteNPCs(w *wire.Writer, wd *world.World, c *Context) {
	if c.segmented() && c.Version >= VersionShimmeredNPCs {
		w.I32(int32(len(wd.ShimmeredNPCs)))
		for _, id := range wd.ShimmeredNPCs {
			w.I32(id)
		}
	}
	for _, n := range wd.NPCs {
		if n.SpriteID > c.maxNPC() {
			continue
		}
		name := c.npcName(n.SpriteID, n.Name)
		if c.Version < VersionNPCSpriteIDs && name == "" {
			continue
		}
		w.Bool(true)
		if c.Version >= VersionNPCSpriteIDs {
			w.I32(n.SpriteID)
		} else {
			w.String(name)
		}
		if c.segmented() {
			w.String(n.DisplayName)
		}
		w.F32(n.Position.X)
		w.F32(n.Position.Y)
		w.Bool(n.Homeless)
		w.I32(n.Home.X)
		w.I32(n.Home.Y)
		if c.segmented() && c.Version >= VersionNPCVariation {
			var flags wire.BitsByte
			flags[0] = n.HasVariation
			w.Bits(flags)
			if n.HasVariation {
				w.I32(n.TownVariation)
			}
		}
	}
	w.Bool(false)

	if c.segmented() && c.Version >= VersionMobs {
		for _, m := range wd.Mobs {
			if m.SpriteID > c.maxNPC() {
				continue
			}
			name := c.npcName(m.SpriteID, m.Name)
			if c.Version < VersionNPCSpriteIDs && name == "" {
				continue
			}
			w.Bool(true)
			if c.Version >= VersionNPCSpriteIDs {
				w.I32(m.SpriteID)
			} else {
				w.String(name)
			}
			w.F32(m.Position.X)
			w.F32(m.Position.Y)
		}
		w.Bool(false)
	}
}

// ReadNPCs fills the NPC, mob and shimmered lists of wd.
func ReadNPCs(r *wire.Reader, wd *world.World, c *Context) error {
	if c.segmented() && c.Version >= VersionShimmeredNPCs {
		n := int(r.I32())
		if err := r.Err(); err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("shimmered npcs: %w", ErrNegativeCount)
		}
		wd.ShimmeredNPCs = make([]int32, 0, n)
		for i := 0; i < n && r.Err() == nil; i++ {
			wd.ShimmeredNPCs = append(wd.ShimmeredNPCs, r.I32())
		}
	}
	for r.Bool() {
		var n world.NPC
		if c.Version >= VersionNPCSpriteIDs {
			n.SpriteID = r.I32()
		} else {
			n.SpriteID, n.Name = c.npcID(r.String())
		}
		if c.segmented() {
			n.DisplayName = r.String()
		}
		n.Position = world.Vec2{X: r.F32(), Y: r.F32()}
		n.Homeless = r.Bool()
		n.Home = world.Point{X: r.I32(), Y: r.I32()}
		if c.segmented() && c.Version >= VersionNPCVariation {
			if flags := r.Bits(); flags[0] {
				n.HasVariation = true
				n.TownVariation = r.I32()
			}
		}
		if err := r.Err(); err != nil {
			return fmt.Errorf("npc %d: %w", len(wd.NPCs), err)
		}
		wd.NPCs = append(wd.NPCs, n)
	}
	if err := r.Err(); err != nil {
		return err
	}

	if c.segmented() && c.Version >= VersionMobs {
		for r.Bool() {
			var m world.Mob
			if c.Version >= VersionNPCSpriteIDs {
				m.SpriteID = r.I32()
			} else {
				m.SpriteID, m.Name = c.npcID(r.String())
			}
			m.Position = world.Vec2{X: r.F32(), Y: r.F32()}
			if err := r.Err(); err != nil {
				return fmt.Errorf("mob %d: %w", len(wd.Mobs), err)
			}
			wd.Mobs = append(wd.Mobs, m)
		}
	}
	return r.Err()
}
