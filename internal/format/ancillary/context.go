// Package ancillary encodes the non-tile sections of a save: chests, signs,
// NPCs and mobs, tile entities, pressure plates, town rooms, the bestiary and
// creative powers.
package ancillary

import (
	"errors"

	"wldkit.dev/internal/format/legacy"
	"wldkit.dev/internal/policy"
	"wldkit.dev/internal/world"
)

// Version boundaries for ancillary records.
const (
	VersionLegacyNPCNames   = 31
	VersionLegacyMechanic   = 35
	VersionItemPrefix       = 36
	VersionItemIDs          = 38
	VersionFullChest        = 58
	VersionStackInt16       = 59
	VersionLegacyNPCNames2  = 65
	VersionChestNames       = 85
	VersionMobs             = 140
	VersionTileEntities     = 140
	VersionNPCSpriteIDs     = 190
	VersionNewTileEntities  = 208
	VersionNPCVariation     = 213
	VersionMoreChests       = 220
	VersionShimmeredNPCs    = 268
	LegacySlots             = 1000
	ChestCap                = 1000
	ChestCapExpanded        = 8000
	SignCap                 = 1000
)

var (
	ErrUnknownPower      = errors.New("unknown creative power")
	ErrUnknownEntityKind = errors.New("unknown tile entity kind")
	ErrNegativeCount     = errors.New("negative count")
)

// Context carries the version, generation and id ceilings of one encode or
// decode.
type Context struct {
	Version uint32
	Gen     world.Generation
	Limits  *policy.Entry
	Names   *legacy.Resolver
}

func (c *Context) maxItem() int32 {
	if c.Limits == nil {
		return 1<<31 - 1
	}
	return c.Limits.MaxItem
}

func (c *Context) maxNPC() int32 {
	if c.Limits == nil {
		return 1<<31 - 1
	}
	return c.Limits.MaxNPC
}

// clampItem empties items the target version cannot name.
func (c *Context) clampItem(it world.Item) world.Item {
	if it.Empty() || it.ID < 0 || it.ID > c.maxItem() {
		return world.Item{}
	}
	return it
}

func (c *Context) names() *legacy.Resolver {
	if c.Names == nil {
		c.Names = legacy.NewResolver()
	}
	return c.Names
}

func (c *Context) segmented() bool { return c.Gen == world.GenV2 }
