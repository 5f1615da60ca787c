// Package tile encodes grid cells: the bit-packed records of segmented saves,
// the flat records of older and console saves, and the run-length layer that
// folds identical cells down a column.
package tile

import (
	"errors"

	"wldkit.dev/internal/policy"
	"wldkit.dev/internal/world"
)

// Frames decides which tile types carry U/V frame data.
type Frames interface {
	FrameImportant(t uint16) bool
}

// FrameBits is a frame-importance vector read from a file, indexed by type.
type FrameBits []bool

func (f FrameBits) FrameImportant(t uint16) bool { return int(t) < len(f) && f[t] }

// Version boundaries inside the tile records.
const (
	VersionRLE       = 25  // flat records carry an int16 repeat count
	VersionLighted   = 25  // flat records carry a lighted flag up to this version
	VersionRedWire   = 33  // flat red wire
	VersionHalfBrick = 41  // flat half brick flag
	VersionActuator  = 42  // flat actuator and inactive flags
	VersionMoreWires = 43  // flat blue and green wires
	VersionPaint     = 48  // flat tile and wall paint
	VersionSlope     = 49  // flat slope byte
	VersionHoney     = 51  // flat honey flag
	VersionWallHigh  = 222 // packed wall high byte
	VersionHeader4   = 269 // packed header4 and shimmer liquid
	PaintFullBright  = 31  // paint value that doubles as the full-bright flag
	maxPackedRepeats = 0xFFFF
	maxFlatRepeats   = 0x7FFF
)

var (
	ErrRunOverflow = errors.New("tile run overflows column")
	ErrBadRLEMode  = errors.New("tile record has both RLE bits set")
)

// Context carries what a record needs from the active version.
type Context struct {
	Version uint32
	Frames  Frames
	MaxTile uint16
	MaxWall uint16
}

// NewContext binds version to a policy entry's ceilings and frame table.
func NewContext(version uint32, e *policy.Entry) *Context {
	return &Context{Version: version, Frames: e, MaxTile: e.MaxTile, MaxWall: e.MaxWall}
}

func (c *Context) frameImportant(t uint16) bool {
	return c.Frames != nil && c.Frames.FrameImportant(t)
}

// clamp applies the id ceilings and returns the canonical tile. It never
// fails: out-of-range types become inactive and out-of-range walls are
// removed.
func (c *Context) clamp(t world.Tile) world.Tile {
	if t.Active && t.Type > c.MaxTile {
		t.Active = false
	}
	if t.Wall > c.MaxWall {
		t.Wall = 0
	}
	if t.Active && t.Type == world.TileTimer {
		t.V = 0
	}
	unfoldFullBright(&t)
	return t.Canonical(t.Active && c.frameImportant(t.Type))
}

// paintFullBright normalizes t for layouts that store full-bright as paint
// 31 rather than as its own bit. The flag wins over any paint, and the
// invisibility flags have nowhere to go. Without paint at all the flags are
// dropped.
func paintFullBright(t world.Tile, hasPaint bool) world.Tile {
	t.InvisibleBlock, t.InvisibleWall = false, false
	if !hasPaint {
		t.FullBrightBlock, t.FullBrightWall = false, false
		return t
	}
	if !t.Active {
		t.FullBrightBlock = false
	} else if t.FullBrightBlock {
		t.TileColor = 0
	}
	if t.Wall == 0 {
		t.FullBrightWall = false
	} else if t.FullBrightWall {
		t.WallColor = 0
	}
	return t
}

// paintOf returns the paint bytes to write when full-bright travels as paint.
func paintOf(t world.Tile) (tile, wall byte) {
	tile, wall = t.TileColor, t.WallColor
	if t.FullBrightBlock {
		tile = PaintFullBright
	}
	if t.FullBrightWall {
		wall = PaintFullBright
	}
	return tile, wall
}

// unfoldFullBright turns paint 31 into the full-bright flag. Every layout
// applies it on decode.
func unfoldFullBright(t *world.Tile) {
	if t.TileColor == PaintFullBright {
		t.TileColor = 0
		t.FullBrightBlock = true
	}
	if t.WallColor == PaintFullBright {
		t.WallColor = 0
		t.FullBrightWall = true
	}
}

// mergeable reports whether t may absorb identical tiles below it. Logic
// sensors and food platters keep per-instance state and never merge.
func mergeable(t world.Tile) bool {
	if !t.Active {
		return true
	}
	return t.Type != world.TileLogicSensor && t.Type != world.TileFoodPlatter
}

// runs walks col, calling emit once per run of identical prepared tiles.
func runs(col []world.Tile, limit int, prepare func(world.Tile) world.Tile, emit func(t world.Tile, repeats int)) {
	for y := 0; y < len(col); {
		t := prepare(col[y])
		n := 1
		if mergeable(t) {
			for y+n < len(col) && n-1 < limit && prepare(col[y+n]) == t {
				n++
			}
		}
		emit(t, n-1)
		y += n
	}
}

// fill stores t and its repeats into col starting at y and returns the next
// row.
func fill(col []world.Tile, y int, t world.Tile, repeats int) (int, error) {
	col[y] = t
	y++
	if repeats > len(col)-y {
		for ; y < len(col); y++ {
			col[y] = t
		}
		return y, ErrRunOverflow
	}
	for i := 0; i < repeats; i++ {
		col[y] = t
		y++
	}
	return y, nil
}
