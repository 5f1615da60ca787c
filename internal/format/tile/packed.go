package tile

import (
	"fmt"

	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// header1 bits.
const (
	h1Header2  = 1 << 0
	h1Active   = 1 << 1
	h1Wall     = 1 << 2
	h1Water    = 1 << 3
	h1Lava     = 2 << 3
	h1Honey    = 3 << 3
	h1LiqMask  = 3 << 3
	h1Type16   = 1 << 5
	h1RLEByte  = 1 << 6
	h1RLEWord  = 1 << 7
	h1RLEMask  = 3 << 6
	h2Header3  = 1 << 0
	h2Red      = 1 << 1
	h2Blue     = 1 << 2
	h2Green    = 1 << 3
	h2Brick    = 4 // shift
	h3Header4  = 1 << 0
	h3Actuator = 1 << 1
	h3InActive = 1 << 2
	h3Paint    = 1 << 3
	h3WallPnt  = 1 << 4
	h3Yellow   = 1 << 5
	h3WallHigh = 1 << 6
	h3Shimmer  = 1 << 7
	h4InvBlock = 1 << 1
	h4InvWall  = 1 << 2
	h4FBBlock  = 1 << 3
	h4FBWall   = 1 << 4
)

// PreparePacked returns the tile exactly as a packed record of c.Version
// would carry it.
func (c *Context) PreparePacked(t world.Tile) world.Tile {
	t = c.clamp(t)
	if c.Version < VersionWallHigh && t.Wall > 0xFF {
		t.Wall = 0
		t.WallColor = 0
	}
	if c.Version < VersionHeader4 {
		t = paintFullBright(t, true)
		if t.LiquidType == world.LiquidShimmer {
			t.LiquidType = world.LiquidWater
		}
	}
	return t
}

// WritePacked writes one prepared tile record followed by its repeat count.
func (c *Context) WritePacked(w *wire.Writer, t world.Tile, repeats int) {
	var h1, h2, h3, h4 byte
	var payload [16]byte
	p := payload[:0]
	paint, wallPaint := t.TileColor, t.WallColor
	if c.Version < VersionHeader4 {
		paint, wallPaint = paintOf(t)
	}

	if t.Active {
		h1 |= h1Active
		p = append(p, byte(t.Type))
		if t.Type > 0xFF {
			h1 |= h1Type16
			p = append(p, byte(t.Type>>8))
		}
		if c.frameImportant(t.Type) {
			p = append(p, byte(t.U), byte(uint16(t.U)>>8), byte(t.V), byte(uint16(t.V)>>8))
		}
		if paint != 0 {
			h3 |= h3Paint
			p = append(p, paint)
		}
	}
	if t.Wall != 0 {
		h1 |= h1Wall
		p = append(p, byte(t.Wall))
		if wallPaint != 0 {
			h3 |= h3WallPnt
			p = append(p, wallPaint)
		}
	}
	if t.LiquidAmount != 0 {
		switch t.LiquidType {
		case world.LiquidLava:
			h1 |= h1Lava
		case world.LiquidHoney:
			h1 |= h1Honey
		case world.LiquidShimmer:
			h1 |= h1Water
			h3 |= h3Shimmer
		default:
			h1 |= h1Water
		}
		p = append(p, t.LiquidAmount)
	}
	if t.Wall > 0xFF {
		h3 |= h3WallHigh
		p = append(p, byte(t.Wall>>8))
	}

	if t.WireRed {
		h2 |= h2Red
	}
	if t.WireBlue {
		h2 |= h2Blue
	}
	if t.WireGreen {
		h2 |= h2Green
	}
	h2 |= byte(t.BrickStyle&7) << h2Brick

	if t.Actuator {
		h3 |= h3Actuator
	}
	if t.InActive {
		h3 |= h3InActive
	}
	if t.WireYellow {
		h3 |= h3Yellow
	}

	if c.Version >= VersionHeader4 {
		if t.InvisibleBlock {
			h4 |= h4InvBlock
		}
		if t.InvisibleWall {
			h4 |= h4InvWall
		}
		if t.FullBrightBlock {
			h4 |= h4FBBlock
		}
		if t.FullBrightWall {
			h4 |= h4FBWall
		}
	}

	if h4 != 0 {
		h3 |= h3Header4
	}
	if h3 != 0 {
		h2 |= h2Header3
	}
	if h2 != 0 {
		h1 |= h1Header2
	}
	switch {
	case repeats > 0xFF:
		h1 |= h1RLEWord
	case repeats > 0:
		h1 |= h1RLEByte
	}

	w.U8(h1)
	if h1&h1Header2 != 0 {
		w.U8(h2)
	}
	if h2&h2Header3 != 0 {
		w.U8(h3)
	}
	if h3&h3Header4 != 0 {
		w.U8(h4)
	}
	w.Raw(p)
	switch {
	case repeats > 0xFF:
		w.U16(uint16(repeats))
	case repeats > 0:
		w.U8(byte(repeats))
	}
}

// ReadPacked reads one record and returns the tile and how many rows below
// it repeat it.
func (c *Context) ReadPacked(r *wire.Reader) (world.Tile, int, error) {
	var t world.Tile
	var h2, h3, h4 byte
	h1 := r.U8()
	if h1&h1Header2 != 0 {
		h2 = r.U8()
	}
	if h2&h2Header3 != 0 {
		h3 = r.U8()
	}
	if c.Version >= VersionHeader4 && h3&h3Header4 != 0 {
		h4 = r.U8()
	}

	if h1&h1Active != 0 {
		t.Active = true
		t.Type = uint16(r.U8())
		if h1&h1Type16 != 0 {
			t.Type |= uint16(r.U8()) << 8
		}
		if c.frameImportant(t.Type) {
			t.U = r.I16()
			t.V = r.I16()
			if t.Type == world.TileTimer {
				t.V = 0
			}
		}
		if h3&h3Paint != 0 {
			t.TileColor = r.U8()
		}
	}
	if h1&h1Wall != 0 {
		t.Wall = uint16(r.U8())
		if h3&h3WallPnt != 0 {
			t.WallColor = r.U8()
		}
	}
	if liq := h1 & h1LiqMask; liq != 0 {
		t.LiquidAmount = r.U8()
		switch {
		case liq == h1Lava:
			t.LiquidType = world.LiquidLava
		case liq == h1Honey:
			t.LiquidType = world.LiquidHoney
		case c.Version >= VersionHeader4 && h3&h3Shimmer != 0:
			t.LiquidType = world.LiquidShimmer
		default:
			t.LiquidType = world.LiquidWater
		}
	}
	if c.Version >= VersionWallHigh && h3&h3WallHigh != 0 {
		t.Wall |= uint16(r.U8()) << 8
	}

	t.WireRed = h2&h2Red != 0
	t.WireBlue = h2&h2Blue != 0
	t.WireGreen = h2&h2Green != 0
	t.BrickStyle = world.BrickStyle((h2 >> h2Brick) & 7)
	t.Actuator = h3&h3Actuator != 0
	t.InActive = h3&h3InActive != 0
	t.WireYellow = h3&h3Yellow != 0
	t.InvisibleBlock = h4&h4InvBlock != 0
	t.InvisibleWall = h4&h4InvWall != 0
	t.FullBrightBlock = h4&h4FBBlock != 0
	t.FullBrightWall = h4&h4FBWall != 0
	unfoldFullBright(&t)

	repeats := 0
	switch h1 & h1RLEMask {
	case h1RLEByte:
		repeats = int(r.U8())
	case h1RLEWord:
		repeats = int(r.U16())
	case h1RLEMask:
		return t, 0, ErrBadRLEMode
	}
	if err := r.Err(); err != nil {
		return t, 0, err
	}
	return t, repeats, nil
}

// WritePackedColumn writes col with identical tiles folded into runs.
func (c *Context) WritePackedColumn(w *wire.Writer, col []world.Tile) {
	runs(col, maxPackedRepeats, c.PreparePacked, func(t world.Tile, n int) { c.WritePacked(w, t, n) })
}

// ReadPackedColumn fills col from the stream. On error the rows from the
// faulty record down are left as they were.
func (c *Context) ReadPackedColumn(r *wire.Reader, col []world.Tile) error {
	for y := 0; y < len(col); {
		t, n, err := c.ReadPacked(r)
		if err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
		if y, err = fill(col, y, t, n); err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
	}
	return nil
}

// HeaderChain reports which header bytes follow header1 in a packed record,
// using only the header bytes themselves.
func HeaderChain(record []byte) (has2, has3, has4 bool) {
	if len(record) == 0 {
		return
	}
	has2 = record[0]&h1Header2 != 0
	if has2 && len(record) > 1 {
		has3 = record[1]&h2Header3 != 0
	}
	if has3 && len(record) > 2 {
		has4 = record[2]&h3Header4 != 0
	}
	return
}
