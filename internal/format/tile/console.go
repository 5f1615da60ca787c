package tile

import (
	"fmt"

	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// Console records pack their booleans into two BitsBytes:
//
//	flags[0] active, [1] wall, [2] liquid, [3] lava, [4] honey,
//	         [5] red wire, [6] blue wire, [7] green wire
//	style[0] actuator, [1] inactive, [2] tile paint, [3] wall paint,
//	         [4..6] brick style
//
// followed by uint16 type, [U, V], [paint], [wall byte], [wall paint],
// [liquid amount] and an int16 repeat count.

// PrepareConsole returns the tile exactly as a console record carries it.
func (c *Context) PrepareConsole(t world.Tile) world.Tile {
	t = c.clamp(t)
	if t.Wall > 0xFF {
		t.Wall = 0
	}
	t = paintFullBright(t, true)
	t.WireYellow = false
	if t.LiquidType == world.LiquidShimmer {
		t.LiquidType = world.LiquidWater
	}
	return t.Canonical(t.Active && c.frameImportant(t.Type))
}

func (c *Context) WriteConsole(w *wire.Writer, t world.Tile, repeats int) {
	var flags, style wire.BitsByte
	paint, wallPaint := paintOf(t)
	flags[0] = t.Active
	flags[1] = t.Wall != 0
	flags[2] = t.LiquidAmount != 0
	flags[3] = t.LiquidType == world.LiquidLava
	flags[4] = t.LiquidType == world.LiquidHoney
	flags[5] = t.WireRed
	flags[6] = t.WireBlue
	flags[7] = t.WireGreen
	style[0] = t.Actuator
	style[1] = t.InActive
	style[2] = t.Active && paint != 0
	style[3] = t.Wall != 0 && wallPaint != 0
	b := style.Byte() | byte(t.BrickStyle&7)<<4
	w.Bits(flags)
	w.U8(b)
	if t.Active {
		w.U16(t.Type)
		if c.frameImportant(t.Type) {
			w.I16(t.U)
			w.I16(t.V)
		}
		if style[2] {
			w.U8(paint)
		}
	}
	if t.Wall != 0 {
		w.U8(byte(t.Wall))
		if style[3] {
			w.U8(wallPaint)
		}
	}
	if t.LiquidAmount != 0 {
		w.U8(t.LiquidAmount)
	}
	w.I16(int16(repeats))
}

func (c *Context) ReadConsole(r *wire.Reader) (world.Tile, int, error) {
	var t world.Tile
	flags := r.Bits()
	b := r.U8()
	style := wire.FromByte(b)
	if flags[0] {
		t.Active = true
		t.Type = r.U16()
		if c.frameImportant(t.Type) {
			t.U = r.I16()
			t.V = r.I16()
			if t.Type == world.TileTimer {
				t.V = 0
			}
		}
		if style[2] {
			t.TileColor = r.U8()
		}
	}
	if flags[1] {
		t.Wall = uint16(r.U8())
		if style[3] {
			t.WallColor = r.U8()
		}
	}
	if flags[2] {
		t.LiquidAmount = r.U8()
		switch {
		case flags[3]:
			t.LiquidType = world.LiquidLava
		case flags[4]:
			t.LiquidType = world.LiquidHoney
		default:
			t.LiquidType = world.LiquidWater
		}
	}
	t.WireRed, t.WireBlue, t.WireGreen = flags[5], flags[6], flags[7]
	t.Actuator, t.InActive = style[0], style[1]
	t.BrickStyle = world.BrickStyle((b >> 4) & 7)
	unfoldFullBright(&t)
	n := r.I16()
	if err := r.Err(); err != nil {
		return t, 0, err
	}
	if n < 0 {
		return t, 0, fmt.Errorf("negative repeat count %d", n)
	}
	return t, int(n), nil
}

func (c *Context) WriteConsoleColumn(w *wire.Writer, col []world.Tile) {
	runs(col, maxFlatRepeats, c.PrepareConsole, func(t world.Tile, n int) { c.WriteConsole(w, t, n) })
}

func (c *Context) ReadConsoleColumn(r *wire.Reader, col []world.Tile) error {
	for y := 0; y < len(col); {
		t, n, err := c.ReadConsole(r)
		if err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
		if y, err = fill(col, y, t, n); err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
	}
	return nil
}
