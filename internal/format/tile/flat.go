package tile

import (
	"fmt"

	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// PrepareFlat returns the tile exactly as a flat record of c.Version would
// carry it.
func (c *Context) PrepareFlat(t world.Tile) world.Tile {
	t = c.clamp(t)
	if t.Type > 0xFF {
		t.Active = false
	}
	if t.Wall > 0xFF {
		t.Wall = 0
	}
	v := c.Version
	t = paintFullBright(t, v >= VersionPaint)
	if v < VersionPaint {
		t.TileColor, t.WallColor = 0, 0
	}
	if v < VersionRedWire {
		t.WireRed = false
	}
	if v < VersionMoreWires {
		t.WireBlue, t.WireGreen = false, false
	}
	t.WireYellow = false
	if v < VersionActuator {
		t.Actuator, t.InActive = false, false
	}
	switch {
	case t.BrickStyle == world.BrickHalf && v < VersionHalfBrick:
		t.BrickStyle = world.BrickFull
	case t.BrickStyle > world.BrickHalf && v < VersionSlope:
		t.BrickStyle = world.BrickFull
	}
	switch t.LiquidType {
	case world.LiquidShimmer:
		t.LiquidType = world.LiquidWater
	case world.LiquidHoney:
		if v < VersionHoney {
			t.LiquidType = world.LiquidWater
		}
	}
	return t.Canonical(t.Active && c.frameImportant(t.Type))
}

// WriteFlat writes one prepared tile as a flat record. The repeat count is
// written only from VersionRLE.
func (c *Context) WriteFlat(w *wire.Writer, t world.Tile, repeats int) {
	v := c.Version
	paint, wallPaint := paintOf(t)
	w.Bool(t.Active)
	if t.Active {
		w.U8(byte(t.Type))
		if c.frameImportant(t.Type) {
			w.I16(t.U)
			w.I16(t.V)
		}
		if v >= VersionPaint {
			w.Bool(paint != 0)
			if paint != 0 {
				w.U8(paint)
			}
		}
	}
	if v <= VersionLighted {
		w.Bool(false)
	}
	w.Bool(t.Wall != 0)
	if t.Wall != 0 {
		w.U8(byte(t.Wall))
		if v >= VersionPaint {
			w.Bool(wallPaint != 0)
			if wallPaint != 0 {
				w.U8(wallPaint)
			}
		}
	}
	w.Bool(t.LiquidAmount != 0)
	if t.LiquidAmount != 0 {
		w.U8(t.LiquidAmount)
		w.Bool(t.LiquidType == world.LiquidLava)
		if v >= VersionHoney {
			w.Bool(t.LiquidType == world.LiquidHoney)
		}
	}
	if v >= VersionRedWire {
		w.Bool(t.WireRed)
	}
	if v >= VersionMoreWires {
		w.Bool(t.WireBlue)
		w.Bool(t.WireGreen)
	}
	if v >= VersionHalfBrick {
		w.Bool(t.BrickStyle == world.BrickHalf)
	}
	if v >= VersionSlope {
		slope := byte(0)
		if t.BrickStyle > world.BrickHalf {
			slope = byte(t.BrickStyle - world.BrickHalf)
		}
		w.U8(slope)
	}
	if v >= VersionActuator {
		w.Bool(t.Actuator)
		w.Bool(t.InActive)
	}
	if v >= VersionRLE {
		w.I16(int16(repeats))
	}
}

// ReadFlat reads one flat record.
func (c *Context) ReadFlat(r *wire.Reader) (world.Tile, int, error) {
	v := c.Version
	var t world.Tile
	if r.Bool() {
		t.Active = true
		t.Type = uint16(r.U8())
		if c.frameImportant(t.Type) {
			t.U = r.I16()
			t.V = r.I16()
			if t.Type == world.TileTimer {
				t.V = 0
			}
		}
		if v >= VersionPaint && r.Bool() {
			t.TileColor = r.U8()
		}
	}
	if v <= VersionLighted {
		r.Bool()
	}
	if r.Bool() {
		t.Wall = uint16(r.U8())
		if v >= VersionPaint && r.Bool() {
			t.WallColor = r.U8()
		}
	}
	if r.Bool() {
		t.LiquidAmount = r.U8()
		t.LiquidType = world.LiquidWater
		if r.Bool() {
			t.LiquidType = world.LiquidLava
		}
		if v >= VersionHoney && r.Bool() {
			t.LiquidType = world.LiquidHoney
		}
	}
	if v >= VersionRedWire {
		t.WireRed = r.Bool()
	}
	if v >= VersionMoreWires {
		t.WireBlue = r.Bool()
		t.WireGreen = r.Bool()
	}
	if v >= VersionHalfBrick && r.Bool() {
		t.BrickStyle = world.BrickHalf
	}
	if v >= VersionSlope {
		if s := r.U8(); s != 0 {
			t.BrickStyle = world.BrickHalf + world.BrickStyle(s)
		}
	}
	if v >= VersionActuator {
		t.Actuator = r.Bool()
		t.InActive = r.Bool()
	}
	unfoldFullBright(&t)
	repeats := 0
	if v >= VersionRLE {
		n := r.I16()
		if n < 0 {
			return t, 0, fmt.Errorf("negative repeat count %d", n)
		}
		repeats = int(n)
	}
	if err := r.Err(); err != nil {
		return t, 0, err
	}
	return t, repeats, nil
}

// WriteFlatColumn writes col as flat records, folding runs from VersionRLE.
func (c *Context) WriteFlatColumn(w *wire.Writer, col []world.Tile) {
	if c.Version < VersionRLE {
		for _, t := range col {
			c.WriteFlat(w, c.PrepareFlat(t), 0)
		}
		return
	}
	runs(col, maxFlatRepeats, c.PrepareFlat, func(t world.Tile, n int) { c.WriteFlat(w, t, n) })
}

func (c *Context) ReadFlatColumn(r *wire.Reader, col []world.Tile) error {
	for y := 0; y < len(col); {
		t, n, err := c.ReadFlat(r)
		if err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
		if y, err = fill(col, y, t, n); err != nil {
			return fmt.Errorf("row %d: %w", y, err)
		}
	}
	return nil
}
