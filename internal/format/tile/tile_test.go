package tile

import (
	"bytes"
	"errors"
	"testing"

	"wldkit.dev/internal/policy"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

func ctxFor(t *testing.T, version uint32) *Context {
	t.Helper()
	e, ok := policy.Default().Lookup(version)
	if !ok {
		t.Fatalf("version %d unknown", version)
	}
	return NewContext(version, e)
}

func TestPackedColumn_TwoDirtTilesFoldIntoOneRun(t *testing.T) {
	c := ctxFor(t, 279)
	col := []world.Tile{{Active: true, Type: 0}, {Active: true, Type: 0}}
	w := wire.NewWriter(8)
	c.WritePackedColumn(w, col)

	want := []byte{h1Active | h1RLEByte, 0x00, 0x01}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("bytes=% x want % x", w.Bytes(), want)
	}

	got := make([]world.Tile, 2)
	if err := c.ReadPackedColumn(wire.NewReader(w.Bytes()), got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got[0] != col[0] || got[1] != col[1] {
		t.Fatalf("got=%+v want %+v", got, col)
	}
}

func sampleTiles() []world.Tile {
	return []world.Tile{
		{},
		{Active: true, Type: 1},
		{Active: true, Type: 21, U: 18, V: 36, TileColor: 5},
		{Active: true, Type: 300, Wall: 4, WallColor: 2, WireRed: true, WireYellow: true},
		{Wall: 300, LiquidAmount: 255, LiquidType: world.LiquidLava},
		{LiquidAmount: 10, LiquidType: world.LiquidHoney, Actuator: true},
		{LiquidAmount: 10, LiquidType: world.LiquidShimmer},
		{Active: true, Type: 2, BrickStyle: world.BrickSlopeBottomLeft, InActive: true, Actuator: true},
		{Active: true, Type: 2, InvisibleBlock: true, FullBrightWall: true, Wall: 1},
		{Active: true, Type: 2, FullBrightBlock: true, InvisibleWall: true, Wall: 2, WireBlue: true, WireGreen: true},
	}
}

func TestPacked_RoundTripAndHeaderChain(t *testing.T) {
	c := ctxFor(t, 279)
	for i, in := range sampleTiles() {
		in = c.PreparePacked(in)
		w := wire.NewWriter(16)
		c.WritePacked(w, in, 0)
		rec := w.Bytes()

		has2, has3, has4 := HeaderChain(rec)
		if want := rec[0]&h1Header2 != 0; has2 != want {
			t.Fatalf("tile %d: has2=%v want %v", i, has2, want)
		}
		if has4 && !has3 || has3 && !has2 {
			t.Fatalf("tile %d: broken chain %v %v %v", i, has2, has3, has4)
		}
		needs4 := in.InvisibleBlock || in.InvisibleWall || in.FullBrightBlock || in.FullBrightWall
		if has4 != needs4 {
			t.Fatalf("tile %d: has4=%v want %v", i, has4, needs4)
		}

		r := wire.NewReader(rec)
		got, n, err := c.ReadPacked(r)
		if err != nil {
			t.Fatalf("tile %d: read: %v", i, err)
		}
		if n != 0 || r.Remaining() != 0 {
			t.Fatalf("tile %d: repeats=%d remaining=%d", i, n, r.Remaining())
		}
		if got != in {
			t.Fatalf("tile %d: got=%+v want %+v", i, got, in)
		}
	}
}

func TestPacked_OlderVersionFoldsFullBrightIntoPaint(t *testing.T) {
	c := ctxFor(t, 230)
	in := c.PreparePacked(world.Tile{Active: true, Type: 1, TileColor: 4, FullBrightBlock: true, InvisibleBlock: true})
	if in.TileColor != 0 || !in.FullBrightBlock || in.InvisibleBlock {
		t.Fatalf("prepared=%+v", in)
	}
	w := wire.NewWriter(8)
	c.WritePacked(w, in, 0)
	if _, _, has4 := HeaderChain(w.Bytes()); has4 {
		t.Fatalf("header4 written below version %d", VersionHeader4)
	}
	if b := w.Bytes(); b[len(b)-1] != PaintFullBright {
		t.Fatalf("record=% x, want trailing paint %d", b, PaintFullBright)
	}
	got, _, err := c.ReadPacked(wire.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != in {
		t.Fatalf("decoded=%+v want full-bright with paint 0", got)
	}
}

func TestPacked_CeilingsCoerce(t *testing.T) {
	c := ctxFor(t, 102)
	got := c.PreparePacked(world.Tile{Active: true, Type: 500, Wall: 200, U: 5})
	if got.Active || got.Type != 0 || got.U != 0 {
		t.Fatalf("type above max_tile not made inactive: %+v", got)
	}
	if got.Wall != 0 {
		t.Fatalf("wall above max_wall kept: %d", got.Wall)
	}
}

func TestPacked_TimerSecondFrameZeroed(t *testing.T) {
	c := ctxFor(t, 279)
	w := wire.NewWriter(8)
	// Bypass PreparePacked to put a non-zero V on the wire.
	c.WritePacked(w, world.Tile{Active: true, Type: world.TileTimer, U: 18, V: 36}, 0)
	got, _, err := c.ReadPacked(wire.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.U != 18 || got.V != 0 {
		t.Fatalf("timer frame=(%d,%d) want (18,0)", got.U, got.V)
	}
}

func TestPacked_NonMergingTypes(t *testing.T) {
	c := ctxFor(t, 279)
	sensor := world.Tile{Active: true, Type: world.TileLogicSensor}
	col := []world.Tile{sensor, sensor, sensor}
	w := wire.NewWriter(16)
	c.WritePackedColumn(w, col)

	r := wire.NewReader(w.Bytes())
	for i := 0; i < 3; i++ {
		_, n, err := c.ReadPacked(r)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if n != 0 {
			t.Fatalf("record %d: repeats=%d want 0", i, n)
		}
	}
}

func TestPacked_LongRunUsesWordCount(t *testing.T) {
	c := ctxFor(t, 279)
	col := make([]world.Tile, 600)
	for i := range col {
		col[i] = world.Tile{Wall: 1}
	}
	w := wire.NewWriter(8)
	c.WritePackedColumn(w, col)
	b := w.Bytes()
	if len(b) != 4 || b[0]&h1RLEWord == 0 {
		t.Fatalf("bytes=% x", b)
	}

	got := make([]world.Tile, len(col))
	if err := c.ReadPackedColumn(wire.NewReader(b), got); err != nil {
		t.Fatalf("read: %v", err)
	}
	for y := range got {
		if got[y] != col[y] {
			t.Fatalf("row %d: %+v", y, got[y])
		}
	}
}

func TestPacked_RunOverflowsColumn(t *testing.T) {
	c := ctxFor(t, 279)
	w := wire.NewWriter(8)
	c.WritePacked(w, world.Tile{Active: true, Type: 1}, 5)
	col := make([]world.Tile, 3)
	err := c.ReadPackedColumn(wire.NewReader(w.Bytes()), col)
	if !errors.Is(err, ErrRunOverflow) {
		t.Fatalf("err=%v want ErrRunOverflow", err)
	}
}

func TestPacked_TruncatedRecord(t *testing.T) {
	c := ctxFor(t, 279)
	// Active with a 16-bit type but only the low byte present.
	err := c.ReadPackedColumn(wire.NewReader([]byte{h1Active | h1Type16, 0x05}), make([]world.Tile, 1))
	if !errors.Is(err, wire.ErrShort) {
		t.Fatalf("err=%v want ErrShort", err)
	}
}

func TestFlat_RoundTripAcrossVersions(t *testing.T) {
	for _, v := range []uint32{12, 25, 33, 41, 48, 51, 71, 87} {
		c := ctxFor(t, v)
		col := sampleTiles()
		w := wire.NewWriter(64)
		c.WriteFlatColumn(w, col)

		got := make([]world.Tile, len(col))
		r := wire.NewReader(w.Bytes())
		if err := c.ReadFlatColumn(r, got); err != nil {
			t.Fatalf("v%d: read: %v", v, err)
		}
		if r.Remaining() != 0 {
			t.Fatalf("v%d: %d trailing bytes", v, r.Remaining())
		}
		for i := range col {
			if want := c.PrepareFlat(col[i]); got[i] != want {
				t.Fatalf("v%d tile %d: got=%+v want %+v", v, i, got[i], want)
			}
		}
	}
}

func TestFlat_VersionGates(t *testing.T) {
	in := world.Tile{Active: true, Type: 1, TileColor: 3, WireBlue: true, BrickStyle: world.BrickSlopeTopLeft, LiquidAmount: 1, LiquidType: world.LiquidHoney}

	old := ctxFor(t, 40).PrepareFlat(in)
	if old.TileColor != 0 || old.WireBlue || old.BrickStyle != world.BrickFull || old.LiquidType != world.LiquidWater {
		t.Fatalf("v40 kept newer fields: %+v", old)
	}
	newer := ctxFor(t, 51).PrepareFlat(in)
	if newer.TileColor != 3 || !newer.WireBlue || newer.BrickStyle != world.BrickSlopeTopLeft || newer.LiquidType != world.LiquidHoney {
		t.Fatalf("v51 dropped fields: %+v", newer)
	}
}

func TestFlat_TorchFrameOnlyFromVersion28(t *testing.T) {
	torch := world.Tile{Active: true, Type: 4, U: 22}
	for _, tc := range []struct {
		v    uint32
		size int
	}{{20, 1 + 1 + 1 + 1 + 1}, {28, 1 + 1 + 4 + 1 + 1 + 2}} {
		c := ctxFor(t, tc.v)
		w := wire.NewWriter(16)
		c.WriteFlat(w, c.PrepareFlat(torch), 0)
		if len(w.Bytes()) != tc.size {
			t.Fatalf("v%d: record=% x, want %d bytes", tc.v, w.Bytes(), tc.size)
		}
	}
}

func TestConsole_RoundTrip(t *testing.T) {
	e := policy.Default().Console()
	c := NewContext(e.Version, e)
	col := sampleTiles()
	col = append(col, col[2], col[2])
	w := wire.NewWriter(64)
	c.WriteConsoleColumn(w, col)

	got := make([]world.Tile, len(col))
	r := wire.NewReader(w.Bytes())
	if err := c.ReadConsoleColumn(r, got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("%d trailing bytes", r.Remaining())
	}
	for i := range col {
		if want := c.PrepareConsole(col[i]); got[i] != want {
			t.Fatalf("tile %d: got=%+v want %+v", i, got[i], want)
		}
	}
}
