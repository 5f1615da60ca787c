package ancillary

import (
	"errors"
	"reflect"
	"testing"

	"wldkit.dev/internal/policy"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

func ctxFor(t *testing.T, version uint32, gen world.Generation) *Context {
	t.Helper()
	e, _ := policy.Default().Lookup(version)
	return &Context{Version: version, Gen: gen, Limits: e}
}

func TestChests_SegmentedRoundTripAndCeilings(t *testing.T) {
	c := ctxFor(t, 279, world.GenV2)
	ch := world.NewChest(10, 20)
	ch.Name = "loot"
	ch.Items[0] = world.Item{ID: 8, Stack: 99, Prefix: 0}
	ch.Items[39] = world.Item{ID: 4956, Stack: 1, Prefix: 81}
	over := world.NewChest(1, 2)
	over.Items[0] = world.Item{ID: 99999, Stack: 1}

	w := wire.NewWriter(256)
	WriteChests(w, []world.Chest{ch, over}, c)
	r := wire.NewReader(w.Bytes())
	got, err := ReadChests(r, c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("%d trailing bytes", r.Remaining())
	}
	if len(got) != 2 || !reflect.DeepEqual(got[0], ch) {
		t.Fatalf("got=%+v", got)
	}
	if !got[1].Items[0].Empty() {
		t.Fatalf("item above max_item kept: %+v", got[1].Items[0])
	}
}

func TestChests_OverflowSlotsDiscarded(t *testing.T) {
	c := ctxFor(t, 279, world.GenV2)
	w := wire.NewWriter(512)
	w.I16(1)
	w.I16(45)
	w.I32(3)
	w.I32(4)
	w.String("")
	for s := 0; s < 45; s++ {
		w.I16(1)
		w.I32(int32(100 + s))
		w.U8(0)
	}
	w.I16(0) // start of the next section

	r := wire.NewReader(w.Bytes())
	got, err := ReadChests(r, c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || len(got[0].Items) != world.ChestMaxItems {
		t.Fatalf("got=%+v", got)
	}
	if got[0].Items[39].ID != 139 {
		t.Fatalf("slot 39 id=%d want 139", got[0].Items[39].ID)
	}
	if r.Remaining() != 2 {
		t.Fatalf("overflow slots not consumed: remaining=%d", r.Remaining())
	}
}

func TestChests_FlatLegacyNamesAndSlots(t *testing.T) {
	c := ctxFor(t, 20, world.GenV1)
	ch := world.NewChest(5, 6)
	ch.Items[0] = world.Item{ID: 229, Stack: 1}
	ch.Items[1] = world.Item{ID: 8, Stack: 300}
	ch.Items[25] = world.Item{ID: 2, Stack: 5} // beyond the 20 legacy slots

	w := wire.NewWriter(4096)
	WriteChests(w, []world.Chest{ch}, c)
	got, err := ReadChests(wire.NewReader(w.Bytes()), c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("chests=%d", len(got))
	}
	if it := got[0].Items[0]; it.ID != 229 || it.Stack != 1 {
		t.Fatalf("slot 0=%+v", it)
	}
	if it := got[0].Items[1]; it.Stack != 255 {
		t.Fatalf("byte stack not clamped: %+v", it)
	}
	if !got[0].Items[25].Empty() {
		t.Fatalf("slot 25 survived a 20-slot version")
	}
	if got[0].Name != "" {
		t.Fatalf("name written below version %d", VersionChestNames)
	}
}

func TestSigns_RoundTrip(t *testing.T) {
	signs := []world.Sign{{X: 1, Y: 2, Text: "hello"}, {X: 3, Y: 4, Text: ""}}
	for _, c := range []*Context{ctxFor(t, 279, world.GenV2), ctxFor(t, 70, world.GenV1)} {
		w := wire.NewWriter(64)
		WriteSigns(w, signs, c)
		got, err := ReadSigns(wire.NewReader(w.Bytes()), c)
		if err != nil {
			t.Fatalf("v%d: %v", c.Version, err)
		}
		if !reflect.DeepEqual(got, signs) {
			t.Fatalf("v%d: got=%+v", c.Version, got)
		}
	}
}

func TestNPCs_RoundTrip(t *testing.T) {
	wd := &world.World{
		NPCs: []world.NPC{
			{SpriteID: 22, DisplayName: "Andrew", Position: world.Vec2{X: 1.5, Y: 2}, Home: world.Point{X: 10, Y: 20}},
			{SpriteID: 17, DisplayName: "Gavin", Homeless: true, HasVariation: true, TownVariation: 1},
			{SpriteID: 9999, DisplayName: "too new"},
		},
		Mobs:          []world.Mob{{SpriteID: 356, Position: world.Vec2{X: 3, Y: 4}}},
		ShimmeredNPCs: []int32{22},
	}
	c := ctxFor(t, 279, world.GenV2)
	w := wire.NewWriter(256)
	WriteNPCs(w, wd, c)

	var got world.World
	r := wire.NewReader(w.Bytes())
	if err := ReadNPCs(r, &got, c); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("%d trailing bytes", r.Remaining())
	}
	if !reflect.DeepEqual(got.NPCs, wd.NPCs[:2]) {
		t.Fatalf("npcs=%+v", got.NPCs)
	}
	if !reflect.DeepEqual(got.Mobs, wd.Mobs) || !reflect.DeepEqual(got.ShimmeredNPCs, wd.ShimmeredNPCs) {
		t.Fatalf("mobs=%+v shimmered=%v", got.Mobs, got.ShimmeredNPCs)
	}
}

func TestNPCs_NameBasedVersions(t *testing.T) {
	wd := &world.World{
		NPCs: []world.NPC{
			{SpriteID: 22, Position: world.Vec2{X: 8}},
			{Name: "Clothier"},
			{Name: "Mystery Guest"},
			{SpriteID: 301},
		},
		Mobs: []world.Mob{
			{SpriteID: 356, Position: world.Vec2{X: 5, Y: 6}},
			{Name: "Bound Wizard"},
			{SpriteID: 300},
		},
	}
	c := ctxFor(t, 150, world.GenV2)
	w := wire.NewWriter(128)
	WriteNPCs(w, wd, c)
	var got world.World
	r := wire.NewReader(w.Bytes())
	if err := ReadNPCs(r, &got, c); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("%d trailing bytes", r.Remaining())
	}
	// Known names come back as ids; an id with no name cannot be stored.
	wantNPCs := []world.NPC{
		{SpriteID: 22, Position: world.Vec2{X: 8}},
		{SpriteID: 54},
		{Name: "Mystery Guest"},
	}
	if !reflect.DeepEqual(got.NPCs, wantNPCs) {
		t.Fatalf("npcs=%+v", got.NPCs)
	}
	wantMobs := []world.Mob{
		{SpriteID: 356, Position: world.Vec2{X: 5, Y: 6}},
		{SpriteID: 106},
	}
	if !reflect.DeepEqual(got.Mobs, wantMobs) {
		t.Fatalf("mobs=%+v", got.Mobs)
	}
}

func TestLegacyNPCNameCount(t *testing.T) {
	for _, tc := range []struct {
		v    uint32
		want int
	}{{30, 0}, {31, 9}, {35, 10}, {64, 10}, {65, 18}, {87, 18}} {
		if got := LegacyNPCNameCount(tc.v); got != tc.want {
			t.Fatalf("count(%d)=%d want %d", tc.v, got, tc.want)
		}
	}
	c := ctxFor(t, 40, world.GenV1)
	w := wire.NewWriter(64)
	WriteLegacyNPCNames(w, []string{"Bob", "Ann"}, c)
	got, err := ReadLegacyNPCNames(wire.NewReader(w.Bytes()), c)
	if err != nil || len(got) != 10 || got[0] != "Bob" || got[9] != "" {
		t.Fatalf("names=%q err=%v", got, err)
	}
}

func TestTileEntities_RoundTripAndGating(t *testing.T) {
	doll := world.NewTileEntity(world.TEDisplayDoll, 3, 7, 8)
	doll.Payload.(*world.SlotsPayload).Items[2] = world.Item{ID: 100, Stack: 1, Prefix: 2}
	doll.Payload.(*world.SlotsPayload).Dyes[7] = world.Item{ID: 1007, Stack: 1}
	rack := world.NewTileEntity(world.TEHatRack, 4, 9, 9)
	rack.Payload.(*world.SlotsPayload).Dyes[1] = world.Item{ID: 1008, Stack: 1}
	frame := world.NewTileEntity(world.TEItemFrame, 1, 1, 1)
	frame.Payload.(*world.ItemPayload).Item = world.Item{ID: 8, Stack: 3}
	sensor := world.NewTileEntity(world.TELogicSensor, 2, 2, 2)
	sensor.Payload = &world.SensorPayload{LogicCheck: 4, On: true}
	tes := []world.TileEntity{
		world.NewTileEntity(world.TETrainingDummy, 0, 0, 0),
		frame, sensor, doll, rack,
		world.NewTileEntity(world.TETeleportationPylon, 5, 3, 3),
	}

	c := ctxFor(t, 279, world.GenV2)
	w := wire.NewWriter(256)
	WriteTileEntities(w, tes, c)
	got, err := ReadTileEntities(wire.NewReader(w.Bytes()), c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, tes) {
		t.Fatalf("got=%+v\nwant=%+v", got, tes)
	}

	old := ctxFor(t, 200, world.GenV2)
	w = wire.NewWriter(256)
	WriteTileEntities(w, tes, old)
	got, err = ReadTileEntities(wire.NewReader(w.Bytes()), old)
	if err != nil {
		t.Fatalf("read old: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entities at v200=%d want 3", len(got))
	}

	// A doll in a version-200 stream is rejected.
	w = wire.NewWriter(16)
	w.I32(1)
	w.U8(byte(world.TEDisplayDoll))
	if _, err := ReadTileEntities(wire.NewReader(w.Bytes()), old); !errors.Is(err, ErrUnknownEntityKind) {
		t.Fatalf("err=%v want ErrUnknownEntityKind", err)
	}
}

func TestHatRack_OccupancyByte(t *testing.T) {
	rack := world.NewTileEntity(world.TEHatRack, 4, 0, 0)
	c := ctxFor(t, 279, world.GenV2)
	w := wire.NewWriter(32)
	c.writePayload(w, rack)
	if b := w.Bytes(); len(b) != 1 || b[0] != 0 {
		t.Fatalf("empty hat rack payload=% x", b)
	}
}

func TestBestiaryAndCreative(t *testing.T) {
	b := world.Bestiary{
		Kills:   map[string]int32{"BlueSlime": 12, "Zombie": 3},
		Seen:    map[string]bool{"Bunny": true},
		Chatted: map[string]bool{"Guide": true},
	}
	w := wire.NewWriter(64)
	WriteBestiary(w, b)
	got, err := ReadBestiary(wire.NewReader(w.Bytes()))
	if err != nil || !reflect.DeepEqual(got, b) {
		t.Fatalf("bestiary=%+v err=%v", got, err)
	}

	var cp world.CreativePowers
	cp.SetBool(world.PowerFreezeTime, true)
	cp.Set(world.PowerDifficulty, 0.75)
	w = wire.NewWriter(32)
	WriteCreativePowers(w, cp)
	gotCP, err := ReadCreativePowers(wire.NewReader(w.Bytes()))
	if err != nil || !reflect.DeepEqual(gotCP, cp) {
		t.Fatalf("creative=%+v err=%v", gotCP, err)
	}

	w = wire.NewWriter(8)
	w.Bool(true)
	w.U16(3)
	w.Bool(true)
	if _, err := ReadCreativePowers(wire.NewReader(w.Bytes())); !errors.Is(err, ErrUnknownPower) {
		t.Fatalf("err=%v want ErrUnknownPower", err)
	}
}

func TestPlatesAndRooms(t *testing.T) {
	plates := []world.PressurePlate{{X: 1, Y: 2}}
	rooms := []world.TownRoom{{NPCID: 22, X: 5, Y: 6}}
	w := wire.NewWriter(64)
	WritePressurePlates(w, plates)
	WriteTownRooms(w, rooms)
	r := wire.NewReader(w.Bytes())
	gp, err := ReadPressurePlates(r)
	if err != nil || !reflect.DeepEqual(gp, plates) {
		t.Fatalf("plates=%+v err=%v", gp, err)
	}
	gr, err := ReadTownRooms(r)
	if err != nil || !reflect.DeepEqual(gr, rooms) {
		t.Fatalf("rooms=%+v err=%v", gr, err)
	}
}
