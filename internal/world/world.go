package world

import (
	"errors"
	"fmt"
)

// Generation identifies one of the structurally distinct on-disk layouts.
type Generation int

const (
	GenUnknown Generation = iota
	GenV0
	GenV1
	GenV2
	GenConsole
)

func (g Generation) String() string {
	switch g {
	case GenV0:
		return "v0"
	case GenV1:
		return "v1"
	case GenV2:
		return "v2"
	case GenConsole:
		return "console"
	}
	return "unknown"
}

func (g Generation) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Generation) UnmarshalText(b []byte) error {
	for _, c := range []Generation{GenV0, GenV1, GenV2, GenConsole} {
		if c.String() == string(b) {
			*g = c
			return nil
		}
	}
	if string(b) == "unknown" {
		*g = GenUnknown
		return nil
	}
	return fmt.Errorf("unknown generation %q", b)
}

// Legacy layouts (V0, V1, console) cannot address grids larger than this.
const (
	MaxLegacyWidth  = 8400
	MaxLegacyHeight = 2400
)

// Meta is file-level data that is not world state: it describes the
// container the world was read from or will be written to.
type Meta struct {
	Generation Generation `json:"generation"`
	Magic      string     `json:"magic,omitempty"`
	FileType   uint8      `json:"file_type,omitempty"`
	Revision   uint32     `json:"revision,omitempty"`
	Favorite   bool       `json:"favorite,omitempty"`
}

// World is the decoded save. It is built fresh per load, in wire order, and
// handed to collaborators as a whole.
type World struct {
	Version uint32 `json:"version"`
	Meta    Meta   `json:"meta"`
	Header  Header `json:"header"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  []Tile `json:"-"` // column-major: index = x*Height + y

	Chests         []Chest         `json:"chests,omitempty"`
	Signs          []Sign          `json:"signs,omitempty"`
	NPCs           []NPC           `json:"npcs,omitempty"`
	Mobs           []Mob           `json:"mobs,omitempty"`
	ShimmeredNPCs  []int32         `json:"shimmered_npcs,omitempty"`
	TileEntities   []TileEntity    `json:"tile_entities,omitempty"`
	PressurePlates []PressurePlate `json:"pressure_plates,omitempty"`
	TownRooms      []TownRoom      `json:"town_rooms,omitempty"`
	Bestiary       Bestiary        `json:"bestiary"`
	CreativePowers CreativePowers  `json:"creative_powers"`

	// LegacyNPCNames are the town NPC display names stored as a fixed list by
	// flat-generation files.
	LegacyNPCNames []string `json:"legacy_npc_names,omitempty"`

	// Partial is set when tile decoding failed mid-grid; cells after the fault
	// hold default tiles and nothing after the tile data was read.
	Partial bool `json:"partial,omitempty"`
}

// NewWorld allocates an empty width x height grid.
func NewWorld(width, height int) *World {
	w := &World{Width: width, Height: height}
	if width > 0 && height > 0 {
		w.Tiles = make([]Tile, width*height)
	}
	return w
}

func (w *World) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.Width && y < w.Height
}

func (w *World) index(x, y int) int { return x*w.Height + y }

// Tile returns a pointer into the grid; nil when (x,y) is outside it.
func (w *World) Tile(x, y int) *Tile {
	if !w.InBounds(x, y) {
		return nil
	}
	return &w.Tiles[w.index(x, y)]
}

func (w *World) SetTile(x, y int, t Tile) {
	if !w.InBounds(x, y) {
		return
	}
	w.Tiles[w.index(x, y)] = t
}

// Column returns the tiles of column x, top to bottom.
func (w *World) Column(x int) []Tile {
	if x < 0 || x >= w.Width {
		return nil
	}
	return w.Tiles[x*w.Height : (x+1)*w.Height]
}

var (
	ErrAnchorOutside  = errors.New("anchor outside grid")
	ErrAnchorInactive = errors.New("anchor tile inactive")
	ErrAnchorType     = errors.New("anchor tile has wrong type")
)

var chestTiles = map[uint16]bool{TileChest: true, TileDresser: true, TileChest2: true}
var signTiles = map[uint16]bool{TileSign: true, TileGraveMarker: true, TileAnnouncement: true, 573: true}

// Validate checks that every chest, sign and tile entity sits on an active
// tile of a matching type. The codec never calls it; editors do before save.
func (w *World) Validate() error {
	var errs []error
	check := func(what string, i int, x, y int32, types map[uint16]bool) {
		t := w.Tile(int(x), int(y))
		switch {
		case t == nil:
			errs = append(errs, fmt.Errorf("%s %d at (%d,%d): %w", what, i, x, y, ErrAnchorOutside))
		case !t.Active:
			errs = append(errs, fmt.Errorf("%s %d at (%d,%d): %w", what, i, x, y, ErrAnchorInactive))
		case types != nil && !types[t.Type]:
			errs = append(errs, fmt.Errorf("%s %d at (%d,%d) type %d: %w", what, i, x, y, t.Type, ErrAnchorType))
		}
	}
	for i, c := range w.Chests {
		check("chest", i, c.X, c.Y, chestTiles)
	}
	for i, s := range w.Signs {
		check("sign", i, s.X, s.Y, signTiles)
	}
	for i, te := range w.TileEntities {
		check("tile entity", i, int32(te.X), int32(te.Y), nil)
	}
	return errors.Join(errs...)
}
