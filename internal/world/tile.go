package world

type LiquidType uint8

const (
	LiquidNone LiquidType = iota
	LiquidWater
	LiquidLava
	LiquidHoney
	LiquidShimmer
)

func (l LiquidType) String() string {
	switch l {
	case LiquidNone:
		return "none"
	case LiquidWater:
		return "water"
	case LiquidLava:
		return "lava"
	case LiquidHoney:
		return "honey"
	case LiquidShimmer:
		return "shimmer"
	}
	return "unknown"
}

// BrickStyle is the block shape. The numeric values are the 3-bit wire value.
type BrickStyle uint8

const (
	BrickFull BrickStyle = iota
	BrickHalf
	BrickSlopeTopRight
	BrickSlopeTopLeft
	BrickSlopeBottomRight
	BrickSlopeBottomLeft
)

// Tile IDs the codec treats specially.
const (
	TileTimer        uint16 = 144
	TileLogicSensor  uint16 = 423
	TileFoodPlatter  uint16 = 520
	TileChest        uint16 = 21
	TileSign         uint16 = 55
	TileGraveMarker  uint16 = 85
	TileAnnouncement uint16 = 425
	TileChest2       uint16 = 467
	TileDresser      uint16 = 88
)

// Tile is the persisted state of one grid cell. Render caches live with the
// renderer, keyed by grid position; Tile holds only what goes on the wire,
// which keeps it comparable with ==.
type Tile struct {
	Active bool   `json:"active,omitempty"`
	Type   uint16 `json:"type,omitempty"`
	U      int16  `json:"u,omitempty"`
	V      int16  `json:"v,omitempty"`

	Wall uint16 `json:"wall,omitempty"`

	LiquidAmount uint8      `json:"liquid_amount,omitempty"`
	LiquidType   LiquidType `json:"liquid_type,omitempty"`

	WireRed    bool `json:"wire_red,omitempty"`
	WireBlue   bool `json:"wire_blue,omitempty"`
	WireGreen  bool `json:"wire_green,omitempty"`
	WireYellow bool `json:"wire_yellow,omitempty"`

	Actuator bool `json:"actuator,omitempty"`
	InActive bool `json:"inactive,omitempty"`

	TileColor uint8 `json:"tile_color,omitempty"`
	WallColor uint8 `json:"wall_color,omitempty"`

	BrickStyle BrickStyle `json:"brick_style,omitempty"`

	InvisibleBlock  bool `json:"invisible_block,omitempty"`
	InvisibleWall   bool `json:"invisible_wall,omitempty"`
	FullBrightBlock bool `json:"fullbright_block,omitempty"`
	FullBrightWall  bool `json:"fullbright_wall,omitempty"`
}

func (t Tile) HasWall() bool   { return t.Wall != 0 }
func (t Tile) HasLiquid() bool { return t.LiquidAmount != 0 }

// Canonical returns t with every field that carries no meaning zeroed: an
// inactive tile has no type, frame or block paint, a tile without a wall has
// no wall paint, and a tile without liquid has no liquid kind. Two tiles that
// encode to the same bytes have equal canonical forms.
func (t Tile) Canonical(frameImportant bool) Tile {
	if !t.Active {
		t.Type, t.U, t.V, t.TileColor = 0, 0, 0, 0
	} else if !frameImportant {
		t.U, t.V = 0, 0
	}
	if t.Wall == 0 {
		t.WallColor = 0
	}
	if t.LiquidAmount == 0 {
		t.LiquidType = LiquidNone
	} else if t.LiquidType == LiquidNone {
		t.LiquidType = LiquidWater
	}
	return t
}
