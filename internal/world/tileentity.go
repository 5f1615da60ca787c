package world

type TileEntityKind uint8

const (
	TETrainingDummy TileEntityKind = iota
	TEItemFrame
	TELogicSensor
	TEDisplayDoll
	TEWeaponRack
	TEHatRack
	TEFoodPlatter
	TETeleportationPylon
)

func (k TileEntityKind) String() string {
	switch k {
	case TETrainingDummy:
		return "training_dummy"
	case TEItemFrame:
		return "item_frame"
	case TELogicSensor:
		return "logic_sensor"
	case TEDisplayDoll:
		return "display_doll"
	case TEWeaponRack:
		return "weapon_rack"
	case TEHatRack:
		return "hat_rack"
	case TEFoodPlatter:
		return "food_platter"
	case TETeleportationPylon:
		return "teleportation_pylon"
	}
	return "unknown"
}

// Slot counts of the multi-slot kinds; each slot has an item and a dye.
const (
	DisplayDollSlots = 8
	HatRackSlots     = 2
)

// TileEntity is anchored to a tile and carries a kind-specific payload:
//
//	TETrainingDummy       *DummyPayload
//	TEItemFrame           *ItemPayload
//	TELogicSensor         *SensorPayload
//	TEDisplayDoll         *SlotsPayload (8 items, 8 dyes)
//	TEWeaponRack          *ItemPayload
//	TEHatRack             *SlotsPayload (2 items, 2 dyes)
//	TEFoodPlatter         *ItemPayload
//	TETeleportationPylon  nil
type TileEntity struct {
	Kind    TileEntityKind `json:"kind"`
	ID      int32          `json:"id"`
	X       int16          `json:"x"`
	Y       int16          `json:"y"`
	Payload any            `json:"payload,omitempty"`
}

type DummyPayload struct {
	NPC int16 `json:"npc"`
}

type ItemPayload struct {
	Item Item `json:"item"`
}

type SensorPayload struct {
	LogicCheck uint8 `json:"logic_check"`
	On         bool  `json:"on"`
}

type SlotsPayload struct {
	Items []Item `json:"items"`
	Dyes  []Item `json:"dyes"`
}

// NewTileEntity returns an entity of kind with an empty payload of the right
// shape.
func NewTileEntity(kind TileEntityKind, id int32, x, y int16) TileEntity {
	te := TileEntity{Kind: kind, ID: id, X: x, Y: y}
	switch kind {
	case TETrainingDummy:
		te.Payload = &DummyPayload{NPC: -1}
	case TEItemFrame, TEWeaponRack, TEFoodPlatter:
		te.Payload = &ItemPayload{}
	case TELogicSensor:
		te.Payload = &SensorPayload{}
	case TEDisplayDoll:
		te.Payload = &SlotsPayload{Items: make([]Item, DisplayDollSlots), Dyes: make([]Item, DisplayDollSlots)}
	case TEHatRack:
		te.Payload = &SlotsPayload{Items: make([]Item, HatRackSlots), Dyes: make([]Item, HatRackSlots)}
	}
	return te
}

// SlotCount is the number of item/dye pairs for the multi-slot kinds, 0 for
// the rest.
func (k TileEntityKind) SlotCount() int {
	switch k {
	case TEDisplayDoll:
		return DisplayDollSlots
	case TEHatRack:
		return HatRackSlots
	}
	return 0
}
