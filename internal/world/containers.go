package world

// Chest slot counts. Files may declare more slots than MaxItems; the extra
// slots are read and dropped.
const (
	ChestMaxItems       = 40
	ChestLegacyMaxItems = 20
	ChestNameMaxLen     = 20
)

type Item struct {
	ID     int32 `json:"id"`
	Stack  int16 `json:"stack"`
	Prefix uint8 `json:"prefix,omitempty"`
}

func (it Item) Empty() bool { return it.Stack <= 0 || it.ID == 0 }

type Chest struct {
	X     int32  `json:"x"`
	Y     int32  `json:"y"`
	Name  string `json:"name,omitempty"`
	Items []Item `json:"items"`
}

// NewChest returns a chest with ChestMaxItems empty slots.
func NewChest(x, y int32) Chest {
	return Chest{X: x, Y: y, Items: make([]Item, ChestMaxItems)}
}

type Sign struct {
	X    int32  `json:"x"`
	Y    int32  `json:"y"`
	Text string `json:"text"`
}

type PressurePlate struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// TownRoom assigns a town NPC to its housing anchor.
type TownRoom struct {
	NPCID int32 `json:"npc_id"`
	X     int32 `json:"x"`
	Y     int32 `json:"y"`
}
