package world

type Vec2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// NPC is a town NPC record. Older files identify it by Name, newer ones by
// SpriteID; decoders fill both when the legacy table knows the pair.
type NPC struct {
	SpriteID    int32  `json:"sprite_id"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name"`
	Position    Vec2   `json:"position"`
	Homeless    bool   `json:"homeless"`
	Home        Point  `json:"home"`

	HasVariation  bool  `json:"has_variation,omitempty"`
	TownVariation int32 `json:"town_variation,omitempty"`
}

// Mob is a wandering non-town NPC that persists across saves.
type Mob struct {
	SpriteID int32  `json:"sprite_id"`
	Name     string `json:"name,omitempty"`
	Position Vec2   `json:"position"`
}
