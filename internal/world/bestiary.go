package world

import "sort"

// Bestiary tracks per-creature progress keyed by persistent creature id.
type Bestiary struct {
	Kills   map[string]int32 `json:"kills,omitempty"`
	Seen    map[string]bool  `json:"seen,omitempty"`
	Chatted map[string]bool  `json:"chatted,omitempty"`
}

func (b Bestiary) Empty() bool {
	return len(b.Kills) == 0 && len(b.Seen) == 0 && len(b.Chatted) == 0
}

// SortedKeys returns the keys of a bestiary set in byte order, which is the
// order they are written in.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type PowerID uint16

const (
	PowerFreezeTime      PowerID = 0
	PowerTimeRate        PowerID = 8
	PowerFreezeRain      PowerID = 9
	PowerFreezeWind      PowerID = 10
	PowerDifficulty      PowerID = 12
	PowerStopBiomeSpread PowerID = 13
)

// PowerIDs lists the persisted creative powers in wire order.
var PowerIDs = []PowerID{
	PowerFreezeTime,
	PowerTimeRate,
	PowerFreezeRain,
	PowerFreezeWind,
	PowerDifficulty,
	PowerStopBiomeSpread,
}

// IsFloat reports whether the power stores a float; the others store a bool.
func (p PowerID) IsFloat() bool { return p == PowerTimeRate || p == PowerDifficulty }

func (p PowerID) Known() bool {
	for _, id := range PowerIDs {
		if id == p {
			return true
		}
	}
	return false
}

// CreativePowers holds the world-scoped creative toggles. Bool powers are
// stored as 0 or 1.
type CreativePowers struct {
	Values map[PowerID]float32 `json:"values,omitempty"`
}

func (c *CreativePowers) Set(id PowerID, v float32) {
	if c.Values == nil {
		c.Values = map[PowerID]float32{}
	}
	c.Values[id] = v
}

func (c *CreativePowers) SetBool(id PowerID, on bool) {
	v := float32(0)
	if on {
		v = 1
	}
	c.Set(id, v)
}

func (c CreativePowers) Bool(id PowerID) bool { return c.Values[id] != 0 }
