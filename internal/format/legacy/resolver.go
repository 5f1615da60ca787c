// Package legacy resolves the display names that old saves store in place of
// numeric item and NPC ids.
package legacy

// FallbackID is what an unknown name resolves to. Id 0 is the empty item, so
// a slot holding an unknown name loads as empty.
const FallbackID int32 = 0

// Resolver is a read-only name<->id table and safe for concurrent use.
type Resolver struct {
	itemByName map[string]int32
	itemByID   map[int32]string
	npcByName  map[string]int32
	npcByID    map[int32]string
}

func NewResolver() *Resolver {
	r := &Resolver{
		itemByName: make(map[string]int32, len(classicItems)),
		itemByID:   make(map[int32]string, len(classicItems)),
		npcByName:  make(map[string]int32, len(townNPCs)+len(roamingNPCs)),
		npcByID:    make(map[int32]string, len(townNPCs)+len(roamingNPCs)),
	}
	for _, it := range classicItems {
		r.itemByName[it.Name] = it.ID
		r.itemByID[it.ID] = it.Name
	}
	for _, n := range townNPCs {
		r.npcByName[n.Name] = n.ID
		r.npcByID[n.ID] = n.Name
	}
	for _, n := range roamingNPCs {
		r.npcByName[n.Name] = n.ID
		r.npcByID[n.ID] = n.Name
	}
	return r
}

// CurrentName maps a name as written by a file of the given version to the
// name used today.
func CurrentName(name string, version uint32) string {
	for _, rn := range renames {
		if version <= rn.MaxVersion && name == rn.Old {
			name = rn.New
		}
	}
	return name
}

// VersionName maps a current name to the one a file of the given version
// expects. It walks the renames newest first so chained renames unwind.
func VersionName(name string, version uint32) string {
	for i := len(renames) - 1; i >= 0; i-- {
		rn := renames[i]
		if version <= rn.MaxVersion && name == rn.New {
			name = rn.Old
		}
	}
	return name
}

// ItemID resolves a name read from a file of the given version. The empty
// name and unknown names give FallbackID.
func (r *Resolver) ItemID(name string, version uint32) int32 {
	if name == "" {
		return FallbackID
	}
	if id, ok := r.itemByName[CurrentName(name, version)]; ok {
		return id
	}
	return FallbackID
}

// ItemName gives the name to write for id in a file of the given version, or
// "" when the id has no classic name.
func (r *Resolver) ItemName(id int32, version uint32) string {
	name, ok := r.itemByID[id]
	if !ok {
		return ""
	}
	return VersionName(name, version)
}

// KnownItem reports whether id can be written by name.
func (r *Resolver) KnownItem(id int32) bool {
	_, ok := r.itemByID[id]
	return ok
}

// NPCID resolves a town NPC or mob type name; unknown names give FallbackID.
func (r *Resolver) NPCID(name string) int32 {
	if id, ok := r.npcByName[name]; ok {
		return id
	}
	return FallbackID
}

// NPCName gives the type name for a town NPC or mob sprite id, "" when
// unknown.
func (r *Resolver) NPCName(id int32) string { return r.npcByID[id] }
