package ancillary

import (
	"fmt"

	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

func readCount(r *wire.Reader, what string) (int, error) {
	n := int(r.I32())
	if err := r.Err(); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: %w", what, ErrNegativeCount)
	}
	return n, nil
}

func WritePressurePlates(w *wire.Writer, plates []world.PressurePlate) {
	w.I32(int32(len(plates)))
	for _, p := range plates {
		w.I32(p.X)
		w.I32(p.Y)
	}
}

func ReadPressurePlates(r *wire.Reader) ([]world.PressurePlate, error) {
	n, err := readCount(r, "pressure plates")
	if err != nil {
		return nil, err
	}
	out := make([]world.PressurePlate, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		out = append(out, world.PressurePlate{X: r.I32(), Y: r.I32()})
	}
	return out, r.Err()
}

func WriteTownRooms(w *wire.Writer, rooms []world.TownRoom) {
	w.I32(int32(len(rooms)))
	for _, tr := range rooms {
		w.I32(tr.NPCID)
		w.I32(tr.X)
		w.I32(tr.Y)
	}
}

func ReadTownRooms(r *wire.Reader) ([]world.TownRoom, error) {
	n, err := readCount(r, "town rooms")
	if err != nil {
		return nil, err
	}
	out := make([]world.TownRoom, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		out = append(out, world.TownRoom{NPCID: r.I32(), X: r.I32(), Y: r.I32()})
	}
	return out, r.Err()
}

// WriteBestiary writes kills, then seen, then chatted, each in key order so
// output is deterministic.
func WriteBestiary(w *wire.Writer, b world.Bestiary) {
	w.I32(int32(len(b.Kills)))
	for _, k := range world.SortedKeys(b.Kills) {
		w.String(k)
		w.I32(b.Kills[k])
	}
	writeSet := func(m map[string]bool) {
		keys := make([]string, 0, len(m))
		for _, k := range world.SortedKeys(m) {
			if m[k] {
				keys = append(keys, k)
			}
		}
		w.I32(int32(len(keys)))
		for _, k := range keys {
			w.String(k)
		}
	}
	writeSet(b.Seen)
	writeSet(b.Chatted)
}

func ReadBestiary(r *wire.Reader) (world.Bestiary, error) {
	var b world.Bestiary
	n, err := readCount(r, "bestiary kills")
	if err != nil {
		return b, err
	}
	if n > 0 {
		b.Kills = make(map[string]int32, n)
	}
	for i := 0; i < n && r.Err() == nil; i++ {
		k := r.String()
		b.Kills[k] = r.I32()
	}
	readSet := func(what string) (map[string]bool, error) {
		n, err := readCount(r, what)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, nil
		}
		m := make(map[string]bool, n)
		for i := 0; i < n && r.Err() == nil; i++ {
			m[r.String()] = true
		}
		return m, r.Err()
	}
	if b.Seen, err = readSet("bestiary seen"); err != nil {
		return b, err
	}
	if b.Chatted, err = readSet("bestiary chatted"); err != nil {
		return b, err
	}
	return b, r.Err()
}

// WriteCreativePowers writes each set power as a true-prefixed (id, value)
// record and terminates the list with false.
func WriteCreativePowers(w *wire.Writer, cp world.CreativePowers) {
	for _, id := range world.PowerIDs {
		v, ok := cp.Values[id]
		if !ok {
			continue
		}
		w.Bool(true)
		w.U16(uint16(id))
		if id.IsFloat() {
			w.F32(v)
		} else {
			w.Bool(v != 0)
		}
	}
	w.Bool(false)
}

func ReadCreativePowers(r *wire.Reader) (world.CreativePowers, error) {
	var cp world.CreativePowers
	for r.Bool() {
		id := world.PowerID(r.U16())
		if err := r.Err(); err != nil {
			return cp, err
		}
		if !id.Known() {
			return cp, fmt.Errorf("%w %d", ErrUnknownPower, id)
		}
		if id.IsFloat() {
			cp.Set(id, r.F32())
		} else {
			cp.SetBool(id, r.Bool())
		}
	}
	return cp, r.Err()
}
