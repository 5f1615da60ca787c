// Package policy holds the per-version id ceilings and frame-important tile
// tables that gate every version-dependent field of the world codec.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed versions.yaml
var defaultTable []byte

// Table is the YAML shape of versions.yaml and of user override files.
type Table struct {
	FrameImportant []uint16     `yaml:"frame_important"`
	Versions       []TableEntry `yaml:"versions"`
	Console        *ConsoleSpec `yaml:"console,omitempty"`
}

type TableEntry struct {
	Version     uint32   `yaml:"version"`
	MaxTile     uint16   `yaml:"max_tile"`
	MaxWall     uint16   `yaml:"max_wall"`
	MaxItem     int32    `yaml:"max_item"`
	MaxNPC      int32    `yaml:"max_npc"`
	MaxMoon     uint8    `yaml:"max_moon"`
	FrameExempt []uint16 `yaml:"frame_exempt,omitempty"`
}

type ConsoleSpec struct {
	MaxVersion     uint32   `yaml:"max_version"`
	MaxTile        uint16   `yaml:"max_tile"`
	MaxWall        uint16   `yaml:"max_wall"`
	MaxItem        int32    `yaml:"max_item"`
	MaxNPC         int32    `yaml:"max_npc"`
	MaxMoon        uint8    `yaml:"max_moon"`
	FrameImportant []uint16 `yaml:"frame_important"`
}

// Entry is the resolved policy for one version range.
type Entry struct {
	Version uint32
	MaxTile uint16
	MaxWall uint16
	MaxItem int32
	MaxNPC  int32
	MaxMoon uint8

	frame []bool // indexed by tile type, len MaxTile+1
}

// FrameImportant reports whether tiles of type t store U/V frame data.
func (e *Entry) FrameImportant(t uint16) bool {
	return int(t) < len(e.frame) && e.frame[t]
}

// FrameBits returns a copy of the frame-important vector, one flag per tile
// type from 0 through MaxTile.
func (e *Entry) FrameBits() []bool {
	out := make([]bool, len(e.frame))
	copy(out, e.frame)
	return out
}

// Policy is immutable once built and safe for concurrent use.
type Policy struct {
	entries    []Entry // sorted by Version
	console    Entry
	consoleMax uint32
}

// Default builds the policy from the embedded version table.
func Default() *Policy {
	t, err := parseTable(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded versions.yaml: %v", err))
	}
	p, err := t.Build()
	if err != nil {
		panic(fmt.Sprintf("policy: embedded versions.yaml: %v", err))
	}
	return p
}

// DefaultTable returns the embedded table before it is resolved.
func DefaultTable() Table {
	t, _ := parseTable(defaultTable)
	return t
}

// Load overlays the table at path on top of the embedded one: entries with a
// known version replace it, new versions are added, and a non-empty
// frame_important or console block replaces the default. An empty path
// returns the default policy.
func Load(path string) (*Policy, error) {
	t := DefaultTable()
	if strings.TrimSpace(path) == "" {
		return t.Build()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	over, err := parseTable(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.merge(over)
	p, err := t.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func parseTable(b []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, err
	}
	return t, nil
}

func (t *Table) merge(over Table) {
	if len(over.FrameImportant) > 0 {
		t.FrameImportant = over.FrameImportant
	}
	if over.Console != nil {
		t.Console = over.Console
	}
	byVersion := make(map[uint32]int, len(t.Versions))
	for i, e := range t.Versions {
		byVersion[e.Version] = i
	}
	for _, e := range over.Versions {
		if i, ok := byVersion[e.Version]; ok {
			t.Versions[i] = e
			continue
		}
		t.Versions = append(t.Versions, e)
	}
}

// Normalize sorts entries by version and dedupes id lists.
func (t *Table) Normalize() {
	sort.Slice(t.Versions, func(i, j int) bool { return t.Versions[i].Version < t.Versions[j].Version })
	t.FrameImportant = dedupe(t.FrameImportant)
	for i := range t.Versions {
		t.Versions[i].FrameExempt = dedupe(t.Versions[i].FrameExempt)
	}
	if t.Console != nil {
		t.Console.FrameImportant = dedupe(t.Console.FrameImportant)
	}
}

func (t *Table) Validate() error {
	if len(t.Versions) == 0 {
		return fmt.Errorf("no versions")
	}
	for i, e := range t.Versions {
		if i > 0 && e.Version == t.Versions[i-1].Version {
			return fmt.Errorf("duplicate version %d", e.Version)
		}
		if e.MaxTile == 0 || e.MaxWall == 0 {
			return fmt.Errorf("version %d: max_tile and max_wall must be > 0", e.Version)
		}
		if e.MaxItem <= 0 || e.MaxNPC <= 0 {
			return fmt.Errorf("version %d: max_item and max_npc must be > 0", e.Version)
		}
		if i > 0 {
			prev := t.Versions[i-1]
			if e.MaxTile < prev.MaxTile || e.MaxWall < prev.MaxWall || e.MaxItem < prev.MaxItem || e.MaxNPC < prev.MaxNPC {
				return fmt.Errorf("version %d: ceilings shrink below version %d", e.Version, prev.Version)
			}
		}
	}
	if t.Console == nil {
		return fmt.Errorf("missing console block")
	}
	if t.Console.MaxVersion == 0 || t.Console.MaxTile == 0 {
		return fmt.Errorf("console: max_version and max_tile must be > 0")
	}
	return nil
}

// Build normalizes and validates t and resolves it into a Policy.
func (t Table) Build() (*Policy, error) {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	p := &Policy{entries: make([]Entry, 0, len(t.Versions))}
	for _, te := range t.Versions {
		e := Entry{
			Version: te.Version,
			MaxTile: te.MaxTile,
			MaxWall: te.MaxWall,
			MaxItem: te.MaxItem,
			MaxNPC:  te.MaxNPC,
			MaxMoon: te.MaxMoon,
			frame:   frameVector(te.MaxTile, t.FrameImportant),
		}
		for _, id := range te.FrameExempt {
			if int(id) < len(e.frame) {
				e.frame[id] = false
			}
		}
		p.entries = append(p.entries, e)
	}
	c := t.Console
	p.consoleMax = c.MaxVersion
	p.console = Entry{
		Version: c.MaxVersion,
		MaxTile: c.MaxTile,
		MaxWall: c.MaxWall,
		MaxItem: c.MaxItem,
		MaxNPC:  c.MaxNPC,
		MaxMoon: c.MaxMoon,
		frame:   frameVector(c.MaxTile, c.FrameImportant),
	}
	return p, nil
}

func frameVector(maxTile uint16, ids []uint16) []bool {
	v := make([]bool, int(maxTile)+1)
	for _, id := range ids {
		if id <= maxTile {
			v[id] = true
		}
	}
	return v
}

func dedupe(ids []uint16) []uint16 {
	if len(ids) == 0 {
		return ids
	}
	out := append([]uint16(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// Lookup returns the entry governing version: the one with the highest
// Version not above it, or the first entry for older versions. ok is false
// when version is above Max; the last entry is still returned so callers can
// report its ceilings.
func (p *Policy) Lookup(version uint32) (*Entry, bool) {
	i := sort.Search(len(p.entries), func(i int) bool { return p.entries[i].Version > version })
	if i == 0 {
		return &p.entries[0], true
	}
	return &p.entries[i-1], version <= p.Max()
}

// Known reports whether version is within the table's range. Versions below
// the first entry resolve to it, so only versions above Max are unknown.
func (p *Policy) Known(version uint32) bool { return version <= p.Max() }

// Max is the newest version the table describes.
func (p *Policy) Max() uint32 { return p.entries[len(p.entries)-1].Version }

// Console returns the console frame table and ceilings.
func (p *Policy) Console() *Entry { return &p.console }

// ConsoleMax is the newest console version the table describes.
func (p *Policy) ConsoleMax() uint32 { return p.consoleMax }

// Versions lists the entry versions in ascending order.
func (p *Policy) Versions() []uint32 {
	out := make([]uint32, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Version
	}
	return out
}
