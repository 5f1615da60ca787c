package policy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

func TestDefault_LookupFallsBackToLowerEntry(t *testing.T) {
	p := Default()
	e, ok := p.Lookup(150)
	if !ok {
		t.Fatalf("expected version 150 known")
	}
	if e.Version != 146 {
		t.Fatalf("entry version=%d want 146", e.Version)
	}
	if e.MaxTile != 419 || e.MaxWall != 225 {
		t.Fatalf("ceilings=%d/%d want 419/225", e.MaxTile, e.MaxWall)
	}

	if _, ok := p.Lookup(p.Max() + 1); ok {
		t.Fatalf("expected version above max to be unknown")
	}
	if p.Known(p.Max() + 1) {
		t.Fatalf("Known(max+1)=true")
	}
	if !p.Known(p.Max()) {
		t.Fatalf("Known(max)=false")
	}
}

func TestDefault_FrameImportant(t *testing.T) {
	p := Default()
	cur, _ := p.Lookup(p.Max())
	if cur.FrameImportant(0) {
		t.Fatalf("dirt must not be frame-important")
	}
	for _, id := range []uint16{3, 4, 5, 21, 144, 423, 520} {
		if !cur.FrameImportant(id) {
			t.Fatalf("type %d should be frame-important", id)
		}
	}
	if cur.FrameImportant(cur.MaxTile + 1) {
		t.Fatalf("types above max_tile are never frame-important")
	}
	if got := len(cur.FrameBits()); got != int(cur.MaxTile)+1 {
		t.Fatalf("frame bits=%d want %d", got, cur.MaxTile+1)
	}

	// Torches gained frame data at version 28.
	old, _ := p.Lookup(20)
	if old.FrameImportant(4) {
		t.Fatalf("torch frame-important at version 20")
	}
	mid, _ := p.Lookup(28)
	if !mid.FrameImportant(4) {
		t.Fatalf("torch not frame-important at version 28")
	}

	// Filtering by max_tile narrows older tables.
	v102, _ := p.Lookup(102)
	if v102.FrameImportant(423) {
		t.Fatalf("type 423 above version 102 max_tile")
	}
}

func TestDefault_Console(t *testing.T) {
	p := Default()
	c := p.Console()
	if c.MaxTile != 250 || p.ConsoleMax() == 0 {
		t.Fatalf("console=%+v max=%d", c, p.ConsoleMax())
	}
	if !c.FrameImportant(144) || c.FrameImportant(83) {
		t.Fatalf("console frame table wrong")
	}
}

func TestLoad_OverlaysEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	body := `
versions:
  - version: 146
    max_tile: 420
    max_wall: 225
    max_item: 3602
    max_npc: 540
    max_moon: 2
  - version: 300
    max_tile: 700
    max_wall: 350
    max_item: 5500
    max_npc: 700
    max_moon: 8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Max() != 300 {
		t.Fatalf("max=%d want 300", p.Max())
	}
	e, _ := p.Lookup(146)
	if e.MaxTile != 420 {
		t.Fatalf("overridden max_tile=%d want 420", e.MaxTile)
	}
	// The global frame list still applies to overlay entries.
	e, _ = p.Lookup(300)
	if !e.FrameImportant(693) {
		t.Fatalf("type 693 should be frame-important at 300")
	}
	// Default is untouched by an overlay.
	if Default().Max() == 300 {
		t.Fatalf("default policy mutated")
	}
}

func TestLoad_RejectsShrinkingCeilings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	body := `
versions:
  - version: 400
    max_tile: 10
    max_wall: 10
    max_item: 10
    max_npc: 10
    max_moon: 0
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for shrinking ceilings")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestVersionsYAML_MatchesSchema(t *testing.T) {
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "versions.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var raw any
	if err := yaml.Unmarshal(defaultTable, &raw); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("json: %v", err)
	}
	if err := s.Validate(doc); err != nil {
		t.Fatalf("validate: %v", err)
	}
}
