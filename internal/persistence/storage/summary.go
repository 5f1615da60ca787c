package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"wldkit.dev/internal/format"
	"wldkit.dev/internal/persistence/snapshot"
	"wldkit.dev/internal/world"
)

// Summary is what Inspect reports about a world file.
type Summary struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	Compressed bool   `json:"compressed,omitempty"`

	Version    uint32 `json:"version"`
	Generation string `json:"generation"`
	Title      string `json:"title"`
	WorldID    int32  `json:"world_id"`
	Revision   uint32 `json:"revision,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	GameMode   int32  `json:"game_mode"`

	Chests       int  `json:"chests"`
	Signs        int  `json:"signs"`
	NPCs         int  `json:"npcs"`
	TileEntities int  `json:"tile_entities"`
	Partial      bool `json:"partial,omitempty"`

	Sections []format.Span `json:"sections,omitempty"`
}

// Inspect decodes path and summarizes it. Results are cached by path, size
// and modification time, so a rewritten file is always decoded again.
func (s *Store) Inspect(path string) (*Summary, error) {
	ioMu.Lock()
	defer ioMu.Unlock()
	return s.inspectLocked(path)
}

func (s *Store) inspectLocked(path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey(path, info)
	if sum, ok := s.cache.Get(key); ok {
		return sum, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := snapshot.Decompress(raw)
	if err != nil {
		return nil, err
	}
	wd, err := format.Decode(data, s.opts.Format)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", path, err)
	}

	sum := summarize(wd)
	sum.Path = path
	sum.Size = info.Size()
	sum.Compressed = snapshot.IsCompressed(raw)
	if wd.Meta.Generation == world.GenV2 {
		if spans, err := format.DeriveSections(data); err == nil {
			sum.Sections = spans
		}
	}

	s.cache.Set(key, sum, 1)
	s.cache.Wait()
	return sum, nil
}

func summarize(wd *world.World) *Summary {
	return &Summary{
		Version:      wd.Version,
		Generation:   wd.Meta.Generation.String(),
		Title:        wd.Header.Title,
		WorldID:      wd.Header.WorldID,
		Revision:     wd.Meta.Revision,
		Width:        wd.Width,
		Height:       wd.Height,
		GameMode:     wd.Header.GameMode,
		Chests:       len(wd.Chests),
		Signs:        len(wd.Signs),
		NPCs:         len(wd.NPCs),
		TileEntities: len(wd.TileEntities),
		Partial:      wd.Partial,
	}
}

func cacheKey(path string, info os.FileInfo) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}
