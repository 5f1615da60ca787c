// Package archive keeps timestamped, compressed copies of a world file next
// to it, each with a JSON sidecar describing what was backed up.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wldkit.dev/internal/persistence/snapshot"
)

const (
	// DirName is the backups directory created beside the world file.
	DirName = "backups"

	worldExt  = ".wld"
	metaExt   = ".meta.json"
	stampForm = "20060102T150405.000000000Z"
)

var now = time.Now

// Meta is the sidecar written beside each backup.
type Meta struct {
	Source     string `json:"source"`
	Backup     string `json:"backup"`
	CreatedAt  string `json:"created_at"`
	Version    uint32 `json:"version,omitempty"`
	Generation string `json:"generation,omitempty"`
	Title      string `json:"title,omitempty"`
	WorldID    int32  `json:"world_id,omitempty"`
	Revision   uint32 `json:"revision,omitempty"`
	Bytes      int    `json:"bytes"`
}

// Backup is one entry in a backups directory.
type Backup struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
	Meta      *Meta     `json:"meta,omitempty"`
}

// Dir is the backups directory for the world file at path.
func Dir(path string) string { return filepath.Join(filepath.Dir(path), DirName) }

// BaseName strips directories and the world extensions from path.
func BaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, snapshot.Ext)
	return strings.TrimSuffix(name, worldExt)
}

// BackupFile compresses the current contents of src into dir as
// <name>.<UTC timestamp>.wld.zst and writes its sidecar. meta.Source,
// meta.Backup, meta.CreatedAt and meta.Bytes are filled in here.
func BackupFile(dir, src string, meta Meta) (string, error) {
	data, err := snapshot.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := BaseName(src)
	ts := now().UTC()
	dst := backupPath(dir, name, ts)
	for {
		if _, err := os.Stat(dst); errors.Is(err, os.ErrNotExist) {
			break
		}
		ts = ts.Add(time.Nanosecond)
		dst = backupPath(dir, name, ts)
	}

	if err := snapshot.WriteFile(dst, data); err != nil {
		return "", err
	}

	meta.Source = src
	meta.Backup = filepath.Base(dst)
	meta.CreatedAt = ts.Format(time.RFC3339Nano)
	meta.Bytes = len(data)
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(dst+metaExt, b, 0o644)
	}
	return dst, nil
}

func backupPath(dir, name string, ts time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s%s%s", name, ts.Format(stampForm), worldExt, snapshot.Ext))
}

// List returns the backups of name in dir, newest first. A missing directory
// is an empty list.
func List(dir, name string) ([]Backup, error) {
	ents, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefix := name + "."
	suffix := worldExt + snapshot.Ext
	var out []Backup
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		fn := e.Name()
		if !strings.HasPrefix(fn, prefix) || !strings.HasSuffix(fn, suffix) {
			continue
		}
		ts, err := time.Parse(stampForm, strings.TrimSuffix(strings.TrimPrefix(fn, prefix), suffix))
		if err != nil {
			continue
		}
		b := Backup{Path: filepath.Join(dir, fn), CreatedAt: ts}
		if info, err := e.Info(); err == nil {
			b.Size = info.Size()
		}
		if mb, err := os.ReadFile(b.Path + metaExt); err == nil {
			var m Meta
			if json.Unmarshal(mb, &m) == nil {
				b.Meta = &m
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Prune deletes all but the newest keep backups of name and returns the
// removed paths. keep <= 0 keeps everything.
func Prune(dir, name string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	list, err := List(dir, name)
	if err != nil {
		return nil, err
	}
	if len(list) <= keep {
		return nil, nil
	}
	var removed []string
	for _, b := range list[keep:] {
		if err := os.Remove(b.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		_ = os.Remove(b.Path + metaExt)
		removed = append(removed, b.Path)
	}
	return removed, nil
}
