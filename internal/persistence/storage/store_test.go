package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"wldkit.dev/internal/format"
	"wldkit.dev/internal/persistence/indexdb"
	"wldkit.dev/internal/persistence/oplog"
	"wldkit.dev/internal/persistence/snapshot"
	"wldkit.dev/internal/world"
)

func testWorld(version uint32) *world.World {
	wd := world.NewWorld(4, 8)
	wd.Version = version
	wd.Meta.Generation = format.TargetGeneration(version, false)
	wd.Header.Title = "Store"
	wd.Header.WorldID = 77
	for y := 4; y < 8; y++ {
		for x := 0; x < 4; x++ {
			wd.SetTile(x, y, world.Tile{Active: true})
		}
	}
	wd.Signs = []world.Sign{{X: 1, Y: 1, Text: "keep out"}}
	return wd
}

type recorder struct {
	saves, loads, restores []indexdb.Event
}

func (r *recorder) RecordSave(ev indexdb.Event)    { r.saves = append(r.saves, ev) }
func (r *recorder) RecordLoad(ev indexdb.Event)    { r.loads = append(r.loads, ev) }
func (r *recorder) RecordRestore(ev indexdb.Event) { r.restores = append(r.restores, ev) }

func newStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	s := newStore(t, Options{Index: rec})
	path := filepath.Join(dir, "worlds", "a.wld")

	wd := testWorld(279)
	res, err := s.Save(path, wd, SaveOptions{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Version != 279 || res.Generation != world.GenV2 || res.Backup != "" {
		t.Fatalf("result=%+v", res)
	}
	if wd.Meta.Revision != 1 {
		t.Fatalf("revision=%d want 1", wd.Meta.Revision)
	}

	got, err := s.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Header.Title != "Store" || got.Header.WorldID != 77 || got.Meta.Revision != 1 {
		t.Fatalf("loaded header=%+v meta=%+v", got.Header, got.Meta)
	}
	if !got.Tile(2, 6).Active || got.Tile(2, 1).Active {
		t.Fatalf("tiles not preserved")
	}
	if len(got.Signs) != 1 || got.Signs[0].Text != "keep out" {
		t.Fatalf("signs=%+v", got.Signs)
	}
	if len(rec.saves) != 1 || len(rec.loads) != 1 || rec.loads[0].Title != "Store" {
		t.Fatalf("recorder saves=%d loads=%d", len(rec.saves), len(rec.loads))
	}

	// No temp files are left behind.
	ents, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range ents {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left: %s", e.Name())
		}
	}
}

func TestSaveBacksUpAndPrunes(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, Options{Backups: true, Keep: 2})
	path := filepath.Join(dir, "a.wld")

	wd := testWorld(279)
	for i := 0; i < 4; i++ {
		wd.Header.Title = "Rev" + string(rune('A'+i))
		res, err := s.Save(path, wd, SaveOptions{})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if i == 0 {
			if res.Backup != "" {
				t.Fatalf("first save made a backup: %s", res.Backup)
			}
			continue
		}
		if res.Backup == "" {
			t.Fatalf("save %d made no backup", i)
		}
	}

	list, err := s.Backups(path)
	if err != nil {
		t.Fatalf("backups: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("backups=%d want 2", len(list))
	}
	// Newest backup holds the third save.
	if list[0].Meta == nil || list[0].Meta.Title != "RevC" {
		t.Fatalf("newest backup meta=%+v", list[0].Meta)
	}

	// Restoring the oldest retained backup brings back the second save.
	res, err := s.Restore(list[1].Path, path)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if res.Backup == "" {
		t.Fatalf("restore did not back up the current file")
	}
	got, err := s.Load(path)
	if err != nil {
		t.Fatalf("load restored: %v", err)
	}
	if got.Header.Title != "RevB" {
		t.Fatalf("restored title=%q want RevB", got.Header.Title)
	}
}

func TestSaveCompressedAndConvert(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, Options{})
	path := filepath.Join(dir, "a.wld"+snapshot.Ext)

	if _, err := s.Save(path, testWorld(279), SaveOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !snapshot.IsCompressed(raw) {
		t.Fatalf("expected compressed file")
	}

	wd, err := s.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	plain := filepath.Join(dir, "a71.wld")
	res, err := s.Save(plain, wd, SaveOptions{Version: 71})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if res.Generation != world.GenV1 || res.Version != 71 {
		t.Fatalf("convert result=%+v", res)
	}
	old, err := s.Load(plain)
	if err != nil {
		t.Fatalf("load converted: %v", err)
	}
	if old.Meta.Generation != world.GenV1 || old.Header.Title != "Store" {
		t.Fatalf("converted meta=%+v title=%q", old.Meta, old.Header.Title)
	}
}

func TestSaveKeepsConsoleLayout(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, Options{})
	path := filepath.Join(dir, "c.wld")

	wd := testWorld(0)
	if _, err := s.Save(path, wd, SaveOptions{Version: 70, Console: true}); err != nil {
		t.Fatalf("save console: %v", err)
	}
	got, err := s.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Meta.Generation != world.GenConsole {
		t.Fatalf("generation=%s want console", got.Meta.Generation)
	}
	res, err := s.Save(path, got, SaveOptions{})
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if res.Generation != world.GenConsole || res.Version != 70 {
		t.Fatalf("resave result=%+v", res)
	}
}

func TestInspectCaches(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, Options{})
	path := filepath.Join(dir, "a.wld")
	if _, err := s.Save(path, testWorld(279), SaveOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	sum, err := s.Inspect(path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if sum.Version != 279 || sum.Generation != "v2" || sum.Width != 4 || sum.Height != 8 || sum.Signs != 1 {
		t.Fatalf("summary=%+v", sum)
	}
	if len(sum.Sections) == 0 || sum.Sections[0].Name == "" {
		t.Fatalf("expected section spans")
	}
	again, err := s.Inspect(path)
	if err != nil {
		t.Fatalf("inspect again: %v", err)
	}
	if again != sum {
		t.Fatalf("second inspect was not served from cache")
	}

	wd := testWorld(279)
	wd.Header.Title = "Renamed world"
	if _, err := s.Save(path, wd, SaveOptions{}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	fresh, err := s.Inspect(path)
	if err != nil {
		t.Fatalf("inspect after save: %v", err)
	}
	if fresh.Title != "Renamed world" {
		t.Fatalf("stale summary title=%q", fresh.Title)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	log := oplog.Open(filepath.Join(dir, "ops"))
	s := newStore(t, Options{OpLog: log})
	path := filepath.Join(dir, "a.wld")
	if _, err := s.Save(path, testWorld(194), SaveOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, _ := os.ReadFile(path)
	b[len(b)-5] ^= 0xff
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	wd, err := s.Load(path)
	if wd != nil || err == nil {
		t.Fatalf("expected error, got world=%v", wd != nil)
	}
	if !errors.Is(err, format.ErrFormat) {
		t.Fatalf("err=%v want format error", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	ents, err := oplog.ReadAll(filepath.Join(dir, "ops"), path)
	if err != nil {
		t.Fatalf("read ops: %v", err)
	}
	if len(ents) != 2 || ents[0].Op != oplog.OpSave || ents[1].Op != oplog.OpLoad || ents[1].Err == "" {
		t.Fatalf("ops=%+v", ents)
	}
}

func TestRestoreRejectsBadBackup(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, Options{Backups: true})
	bad := filepath.Join(dir, "bad.wld.zst")
	if err := snapshot.WriteFile(bad, []byte("not a world")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Restore(bad, filepath.Join(dir, "a.wld")); err == nil {
		t.Fatalf("expected restore error")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.wld")); !os.IsNotExist(err) {
		t.Fatalf("restore wrote the target: %v", err)
	}
}

func TestStoreWithSQLiteIndex(t *testing.T) {
	dir := t.TempDir()
	idx, err := indexdb.OpenSQLite(filepath.Join(dir, "index.sqlite"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer idx.Close()
	s := newStore(t, Options{Index: idx})
	path := filepath.Join(dir, "a.wld")
	if _, err := s.Save(path, testWorld(230), SaveOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()
	if err := idx.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	evs, err := idx.Recent(ctx, path, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(evs) != 2 || evs[0].Kind != indexdb.KindLoad || evs[1].Kind != indexdb.KindSave || evs[1].Version != 230 {
		t.Fatalf("events=%+v", evs)
	}
}

func TestStoresShareOneLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.wld")
	a := newStore(t, Options{})
	b := newStore(t, Options{})
	if _, err := a.Save(path, testWorld(279), SaveOptions{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ioMu.Lock()
	done := make(chan error, 1)
	go func() {
		_, err := b.Load(path)
		done <- err
	}()
	select {
	case err := <-done:
		ioMu.Unlock()
		t.Fatalf("load ran while the lock was held (err=%v)", err)
	case <-time.After(50 * time.Millisecond):
	}
	ioMu.Unlock()
	if err := <-done; err != nil {
		t.Fatalf("load: %v", err)
	}

	var wg sync.WaitGroup
	for _, s := range []*Store{a, b, a, b} {
		wg.Add(1)
		go func(s *Store) {
			defer wg.Done()
			if _, err := s.Save(path, testWorld(279), SaveOptions{}); err != nil {
				t.Errorf("save: %v", err)
			}
		}(s)
	}
	wg.Wait()
	if _, err := a.Load(path); err != nil {
		t.Fatalf("load after concurrent saves: %v", err)
	}
}
