package oplog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendReadAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ops")
	l := Open(dir)
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	l.w.clock = func() time.Time { return at }

	if err := l.Append(Entry{Op: OpSave, Path: "/w/a.wld", Version: 279, Bytes: 100}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(Entry{Op: OpLoad, Path: "/w/b.wld", Version: 71}); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Next hour rotates into a new file.
	at = at.Add(time.Hour)
	if err := l.Append(Entry{Op: OpRestore, Path: "/w/a.wld", Backup: "a.x.wld.zst"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("files=%d want 2", len(ents))
	}
	if ents[0].Name() != "ops-2024-05-01-12.jsonl.zst" {
		t.Fatalf("file=%s", ents[0].Name())
	}

	all, err := ReadAll(dir, "")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries=%d want 3", len(all))
	}
	if all[0].Op != OpSave || all[0].Version != 279 || !all[0].At.Equal(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)) {
		t.Fatalf("first=%+v", all[0])
	}
	if all[2].Op != OpRestore {
		t.Fatalf("last op=%s want %s", all[2].Op, OpRestore)
	}

	only, err := ReadAll(dir, "/w/a.wld")
	if err != nil {
		t.Fatalf("read filtered: %v", err)
	}
	if len(only) != 2 {
		t.Fatalf("filtered=%d want 2", len(only))
	}
}

func TestAppendAfterReopen(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		l := Open(dir)
		l.w.clock = func() time.Time { return at }
		if err := l.Append(Entry{Op: OpSave, Path: "p", Revision: uint32(i + 1)}); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	all, err := ReadAll(dir, "")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(all) != 2 || all[1].Revision != 2 {
		t.Fatalf("entries=%+v", all)
	}
}

func TestReadAllMissingDir(t *testing.T) {
	all, err := ReadAll(filepath.Join(t.TempDir(), "none"), "")
	if err != nil || len(all) != 0 {
		t.Fatalf("entries=%v err=%v", all, err)
	}
}

func TestNilLog(t *testing.T) {
	var l *Log
	if err := l.Append(Entry{Op: OpSave}); err != nil {
		t.Fatalf("append on nil: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close on nil: %v", err)
	}
}
