package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wldkit.dev/internal/persistence/snapshot"
)

func fixedClock(t *testing.T, start time.Time) {
	t.Helper()
	cur := start
	now = func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
	t.Cleanup(func() { now = time.Now })
}

func TestBackupFile_WritesCompressedCopyAndMeta(t *testing.T) {
	fixedClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	dir := t.TempDir()
	src := filepath.Join(dir, "world1.wld")
	want := []byte("dummy world bytes")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	dst, err := BackupFile(Dir(src), src, Meta{Version: 279, Title: "w"})
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if filepath.Dir(dst) != filepath.Join(dir, DirName) {
		t.Fatalf("backup dir=%s", filepath.Dir(dst))
	}
	if base := filepath.Base(dst); base != "world1.20240501T120001.000000000Z.wld.zst" {
		t.Fatalf("backup name=%s", base)
	}

	got, err := snapshot.ReadFile(dst)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("backup content mismatch: got=%q want=%q", got, want)
	}

	list, err := List(Dir(src), BaseName(src))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("backups=%d want 1", len(list))
	}
	m := list[0].Meta
	if m == nil {
		t.Fatalf("expected meta sidecar")
	}
	if m.Version != 279 || m.Bytes != len(want) || m.Source != src || m.Title != "w" {
		t.Fatalf("meta=%+v", *m)
	}
}

func TestListAndPrune(t *testing.T) {
	fixedClock(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	dir := t.TempDir()
	src := filepath.Join(dir, "a.wld")
	bdir := Dir(src)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(src, []byte{byte(i)}, 0o644); err != nil {
			t.Fatalf("write src: %v", err)
		}
		if _, err := BackupFile(bdir, src, Meta{}); err != nil {
			t.Fatalf("backup %d: %v", i, err)
		}
	}
	// Another world's backups in the same directory are left alone.
	other := filepath.Join(dir, "ab.wld")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if _, err := BackupFile(bdir, other, Meta{}); err != nil {
		t.Fatalf("backup other: %v", err)
	}

	list, err := List(bdir, "a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("backups=%d want 5", len(list))
	}
	for i := 1; i < len(list); i++ {
		if !list[i-1].CreatedAt.After(list[i].CreatedAt) {
			t.Fatalf("list not newest first at %d", i)
		}
	}

	removed, err := Prune(bdir, "a", 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("removed=%d want 3", len(removed))
	}
	for _, p := range removed {
		if _, err := os.Stat(p + metaExt); !os.IsNotExist(err) {
			t.Fatalf("sidecar of %s still present", p)
		}
	}

	list, _ = List(bdir, "a")
	if len(list) != 2 {
		t.Fatalf("after prune backups=%d want 2", len(list))
	}
	got, err := snapshot.ReadFile(list[0].Path)
	if err != nil {
		t.Fatalf("read newest: %v", err)
	}
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("newest backup=% x want 04", got)
	}

	rest, _ := List(bdir, "ab")
	if len(rest) != 1 {
		t.Fatalf("other world backups=%d want 1", len(rest))
	}
}

func TestListMissingDir(t *testing.T) {
	list, err := List(filepath.Join(t.TempDir(), "nope"), "a")
	if err != nil || len(list) != 0 {
		t.Fatalf("list=%v err=%v", list, err)
	}
}

func TestBaseName(t *testing.T) {
	for in, want := range map[string]string{
		"/x/y/world.wld":   "world",
		"world.wld.zst":    "world",
		"/x/plain":         "plain",
		"dots.in.name.wld": "dots.in.name",
	} {
		if got := BaseName(in); got != want {
			t.Fatalf("BaseName(%q)=%q want %q", in, got, want)
		}
	}
	if !strings.HasSuffix(backupPath("d", "n", time.Unix(0, 0)), ".wld.zst") {
		t.Fatalf("backup path missing extension")
	}
}
