// Package storage loads and saves world files on disk. Saves are atomic
// (temp file, fsync, rename) and the file being replaced is first copied
// into the backups directory.
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"

	"wldkit.dev/internal/format"
	"wldkit.dev/internal/logging"
	"wldkit.dev/internal/persistence/archive"
	"wldkit.dev/internal/persistence/indexdb"
	"wldkit.dev/internal/persistence/oplog"
	"wldkit.dev/internal/persistence/snapshot"
	"wldkit.dev/internal/world"
)

// Recorder receives store events. *indexdb.SQLiteIndex satisfies it.
type Recorder interface {
	RecordSave(indexdb.Event)
	RecordLoad(indexdb.Event)
	RecordRestore(indexdb.Event)
}

type Options struct {
	Format *format.Options

	// Backups copies the replaced file aside on every save. Keep bounds the
	// copies per world; 0 keeps all of them.
	Backups bool
	Keep    int

	Index  Recorder
	OpLog  *oplog.Log
	Logger *logrus.Logger

	// CacheSize bounds the Inspect cache by entry count.
	CacheSize int64
}

// SaveOptions picks the layout a save is written in. The zero value keeps
// the world's version, and its console layout when it was loaded from one.
type SaveOptions struct {
	Version uint32
	Console bool
}

// SaveResult describes a completed save or restore.
type SaveResult struct {
	Path       string           `json:"path"`
	Version    uint32           `json:"version"`
	Generation world.Generation `json:"generation"`
	Bytes      int              `json:"bytes"`
	Backup     string           `json:"backup,omitempty"`
	Pruned     []string         `json:"pruned,omitempty"`
}

// ioMu serializes every load, save and restore in the process, across all
// Stores.
var ioMu sync.Mutex

// Store reads and writes world files; see ioMu for locking.
type Store struct {
	opts  Options
	log   *logrus.Logger
	cache *ristretto.Cache[string, *Summary]
}

func New(opts Options) (*Store, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.Keep < 0 {
		return nil, fmt.Errorf("keep must be >= 0")
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Summary]{
		NumCounters: opts.CacheSize * 10,
		MaxCost:     opts.CacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Store{opts: opts, log: log, cache: cache}, nil
}

func (s *Store) Close() {
	s.cache.Close()
}

// Load reads and decodes the world at path. Files with a zstd frame are
// decompressed first. A partial world is returned without error and
// logged as a warning.
func (s *Store) Load(path string) (*world.World, error) {
	ioMu.Lock()
	defer ioMu.Unlock()

	data, err := snapshot.ReadFile(path)
	if err != nil {
		s.audit(oplog.Entry{Op: oplog.OpLoad, Path: path}, err)
		return nil, err
	}
	wd, err := format.Decode(data, s.opts.Format)
	if err != nil {
		s.audit(oplog.Entry{Op: oplog.OpLoad, Path: path, Bytes: len(data)}, err)
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	fields := s.log.WithFields(logrus.Fields{
		"path":       path,
		"version":    wd.Version,
		"generation": wd.Meta.Generation.String(),
		"bytes":      len(data),
	})
	if wd.Partial {
		fields.Warn("world loaded partially; tile data is truncated or corrupt")
	} else {
		fields.Debug("world loaded")
	}

	s.audit(oplog.Entry{
		Op:         oplog.OpLoad,
		Path:       path,
		Version:    wd.Version,
		Generation: wd.Meta.Generation.String(),
		Revision:   wd.Meta.Revision,
		Bytes:      len(data),
		Partial:    wd.Partial,
	}, nil)
	if s.opts.Index != nil {
		s.opts.Index.RecordLoad(event(path, wd, len(data), ""))
	}
	return wd, nil
}

// Save encodes wd and atomically replaces path with it. The world's file
// revision is bumped before encoding. Paths ending in .zst are written
// compressed.
func (s *Store) Save(path string, wd *world.World, so SaveOptions) (SaveResult, error) {
	ioMu.Lock()
	defer ioMu.Unlock()

	fo := format.Options{Version: so.Version, Console: so.Console}
	if s.opts.Format != nil {
		fo.Policy, fo.Names = s.opts.Format.Policy, s.opts.Format.Names
	}
	if so.Version == 0 && wd.Meta.Generation == world.GenConsole {
		fo.Console = true
	}

	wd.Meta.Revision++
	data, err := format.Encode(wd, &fo)
	if err != nil {
		wd.Meta.Revision--
		s.audit(oplog.Entry{Op: oplog.OpSave, Path: path, Version: so.Version}, err)
		return SaveResult{}, fmt.Errorf("save %s: %w", path, err)
	}

	res, err := s.commitLocked(path, data)
	if err != nil {
		wd.Meta.Revision--
		s.audit(oplog.Entry{Op: oplog.OpSave, Path: path, Bytes: len(data)}, err)
		return SaveResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"path":       path,
		"version":    res.Version,
		"generation": res.Generation.String(),
		"bytes":      res.Bytes,
		"backup":     res.Backup,
	}).Info("world saved")
	s.audit(oplog.Entry{
		Op:         oplog.OpSave,
		Path:       path,
		Version:    res.Version,
		Generation: res.Generation.String(),
		Revision:   wd.Meta.Revision,
		Bytes:      res.Bytes,
		Backup:     res.Backup,
	}, nil)
	if s.opts.Index != nil {
		ev := event(path, wd, res.Bytes, res.Backup)
		ev.Version, ev.Generation = res.Version, res.Generation.String()
		s.opts.Index.RecordSave(ev)
	}
	return res, nil
}

// Restore writes the contents of a backup over dst with the same atomic
// write and backup rotation as Save. The backup must decode; its bytes are
// written as stored, not re-encoded.
func (s *Store) Restore(backup, dst string) (SaveResult, error) {
	ioMu.Lock()
	defer ioMu.Unlock()

	data, err := snapshot.ReadFile(backup)
	if err != nil {
		s.audit(oplog.Entry{Op: oplog.OpRestore, Path: dst, Backup: backup}, err)
		return SaveResult{}, err
	}
	wd, err := format.Decode(data, s.opts.Format)
	if err != nil {
		s.audit(oplog.Entry{Op: oplog.OpRestore, Path: dst, Backup: backup}, err)
		return SaveResult{}, fmt.Errorf("restore %s: %w", backup, err)
	}
	if wd.Partial {
		err := fmt.Errorf("restore %s: backup tile data is incomplete", backup)
		s.audit(oplog.Entry{Op: oplog.OpRestore, Path: dst, Backup: backup}, err)
		return SaveResult{}, err
	}

	res, err := s.commitLocked(dst, data)
	if err != nil {
		s.audit(oplog.Entry{Op: oplog.OpRestore, Path: dst, Backup: backup}, err)
		return SaveResult{}, err
	}

	s.log.WithFields(logrus.Fields{
		"path":    dst,
		"from":    backup,
		"version": res.Version,
		"backup":  res.Backup,
	}).Info("world restored")
	s.audit(oplog.Entry{
		Op:         oplog.OpRestore,
		Path:       dst,
		Version:    res.Version,
		Generation: res.Generation.String(),
		Revision:   wd.Meta.Revision,
		Bytes:      res.Bytes,
		Backup:     backup,
	}, nil)
	if s.opts.Index != nil {
		s.opts.Index.RecordRestore(event(dst, wd, res.Bytes, backup))
	}
	return res, nil
}

// Backups lists the backups of the world at path, newest first.
func (s *Store) Backups(path string) ([]archive.Backup, error) {
	return archive.List(archive.Dir(path), archive.BaseName(path))
}

// commitLocked backs up the current file at path, writes data atomically
// and prunes old backups.
func (s *Store) commitLocked(path string, data []byte) (SaveResult, error) {
	res := SaveResult{Path: path, Bytes: len(data)}
	if gen, err := format.Detect(data, s.opts.Format); err == nil {
		res.Generation = gen
	}
	if len(data) >= 4 {
		res.Version = binary.LittleEndian.Uint32(data)
	}

	if s.opts.Backups {
		if _, err := os.Stat(path); err == nil {
			meta := archive.Meta{}
			if sum, err := s.inspectLocked(path); err == nil {
				meta.Version = sum.Version
				meta.Generation = sum.Generation
				meta.Title = sum.Title
				meta.WorldID = sum.WorldID
				meta.Revision = sum.Revision
			}
			b, err := archive.BackupFile(archive.Dir(path), path, meta)
			if err != nil {
				return SaveResult{}, fmt.Errorf("backup %s: %w", path, err)
			}
			res.Backup = b
			s.audit(oplog.Entry{Op: oplog.OpBackup, Path: path, Version: meta.Version, Backup: b}, nil)
		} else if !errors.Is(err, os.ErrNotExist) {
			return SaveResult{}, err
		}
	}

	if err := writeAtomic(path, data, strings.HasSuffix(path, snapshot.Ext)); err != nil {
		return SaveResult{}, fmt.Errorf("write %s: %w", path, err)
	}

	if s.opts.Backups && s.opts.Keep > 0 {
		pruned, err := archive.Prune(archive.Dir(path), archive.BaseName(path), s.opts.Keep)
		if err != nil {
			s.log.WithError(err).WithField("path", path).Warn("backup prune failed")
		}
		res.Pruned = pruned
		for _, p := range pruned {
			s.audit(oplog.Entry{Op: oplog.OpPrune, Path: path, Backup: p}, nil)
		}
	}
	return res, nil
}

// writeAtomic writes data to a temp file in the target directory, syncs it
// and renames it over path.
func writeAtomic(path string, data []byte, compress bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}

	if compress {
		err = snapshot.Compress(f, data)
	} else {
		_, err = bytes.NewReader(data).WriteTo(f)
	}
	if err != nil {
		cleanup()
		return err
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

func (s *Store) audit(e oplog.Entry, err error) {
	if err != nil {
		e.Err = err.Error()
		s.log.WithError(err).WithFields(logrus.Fields{"op": e.Op, "path": e.Path}).Error("store operation failed")
	}
	if s.opts.OpLog == nil {
		return
	}
	if werr := s.opts.OpLog.Append(e); werr != nil {
		s.log.WithError(werr).Warn("op log write failed")
	}
}

func event(path string, wd *world.World, n int, backup string) indexdb.Event {
	return indexdb.Event{
		Path:       path,
		Version:    wd.Version,
		Generation: wd.Meta.Generation.String(),
		Title:      wd.Header.Title,
		WorldID:    wd.Header.WorldID,
		Bytes:      n,
		Backup:     backup,
		Partial:    wd.Partial,
		At:         time.Now().UTC(),
	}
}
