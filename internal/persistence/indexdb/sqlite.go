// Package indexdb keeps a queryable history of world saves, loads and
// restores. It is a secondary read model: the save files and the op log
// remain the source of truth, so writes are queued and dropped when the
// writer falls behind.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Event kinds.
const (
	KindSave    = "save"
	KindLoad    = "load"
	KindRestore = "restore"
)

// Event is one row of the history.
type Event struct {
	ID         int64     `json:"id"`
	Kind       string    `json:"kind"`
	Path       string    `json:"path"`
	Version    uint32    `json:"version"`
	Generation string    `json:"generation"`
	Title      string    `json:"title"`
	WorldID    int32     `json:"world_id"`
	Bytes      int       `json:"bytes"`
	Backup     string    `json:"backup,omitempty"`
	Partial    bool      `json:"partial,omitempty"`
	At         time.Time `json:"at"`
}

type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	// mu orders sends against close(ch).
	mu     sync.RWMutex
	closed atomic.Bool

	dropSave    atomic.Uint64
	dropLoad    atomic.Uint64
	dropRestore atomic.Uint64
}

type req struct {
	ev   Event
	done chan struct{} // set for flush barriers
}

// Stats reports queue pressure.
type Stats struct {
	QueueDepth       int    `json:"queue_depth"`
	QueueCapacity    int    `json:"queue_capacity"`
	DropSaveTotal    uint64 `json:"drop_save_total"`
	DropLoadTotal    uint64 `json:"drop_load_total"`
	DropRestoreTotal uint64 `json:"drop_restore_total"`
}

const defaultQueue = 4096

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{db: db, ch: make(chan req, defaultQueue)}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			version INTEGER NOT NULL,
			generation TEXT NOT NULL,
			title TEXT NOT NULL,
			world_id INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			backup TEXT,
			partial INTEGER NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_path ON events(path, id);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) RecordSave(ev Event) { s.enqueue(KindSave, ev, &s.dropSave) }

func (s *SQLiteIndex) RecordLoad(ev Event) { s.enqueue(KindLoad, ev, &s.dropLoad) }

func (s *SQLiteIndex) RecordRestore(ev Event) { s.enqueue(KindRestore, ev, &s.dropRestore) }

func (s *SQLiteIndex) enqueue(kind string, ev Event, drops *atomic.Uint64) {
	if s == nil {
		return
	}
	ev.Kind = kind
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{ev: ev}:
	default:
		drops.Add(1)
	}
}

// Flush blocks until every event queued before the call is committed.
func (s *SQLiteIndex) Flush(ctx context.Context) error {
	if s == nil {
		return nil
	}
	done := make(chan struct{})
	s.mu.RLock()
	if s.closed.Load() {
		s.mu.RUnlock()
		return nil
	}
	select {
	case s.ch <- req{done: done}:
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}
	s.mu.RUnlock()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:       len(s.ch),
		QueueCapacity:    cap(s.ch),
		DropSaveTotal:    s.dropSave.Load(),
		DropLoadTotal:    s.dropLoad.Load(),
		DropRestoreTotal: s.dropRestore.Load(),
	}
}

// Recent returns the newest n events, newest first. A non-empty path limits
// the result to that file.
func (s *SQLiteIndex) Recent(ctx context.Context, path string, n int) ([]Event, error) {
	if n <= 0 {
		n = 20
	}
	q := `SELECT id,kind,path,version,generation,title,world_id,bytes,COALESCE(backup,''),partial,at FROM events`
	args := []any{}
	if path != "" {
		q += ` WHERE path = ?`
		args = append(args, path)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			ev      Event
			version int64
			partial int
			at      string
		)
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.Path, &version, &ev.Generation, &ev.Title,
			&ev.WorldID, &ev.Bytes, &ev.Backup, &partial, &at); err != nil {
			return nil, err
		}
		ev.Version = uint32(version)
		ev.Partial = partial != 0
		ev.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()
	insert, _ := s.db.Prepare(`INSERT INTO events(kind,path,version,generation,title,world_id,bytes,backup,partial,at) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insert != nil {
			_ = insert.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 256
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		if r.done != nil {
			commit()
			close(r.done)
			continue
		}
		begin()
		if tx == nil || insert == nil {
			continue
		}
		ev := r.ev
		var backup any
		if ev.Backup != "" {
			backup = ev.Backup
		}
		partial := 0
		if ev.Partial {
			partial = 1
		}
		if _, err := tx.Stmt(insert).Exec(
			ev.Kind,
			ev.Path,
			int64(ev.Version),
			ev.Generation,
			ev.Title,
			ev.WorldID,
			ev.Bytes,
			backup,
			partial,
			ev.At.UTC().Format(time.RFC3339Nano),
		); err != nil {
			rollback()
			continue
		}
		opCount++
		// Commit once the queue drains so readers never wait on an idle tx.
		if len(s.ch) == 0 || opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
