// Package oplog is the append-only audit trail of store operations: one JSON
// object per line, zstd-compressed, in hourly files.
package oplog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Ops recorded by the store.
const (
	OpLoad    = "load"
	OpSave    = "save"
	OpBackup  = "backup"
	OpPrune   = "prune"
	OpRestore = "restore"
)

// Entry is one logged operation. Err is set when the operation failed.
type Entry struct {
	At         time.Time `json:"at"`
	Op         string    `json:"op"`
	Path       string    `json:"path"`
	Version    uint32    `json:"version,omitempty"`
	Generation string    `json:"generation,omitempty"`
	Revision   uint32    `json:"revision,omitempty"`
	Bytes      int       `json:"bytes,omitempty"`
	Backup     string    `json:"backup,omitempty"`
	Partial    bool      `json:"partial,omitempty"`
	Err        string    `json:"err,omitempty"`
}

type JSONLZstdWriter struct {
	baseDir string
	prefix  string
	clock   func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		clock:   time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// Write appends v as one line. Each line is flushed so a crash loses at most
// the zstd frame trailer, not the entry.
func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.clock().UTC().Format("2006-01-02-15")
	if hour != w.curHour || w.w == nil {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

const prefix = "ops"

// Log writes Entry lines under dir.
type Log struct {
	dir string
	w   *JSONLZstdWriter
}

func Open(dir string) *Log {
	return &Log{dir: dir, w: NewJSONLZstdWriter(dir, prefix)}
}

func (l *Log) Dir() string { return l.dir }

// Append stamps e if it has no time and writes it. A nil Log drops entries.
func (l *Log) Append(e Entry) error {
	if l == nil {
		return nil
	}
	if e.At.IsZero() {
		e.At = l.w.clock().UTC()
	}
	return l.w.Write(e)
}

func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	return l.w.Close()
}

// ReadAll returns every entry under dir in write order. When path is
// non-empty only that file's entries are returned.
func ReadAll(dir, path string) ([]Entry, error) {
	ents, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix+"-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var out []Entry
	for _, name := range names {
		got, err := readFile(filepath.Join(dir, name), path)
		if err != nil {
			return nil, err
		}
		out = append(out, got...)
	}
	return out, nil
}

func readFile(fn, path string) ([]Entry, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("%s: unmarshal: %w", filepath.Base(fn), err)
		}
		if path != "" && e.Path != path {
			continue
		}
		out = append(out, e)
	}
	// A writer that never closed leaves an unterminated frame; keep the
	// lines that made it out.
	if err := sc.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(fn), err)
	}
	return out, nil
}
