package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"wldkit.dev/internal/config"
	"wldkit.dev/internal/format"
	"wldkit.dev/internal/logging"
	"wldkit.dev/internal/persistence/indexdb"
	"wldkit.dev/internal/persistence/oplog"
	"wldkit.dev/internal/persistence/storage"
	"wldkit.dev/internal/policy"
)

const usage = `usage: wldtool <command> [flags] <path>

commands:
  inspect   summarize a world file
  verify    decode, check the section table and re-encode
  convert   rewrite a world at another version or layout
  backups   list backups of a world
  restore   restore a backup over a world
  history   show recorded loads, saves and restores
`

type command func(args []string, stdout io.Writer) error

var commands = map[string]command{
	"inspect": inspectCmd,
	"verify":  verifyCmd,
	"convert": convertCmd,
	"backups": backupsCmd,
	"restore": restoreCmd,
	"history": historyCmd,
}

// errUsage marks bad invocations; main exits 2 for them.
var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err := cmd(os.Args[2:], os.Stdout); err != nil {
		os.Exit(report(err))
	}
}

// report prints err and returns the exit code for it.
func report(err error) int {
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	var fe *format.Error
	if errors.As(err, &fe) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", fe.Code(), err)
		return 1
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return 1
}

func usagef(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(msg, args...))
}

// env is what every command shares: config, logger and the store with its
// collaborators.
type env struct {
	cfg   config.Config
	log   *logrus.Logger
	fopts *format.Options
	store *storage.Store
	index *indexdb.SQLiteIndex
	ops   *oplog.Log
}

type commonFlags struct {
	config  *string
	noIndex *bool
}

func addCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:  fs.String("config", os.Getenv("WLDTOOL_CONFIG"), "config file (optional)"),
		noIndex: fs.Bool("no-index", false, "do not record history in the index database"),
	}
}

func openEnv(cf commonFlags) (*env, error) {
	cfg, err := config.Load(strings.TrimSpace(*cf.config))
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: logging.New(cfg.Log)}

	p, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	e.fopts = &format.Options{Policy: p}
	opts := storage.Options{
		Format:    e.fopts,
		Backups:   cfg.Backups.Enabled,
		Keep:      cfg.Backups.Keep,
		Logger:    e.log,
		CacheSize: cfg.Cache.MaxSummaries,
	}
	if cfg.Index.Enabled && !*cf.noIndex {
		idx, err := indexdb.OpenSQLite(cfg.Index.Path)
		if err != nil {
			e.log.WithError(err).Warn("index disabled")
		} else {
			e.index = idx
			opts.Index = idx
		}
	}
	if cfg.OpLog.Enabled {
		e.ops = oplog.Open(cfg.OpLog.Dir)
		opts.OpLog = e.ops
	}

	st, err := storage.New(opts)
	if err != nil {
		e.close()
		return nil, err
	}
	e.store = st
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.index != nil {
		_ = e.index.Close()
	}
	if e.ops != nil {
		if err := e.ops.Close(); err != nil {
			e.log.WithError(err).Warn("op log close failed")
		}
	}
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// onePath returns the single positional argument made absolute, so history
// rows for the same file match whatever the working directory was.
func onePath(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", usagef("%s wants exactly one path, got %d", fs.Name(), fs.NArg())
	}
	return filepath.Abs(fs.Arg(0))
}
