package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"wldkit.dev/internal/persistence/oplog"
)

func backupsCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("backups")
	cf := addCommon(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	path, err := onePath(fs)
	if err != nil {
		return err
	}
	e, err := openEnv(cf)
	if err != nil {
		return err
	}
	defer e.close()

	list, err := e.store.Backups(path)
	if err != nil {
		return err
	}
	for _, b := range list {
		printJSON(stdout, b)
	}
	return nil
}

func restoreCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("restore")
	cf := addCommon(fs)
	from := fs.String("backup", "", "backup file to restore (defaults to the newest)")
	if err := parse(fs, args); err != nil {
		return err
	}
	path, err := onePath(fs)
	if err != nil {
		return err
	}
	e, err := openEnv(cf)
	if err != nil {
		return err
	}
	defer e.close()

	src := *from
	if src == "" {
		list, err := e.store.Backups(path)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("%s: no backups", path)
		}
		src = list[0].Path
	} else if src, err = filepath.Abs(src); err != nil {
		return err
	}

	res, err := e.store.Restore(src, path)
	if err != nil {
		return err
	}
	printJSON(stdout, res)
	return nil
}

// historyCmd prints history newest first, from the index database or, with
// -ops, from the op log. The path argument is optional.
func historyCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("history")
	cf := addCommon(fs)
	limit := fs.Int("limit", 20, "result limit")
	fromOps := fs.Bool("ops", false, "read the op log instead of the index")
	if err := parse(fs, args); err != nil {
		return err
	}
	path := ""
	if fs.NArg() > 0 {
		p, err := onePath(fs)
		if err != nil {
			return err
		}
		path = p
	}
	e, err := openEnv(cf)
	if err != nil {
		return err
	}
	defer e.close()

	if *fromOps {
		ents, err := oplog.ReadAll(e.cfg.OpLog.Dir, path)
		if err != nil {
			return err
		}
		for i := len(ents) - 1; i >= 0 && (*limit <= 0 || len(ents)-i <= *limit); i-- {
			printJSON(stdout, ents[i])
		}
		return nil
	}

	if e.index == nil {
		return fmt.Errorf("history: index database is disabled")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	evs, err := e.index.Recent(ctx, path, *limit)
	if err != nil {
		return err
	}
	for _, ev := range evs {
		printJSON(stdout, ev)
	}
	return nil
}
