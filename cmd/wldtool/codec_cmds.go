package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"wldkit.dev/internal/format"
	"wldkit.dev/internal/persistence/snapshot"
	"wldkit.dev/internal/persistence/storage"
	"wldkit.dev/internal/world"
)

func inspectCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("inspect")
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

	sum, err := e.store.Inspect(path)
	if err != nil {
		return err
	}
	printJSON(stdout, sum)
	return nil
}

type verifyReport struct {
	Path       string        `json:"path"`
	Version    uint32        `json:"version"`
	Generation string        `json:"generation"`
	Bytes      int           `json:"bytes"`
	Partial    bool          `json:"partial,omitempty"`
	Sections   []format.Span `json:"sections,omitempty"`
	Identical  bool          `json:"reencode_identical"`
	FirstDiff  int           `json:"first_diff,omitempty"`
}

// verifyCmd decodes a file, derives its section spans and checks that
// encoding the result at the same version reproduces the input.
func verifyCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("verify")
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

	data, err := snapshot.ReadFile(path)
	if err != nil {
		return err
	}
	wd, err := format.Decode(data, e.fopts)
	if err != nil {
		return err
	}
	rep := verifyReport{
		Path:       path,
		Version:    wd.Version,
		Generation: wd.Meta.Generation.String(),
		Bytes:      len(data),
		Partial:    wd.Partial,
	}
	if wd.Meta.Generation == world.GenV2 {
		spans, err := format.DeriveSections(data)
		if err != nil {
			return err
		}
		rep.Sections = spans
	}

	re, err := format.Encode(wd, &format.Options{
		Policy:  e.fopts.Policy,
		Console: wd.Meta.Generation == world.GenConsole,
	})
	if err != nil {
		return err
	}
	rep.Identical = bytes.Equal(re, data)
	if !rep.Identical {
		rep.FirstDiff = firstDiff(re, data)
	}
	printJSON(stdout, rep)

	switch {
	case wd.Partial:
		return fmt.Errorf("%s: tile data is incomplete", path)
	case !rep.Identical:
		return fmt.Errorf("%s: re-encoded bytes differ at offset %d", path, rep.FirstDiff)
	}
	return nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func convertCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("convert")
	cf := addCommon(fs)
	version := fs.Uint("version", 0, "target version (0 keeps the source version)")
	console := fs.Bool("console", false, "write the console layout")
	out := fs.String("out", "", "output path (defaults to overwriting the source)")
	if err := parse(fs, args); err != nil {
		return err
	}
	src, err := onePath(fs)
	if err != nil {
		return err
	}
	if *version == 0 && *console {
		return usagef("convert: -console needs -version")
	}
	e, err := openEnv(cf)
	if err != nil {
		return err
	}
	defer e.close()

	wd, err := e.store.Load(src)
	if err != nil {
		return err
	}
	if wd.Partial {
		return fmt.Errorf("%s: refusing to convert a partially decoded world", src)
	}
	dst := src
	if *out != "" {
		if dst, err = filepath.Abs(*out); err != nil {
			return err
		}
	}
	res, err := e.store.Save(dst, wd, storage.SaveOptions{Version: uint32(*version), Console: *console})
	if err != nil {
		return err
	}
	printJSON(stdout, res)
	return nil
}
