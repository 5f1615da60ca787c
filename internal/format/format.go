// Package format converts between world.World and the on-disk save layouts.
// It picks one of four generations from the leading bytes, then runs the
// generation's codec over the shared wire, tile, section, header and
// ancillary packages.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"wldkit.dev/internal/format/ancillary"
	"wldkit.dev/internal/format/header"
	"wldkit.dev/internal/format/legacy"
	"wldkit.dev/internal/format/tile"
	"wldkit.dev/internal/policy"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// Generation boundaries of the version field.
const (
	MaxV0Version    = 24
	FirstV2Version  = 88
	maxGridCells    = 64 << 20
	encodeSizeGuess = 1 << 20
)

// Options tunes Detect, Decode and Encode. The zero value uses the embedded
// policy and legacy tables.
type Options struct {
	Policy *policy.Policy
	Names  *legacy.Resolver

	// Hint forces the generation on decode, skipping detection.
	Hint world.Generation

	// Version is the encode target; 0 keeps the world's own version, and a
	// world without one is written at the newest known version.
	Version uint32

	// Console writes the console layout.
	Console bool
}

func (o *Options) policy() *policy.Policy {
	if o == nil || o.Policy == nil {
		return policy.Default()
	}
	return o.Policy
}

func (o *Options) names() *legacy.Resolver {
	if o == nil || o.Names == nil {
		return legacy.NewResolver()
	}
	return o.Names
}

func (o *Options) hint() world.Generation {
	if o == nil {
		return world.GenUnknown
	}
	return o.Hint
}

// codec is one generation's layout.
type codec interface {
	decode(r *wire.Reader, wd *world.World, s *session) error
	encode(w *wire.Writer, wd *world.World, s *session) error
}

func codecFor(gen world.Generation) codec {
	switch gen {
	case world.GenV0, world.GenV1:
		return flatCodec{gen: gen}
	case world.GenV2:
		return segmentedCodec{}
	case world.GenConsole:
		return consoleCodec{}
	}
	return nil
}

// session is the per-call state shared by a codec's phases.
type session struct {
	version uint32
	gen     world.Generation
	limits  *policy.Entry
	tiles   *tile.Context
	anc     *ancillary.Context
	hdr     *header.Context
}

func newSession(version uint32, gen world.Generation, p *policy.Policy, names *legacy.Resolver) *session {
	e, _ := p.Lookup(version)
	if gen == world.GenConsole {
		e = p.Console()
	}
	return &session{
		version: version,
		gen:     gen,
		limits:  e,
		tiles:   tile.NewContext(version, e),
		anc:     &ancillary.Context{Version: version, Gen: gen, Limits: e, Names: names},
		hdr:     &header.Context{Version: version, Limits: e},
	}
}

// Detect reports the generation of data. A version the console table knows
// whose bytes 4..7 hold the payload CRC is console. When those bytes are zero
// they may equally open a desktop header, so both layouts are read and the
// desktop one wins if it reads the whole file. Otherwise the version field
// decides; a console file with a damaged CRC is reported by Decode.
func Detect(data []byte, opts *Options) (world.Generation, error) {
	if len(data) < 4 {
		return world.GenUnknown, formatf("file header", "%d bytes is too short", len(data))
	}
	if g := opts.hint(); g != world.GenUnknown {
		return g, nil
	}
	p := opts.policy()
	gen, err := classify(data, p)
	if err != nil || gen == world.GenConsole || !consoleCandidate(data, p) || storedCRC(data) != 0 {
		return gen, err
	}
	if wd, _ := resolve(data, gen, opts); wd != nil {
		return wd.Meta.Generation, nil
	}
	return gen, nil
}

// classify picks a generation from the leading bytes alone.
func classify(data []byte, p *policy.Policy) (world.Generation, error) {
	version := binary.LittleEndian.Uint32(data)
	if consoleCandidate(data, p) {
		if stored := storedCRC(data); stored != 0 && stored == crc32.ChecksumIEEE(data[crcOffset+4:]) {
			return world.GenConsole, nil
		}
	}
	switch {
	case version <= MaxV0Version && len(data) >= 8 && int32(binary.LittleEndian.Uint32(data[4:])) == header.LegacyMarker:
		return world.GenV0, nil
	case version < FirstV2Version:
		return world.GenV1, nil
	case !p.Known(version):
		return world.GenUnknown, &Error{Kind: VersionUnsupported, Section: "file header",
			Err: fmt.Errorf("version %d is newer than %d", version, p.Max())}
	}
	return world.GenV2, nil
}

// consoleCandidate reports whether data could be a console file at all.
func consoleCandidate(data []byte, p *policy.Policy) bool {
	return len(data) >= crcOffset+4 && binary.LittleEndian.Uint32(data) <= p.ConsoleMax()
}

func storedCRC(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[crcOffset:])
}

// Decode parses data into a new world. A tile fault part way through the
// grid is not an error: the world comes back with Partial set and default
// cells from the fault on. Every other failure returns a nil world and an
// *Error.
func Decode(data []byte, opts *Options) (*world.World, error) {
	if len(data) < 4 {
		return nil, formatf("file header", "%d bytes is too short", len(data))
	}
	if g := opts.hint(); g != world.GenUnknown {
		return decodeAs(data, g, opts, true)
	}
	gen, err := classify(data, opts.policy())
	if err != nil {
		return nil, err
	}
	return resolve(data, gen, opts)
}

// resolve decodes data as gen. When gen is a desktop layout that fails to
// read the whole file and the bytes could also be console, the console
// layout is read without its CRC check: a clean read is the world when the
// stored CRC is zero and a ChecksumError otherwise. A non-zero CRC beside a
// desktop header that does not parse is also a ChecksumError. The V0 marker
// rules console out.
func resolve(data []byte, gen world.Generation, opts *Options) (*world.World, error) {
	wd, err := decodeAs(data, gen, opts, true)
	if gen == world.GenConsole || gen == world.GenV0 || !consoleCandidate(data, opts.policy()) || (err == nil && !wd.Partial) {
		return wd, err
	}
	stored := storedCRC(data)
	if cw, cerr := decodeAs(data, world.GenConsole, opts, false); cerr == nil && !cw.Partial {
		if stored == 0 {
			return cw, nil
		}
		return nil, checksumErr(stored, crc32.ChecksumIEEE(data[crcOffset+4:]))
	}
	if stored != 0 && headerFault(err) {
		return nil, checksumErr(stored, crc32.ChecksumIEEE(data[crcOffset+4:]))
	}
	return wd, err
}

func decodeAs(data []byte, gen world.Generation, opts *Options, checkCRC bool) (*world.World, error) {
	p := opts.policy()
	version := binary.LittleEndian.Uint32(data)
	if gen == world.GenConsole && version > p.ConsoleMax() {
		return nil, &Error{Kind: VersionUnsupported, Section: "file header",
			Err: fmt.Errorf("console version %d is newer than %d", version, p.ConsoleMax())}
	}
	if gen != world.GenConsole && !p.Known(version) {
		return nil, &Error{Kind: VersionUnsupported, Section: "file header",
			Err: fmt.Errorf("version %d is newer than %d", version, p.Max())}
	}

	s := newSession(version, gen, p, opts.names())
	wd := &world.World{Version: version, Meta: world.Meta{Generation: gen}}
	c := codecFor(gen)
	if gen == world.GenConsole {
		c = consoleCodec{unchecked: !checkCRC}
	}
	if err := c.decode(wire.NewReader(data), wd, s); err != nil {
		return nil, err
	}
	return wd, nil
}

func headerFault(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && (fe.Section == "file header" || fe.Section == "world header")
}

// Encode serializes wd at the target version chosen by opts. Values the
// target cannot hold are coerced; only an unsupported target or a grid the
// layout cannot address is an error.
func Encode(wd *world.World, opts *Options) ([]byte, error) {
	p := opts.policy()
	version := wd.Version
	console := false
	if opts != nil {
		if opts.Version != 0 {
			version = opts.Version
		}
		console = opts.Console
	}
	if version == 0 {
		version = p.Max()
		if console {
			version = p.ConsoleMax()
		}
	}

	gen := TargetGeneration(version, console)
	switch {
	case console && version > p.ConsoleMax():
		return nil, &Error{Kind: VersionUnsupported, Err: fmt.Errorf("console version %d is newer than %d", version, p.ConsoleMax())}
	case !console && !p.Known(version):
		return nil, &Error{Kind: VersionUnsupported, Err: fmt.Errorf("version %d is newer than %d", version, p.Max())}
	}
	if err := checkGrid(wd, gen); err != nil {
		return nil, err
	}

	s := newSession(version, gen, p, opts.names())
	w := wire.NewWriter(encodeSizeGuess)
	if err := codecFor(gen).encode(w, wd, s); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// TargetGeneration is the layout Encode uses for version.
func TargetGeneration(version uint32, console bool) world.Generation {
	switch {
	case console:
		return world.GenConsole
	case version <= MaxV0Version:
		return world.GenV0
	case version < FirstV2Version:
		return world.GenV1
	}
	return world.GenV2
}

func checkGrid(wd *world.World, gen world.Generation) error {
	if wd.Width <= 0 || wd.Height <= 0 || len(wd.Tiles) != wd.Width*wd.Height {
		return formatf("world header", "grid %dx%d with %d tiles", wd.Width, wd.Height, len(wd.Tiles))
	}
	if gen != world.GenV2 && (wd.Width > world.MaxLegacyWidth || wd.Height > world.MaxLegacyHeight) {
		return formatf("world header", "grid %dx%d exceeds %dx%d for %s", wd.Width, wd.Height,
			world.MaxLegacyWidth, world.MaxLegacyHeight, gen)
	}
	return nil
}

// allocGrid sizes the grid from the decoded header.
func allocGrid(wd *world.World) error {
	if wd.Width <= 0 || wd.Height <= 0 || wd.Width*wd.Height > maxGridCells {
		return formatf("world header", "grid %dx%d", wd.Width, wd.Height)
	}
	wd.Tiles = make([]world.Tile, wd.Width*wd.Height)
	return nil
}

// readTiles decodes columns until the grid is full or a record fails. A
// failure marks the world partial; the cells it did not reach stay default.
func readTiles(r *wire.Reader, wd *world.World, column func(*wire.Reader, []world.Tile) error) bool {
	for x := 0; x < wd.Width; x++ {
		if err := column(r, wd.Column(x)); err != nil {
			wd.Partial = true
			return false
		}
	}
	return true
}

func writeTiles(w *wire.Writer, wd *world.World, column func(*wire.Writer, []world.Tile)) {
	for x := 0; x < wd.Width; x++ {
		column(w, wd.Column(x))
	}
}

// writeFooter closes V0, V1 and V2 files with a copy of the identity.
func writeFooter(w *wire.Writer, wd *world.World) {
	w.Bool(true)
	w.String(wd.Header.Title)
	w.I32(wd.Header.WorldID)
}

func readFooter(r *wire.Reader, wd *world.World) error {
	ok := r.Bool()
	title := r.String()
	id := r.I32()
	if err := r.Err(); err != nil {
		return formatErr("footer", err)
	}
	switch {
	case !ok:
		return formatf("footer", "missing end marker")
	case title != wd.Header.Title:
		return formatf("footer", "title %q does not match header %q", title, wd.Header.Title)
	case id != wd.Header.WorldID:
		return formatf("footer", "world id %d does not match header %d", id, wd.Header.WorldID)
	}
	return nil
}
