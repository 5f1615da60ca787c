// Package header describes the world-state scalars that precede the tile
// data. Each generation has an ordered descriptor table; a descriptor names
// one value, the version range that carries it and how it is encoded, so the
// order and gating of the header are data rather than branches.
package header

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wldkit.dev/internal/policy"
	"wldkit.dev/internal/wire"
	"wldkit.dev/internal/world"
)

// LegacyMarker is the int32 that follows the version in V0 files.
const LegacyMarker int32 = -1

var (
	ErrNegativeCount = errors.New("header: negative list count")
	ErrLegacyMarker  = errors.New("header: legacy marker missing")
)

// Context is the version and ceilings of one header encode or decode.
type Context struct {
	Version uint32
	Limits  *policy.Entry
}

// Field is one value on the wire. It is present for versions in [Min, Max];
// a zero Max leaves the range open.
type Field struct {
	Name string
	Min  uint32
	Max  uint32

	enc func(*wire.Writer, *world.World, *Context)
	dec func(*wire.Reader, *world.World, *Context)
}

// In reports whether version carries the field.
func (f Field) In(version uint32) bool {
	return version >= f.Min && (f.Max == 0 || version <= f.Max)
}

func (f Field) until(max uint32) Field {
	f.Max = max
	return f
}

// Fields returns the descriptor table of gen in wire order, or nil for an
// unknown generation.
func Fields(gen world.Generation) []Field {
	var t []Field
	switch gen {
	case world.GenV0:
		t = v0Fields
	case world.GenV1:
		t = v1Fields
	case world.GenV2:
		t = v2Fields
	case world.GenConsole:
		t = consoleFields
	}
	return append([]Field(nil), t...)
}

// Present lists, in wire order, the names of the fields gen stores at version.
func Present(gen world.Generation, version uint32) []string {
	var out []string
	for _, f := range Fields(gen) {
		if f.In(version) {
			out = append(out, f.Name)
		}
	}
	return out
}

// Write encodes the header of wd for gen at c.Version. It never fails;
// values the version cannot hold are coerced.
func Write(w *wire.Writer, wd *world.World, gen world.Generation, c *Context) {
	for _, f := range Fields(gen) {
		if f.In(c.Version) {
			f.enc(w, wd, c)
		}
	}
}

// Read decodes the header into wd. Width and height land on wd; the caller
// allocates the grid.
func Read(r *wire.Reader, wd *world.World, gen world.Generation, c *Context) error {
	for _, f := range Fields(gen) {
		if !f.In(c.Version) {
			continue
		}
		f.dec(r, wd, c)
		if err := r.Err(); err != nil {
			return fmt.Errorf("header field %s: %w", f.Name, err)
		}
	}
	return nil
}

type codec[T any] struct {
	put func(*wire.Writer, T)
	get func(*wire.Reader) T
}

var (
	cBool = codec[bool]{(*wire.Writer).Bool, (*wire.Reader).Bool}
	cU8   = codec[uint8]{(*wire.Writer).U8, (*wire.Reader).U8}
	cI16  = codec[int16]{(*wire.Writer).I16, (*wire.Reader).I16}
	cI32  = codec[int32]{(*wire.Writer).I32, (*wire.Reader).I32}
	cI64  = codec[int64]{(*wire.Writer).I64, (*wire.Reader).I64}
	cU64  = codec[uint64]{(*wire.Writer).U64, (*wire.Reader).U64}
	cF32  = codec[float32]{(*wire.Writer).F32, (*wire.Reader).F32}
	cF64  = codec[float64]{(*wire.Writer).F64, (*wire.Reader).F64}
	cStr  = codec[string]{(*wire.Writer).String, (*wire.Reader).String}
	cUUID = codec[uuid.UUID]{(*wire.Writer).UUID, (*wire.Reader).UUID}
)

func scalar[T any](name string, min uint32, c codec[T], at func(*world.Header) *T) Field {
	return Field{
		Name: name,
		Min:  min,
		enc:  func(w *wire.Writer, wd *world.World, _ *Context) { c.put(w, *at(&wd.Header)) },
		dec:  func(r *wire.Reader, wd *world.World, _ *Context) { *at(&wd.Header) = c.get(r) },
	}
}

// fixed is a run of values with a length set by the format, not the file.
func fixed[T any](name string, min uint32, c codec[T], at func(*world.Header) []T) Field {
	return Field{
		Name: name,
		Min:  min,
		enc: func(w *wire.Writer, wd *world.World, _ *Context) {
			for _, v := range at(&wd.Header) {
				c.put(w, v)
			}
		},
		dec: func(r *wire.Reader, wd *world.World, _ *Context) {
			vs := at(&wd.Header)
			for i := range vs {
				vs[i] = c.get(r)
			}
		},
	}
}

// list is a count-prefixed run; wide selects an int32 count over int16.
func list[T any](name string, min uint32, wide bool, c codec[T], at func(*world.Header) *[]T) Field {
	return Field{
		Name: name,
		Min:  min,
		enc: func(w *wire.Writer, wd *world.World, _ *Context) {
			vs := *at(&wd.Header)
			if wide {
				w.I32(int32(len(vs)))
			} else {
				w.I16(int16(len(vs)))
			}
			for _, v := range vs {
				c.put(w, v)
			}
		},
		dec: func(r *wire.Reader, wd *world.World, _ *Context) {
			var n int
			if wide {
				n = int(r.I32())
			} else {
				n = int(r.I16())
			}
			switch {
			case r.Err() != nil:
				return
			case n < 0:
				r.Fail(fmt.Errorf("%w: %s", ErrNegativeCount, name))
				return
			case n > r.Remaining():
				r.Fail(fmt.Errorf("%w: %s count %d", wire.ErrShort, name, n))
				return
			}
			vs := make([]T, 0, n)
			for i := 0; i < n && r.Err() == nil; i++ {
				vs = append(vs, c.get(r))
			}
			if n == 0 {
				vs = nil
			}
			*at(&wd.Header) = vs
		},
	}
}

func flag(name string, min uint32, at func(*world.Header) *bool) Field {
	return scalar(name, min, cBool, at)
}

func i32(name string, min uint32, at func(*world.Header) *int32) Field {
	return scalar(name, min, cI32, at)
}

func u8(name string, min uint32, at func(*world.Header) *uint8) Field {
	return scalar(name, min, cU8, at)
}

// Dimensions are stored height first. They live on the world, not the
// header, because segmented saves derive them from the grid.
var dimensions = []Field{
	{
		Name: "max_tiles_y",
		enc:  func(w *wire.Writer, wd *world.World, _ *Context) { w.I32(int32(wd.Height)) },
		dec:  func(r *wire.Reader, wd *world.World, _ *Context) { wd.Height = int(r.I32()) },
	},
	{
		Name: "max_tiles_x",
		enc:  func(w *wire.Writer, wd *world.World, _ *Context) { w.I32(int32(wd.Width)) },
		dec:  func(r *wire.Reader, wd *world.World, _ *Context) { wd.Width = int(r.I32()) },
	},
}

// moonType is coerced to 0 when the target version has fewer moons.
var moonType = Field{
	Name: "moon_type",
	enc: func(w *wire.Writer, wd *world.World, c *Context) {
		m := wd.Header.MoonType
		if c.Limits != nil && m > c.Limits.MaxMoon {
			m = 0
		}
		w.U8(m)
	},
	dec: func(r *wire.Reader, wd *world.World, _ *Context) { wd.Header.MoonType = r.U8() },
}

var legacyMarker = Field{
	Name: "legacy_marker",
	enc:  func(w *wire.Writer, _ *world.World, _ *Context) { w.I32(LegacyMarker) },
	dec: func(r *wire.Reader, _ *world.World, _ *Context) {
		if v := r.I32(); r.Err() == nil && v != LegacyMarker {
			r.Fail(fmt.Errorf("%w: got %d", ErrLegacyMarker, v))
		}
	},
}

// expertMode predates the game mode field; it maps Expert and Master to true.
var expertMode = Field{
	Name: "expert_mode",
	Min:  112,
	Max:  208,
	enc: func(w *wire.Writer, wd *world.World, _ *Context) {
		m := wd.Header.GameMode
		w.Bool(m == world.GameModeExpert || m == world.GameModeMaster)
	},
	dec: func(r *wire.Reader, wd *world.World, _ *Context) {
		wd.Header.GameMode = world.GameModeClassic
		if r.Bool() {
			wd.Header.GameMode = world.GameModeExpert
		}
	},
}
