package format

import (
	"encoding/binary"

	"wldkit.dev/internal/format/section"
	"wldkit.dev/internal/wire"
)

// Span is one section of a segmented file as [Start, End).
type Span struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (s Span) Len() int { return s.End - s.Start }

// DeriveSections reads the section table of a segmented file and returns the
// byte span of every section. Spans must tile the file in order; a table
// that points backwards or past the end is a format error.
func DeriveSections(data []byte) ([]Span, error) {
	if len(data) < 4 || binary.LittleEndian.Uint32(data) < FirstV2Version {
		return nil, formatf(section.Name(section.FileHeader), "not a segmented file")
	}
	h, err := section.Read(wire.NewReader(data))
	if err != nil {
		return nil, formatErr(section.Name(section.FileHeader), err)
	}
	out := make([]Span, 0, len(h.Pointers))
	start := 0
	for i, end := range h.Pointers {
		if int(end) < start || int(end) > len(data) {
			return nil, formatErr(section.Name(i), &section.MisalignedError{Section: i, Want: end, Got: start})
		}
		out = append(out, Span{Index: i, Name: section.Name(i), Start: start, End: int(end)})
		start = int(end)
	}
	return out, nil
}
