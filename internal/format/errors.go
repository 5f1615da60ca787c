package format

import (
	"errors"
	"fmt"
)

// Error codes surfaced to tools and logs.
const (
	CodeFormat   = "E_FORMAT"
	CodeChecksum = "E_CHECKSUM"
	CodeVersion  = "E_VERSION_UNSUPPORTED"
)

// Kind classifies a decode failure.
type Kind int

const (
	FormatError Kind = iota + 1
	ChecksumError
	VersionUnsupported
)

// Sentinels matching each Kind, for errors.Is.
var (
	ErrFormat             = errors.New("format error")
	ErrChecksum           = errors.New("checksum mismatch")
	ErrVersionUnsupported = errors.New("version unsupported")
)

func (k Kind) String() string {
	switch k {
	case FormatError:
		return "format"
	case ChecksumError:
		return "checksum"
	case VersionUnsupported:
		return "version"
	}
	return "unknown"
}

// Code returns the stable error code of k.
func (k Kind) Code() string {
	switch k {
	case ChecksumError:
		return CodeChecksum
	case VersionUnsupported:
		return CodeVersion
	}
	return CodeFormat
}

func (k Kind) sentinel() error {
	switch k {
	case ChecksumError:
		return ErrChecksum
	case VersionUnsupported:
		return ErrVersionUnsupported
	}
	return ErrFormat
}

// Error is returned by Decode. Section names the part of the file being read
// when the failure happened and may be empty.
type Error struct {
	Kind    Kind
	Section string
	Err     error
}

func (e *Error) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	}
	return fmt.Sprintf("%s in %s: %v", e.Kind.sentinel(), e.Section, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind.sentinel(), e.Err} }

// Code is the stable code of the error's kind.
func (e *Error) Code() string { return e.Kind.Code() }

func formatErr(section string, err error) *Error {
	return &Error{Kind: FormatError, Section: section, Err: err}
}

func formatf(section, msg string, args ...any) *Error {
	return formatErr(section, fmt.Errorf(msg, args...))
}

// KindOf returns the Kind of err, or 0 when err is not a decode error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
