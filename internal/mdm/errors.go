package mdm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	BadMagic ErrorKind = iota + 1
	TruncatedRecord
	UnsupportedRegion
	IndexOutOfRange
	InconsistentCounts
)

var (
	ErrBadMagic           = errors.New("mdm: bad magic")
	ErrTruncatedRecord    = errors.New("mdm: truncated record")
	ErrUnsupportedRegion  = errors.New("mdm: offset outside file")
	ErrIndexOutOfRange    = errors.New("mdm: triangle index out of range")
	ErrInconsistentCounts = errors.New("mdm: inconsistent counts")
)

func (k ErrorKind) String() string {
	switch k {
	case BadMagic:
		return "BadMagic"
	case TruncatedRecord:
		return "TruncatedRecord"
	case UnsupportedRegion:
		return "UnsupportedRegion"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case InconsistentCounts:
		return "InconsistentCounts"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case BadMagic:
		return ErrBadMagic
	case TruncatedRecord:
		return ErrTruncatedRecord
	case UnsupportedRegion:
		return ErrUnsupportedRegion
	case IndexOutOfRange:
		return ErrIndexOutOfRange
	case InconsistentCounts:
		return ErrInconsistentCounts
	}
	return nil
}

// DecodeError describes where in the file a decode failed.
// Fields that do not apply to the kind are left at -1 (Surface, Index) or zero.
type DecodeError struct {
	Kind   ErrorKind
	Record string // "header", "surface", "triangle", "vertex", "weight"
	Offset int64

	// Want and Have are byte sizes for TruncatedRecord, vertex counts for
	// IndexOutOfRange and totals for InconsistentCounts.
	Want int64
	Have int64

	Surface int
	Index   int
	Detail  string
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("mdm: %s", e.Kind)
	if e.Record != "" {
		msg += fmt.Sprintf(" in %s record", e.Record)
	}
	if e.Surface >= 0 {
		msg += fmt.Sprintf(" (surface %d)", e.Surface)
	}
	switch e.Kind {
	case TruncatedRecord:
		msg += fmt.Sprintf(" at 0x%x: need %d bytes, have %d", e.Offset, e.Want, e.Have)
	case UnsupportedRegion:
		msg += fmt.Sprintf(" at 0x%x: file size %d", e.Offset, e.Have)
	case BadMagic:
		msg += fmt.Sprintf(": got 0x%08x, want 0x%08x", uint32(e.Have), uint32(e.Want))
	case IndexOutOfRange:
		msg += fmt.Sprintf(" at 0x%x: index %d not below vertex count %d", e.Offset, e.Index, e.Want)
	case InconsistentCounts:
		msg += fmt.Sprintf(": expected %d, found %d", e.Want, e.Have)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap lets errors.Is match the kind's sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf returns the ErrorKind carried by err, or 0 if err is not a decode error.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

func newError(kind ErrorKind, record string, off int64) *DecodeError {
	return &DecodeError{Kind: kind, Record: record, Offset: off, Surface: -1, Index: -1}
}
