package codec

import (
	"errors"
	"fmt"
)

// Decode errors
var (
	ErrBadMagic        = errors.New("not a fleet snapshot")
	ErrVersionMismatch = errors.New("unsupported snapshot version")
	ErrTruncated       = errors.New("snapshot data truncated")
	ErrChecksum        = errors.New("CRC32 mismatch")
	ErrUnknownKind     = errors.New("unknown vehicle kind")
	ErrTrailingData    = errors.New("unexpected trailing data")
)

// OpError describes a failed save or load of a named snapshot
type OpError struct {
	Op   string // "serialize" or "deserialize"
	Name string // blob name
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
