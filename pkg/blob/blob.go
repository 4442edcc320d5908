// Package blob provides the destinations a fleet snapshot is written to and
// read from. A Target stores opaque byte blobs under a name; the codec
// decides what the bytes mean.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Driver identifies a Target implementation
type Driver string

const (
	DriverFile Driver = "file"
	DriverS3   Driver = "s3"
)

// ErrNotFound is returned by Get when no blob exists under the name
var ErrNotFound = errors.New("blob not found")

// Target stores and retrieves named blobs
type Target interface {
	Driver() Driver
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// Options selects and configures a Target
type Options struct {
	Driver Driver
	Dir    string // DriverFile: directory holding the blob files
	S3     S3Config
}

// Open builds the Target described by opts
func Open(ctx context.Context, opts Options) (Target, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileTarget(opts.Dir)
	case DriverS3:
		return NewS3Target(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", opts.Driver)
	}
}

// validateName rejects names that would escape the target's namespace
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("blob name is required")
	}
	if strings.ContainsAny(name, `/\`) || path.Clean(name) != name || name == "." || name == ".." {
		return fmt.Errorf("invalid blob name %q", name)
	}
	return nil
}
