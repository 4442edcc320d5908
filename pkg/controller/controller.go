// Package controller is the caller layer over the vehicle store. It turns raw
// user input into records, enforces plate uniqueness, and moves the store
// to and from its snapshot blob. Every operation holds one mutex for its
// whole duration, so a Controller is safe to share between goroutines while
// the store underneath stays single-threaded.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ssargent/fleetdb/pkg/blob"
	"github.com/ssargent/fleetdb/pkg/codec"
	"github.com/ssargent/fleetdb/pkg/logging"
	"github.com/ssargent/fleetdb/pkg/store"
	"github.com/ssargent/fleetdb/pkg/vehicle"
)

var (
	ErrDuplicatePlate = errors.New("a vehicle with this plate already exists")
	ErrNotFound       = errors.New("vehicle not found")
)

// Filter labels that select every record
var allLabels = []string{"", "all", "todos"}

// Operation outcomes reported to an Observer
const (
	StatusOK        = "ok"
	StatusInvalid   = "invalid"
	StatusDuplicate = "duplicate"
	StatusNotFound  = "not_found"
	StatusError     = "error"
)

// Observer receives operation outcomes, e.g. to feed metrics
type Observer interface {
	ObserveOperation(op, status string)
	ObserveSnapshot(op, status string, bytes int)
	ObserveRecords(stats Stats)
}

// Stats summarizes the store contents
type Stats struct {
	Records  int            `json:"records"`
	Capacity int            `json:"capacity"`
	ByKind   map[string]int `json:"by_kind"`
	FileName string         `json:"file_name"`
	Driver   string         `json:"driver"`
}

// Controller coordinates a store, a codec and the blob target snapshots go to
type Controller struct {
	mu       sync.Mutex
	store    *store.Store
	target   blob.Target
	codec    *codec.SnapshotCodec
	fileName string
	logger   *slog.Logger
	observer Observer
}

// Option customizes a Controller
type Option func(*Controller)

// WithObserver reports every operation outcome to o
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithCodec replaces the default snapshot codec
func WithCodec(sc *codec.SnapshotCodec) Option {
	return func(c *Controller) { c.codec = sc }
}

// New creates a controller. A nil logger uses the "controller" component logger.
func New(st *store.Store, target blob.Target, fileName string, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = logging.Logger("controller")
	}
	c := &Controller{
		store:    st,
		target:   target,
		codec:    codec.NewSnapshotCodec(),
		fileName: fileName,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe starts reporting outcomes to o, replacing any previous observer
func (c *Controller) Observe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
	if o != nil {
		o.ObserveRecords(c.stats())
	}
}

// FileName returns the blob name snapshots are saved under
func (c *Controller) FileName() string {
	return c.fileName
}

// Create validates the form and adds the vehicle unless its plate is taken.
// It returns a copy of the stored record.
func (c *Controller) Create(f Form) (*vehicle.Vehicle, store.CreateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := f.Build()
	if err != nil {
		return nil, 0, c.fail("create", err)
	}
	if _, exists := c.store.Read(v.Plate); exists {
		return nil, 0, c.fail("create", fmt.Errorf("%s: %w", v.Plate, ErrDuplicatePlate))
	}

	res, err := c.store.Create(v)
	if err != nil {
		return nil, 0, c.fail("create", err)
	}

	c.logger.Info("vehicle created", "plate", v.Plate, "kind", v.Kind().String(), "result", res.String(),
		"size", c.store.Len(), "capacity", c.store.Cap())
	c.done("create")
	return v.Clone(), res, nil
}

// Get returns a copy of the vehicle registered under plate
func (c *Controller) Get(plate string) (*vehicle.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.store.Read(strings.TrimSpace(plate))
	if !ok {
		return nil, c.fail("read", fmt.Errorf("%s: %w", plate, ErrNotFound))
	}
	c.done("read")
	return v.Clone(), nil
}

// Update replaces the vehicle registered under plate with the form contents.
// The stored plate is kept whatever the form says; the kind may change.
func (c *Controller) Update(plate string, f Form) (*vehicle.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.store.Read(strings.TrimSpace(plate))
	if !ok {
		return nil, c.fail("update", fmt.Errorf("%s: %w", plate, ErrNotFound))
	}

	f.Plate = existing.Plate
	updated, err := f.Build()
	if err != nil {
		return nil, c.fail("update", err)
	}

	ok, err = c.store.Update(existing, updated)
	if err != nil {
		return nil, c.fail("update", err)
	}
	if !ok {
		return nil, c.fail("update", fmt.Errorf("%s: %w", plate, ErrNotFound))
	}

	c.logger.Info("vehicle updated", "plate", updated.Plate, "kind", updated.Kind().String())
	c.done("update")
	return updated.Clone(), nil
}

// Delete removes the vehicle registered under plate
func (c *Controller) Delete(plate string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.Delete(strings.TrimSpace(plate)) {
		return c.fail("delete", fmt.Errorf("%s: %w", plate, ErrNotFound))
	}

	c.logger.Info("vehicle deleted", "plate", plate, "size", c.store.Len())
	c.done("delete")
	return nil
}

// List returns copies of the vehicles matching filter: "all" (or "" or
// "todos") for every record, otherwise a kind label
func (c *Controller) List(filter string) ([]*vehicle.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var records []*vehicle.Vehicle
	if isAll(filter) {
		records = c.store.ReadAll()
	} else {
		kind, err := vehicle.ParseKind(filter)
		if err != nil {
			return nil, c.fail("list", invalid("kind", "unknown filter %q", filter))
		}
		records = c.store.ReadByKind(kind)
	}

	out := make([]*vehicle.Vehicle, len(records))
	for i, v := range records {
		out[i] = v.Clone()
	}
	c.done("list")
	return out, nil
}

func isAll(filter string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	for _, l := range allLabels {
		if f == l {
			return true
		}
	}
	return false
}

// Save writes every record to the configured blob
func (c *Controller) Save(ctx context.Context) (*codec.SaveResult, error) {
	return c.SaveAs(ctx, c.fileName)
}

// SaveAs writes every record to the named blob on the same target. The
// configured file name is unchanged.
func (c *Controller) SaveAs(ctx context.Context, name string) (*codec.SaveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.codec.Save(ctx, c.target, name, c.store.ReadAll())
	if err != nil {
		c.logger.Error("snapshot save failed", "file", name, "error", err)
		c.snapshot("save", StatusError, 0)
		return nil, err
	}

	c.logger.Info("snapshot saved", "file", res.Name, "id", res.ID.String(),
		"records", res.Records, "bytes", res.Bytes, "driver", string(c.target.Driver()))
	c.snapshot("save", StatusOK, res.Bytes)
	return res, nil
}

// Load replaces the store contents with the configured blob. On any failure
// the store is left exactly as it was.
func (c *Controller) Load(ctx context.Context) (*codec.Snapshot, error) {
	return c.LoadFrom(ctx, c.fileName)
}

// LoadFrom replaces the store contents with the named blob, with the same
// all-or-nothing behavior as Load
func (c *Controller) LoadFrom(ctx context.Context, name string) (*codec.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.codec.Load(ctx, c.target, name)
	if err != nil {
		status := StatusError
		if errors.Is(err, blob.ErrNotFound) {
			status = StatusNotFound
		}
		c.logger.Error("snapshot load failed", "file", name, "error", err)
		c.snapshot("load", status, 0)
		return nil, err
	}

	c.store.ReplaceAll(snap.Records)
	c.logger.Info("snapshot loaded", "file", name, "id", snap.ID.String(),
		"records", c.store.Len(), "created_at", snap.CreatedAt)
	c.snapshot("load", StatusOK, 0)
	return snap, nil
}

// Stats reports the store size, capacity and per-kind counts
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats()
}

func (c *Controller) stats() Stats {
	s := Stats{
		Records:  c.store.Len(),
		Capacity: c.store.Cap(),
		ByKind:   make(map[string]int, len(vehicle.Kinds)),
		FileName: c.fileName,
	}
	if c.target != nil {
		s.Driver = string(c.target.Driver())
	}
	for _, k := range vehicle.Kinds {
		s.ByKind[k.String()] = len(c.store.ReadByKind(k))
	}
	return s
}

func (c *Controller) done(op string) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(op, StatusOK)
	if op != "read" && op != "list" {
		c.observer.ObserveRecords(c.stats())
	}
}

func (c *Controller) fail(op string, err error) error {
	c.logger.Debug("operation rejected", "op", op, "error", err)
	if c.observer != nil {
		c.observer.ObserveOperation(op, StatusOf(err))
	}
	return err
}

func (c *Controller) snapshot(op, status string, bytes int) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveSnapshot(op, status, bytes)
	if op == "load" && status == StatusOK {
		c.observer.ObserveRecords(c.stats())
	}
}

// StatusOf classifies an error returned by a Controller
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case IsValidation(err):
		return StatusInvalid
	case errors.Is(err, ErrDuplicatePlate):
		return StatusDuplicate
	case errors.Is(err, ErrNotFound), errors.Is(err, blob.ErrNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}
