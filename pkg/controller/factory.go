package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ssargent/fleetdb/pkg/blob"
	"github.com/ssargent/fleetdb/pkg/config"
	"github.com/ssargent/fleetdb/pkg/store"
)

// Factory creates controllers from configuration
type Factory interface {
	CreateController(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Controller, error)
}

// DefaultFactory opens the configured blob target and an empty store
type DefaultFactory struct{}

// NewFactory creates a new controller factory
func NewFactory() Factory {
	return &DefaultFactory{}
}

// CreateController validates cfg and wires a store, target and codec together
func (f *DefaultFactory) CreateController(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	target, err := blob.Open(ctx, cfg.BlobOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	return New(store.New(cfg.InitialCapacity), target, cfg.FileName, logger), nil
}
