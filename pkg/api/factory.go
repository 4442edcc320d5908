// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/ssargent/fleetdb/pkg/controller"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer registers metrics, attaches them to the controller when the
// service is one, and serves until ctx is canceled
func (s *DefaultServerStarter) StartServer(ctx context.Context, service IVehicleService, config ServerConfig) error {
	metrics := NewMetrics(nil)
	if c, ok := service.(*controller.Controller); ok {
		c.Observe(metrics)
	}
	return StartServer(ctx, service, config, metrics)
}
