// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/fleetdb/pkg/api"        //nolint:depguard
	"github.com/ssargent/fleetdb/pkg/controller" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	controllerFactory controller.Factory
	serverFactory     api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		controllerFactory: controller.NewFactory(),
		serverFactory:     api.NewServerFactory(),
	}
}

// GetControllerFactory returns the controller factory
func (c *Container) GetControllerFactory() controller.Factory {
	return c.controllerFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetControllerFactory allows overriding the controller factory (for testing)
func (c *Container) SetControllerFactory(factory controller.Factory) {
	c.controllerFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
