package api

import (
	"context"

	"github.com/ssargent/fleetdb/pkg/codec"
	"github.com/ssargent/fleetdb/pkg/controller"
	"github.com/ssargent/fleetdb/pkg/store"
	"github.com/ssargent/fleetdb/pkg/vehicle"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// VehicleRequest is the body of create and update requests. Numbers are
// optional here so that a missing field is reported by validation.
type VehicleRequest struct {
	Kind               string   `json:"kind"`
	Plate              string   `json:"plate"`
	Make               string   `json:"make"`
	Model              string   `json:"model"`
	Weight             *float64 `json:"weight"`
	Style              string   `json:"style,omitempty"`
	EngineDisplacement *float64 `json:"engine_displacement,omitempty"`
	CargoCapacity      *float64 `json:"cargo_capacity,omitempty"`
}

// CreateResponse is returned by POST /vehicles
type CreateResponse struct {
	Result  string           `json:"result"`
	Vehicle *vehicle.Vehicle `json:"vehicle"`
}

// SnapshotResponse describes a completed save or load
type SnapshotResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Records   int    `json:"records"`
	Bytes     int    `json:"bytes,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}

// IVehicleService defines the operations the API exposes
type IVehicleService interface {
	Create(f controller.Form) (*vehicle.Vehicle, store.CreateResult, error)
	Get(plate string) (*vehicle.Vehicle, error)
	Update(plate string, f controller.Form) (*vehicle.Vehicle, error)
	Delete(plate string) error
	List(filter string) ([]*vehicle.Vehicle, error)
	Save(ctx context.Context) (*codec.SaveResult, error)
	Load(ctx context.Context) (*codec.Snapshot, error)
	Stats() controller.Stats
}

var _ IVehicleService = (*controller.Controller)(nil)
