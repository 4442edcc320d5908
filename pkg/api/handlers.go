package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/fleetdb/pkg/controller"
	"github.com/ssargent/fleetdb/pkg/logging"
)

// maxBodyBytes bounds create and update request bodies
const maxBodyBytes = 1 << 20

// Server holds the API server state
type Server struct {
	service IVehicleService
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server. A nil logger uses the "api" component logger.
func NewServer(service IVehicleService, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Logger("api")
	}
	return &Server{
		service: service,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// toForm renders a request body as form text so the API and the CLI share
// one validation path
func (req VehicleRequest) toForm() controller.Form {
	return controller.Form{
		Kind:         req.Kind,
		Plate:        req.Plate,
		Make:         req.Make,
		Model:        req.Model,
		Weight:       formatOptional(req.Weight),
		Style:        req.Style,
		Displacement: formatOptional(req.EngineDisplacement),
		Cargo:        formatOptional(req.CargoCapacity),
	}
}

func formatOptional(n *float64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(*n, 'f', -1, 64)
}

func decodeVehicleRequest(w http.ResponseWriter, r *http.Request) (VehicleRequest, bool) {
	var req VehicleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		sendError(w, "Invalid JSON request: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func plateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	plate, err := url.PathUnescape(chi.URLParam(r, "plate"))
	if err != nil {
		sendError(w, "Invalid plate encoding", http.StatusBadRequest)
		return "", false
	}
	if plate == "" {
		sendError(w, "Plate is required", http.StatusBadRequest)
		return "", false
	}
	return plate, true
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleStats godoc
//
//	@Summary		Store statistics
//	@Description	Record count, capacity and per-kind counts
//	@Tags			diagnostics
//	@Produce		json
//	@Success		200	{object}	controller.Stats
//	@Router			/stats [get]
//	@Security		ApiKeyAuth
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, s.service.Stats())
}

// handleListVehicles godoc
//
//	@Summary		List vehicles
//	@Description	List every vehicle, or only those of one kind
//	@Tags			vehicles
//	@Produce		json
//	@Param			kind	query		string	false	"car, motorcycle, truck or all"
//	@Success		200		{array}		vehicle.Vehicle
//	@Failure		400		{object}	APIResponse
//	@Router			/vehicles [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.service.List(r.URL.Query().Get("kind"))
	if err != nil {
		sendControllerError(w, err)
		return
	}
	sendSuccess(w, vehicles)
}

// handleGetVehicle godoc
//
//	@Summary		Get a vehicle
//	@Description	Look up a vehicle by plate, case-insensitively
//	@Tags			vehicles
//	@Produce		json
//	@Param			plate	path		string	true	"Plate"
//	@Success		200		{object}	vehicle.Vehicle
//	@Failure		404		{object}	APIResponse
//	@Router			/vehicles/{plate} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	plate, ok := plateParam(w, r)
	if !ok {
		return
	}
	v, err := s.service.Get(plate)
	if err != nil {
		sendControllerError(w, err)
		return
	}
	sendSuccess(w, v)
}

// handleCreateVehicle godoc
//
//	@Summary		Register a vehicle
//	@Tags			vehicles
//	@Accept			json
//	@Produce		json
//	@Param			body	body		VehicleRequest	true	"Vehicle"
//	@Success		201		{object}	CreateResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		409		{object}	APIResponse
//	@Router			/vehicles [post]
//	@Security		ApiKeyAuth
func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeVehicleRequest(w, r)
	if !ok {
		return
	}

	v, res, err := s.service.Create(req.toForm())
	if err != nil {
		sendControllerError(w, err)
		return
	}
	sendCreated(w, CreateResponse{Result: res.String(), Vehicle: v})
}

// handleUpdateVehicle godoc
//
//	@Summary		Replace a vehicle
//	@Description	Replace every field except the plate; the kind may change
//	@Tags			vehicles
//	@Accept			json
//	@Produce		json
//	@Param			plate	path		string			true	"Plate"
//	@Param			body	body		VehicleRequest	true	"Vehicle"
//	@Success		200		{object}	vehicle.Vehicle
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Router			/vehicles/{plate} [put]
//	@Security		ApiKeyAuth
func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	plate, ok := plateParam(w, r)
	if !ok {
		return
	}
	req, ok := decodeVehicleRequest(w, r)
	if !ok {
		return
	}

	v, err := s.service.Update(plate, req.toForm())
	if err != nil {
		sendControllerError(w, err)
		return
	}
	sendSuccess(w, v)
}

// handleDeleteVehicle godoc
//
//	@Summary		Delete a vehicle
//	@Tags			vehicles
//	@Produce		json
//	@Param			plate	path		string	true	"Plate"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	APIResponse
//	@Router			/vehicles/{plate} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	plate, ok := plateParam(w, r)
	if !ok {
		return
	}
	if err := s.service.Delete(plate); err != nil {
		sendControllerError(w, err)
		return
	}
	sendSuccess(w, map[string]string{"message": "Vehicle deleted successfully"})
}

// handleSaveSnapshot godoc
//
//	@Summary		Save a snapshot
//	@Description	Serialize every record to the configured blob
//	@Tags			snapshot
//	@Produce		json
//	@Success		200	{object}	SnapshotResponse
//	@Failure		500	{object}	APIResponse
//	@Router			/snapshot/save [post]
//	@Security		ApiKeyAuth
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Save(r.Context())
	if err != nil {
		s.logger.Error("snapshot save failed", "error", err)
		sendControllerError(w, err)
		return
	}
	sendSuccess(w, SnapshotResponse{
		ID:        res.ID.String(),
		Name:      res.Name,
		Records:   res.Records,
		Bytes:     res.Bytes,
		CreatedAt: res.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

// handleLoadSnapshot godoc
//
//	@Summary		Load a snapshot
//	@Description	Replace the store contents with the configured blob
//	@Tags			snapshot
//	@Produce		json
//	@Success		200	{object}	SnapshotResponse
//	@Failure		404	{object}	APIResponse
//	@Failure		500	{object}	APIResponse
//	@Router			/snapshot/load [post]
//	@Security		ApiKeyAuth
func (s *Server) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Load(r.Context())
	if err != nil {
		s.logger.Error("snapshot load failed", "error", err)
		sendControllerError(w, err)
		return
	}

	stats := s.service.Stats()
	sendSuccess(w, SnapshotResponse{
		ID:        snap.ID.String(),
		Name:      stats.FileName,
		Records:   stats.Records,
		CreatedAt: snap.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}
