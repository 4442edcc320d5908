// Package api fleetdb REST API
//
// @title           fleetdb REST API
// @version         1.0.0
// @description     REST API for fleetdb, a vehicle registry with binary snapshots.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/fleetdb/pkg/logging"
)

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>fleetdb API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// NewRouter builds the HTTP handler serving the API, metrics and docs.
// gatherer backs /metrics; nil uses the default gatherer.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metrics := s.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))

		// Vehicles
		r.Get("/vehicles", metrics.InstrumentHandler("GET", "/api/v1/vehicles", s.handleListVehicles))
		r.Post("/vehicles", metrics.InstrumentHandler("POST", "/api/v1/vehicles", s.handleCreateVehicle))
		r.Get("/vehicles/{plate}", metrics.InstrumentHandler("GET", "/api/v1/vehicles/{plate}", s.handleGetVehicle))
		r.Put("/vehicles/{plate}", metrics.InstrumentHandler("PUT", "/api/v1/vehicles/{plate}", s.handleUpdateVehicle))
		r.Delete("/vehicles/{plate}", metrics.InstrumentHandler("DELETE", "/api/v1/vehicles/{plate}", s.handleDeleteVehicle))

		// Snapshots
		r.Post("/snapshot/save", metrics.InstrumentHandler("POST", "/api/v1/snapshot/save", s.handleSaveSnapshot))
		r.Post("/snapshot/load", metrics.InstrumentHandler("POST", "/api/v1/snapshot/load", s.handleLoadSnapshot))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", s.handleSwagger)

	return r
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			s.logger.Error("swagger doc generation failed", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	case "/swagger/swagger.yaml":
		doc, err := swaggerYAML()
		if err != nil {
			s.logger.Error("swagger doc generation failed", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(doc)
	default:
		http.NotFound(w, r)
	}
}

// swaggerYAML re-encodes the JSON doc; YAML is a superset of JSON so the
// yaml decoder reads it directly
func swaggerYAML() ([]byte, error) {
	doc, err := swag.ReadDoc("swagger")
	if err != nil {
		return nil, err
	}
	var tree yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &tree); err != nil {
		return nil, err
	}
	blockStyle(&tree)
	return yaml.Marshal(&tree)
}

// blockStyle drops the flow and quoting styles the JSON source left on n
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

// StartServer serves the API until ctx is canceled, then shuts down gracefully
func StartServer(ctx context.Context, service IVehicleService, config ServerConfig, metrics *Metrics) error {
	if config.APIKey == "" {
		return errors.New("an API key is required to start the server")
	}

	logger := logging.Logger("api")
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)

	server := NewServer(service, config, metrics, logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting fleetdb REST API server", "addr", addr,
			"metrics", fmt.Sprintf("http://%s/metrics", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down REST API server")
		return srv.Shutdown(shutdownCtx)
	}
}
