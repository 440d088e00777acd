// Package server exposes the pipeline's registration state over HTTP: REST
// introspection endpoints, an Accept-header negotiation endpoint, and a
// GraphQL query surface. It sits outside the processing core; the core
// itself has no wire protocol.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/graphql-go/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assetforge/forge/internal/contenttype"
	"github.com/assetforge/forge/internal/pipeline"
	"github.com/assetforge/forge/internal/processor"
)

// Server is the introspection API server for one Environment.
type Server struct {
	port        int
	env         *pipeline.Environment
	server      *http.Server
	authEnabled bool
	username    string
	password    string
	startTime   time.Time
}

// APIResponse defines the standard response format for API endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// New creates a server for the given environment.
func New(env *pipeline.Environment, port int, authEnabled bool, username, password string) *Server {
	return &Server{
		port:        port,
		env:         env,
		authEnabled: authEnabled,
		username:    username,
		password:    password,
		startTime:   time.Now(),
	}
}

// Start registers all endpoints and starts serving in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	mux, err := s.buildMux()
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}
	s.startTime = time.Now()

	go func() {
		log.Printf("Starting introspection API on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// buildMux wires every endpoint; split out so tests can drive the handler
// without binding a port.
func (s *Server) buildMux() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/transformers", s.authMiddleware(s.handleTransformers))
	mux.HandleFunc("/api/processors", s.authMiddleware(s.handleProcessors))
	mux.HandleFunc("/api/reducers", s.authMiddleware(s.handleReducers))
	mux.HandleFunc("/api/negotiate", s.authMiddleware(s.handleNegotiate))
	mux.HandleFunc("/api/cache-key", s.authMiddleware(s.handleCacheKey))
	mux.HandleFunc("/api/health", s.handleHealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	schema, err := buildSchema(s.env)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	mux.Handle("/graphql", handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: true,
	}))

	return mux, nil
}

// Shutdown stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		log.Println("Shutting down API server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// authMiddleware checks for basic authentication if enabled.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.respondWithError(w, http.StatusUnauthorized, "Authorization required")
			return
		}
		if !strings.HasPrefix(authHeader, "Basic ") {
			s.respondWithError(w, http.StatusUnauthorized, "Invalid authentication method")
			return
		}

		payload, err := base64.StdEncoding.DecodeString(authHeader[6:])
		if err != nil {
			s.respondWithError(w, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		pair := strings.SplitN(string(payload), ":", 2)
		if len(pair) != 2 || pair[0] != s.username || pair[1] != s.password {
			s.respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next(w, r)
	}
}

// TransformerInfo describes one transform edge for API responses.
type TransformerInfo struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Processor string `json:"processor"`
	URI       string `json:"uri,omitempty"`
}

// ProcessorInfo describes one registered processor.
type ProcessorInfo struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Position int    `json:"position"`
	URI      string `json:"uri,omitempty"`
}

// ReducerInfo describes one bundle metadata reducer.
type ReducerInfo struct {
	Key        string      `json:"key"`
	Initial    interface{} `json:"initial,omitempty"`
	HasInitial bool        `json:"has_initial"`
}

// handleTransformers returns every registered transform edge.
func (s *Server) handleTransformers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var edges []TransformerInfo
	for _, from := range s.env.TransformSourceTypes() {
		targets := s.env.Transformers(from)
		for to, p := range targets {
			uri, _ := s.env.ProcessorDependencyURI(p)
			edges = append(edges, TransformerInfo{
				From:      from,
				To:        to,
				Processor: p.Name(),
				URI:       uri,
			})
		}
	}

	s.respondWithJSON(w, http.StatusOK, APIResponse{Success: true, Data: edges})
}

// handleProcessors returns the ordered processor list for a role and mime
// type, e.g. /api/processors?role=preprocessor&mime_type=text/css.
func (s *Server) handleProcessors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	mimeType := r.URL.Query().Get("mime_type")
	if mimeType == "" {
		s.respondWithError(w, http.StatusBadRequest, "mime_type is required")
		return
	}

	var procs []*processor.Processor
	switch role := r.URL.Query().Get("role"); role {
	case "", "preprocessor":
		procs = s.env.Preprocessors(mimeType)
	case "postprocessor":
		procs = s.env.Postprocessors(mimeType)
	case "bundle_processor":
		procs = s.env.BundleProcessors(mimeType)
	default:
		s.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unknown role: %s", role))
		return
	}

	var list []ProcessorInfo
	for i, p := range procs {
		uri, _ := s.env.ProcessorDependencyURI(p)
		list = append(list, ProcessorInfo{Name: p.Name(), ID: p.ID(), Position: i, URI: uri})
	}

	s.respondWithJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

// handleNegotiate resolves the best output type for a source type and the
// request's Accept header (or an explicit accept query parameter). A
// non-satisfiable request answers 406 with an explicit no-match payload.
func (s *Server) handleNegotiate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	sourceType := r.URL.Query().Get("type")
	if sourceType == "" {
		s.respondWithError(w, http.StatusBadRequest, "type is required")
		return
	}

	accept := r.URL.Query().Get("accept")
	if accept == "" {
		accept = r.Header.Get("Accept")
	}

	resolved, ok := s.env.ResolveTransformType(sourceType, accept)
	if !ok {
		s.respondWithJSON(w, http.StatusNotAcceptable, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("no acceptable output type for %s", sourceType),
		})
		return
	}

	expanded := s.env.ExpandTransformAccepts(contenttype.ParseAccept(accept))
	s.respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"type":             sourceType,
			"transform_type":   resolved,
			"expanded_accepts": expanded,
		},
	})
}

// handleReducers returns the effective reducer set for a mime type.
func (s *Server) handleReducers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	mimeType := r.URL.Query().Get("mime_type")
	if mimeType == "" {
		s.respondWithError(w, http.StatusBadRequest, "mime_type is required")
		return
	}

	var list []ReducerInfo
	for key, red := range s.env.BundleReducers(mimeType) {
		list = append(list, ReducerInfo{Key: key, Initial: red.Initial, HasInitial: red.HasInitial})
	}

	s.respondWithJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

// handleCacheKey resolves a processor dependency URI to its cache key.
// An unknown URI or a keyless processor is an absent result, not an error.
func (s *Server) handleCacheKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	uri := r.URL.Query().Get("uri")
	if uri == "" {
		s.respondWithError(w, http.StatusBadRequest, "uri is required")
		return
	}

	key, ok := s.env.ResolveProcessorCacheKeyURI(uri)
	s.respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"uri":       uri,
			"cache_key": key,
			"present":   ok,
		},
	})
}

// handleHealthCheck provides a simple health check endpoint.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.respondWithJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":         "healthy",
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
	})
}

// respondWithJSON sends a JSON response to the client.
func (s *Server) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondWithError sends an error response to the client.
func (s *Server) respondWithError(w http.ResponseWriter, status int, message string) {
	s.respondWithJSON(w, status, APIResponse{Success: false, Error: message})
}
