package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/magellanhq/magellan/internal/config"
)

// Router handles HTTP routing
type Router struct {
	mux       *http.ServeMux
	handler   http.Handler
	config    *config.Config
	version   string
	startTime time.Time
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, version string) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		config:    cfg,
		version:   version,
		startTime: time.Now(),
	}

	r.setupRoutes()
	r.handler = ErrorHandler(r.securityHeaders(r.mux))
	return r
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	pricingHandlers := NewPricingHandlers(r.config)
	catalogHandlers := NewCatalogHandlers()

	r.mux.HandleFunc("/api/health", r.handleHealth)
	r.mux.HandleFunc("/api/version", r.handleVersion)
	r.mux.HandleFunc("/api/catalog", catalogHandlers.HandleGetCatalog)
	r.mux.HandleFunc("/api/catalog/search", catalogHandlers.HandleSearchCatalog)
	r.mux.HandleFunc("/api/pricing/session", pricingHandlers.HandleCreateSession)

	// Everything else is the embedded frontend.
	r.mux.Handle("/", serveFrontendHandler())
}

// Handler returns the router wrapped in its middleware chain.
func (r *Router) Handler() http.Handler {
	return r.handler
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// securityHeaders applies frame-embedding and CORS policy from configuration.
func (r *Router) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.config.IframeEmbedding != "" {
			w.Header().Set("X-Frame-Options", r.config.IframeEmbedding)
		}

		if origins := r.config.AllowedOrigins; origins != "" && strings.HasPrefix(req.URL.Path, "/api/") {
			origin := req.Header.Get("Origin")
			switch {
			case origins == "*":
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && originAllowed(origin, origins):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			if req.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next.ServeHTTP(w, req)
	})
}

func originAllowed(origin, allowed string) bool {
	for _, candidate := range strings.Split(allowed, ",") {
		if strings.TrimSpace(candidate) == origin {
			return true
		}
	}
	return false
}

// handleHealth handles health check requests
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"uptime":    time.Since(r.startTime).Seconds(),
	})
}

// handleVersion returns version information
func (r *Router) handleVersion(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": r.version,
		"runtime": "go",
	})
}
