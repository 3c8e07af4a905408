package api

import (
	"net/http"

	"github.com/magellanhq/magellan/internal/catalog"
)

// CatalogHandlers serves the demo magazine catalog.
type CatalogHandlers struct{}

// NewCatalogHandlers creates catalog handlers.
func NewCatalogHandlers() *CatalogHandlers {
	return &CatalogHandlers{}
}

// HandleGetCatalog handles GET /api/catalog.
func (h *CatalogHandlers) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, catalog.Default())
}

// HandleSearchCatalog handles GET /api/catalog/search?q=.
func (h *CatalogHandlers) HandleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	results := catalog.Search(query)
	if results == nil {
		results = []catalog.Magazine{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
