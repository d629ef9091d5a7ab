package handlers

import (
	"context"
	"net/http"

	"github.com/dacsanviet/discovery-engine/internal/observability"
)

// CatalogRefresher reloads the product-name snapshot, typically
// catalog.Snapshot.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
	Len() int
}

// CatalogHandler serves catalog maintenance endpoints.
type CatalogHandler struct {
	logger  *observability.Logger
	catalog CatalogRefresher
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(logger *observability.Logger, catalog CatalogRefresher) *CatalogHandler {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &CatalogHandler{logger: logger, catalog: catalog}
}

// Refresh handles POST /api/catalog/refresh. New products only become
// visible to the AI prompts after a refresh.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Refresh(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("catalog refresh failed")
		writeError(w, http.StatusInternalServerError, "catalog refresh failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "refreshed",
		"products": h.catalog.Len(),
	})
}
