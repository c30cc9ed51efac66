package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mdung/RentMaster-sub000/internal/application/services"
	"github.com/mdung/RentMaster-sub000/internal/domain/entities"
)

// AdminHandler serves configuration reads/updates and the reindex
// trigger.
type AdminHandler struct {
	config  *services.ConfigService
	indexer *services.IndexService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(config *services.ConfigService, indexer *services.IndexService) *AdminHandler {
	return &AdminHandler{config: config, indexer: indexer}
}

// GetConfig handles GET /api/config
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	respondWithData(w, http.StatusOK, h.config.Get())
}

// UpdateConfig handles PUT /api/config
func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg entities.SearchConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.config.Update(r.Context(), &cfg); err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, h.config.Get())
}

// Reindex handles POST /api/admin/reindex
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IndexType   string `json:"indexType"`
		FullReindex bool   `json:"fullReindex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		indexed int
		err     error
	)
	if body.FullReindex || body.IndexType == "" {
		indexed, err = h.indexer.ReindexAll(r.Context())
	} else {
		indexed, err = h.indexer.Reindex(r.Context(), body.IndexType)
	}
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]interface{}{"indexed": indexed})
}
