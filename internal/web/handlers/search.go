package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/refdata"
	"github.com/phonebook-parser/internal/store"
)

// SearchHandler handles street reference lookups
type SearchHandler struct {
	Streets *store.StreetStore
	Log     zerolog.Logger
}

type streetSearchResponse struct {
	Query   string   `json:"query"`
	Streets []string `json:"streets"`
	Count   int      `json:"count"`
}

// SearchStreets handles GET /api/streets/search?q=...&province=...&limit=...
func (h *SearchHandler) SearchStreets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	province := refdata.ResolveProvince(r.URL.Query().Get("province"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	streets, err := h.Streets.SearchStreets(r.Context(), query, province, limit)
	if err != nil {
		h.Log.Error().Err(err).Str("query", query).Msg("street search failed")
		writeError(w, http.StatusInternalServerError, "street search failed")
		return
	}

	writeJSON(w, http.StatusOK, streetSearchResponse{
		Query:   query,
		Streets: streets,
		Count:   len(streets),
	})
}

// HealthHandler reports service and database health
type HealthHandler struct {
	DB *sql.DB
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if err := h.DB.PingContext(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}
