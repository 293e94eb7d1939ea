package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/parser"
)

// Defaults carries the parse settings applied when a request leaves them
// unset.
type Defaults struct {
	Province string
	AreaCode string
	Learn    bool
}

// ParseHandler handles the parse endpoints
type ParseHandler struct {
	Engine   *parser.Engine
	Defaults Defaults
	Log      zerolog.Logger
}

type parseRequest struct {
	Input    string `json:"input"`
	Province string `json:"province,omitempty"`
	AreaCode string `json:"area_code,omitempty"`
	Learn    *bool  `json:"learn,omitempty"`
}

type batchRequest struct {
	Inputs   []string `json:"inputs"`
	Province string   `json:"province,omitempty"`
	AreaCode string   `json:"area_code,omitempty"`
	Learn    *bool    `json:"learn,omitempty"`
}

// ParseListing handles POST /api/parse
func (h *ParseHandler) ParseListing(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := h.Engine.Parse(r.Context(), parser.Request{
		Input:           req.Input,
		Province:        h.orDefault(req.Province, h.Defaults.Province),
		DefaultAreaCode: h.orDefault(req.AreaCode, h.Defaults.AreaCode),
		Learn:           h.learnFlag(req.Learn),
	})

	writeJSON(w, http.StatusOK, result)
}

// ParseBatch handles POST /api/parse/batch
func (h *ParseHandler) ParseBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, "inputs is required")
		return
	}

	batch, err := h.Engine.ParseBatch(r.Context(), parser.BatchRequest{
		Inputs:          req.Inputs,
		Province:        h.orDefault(req.Province, h.Defaults.Province),
		DefaultAreaCode: h.orDefault(req.AreaCode, h.Defaults.AreaCode),
		Learn:           h.learnFlag(req.Learn),
	})
	if err != nil {
		var sizeErr *parser.BatchSizeError
		if errors.As(err, &sizeErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error().Err(err).Msg("batch parse failed")
		writeError(w, http.StatusInternalServerError, "batch parse failed")
		return
	}

	writeJSON(w, http.StatusOK, batch)
}

func (h *ParseHandler) orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func (h *ParseHandler) learnFlag(requested *bool) bool {
	if requested != nil {
		return *requested
	}
	return h.Defaults.Learn
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
