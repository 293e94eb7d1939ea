package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/phonebook-parser/internal/classify"
	"github.com/phonebook-parser/internal/learn"
	"github.com/phonebook-parser/internal/parser"
)

// ClassifyHandler handles classification without parsing, for callers
// that already hold a bare name.
type ClassifyHandler struct {
	Classifier classify.Classifier
	Log        zerolog.Logger
}

type classifyRequest struct {
	Name string `json:"name"`
}

// ClassifyName handles POST /api/classify
func (h *ClassifyHandler) ClassifyName(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	writeJSON(w, http.StatusOK, h.Classifier.Classify(r.Context(), req.Name))
}

// LearnHandler accepts completed parse results for explicit learning.
type LearnHandler struct {
	Learner *learn.Learner
	Log     zerolog.Logger
}

type learnResponse struct {
	Learned bool   `json:"learned"`
	Error   string `json:"error,omitempty"`
}

// LearnFromResult handles POST /api/learn. Learning failures come back
// in the response body, never as an HTTP failure: the caller's parse
// result is already final.
func (h *LearnHandler) LearnFromResult(w http.ResponseWriter, r *http.Request) {
	var res parser.Result
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.Learner.Learn(r.Context(), res); err != nil {
		h.Log.Warn().Err(err).Msg("learning request failed")
		writeJSON(w, http.StatusOK, learnResponse{Learned: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, learnResponse{Learned: true})
}
