package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/argolab/floatchat/internal/metrics"
	"github.com/argolab/floatchat/internal/profile"
	"github.com/argolab/floatchat/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type searchResult struct {
	Description string               `json:"description"`
	Metadata    profile.Metadata     `json:"metadata"`
	Samples     []profile.DepthSample `json:"samples"`
	Score       float32              `json:"score"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snap.Manifest)
}

func (s *Server) handleMetadata(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snap.Metadata)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 || id >= len(s.snap.Profiles) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown profile id"})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Metadata profile.Metadata      `json:"metadata"`
		Samples  []profile.DepthSample `json:"samples"`
	}{s.snap.Metadata[id], s.snap.Profiles[id]})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "k must be a positive integer"})
			return
		}
		k = parsed
	}

	start := time.Now()
	results, err := s.retriever.Retrieve(r.Context(), query, k)
	s.collector.RecordTiming(metrics.OpRetrieve, time.Since(start))

	if errors.Is(err, service.ErrInvalidQuery) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q must be non-empty"})
		return
	}
	if err != nil {
		s.logger.Error("search failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "search failed"})
		return
	}

	out := make([]searchResult, 0, len(results))
	for _, res := range results {
		out = append(out, searchResult{
			Description: res.Description,
			Metadata:    res.Metadata,
			Samples:     res.Samples,
			Score:       res.Score,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	start := time.Now()
	answer, err := s.chat.Ask(r.Context(), req.Question)
	s.collector.RecordTiming(metrics.OpAsk, time.Since(start))

	if errors.Is(err, service.ErrInvalidQuery) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question must be non-empty"})
		return
	}
	if err != nil {
		s.logger.Error("ask failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "question could not be answered"})
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.collector.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
