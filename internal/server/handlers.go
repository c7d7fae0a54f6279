package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/perisailabs/perisai/internal/cache"
	"github.com/perisailabs/perisai/internal/compare"
	"github.com/perisailabs/perisai/internal/model"
	"github.com/perisailabs/perisai/internal/normalize"
)

// maxBodyBytes caps request bodies. Policy batches are small; anything
// near this limit is malformed or hostile.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`             // Stable machine-readable code
	Message string `json:"message,omitempty"` // Human-readable detail
}

type compareRequest struct {
	Policies []map[string]interface{} `json:"policies"` // Raw records; empty falls back to the loaded catalog
	Customer model.CustomerProfile    `json:"customer"`
	Weights  *model.ComparisonWeights `json:"weights,omitempty"`
}

type skippedRecord struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type compareResponse struct {
	*model.ComparisonResult
	SkippedRecords []skippedRecord `json:"skipped_records"`
}

type routeRequest struct {
	Query string `json:"query"`
}

type policiesResponse struct {
	Policies       []model.Policy  `json:"policies"`
	SkippedRecords []skippedRecord `json:"skipped_records"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Policies int    `json:"policies"` // Catalog records currently loaded
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Policies: len(s.catalog)})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "unreadable request body")
		return
	}

	key := cache.Key(body)
	if s.cfg.CacheTTL > 0 {
		if payload, ok := s.responses.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.Write(payload)
			return
		}
	}

	var req compareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body: "+err.Error())
		return
	}

	records := s.catalog
	if len(req.Policies) > 0 {
		records = make([]normalize.RawRecord, 0, len(req.Policies))
		for _, fields := range req.Policies {
			records = append(records, normalize.RawRecord{Source: "request", Fields: fields})
		}
	}

	policies, failures := s.normalizer.NormalizeAll(records)
	if len(policies) == 0 && len(failures) > 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "no policy records could be normalized")
		return
	}

	ratings := s.ratings.Ratings(r.Context(), insurerNames(policies))

	result, err := s.engine.Compare(r.Context(), compare.Input{
		Policies: policies,
		Customer: req.Customer,
		Weights:  req.Weights,
		Ratings:  ratings,
	})
	if err != nil {
		if errors.Is(err, model.ErrConfiguration) {
			writeError(w, http.StatusBadRequest, "invalid_configuration", err.Error())
			return
		}
		s.log.Error("comparison failed",
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "comparison failed")
		return
	}

	resp := compareResponse{
		ComparisonResult: result,
		SkippedRecords:   skippedFrom(failures),
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "response encoding failed")
		return
	}
	if s.cfg.CacheTTL > 0 {
		s.responses.Set(key, payload, s.cfg.CacheTTL)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.classifier.Classify(req.Query))
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	policies, failures := s.normalizer.NormalizeAll(s.catalog)

	writeJSON(w, http.StatusOK, policiesResponse{
		Policies:       policies,
		SkippedRecords: skippedFrom(failures),
	})
}

func insurerNames(policies []model.Policy) []string {
	seen := make(map[string]struct{}, len(policies))
	names := make([]string, 0, len(policies))
	for _, p := range policies {
		if _, ok := seen[p.Insurer]; ok {
			continue
		}
		seen[p.Insurer] = struct{}{}
		names = append(names, p.Insurer)
	}
	return names
}

func skippedFrom(failures []normalize.RecordError) []skippedRecord {
	skipped := make([]skippedRecord, 0, len(failures))
	for _, f := range failures {
		skipped = append(skipped, skippedRecord{Index: f.Index, Error: f.Err.Error()})
	}
	return skipped
}
