package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dbmrq/techcat/internal/catalog"
	"github.com/dbmrq/techcat/internal/compare"
	"github.com/dbmrq/techcat/internal/curve"
	apperrors "github.com/dbmrq/techcat/internal/errors"
)

// Client-facing messages for the comparison gateway. Upstream detail stays
// in the server log.
const (
	msgIncompleteData   = "Incomplete data."
	msgComparisonFailed = "Failed to process the AI request."
	msgCatalogMissing   = "The catalog is not available."
)

type errorResponse struct {
	Error string `json:"error"`
}

type compareRequest struct {
	Tech1 *catalog.Technology `json:"tech1"`
	Tech2 *catalog.Technology `json:"tech2"`
}

type compareResponse struct {
	Comparison string `json:"comparison"`
}

type timelineEntry struct {
	Year int    `json:"year"`
	Name string `json:"name"`
}

type curveResponse struct {
	*curve.Curve
	Polyline string `json:"polyline"`
	Caption  string `json:"caption"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Technologies int    `json:"technologies"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// requireCatalog writes 503 and returns false when no dataset is loaded.
func (s *Server) requireCatalog(w http.ResponseWriter) bool {
	if s.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, msgCatalogMissing)
		return false
	}
	return true
}

func nonNil(records []catalog.Technology) []catalog.Technology {
	if records == nil {
		return []catalog.Technology{}
	}
	return records
}

// handleTechnologies lists records filtered by name prefix, level and tag.
// group=level orders the result by level; legacy=1 widens the text match.
func (s *Server) handleTechnologies(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	q := r.URL.Query()

	var records []catalog.Technology
	if q.Get("legacy") == "1" {
		records = s.catalog.SearchLegacy(q.Get("q")) //nolint:staticcheck
	} else {
		records = s.catalog.Search(q.Get("q"))
	}

	if raw := q.Get("level"); raw != "" {
		level, ok := catalog.ParseLevel(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown level: "+raw)
			return
		}
		records = filter(records, func(t *catalog.Technology) bool { return t.Level == level })
	}
	if tag := q.Get("tag"); tag != "" {
		records = filter(records, func(t *catalog.Technology) bool { return t.HasTag(tag) })
	}
	if q.Get("group") == "level" {
		records = catalog.GroupByLevel(records)
	}

	writeJSON(w, http.StatusOK, nonNil(records))
}

func filter(records []catalog.Technology, keep func(*catalog.Technology) bool) []catalog.Technology {
	var out []catalog.Technology
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*catalog.Technology, bool) {
	if !s.requireCatalog(w) {
		return nil, false
	}
	name := r.PathValue("name")
	t, ok := s.catalog.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, apperrors.TechnologyNotFound(name).Message)
		return nil, false
	}
	return t, true
}

func (s *Server) handleTechnology(w http.ResponseWriter, r *http.Request) {
	if t, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c := curve.For(t.Name)
	writeJSON(w, http.StatusOK, curveResponse{Curve: c, Polyline: c.Polyline(), Caption: c.Caption()})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	names := []string{}
	for _, t := range s.catalog.Suggest(r.URL.Query().Get("q")) {
		names = append(names, t.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	timeline := s.catalog.Timeline()
	entries := make([]timelineEntry, len(timeline))
	for i, t := range timeline {
		entries[i] = timelineEntry{Year: t.Year, Name: t.Name}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleExecutionTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reference.ExecutionTypes)
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reference.Levels)
}

// handleRawData serves the dataset bytes exactly as loaded.
func (s *Server) handleRawData(w http.ResponseWriter, _ *http.Request) {
	if !s.requireCatalog(w) {
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(s.catalog.Raw())
}

// handleCompare is the comparison gateway. Incomplete input is rejected
// before any outbound call; every failure past that point is reported with
// a generic message.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	log := s.logger.WithContext(r.Context())

	var req compareRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		log.Debug("compare request rejected", "error", err)
		writeError(w, http.StatusBadRequest, msgIncompleteData)
		return
	}
	if err := compare.Validate(req.Tech1, req.Tech2); err != nil {
		log.Debug("compare request rejected", "error", err)
		writeError(w, http.StatusBadRequest, msgIncompleteData)
		return
	}

	text, err := s.comparator.Compare(r.Context(), req.Tech1, req.Tech2)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			writeError(w, status, msgIncompleteData)
			return
		}
		log.Error("comparison failed", "error", apperrors.FormatAny(err))
		writeError(w, http.StatusInternalServerError, msgComparisonFailed)
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{Comparison: text})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.catalog == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Technologies: s.catalog.Len()})
}
