package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	sssom "github.com/cthoyt/sssom-go"
	"github.com/cthoyt/sssom-go/curie"
	"github.com/cthoyt/sssom-go/database"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathReference(r *http.Request) (curie.Reference, error) {
	return curie.ParseReference(chi.URLParam(r, "curie"))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ref, err := pathReference(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := s.repo.Get(r.Context(), ref)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ref, err := pathReference(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.repo.Delete(r.Context(), ref)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.updateStoredGauge(r)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": ref.CURIE()})
}

// recordResponse returns the reference a write operation produced.
type recordResponse struct {
	Record curie.Reference `json:"record"`
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var m sssom.Mapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid mapping: "+err.Error())
		return
	}
	if m.Subject.IsZero() || m.Predicate.IsZero() || m.Object.IsZero() || m.Justification.IsZero() {
		writeError(w, http.StatusBadRequest, "mapping needs subject, predicate, object, and justification")
		return
	}
	ref, err := s.repo.Add(r.Context(), m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.updateStoredGauge(r)
	writeJSON(w, http.StatusCreated, recordResponse{Record: ref})
}

// clauseSets names the predefined curation-state filters accepted by the
// list and summary endpoints.
var clauseSets = map[string]database.Clause{
	"positive":   database.Positive,
	"negative":   database.Negative,
	"uncurated":  database.Uncurated,
	"unsure":     database.UncuratedUnsure,
	"not-unsure": database.UncuratedNotUnsure,
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := sssom.Query{
		Query:         params.Get("query"),
		SubjectQuery:  params.Get("subject_query"),
		SubjectPrefix: params.Get("subject_prefix"),
		ObjectQuery:   params.Get("object_query"),
		ObjectPrefix:  params.Get("object_prefix"),
		Prefix:        params.Get("prefix"),
		MappingTool:   params.Get("mapping_tool"),
		SameText:      params.Get("same_text") == "true",
	}
	clauses := database.ClausesFromQuery(query)
	if set := params.Get("set"); set != "" {
		clause, ok := clauseSets[set]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown set "+set)
			return
		}
		clauses = append(clauses, clause)
	}

	mappings, err := s.repo.List(r.Context(), clauses...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total := len(mappings)
	mappings = paginate(mappings, params.Get("offset"), params.Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"mappings": mappings,
		"count":    total,
	})
}

// paginate slices the result window. Bad or absent parameters fall back
// to the full list; count always reports the unpaginated total.
func paginate(mappings []sssom.Mapping, rawOffset, rawLimit string) []sssom.Mapping {
	if offset, err := strconv.Atoi(rawOffset); err == nil && offset > 0 {
		if offset >= len(mappings) {
			return nil
		}
		mappings = mappings[offset:]
	}
	if limit, err := strconv.Atoi(rawLimit); err == nil && limit >= 0 && limit < len(mappings) {
		mappings = mappings[:limit]
	}
	return mappings
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	total, err := s.repo.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := map[string]int{"total": total}
	for name, clause := range clauseSets {
		mappings, err := s.repo.List(r.Context(), clause)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out[name] = len(mappings)
	}
	writeJSON(w, http.StatusOK, out)
}

// curateRequest is the body of a curation action.
type curateRequest struct {
	Mark    string   `json:"mark"`
	Authors []string `json:"authors"`
}

func (s *Server) handleCurate(w http.ResponseWriter, r *http.Request) {
	ref, err := pathReference(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req curateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid curation request: "+err.Error())
		return
	}
	mark, err := sssom.ParseMark(req.Mark)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	authors := make([]curie.Reference, 0, len(req.Authors))
	for _, raw := range req.Authors {
		author, err := curie.ParseReference(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "author: "+err.Error())
			return
		}
		authors = append(authors, author)
	}

	newRef, err := s.repo.Curate(r.Context(), ref, mark, authors)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, sssom.ErrUnknownMark) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	curationsTotal.WithLabelValues(string(mark)).Inc()
	writeJSON(w, http.StatusOK, recordResponse{Record: newRef})
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	ref, err := pathReference(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var date *sssom.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := sssom.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = &parsed
	}

	newRef, err := s.repo.Publish(r.Context(), ref, date)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{Record: newRef})
}

func (s *Server) updateStoredGauge(r *http.Request) {
	if n, err := s.repo.Count(r.Context()); err == nil {
		mappingsStored.Set(float64(n))
	}
}
