package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/lead-radar/internal/catalog"
	"github.com/sells-group/lead-radar/internal/leads"
	"github.com/sells-group/lead-radar/internal/model"
	"github.com/sells-group/lead-radar/internal/prefs"
	"github.com/sells-group/lead-radar/internal/scoring"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"uptime_secs":       time.Since(s.started).Seconds(),
		"catalog_loaded_at": s.catalog.LoadedAt(),
	})
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	listings := s.catalog.Load(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(listings),
		"listings": listings,
	})
}

func (s *Server) handleCatalogReload(w http.ResponseWriter, r *http.Request) {
	listings := s.catalog.Reload(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(listings),
		"loaded_at": s.catalog.LoadedAt(),
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if prefs.NormalizeKey(key) == "" {
		writeError(w, http.StatusBadRequest, "invalid buyer key")
		return
	}
	writeJSON(w, http.StatusOK, s.prefs.Get(key))
}

func (s *Server) handlePatchPreferences(w http.ResponseWriter, r *http.Request) {
	var patch prefs.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch body")
		return
	}

	resolved, err := s.prefs.Set(chi.URLParam(r, "key"), patch)
	if err != nil {
		if errors.Is(err, prefs.ErrInvalidKey) {
			writeError(w, http.StatusBadRequest, "invalid buyer key")
			return
		}
		writeError(w, http.StatusInternalServerError, "preference update failed")
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

type scoreRequest struct {
	Host     string         `json:"host"`
	BuyerKey string         `json:"buyer_key"`
	Signals  *model.Signals `json:"signals"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed score request")
		return
	}

	host := catalog.CanonicalHost(req.Host)
	if host == "" {
		writeError(w, http.StatusBadRequest, "invalid host")
		return
	}
	listing, ok := s.catalog.Find(r.Context(), host)
	if !ok {
		writeError(w, http.StatusNotFound, "host not in catalog")
		return
	}

	p := s.prefs.Get(req.BuyerKey)
	writeJSON(w, http.StatusOK, s.engine.Score(listing, p, req.Signals))
}

func (s *Server) handlePutThresholds(w http.ResponseWriter, r *http.Request) {
	var t scoring.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "malformed thresholds body")
		return
	}
	if err := s.engine.Thresholds().Swap(t); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Thresholds().Current())
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	var out []model.LeadRecord
	if raw := r.URL.Query().Get("temperature"); raw != "" {
		temp := model.Temperature(raw)
		if !temp.Valid() {
			writeError(w, http.StatusBadRequest, "invalid temperature")
			return
		}
		out = s.leads.ListByTemperature(temp)
	} else {
		for _, temp := range []model.Temperature{model.TempHot, model.TempWarm, model.TempCold} {
			out = append(out, s.leads.ListByTemperature(temp)...)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(out),
		"leads": out,
	})
}

func (s *Server) handleLeadSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.leads.Summary())
}

type promoteRequest struct {
	Temperature model.Temperature `json:"temperature"`
}

func (s *Server) handlePromoteLead(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed promote body")
			return
		}
	}
	if req.Temperature == "" {
		req.Temperature = model.TempHot
	}

	rec, err := s.leads.Promote(chi.URLParam(r, "host"), req.Temperature)
	if err != nil {
		s.leadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleResetLead(w http.ResponseWriter, r *http.Request) {
	rec, err := s.leads.Reset(chi.URLParam(r, "host"))
	if err != nil {
		s.leadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleTouchLead(w http.ResponseWriter, r *http.Request) {
	rec, err := s.leads.Touch(chi.URLParam(r, "host"))
	if err != nil {
		s.leadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) leadError(w http.ResponseWriter, err error) {
	if errors.Is(err, leads.ErrInvalidKey) {
		writeError(w, http.StatusBadRequest, "invalid host")
		return
	}
	writeError(w, http.StatusInternalServerError, "lead update failed")
}
