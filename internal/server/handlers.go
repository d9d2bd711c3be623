package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/ingest"
	"github.com/fusionlabs/profilegen/internal/model"
	"github.com/fusionlabs/profilegen/internal/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	source := model.Source(chi.URLParam(r, "source"))
	if !source.Valid() {
		writeError(w, http.StatusBadRequest, "unknown source: "+string(source))
		return
	}

	var req ingest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "company_name is required")
		return
	}

	result, err := s.ingest.Ingest(r.Context(), source, req)
	if err != nil {
		zap.L().Error("server: ingestion failed",
			zap.String("company", req.CompanyName),
			zap.String("source", string(source)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "company_name is required")
		return
	}

	result, err := s.pipe.Generate(r.Context(), req)
	if err != nil {
		if eris.Is(err, pipeline.ErrNoSourceData) {
			writeError(w, http.StatusNotFound, "no source data for company")
			return
		}
		zap.L().Error("server: profile generation failed",
			zap.String("company", req.CompanyName),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "profile generation failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	profile, err := s.store.GetProfile(r.Context(), company)
	if err != nil {
		zap.L().Error("server: get profile failed",
			zap.String("company", company),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type industryMatchRequest struct {
	CompanyName   string `json:"company_name"`
	CompanyDomain string `json:"company_domain,omitempty"`
	Description   string `json:"description"`
}

func (s *Server) handleIndustryMatch(w http.ResponseWriter, r *http.Request) {
	var req industryMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "company_name is required")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	mapping, err := s.pipe.ClassifyCompany(r.Context(), req.CompanyName, req.CompanyDomain, req.Description)
	if err != nil {
		zap.L().Error("server: industry match failed",
			zap.String("company", req.CompanyName),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "industry match failed")
		return
	}
	if mapping == nil {
		// Below every threshold: a legitimate "unclassified" outcome.
		writeJSON(w, http.StatusOK, map[string]any{
			"company_name": req.CompanyName,
			"matched":      false,
		})
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

func (s *Server) handleGetIndustry(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	mapping, err := s.store.GetIndustryMapping(r.Context(), company)
	if err != nil {
		zap.L().Error("server: get industry mapping failed",
			zap.String("company", company),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if mapping == nil {
		writeError(w, http.StatusNotFound, "industry mapping not found")
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}
