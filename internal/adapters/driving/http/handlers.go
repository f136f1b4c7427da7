package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings PostgreSQL and the lock backend
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.lock != nil {
		if err := s.lock.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "lock backend unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Admin login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Link endpoints

// handleLinkExemplar godoc
// @Summary      Link an exemplar to research papers
// @Tags         Links
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exemplar ID"
// @Success      200  {object}  domain.LinkResult
// @Failure      404  {object}  domain.LinkResult
// @Failure      503  {object}  domain.LinkResult
// @Router       /exemplars/{id}/links [post]
func (s *Server) handleLinkExemplar(w http.ResponseWriter, r *http.Request) {
	result, err := s.linkService.LinkExemplar(r.Context(), r.PathValue("id"))
	writeResult(w, result, err)
}

// handleLinkResearchPaper godoc
// @Summary      Link a research paper to exemplars
// @Tags         Links
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Research paper ID"
// @Success      200  {object}  domain.LinkResult
// @Router       /research/{id}/links [post]
func (s *Server) handleLinkResearchPaper(w http.ResponseWriter, r *http.Request) {
	result, err := s.linkService.LinkResearchPaper(r.Context(), r.PathValue("id"))
	writeResult(w, result, err)
}

// handleListLinks godoc
// @Summary      List links for a record
// @Tags         Links
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exemplar or research paper ID"
// @Success      200  {array}   domain.Link
// @Router       /records/{id}/links [get]
func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.linkService.ListLinks(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if links == nil {
		links = []*domain.Link{}
	}
	writeJSON(w, http.StatusOK, links)
}

// handleDeleteLink godoc
// @Summary      Delete a link
// @Tags         Links
// @Security     BearerAuth
// @Param        id   path  string  true  "Link ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /links/{id} [delete]
func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := s.linkService.DeleteLink(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Expansion and thinker endpoints

// handleExpandExemplar godoc
// @Summary      Expand exemplar content with the text generator
// @Tags         Exemplars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Exemplar ID"
// @Success      200  {object}  domain.Exemplar
// @Failure      502  {object}  ErrorResponse  "Generation failed"
// @Failure      503  {object}  ErrorResponse  "No generator configured"
// @Router       /exemplars/{id}/expand [post]
func (s *Server) handleExpandExemplar(w http.ResponseWriter, r *http.Request) {
	exemplar, err := s.expansionService.ExpandExemplar(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exemplar)
}

// handleEnrichThinker godoc
// @Summary      Enrich a thinker profile
// @Tags         Thinkers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Thinker ID"
// @Success      200  {object}  domain.Thinker
// @Router       /thinkers/{id}/enrich [post]
func (s *Server) handleEnrichThinker(w http.ResponseWriter, r *http.Request) {
	thinker, err := s.thinkerService.EnrichThinker(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thinker)
}

// handleAlignThinker godoc
// @Summary      Align a thinker to a work family
// @Tags         Thinkers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Thinker ID"
// @Success      200  {object}  domain.Alignment
// @Router       /thinkers/{id}/align [post]
func (s *Server) handleAlignThinker(w http.ResponseWriter, r *http.Request) {
	alignment, err := s.thinkerService.AlignThinker(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alignment)
}

// Sweep endpoints

// handleSweepResearchLinks godoc
// @Summary      Link every exemplar in a category
// @Tags         Sweeps
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Exemplar category (empty for all)"
// @Success      200       {object}  domain.SweepResult
// @Failure      409       {object}  ErrorResponse  "Sweep already running"
// @Router       /sweeps/research-links [post]
func (s *Server) handleSweepResearchLinks(w http.ResponseWriter, r *http.Request) {
	result, err := s.linkService.SweepResearchLinks(r.Context(), r.URL.Query().Get("category"))
	writeSweep(w, result, err)
}

// handleSweepExpansion godoc
// @Summary      Expand every exemplar in a category
// @Tags         Sweeps
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Exemplar category (empty for all)"
// @Success      200       {object}  domain.SweepResult
// @Router       /sweeps/expansion [post]
func (s *Server) handleSweepExpansion(w http.ResponseWriter, r *http.Request) {
	result, err := s.expansionService.BulkExpand(r.Context(), r.URL.Query().Get("category"))
	writeSweep(w, result, err)
}

// handleSweepAlignment godoc
// @Summary      Align every thinker
// @Tags         Sweeps
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SweepResult
// @Router       /sweeps/alignment [post]
func (s *Server) handleSweepAlignment(w http.ResponseWriter, r *http.Request) {
	result, err := s.thinkerService.AlignAll(r.Context())
	writeSweep(w, result, err)
}

// handleSweepStatus godoc
// @Summary      Scheduled sweep status
// @Description  Next and last run of every scheduled sweep in this process
// @Tags         Sweeps
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sweeper.Health
// @Failure      404  {object}  ErrorResponse
// @Router       /sweeps/status [get]
func (s *Server) handleSweepStatus(w http.ResponseWriter, r *http.Request) {
	if s.sweeps == nil {
		writeError(w, http.StatusNotFound, "scheduled sweeps are not running in this process")
		return
	}
	writeJSON(w, http.StatusOK, s.sweeps.Health())
}

// Neural Ennead endpoints

// handleSeedPersonas godoc
// @Summary      Seed all Neural Ennead personas
// @Tags         Ennead
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.SeedResult
// @Router       /ennead/seed [post]
func (s *Server) handleSeedPersonas(w http.ResponseWriter, r *http.Request) {
	result, err := s.enneadService.SeedPersonas(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListPersonas godoc
// @Summary      List stored personas
// @Tags         Ennead
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum personas to return"
// @Success      200    {array}   domain.Persona
// @Router       /ennead/personas [get]
func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	personas, err := s.enneadService.ListPersonas(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if personas == nil {
		personas = []*domain.Persona{}
	}
	writeJSON(w, http.StatusOK, personas)
}

// handleAssembleTeam godoc
// @Summary      Assemble a Neural Ennead team
// @Tags         Ennead
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Team
// @Router       /ennead/team [get]
func (s *Server) handleAssembleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.enneadService.AssembleTeam(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// Helper functions

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSweepInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrServiceUnavailable), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, message)
}

// writeResult writes a link result. A failed run still reports its result body.
func writeResult(w http.ResponseWriter, result *domain.LinkResult, err error) {
	if err != nil && result == nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	if status == http.StatusInternalServerError && result.Error != "" {
		masked := *result
		masked.Error = "internal server error"
		result = &masked
	}
	writeJSON(w, status, result)
}

// writeSweep writes a sweep result. An interrupted sweep reports what it processed.
func writeSweep(w http.ResponseWriter, result *domain.SweepResult, err error) {
	if err != nil && result == nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
