package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"formflow/auth"
	"formflow/formation"
	"formflow/tokens"
)

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	CreatedAt string `json:"createdAt"`
}

type formationResponse struct {
	ID          int64  `json:"id"`
	Institution string `json:"institution"`
	Program     string `json:"program"`
	City        string `json:"city"`
	Department  string `json:"department"`
	Voie        string `json:"voie"`
	CreatedAt   string `json:"createdAt"`
}

type detailResponse struct {
	formationResponse
	Notes  *string `json:"notes"`
	Locked bool    `json:"locked"`
	Error  string  `json:"error,omitempty"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toFormationResponse(f formation.Formation) formationResponse {
	return formationResponse{
		ID:          f.ID,
		Institution: f.Institution,
		Program:     f.Program,
		City:        f.City,
		Department:  f.Department,
		Voie:        f.Voie,
		CreatedAt:   f.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		s.respondError(w, http.StatusConflict, "email already registered")
		return
	case errors.Is(err, auth.ErrWeakPassword):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, toUserResponse(*user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.auth.Login(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  toUserResponse(result.User),
	})
}

func (s *Server) handleListFormations(w http.ResponseWriter, r *http.Request) {
	filters := listFiltersFromQuery(r)

	result, err := s.formations.List(r.Context(), filters)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "listing query failed")
		return
	}

	items := make([]formationResponse, 0, len(result.Items))
	for _, f := range result.Items {
		items = append(items, toFormationResponse(f))
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": result.Total,
	})
}

func listFiltersFromQuery(r *http.Request) formation.ListFilters {
	q := r.URL.Query()

	filters := formation.ListFilters{
		Search:     q.Get("search"),
		Department: q.Get("departement"),
		City:       q.Get("ville"),
		SortKey:    q.Get("sortBy"),
		SortOrder:  q.Get("sortDir"),
	}

	if raw := q.Get("voies"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				filters.Voies = append(filters.Voies, v)
			}
		}
	}
	if autres, err := strconv.ParseBool(q.Get("autres")); err == nil {
		filters.IncludeOther = autres
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if size, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		filters.PageSize = size
	}

	return filters
}

func (s *Server) handleFormationDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "formationID"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid formation id")
		return
	}

	detail, err := s.formations.Detail(r.Context(), id, s.session(r))
	switch {
	case errors.Is(err, formation.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "formation not found")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, "detail fetch failed")
		return
	}

	s.respondJSON(w, http.StatusOK, detailResponse{
		formationResponse: toFormationResponse(detail.Formation),
		Notes:             detail.Notes,
		Locked:            detail.Locked,
		Error:             detail.Error,
	})
}

func (s *Server) handleUnlockFormation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "formationID"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid formation id")
		return
	}

	result, err := s.tokens.Consume(r.Context(), s.session(r), id)
	switch {
	case errors.Is(err, tokens.ErrUnauthenticated):
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, "token consumption failed")
		return
	}

	// The procedure result is passed through verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result)
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	balance := s.tokens.Balance(r.Context(), s.session(r))
	s.respondJSON(w, http.StatusOK, map[string]int{"tokens": balance})
}
