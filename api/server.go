// Package api exposes the service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"formflow/auth"
	"formflow/formation"
	"formflow/logging"
)

// FormationService abstracts the listing query and detail resolver.
type FormationService interface {
	List(ctx context.Context, filters formation.ListFilters) (formation.ListResult, error)
	Detail(ctx context.Context, id int64, sess *auth.Session) (formation.Detail, error)
}

// TokenService abstracts the token balance reader and consumption.
type TokenService interface {
	Balance(ctx context.Context, sess *auth.Session) int
	Consume(ctx context.Context, sess *auth.Session, formationID int64) (json.RawMessage, error)
}

// AuthService abstracts account registration and session verification.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	VerifyToken(token string) (auth.Session, error)
}

// Server wires HTTP handlers to the domain services.
type Server struct {
	formations FormationService
	tokens     TokenService
	auth       AuthService
	log        logging.Logger
}

// NewServer builds a Server over the given services.
func NewServer(formations FormationService, tokens TokenService, authSvc AuthService, log logging.Logger) *Server {
	if log == nil {
		log = logging.Default()
	}
	return &Server{
		formations: formations,
		tokens:     tokens,
		auth:       authSvc,
		log:        log,
	}
}

// Router assembles the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)
		api.Post("/auth/login", s.handleLogin)
		api.Get("/formations", s.handleListFormations)
		api.Get("/formations/{formationID}", s.handleFormationDetail)
		api.Post("/formations/{formationID}/unlock", s.handleUnlockFormation)
		api.Get("/me/tokens", s.handleTokenBalance)
	})

	return r
}

// session resolves the caller's session from the Authorization header. Absent
// or invalid bearer tokens mean an anonymous caller; each handler decides
// whether that is acceptable.
func (s *Server) session(r *http.Request) *auth.Session {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return nil
	}

	sess, err := s.auth.VerifyToken(strings.TrimPrefix(header, prefix))
	if err != nil {
		return nil
	}
	return &sess
}
