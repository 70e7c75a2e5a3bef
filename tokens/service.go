// Package tokens manages the per-user consumable credit balance gating access
// to formation notes.
package tokens

import (
	"context"
	"encoding/json"
	"errors"

	"formflow/auth"
	"formflow/logging"
)

// ErrUnauthenticated signals a consumption attempt without a session.
var ErrUnauthenticated = errors.New("tokens: unauthenticated")

// Service exposes the balance reader and token consumption.
type Service struct {
	repo Repository
	log  logging.Logger
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository, log logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{repo: repo, log: log}
}

// Balance returns the session user's token balance. Anonymous callers,
// missing profile rows and remote errors all yield 0; it never fails.
func (s *Service) Balance(ctx context.Context, sess *auth.Session) int {
	if sess == nil {
		return 0
	}

	balance, err := s.repo.Balance(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, ErrNoProfile) {
			s.log.Error(ctx, "read token balance", "user_id", sess.UserID, "err", err)
		}
		return 0
	}

	return balance
}

// Consume spends one token on a formation through the remote transactional
// procedure and returns its result verbatim. It fails with ErrUnauthenticated
// before any remote call when no session is present.
func (s *Service) Consume(ctx context.Context, sess *auth.Session, formationID int64) (json.RawMessage, error) {
	if sess == nil {
		return nil, ErrUnauthenticated
	}

	result, err := s.repo.Consume(ctx, sess.UserID, formationID)
	if err != nil {
		s.log.Error(ctx, "consume token", "user_id", sess.UserID, "formation_id", formationID, "err", err)
		return nil, err
	}

	return result, nil
}
