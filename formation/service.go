package formation

import (
	"context"

	"formflow/auth"
	"formflow/logging"
)

// NotesFetcher abstracts the remote notes enrichment endpoint.
type NotesFetcher interface {
	Fetch(ctx context.Context, accessToken string, formationID int64) (*string, error)
}

// Service exposes the listing query and the detail resolver.
type Service struct {
	repo  Repository
	notes NotesFetcher
	log   logging.Logger
}

// NewService builds a Service using the provided repository and notes client.
func NewService(repo Repository, notes NotesFetcher, log logging.Logger) *Service {
	if log == nil {
		log = logging.Default()
	}
	return &Service{repo: repo, notes: notes, log: log}
}

// List runs a filtered, paginated, optionally sorted listing query. Remote
// errors are logged and propagated unmodified.
func (s *Service) List(ctx context.Context, filters ListFilters) (ListResult, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.log.Error(ctx, "list formations", "err", err)
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// Detail fetches one formation and, when a session is present, enriches it
// with notes through the authorized endpoint. Lookup failures propagate;
// enrichment failures degrade to a locked record carrying the error message.
func (s *Service) Detail(ctx context.Context, id int64, sess *auth.Session) (Detail, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Error(ctx, "fetch formation", "formation_id", id, "err", err)
		return Detail{}, err
	}

	if sess == nil {
		return Detail{Formation: record, Locked: true}, nil
	}

	notes, err := s.notes.Fetch(ctx, sess.Token, id)
	if err != nil {
		s.log.Warn(ctx, "notes enrichment failed", "formation_id", id, "user_id", sess.UserID, "err", err)
		return Detail{Formation: record, Locked: true, Error: err.Error()}, nil
	}

	return Detail{Formation: record, Notes: notes, Locked: false}, nil
}
