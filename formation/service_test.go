package formation

import (
	"context"
	"errors"
	"testing"
	"time"

	"formflow/auth"
)

type fakeRepository struct {
	items     []Formation
	total     int
	listErr   error
	record    Formation
	getErr    error
	lastQuery ListFilters
}

func (f *fakeRepository) List(_ context.Context, filters ListFilters) ([]Formation, int, error) {
	f.lastQuery = filters
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.items, f.total, nil
}

func (f *fakeRepository) GetByID(_ context.Context, _ int64) (Formation, error) {
	if f.getErr != nil {
		return Formation{}, f.getErr
	}
	return f.record, nil
}

type fakeNotes struct {
	notes *string
	err   error
	calls int
}

func (f *fakeNotes) Fetch(_ context.Context, _ string, _ int64) (*string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.notes, nil
}

func sampleFormation() Formation {
	return Formation{
		ID:          42,
		Institution: "Lycée Condorcet",
		Program:     "CPGE MPSI",
		City:        "Paris",
		Department:  "75",
		Voie:        "generale",
		CreatedAt:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_ListPropagatesError(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &fakeRepository{listErr: boom}
	svc := NewService(repo, &fakeNotes{}, nil)

	_, err := svc.List(context.Background(), ListFilters{Page: 1, PageSize: 20})
	if !errors.Is(err, boom) {
		t.Fatalf("expected remote error propagated unmodified, got %v", err)
	}
}

func TestService_ListReturnsPageAndTotal(t *testing.T) {
	repo := &fakeRepository{items: []Formation{sampleFormation()}, total: 57}
	svc := NewService(repo, &fakeNotes{}, nil)

	res, err := svc.List(context.Background(), ListFilters{Page: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 1 || res.Total != 57 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if repo.lastQuery.Page != 2 || repo.lastQuery.PageSize != 1 {
		t.Fatalf("filters not passed through: %+v", repo.lastQuery)
	}
}

func TestService_DetailAnonymousIsLockedWithoutEnrichmentCall(t *testing.T) {
	repo := &fakeRepository{record: sampleFormation()}
	notes := &fakeNotes{}
	svc := NewService(repo, notes, nil)

	detail, err := svc.Detail(context.Background(), 42, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !detail.Locked {
		t.Fatal("expected locked detail for anonymous caller")
	}
	if detail.Notes != nil {
		t.Fatalf("expected nil notes, got %v", *detail.Notes)
	}
	if detail.Error != "" {
		t.Fatalf("expected no error message, got %q", detail.Error)
	}
	if notes.calls != 0 {
		t.Fatalf("expected no enrichment call, got %d", notes.calls)
	}
}

func TestService_DetailNotFoundPropagates(t *testing.T) {
	repo := &fakeRepository{getErr: ErrNotFound}
	svc := NewService(repo, &fakeNotes{}, nil)

	_, err := svc.Detail(context.Background(), 42, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DetailEnrichmentFailureDegrades(t *testing.T) {
	repo := &fakeRepository{record: sampleFormation()}
	notes := &fakeNotes{err: errors.New("insufficient tokens")}
	svc := NewService(repo, notes, nil)

	sess := &auth.Session{UserID: "u1", Token: "jwt"}
	detail, err := svc.Detail(context.Background(), 42, sess)
	if err != nil {
		t.Fatalf("enrichment failure must not raise, got %v", err)
	}
	if !detail.Locked || detail.Notes != nil {
		t.Fatalf("expected locked detail without notes, got %+v", detail)
	}
	if detail.Error != "insufficient tokens" {
		t.Fatalf("expected parsed message, got %q", detail.Error)
	}
	if detail.ID != 42 {
		t.Fatalf("expected base record preserved, got %+v", detail.Formation)
	}
}

func TestService_DetailEnrichmentSuccessUnlocks(t *testing.T) {
	content := "Programme exigeant, fort taux de réussite aux concours."
	repo := &fakeRepository{record: sampleFormation()}
	notes := &fakeNotes{notes: &content}
	svc := NewService(repo, notes, nil)

	sess := &auth.Session{UserID: "u1", Token: "jwt"}
	detail, err := svc.Detail(context.Background(), 42, sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Locked {
		t.Fatal("expected unlocked detail")
	}
	if detail.Notes == nil || *detail.Notes != content {
		t.Fatalf("expected notes payload, got %v", detail.Notes)
	}
	if notes.calls != 1 {
		t.Fatalf("expected exactly one enrichment call, got %d", notes.calls)
	}
}
