package formation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"formflow/query"
)

// ErrNotFound signals that a formation lookup matched no single record, or
// that the remote store refused the call.
var ErrNotFound = errors.New("formation: not found")

// Repository provides read access to the formations listing.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Formation, int, error)
	GetByID(ctx context.Context, id int64) (Formation, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var listColumns = []string{"id", "institution", "program", "city", "department", "voie", "created_at"}

// buildListQuery turns a filter set into an executable query value. Kept
// separate from execution so predicate composition is testable without a
// database.
func buildListQuery(filters ListFilters) *query.Builder {
	b := query.New("formations", listColumns...)

	b.SearchAny(strings.TrimSpace(filters.Search), "institution", "program", "city")

	voies := make([]any, 0, len(filters.Voies)+1)
	for _, v := range filters.Voies {
		voies = append(voies, v)
	}
	if filters.IncludeOther {
		voies = append(voies, VoieOther)
	}
	b.AnyEq("voie", voies...)

	if filters.Department != "" {
		b.Eq("department", filters.Department)
	}
	if filters.City != "" {
		b.Eq("city", filters.City)
	}

	if filters.SortKey != "" {
		b.OrderBy(mapSortKey(filters.SortKey), filters.SortOrder == "asc")
	}

	b.Range((filters.Page-1)*filters.PageSize, filters.Page*filters.PageSize-1)

	return b
}

// List returns the page of formations matching filters and the exact total
// match count ignoring pagination.
func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Formation, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	q := buildListQuery(filters)

	selectSQL, args := q.SelectSQL()
	rows, err := r.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("formation: query list: %w", err)
	}
	defer rows.Close()

	list := []Formation{}
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("formation: scan: %w", err)
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("formation: iterate list: %w", err)
	}

	countSQL, countArgs := q.CountSQL()
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("formation: count list: %w", err)
	}

	return list, total, nil
}

// GetByID fetches exactly one formation by identifier. Zero or more than one
// matching row yields ErrNotFound.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (Formation, error) {
	const selectSQL = `
		SELECT id, institution, program, city, department, voie, created_at
		FROM formations
		WHERE id = $1
	`

	rows, err := r.pool.Query(ctx, selectSQL, id)
	if err != nil {
		return Formation{}, fmt.Errorf("formation: query by id: %w", err)
	}
	defer rows.Close()

	var (
		found Formation
		count int
	)
	for rows.Next() {
		f, err := scanFormation(rows)
		if err != nil {
			return Formation{}, fmt.Errorf("formation: scan: %w", err)
		}
		found = f
		count++
	}
	if err := rows.Err(); err != nil {
		return Formation{}, fmt.Errorf("formation: query by id: %w", err)
	}
	if count != 1 {
		return Formation{}, ErrNotFound
	}

	return found, nil
}

func scanFormation(row pgx.Row) (Formation, error) {
	var f Formation
	return f, row.Scan(
		&f.ID,
		&f.Institution,
		&f.Program,
		&f.City,
		&f.Department,
		&f.Voie,
		&f.CreatedAt,
	)
}

func mapSortKey(key string) string {
	switch key {
	case "institution":
		return "institution"
	case "program":
		return "program"
	case "city":
		return "city"
	case "department":
		return "department"
	case "voie":
		return "voie"
	case "createdAt":
		fallthrough
	default:
		return "created_at"
	}
}
