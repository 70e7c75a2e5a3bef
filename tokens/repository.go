package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoProfile signals that the user has no profile row.
var ErrNoProfile = errors.New("tokens: profile not found")

// Repository handles data access for the token balance.
type Repository interface {
	Balance(ctx context.Context, userID string) (int, error)
	Consume(ctx context.Context, userID string, formationID int64) (json.RawMessage, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Balance reads the token balance for the given user.
func (r *PGRepository) Balance(ctx context.Context, userID string) (int, error) {
	const selectSQL = `
		SELECT tokens
		FROM user_profiles
		WHERE user_id = $1
	`

	var balance int
	err := r.pool.QueryRow(ctx, selectSQL, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoProfile
		}
		return 0, fmt.Errorf("tokens: query balance: %w", err)
	}

	return balance, nil
}

// Consume invokes the transactional use_token_for_formation procedure and
// returns its JSON result untouched. The balance check and decrement are
// atomic inside the procedure; nothing is retried or compensated here.
func (r *PGRepository) Consume(ctx context.Context, userID string, formationID int64) (json.RawMessage, error) {
	const callSQL = `SELECT use_token_for_formation($1, $2)`

	var result []byte
	if err := r.pool.QueryRow(ctx, callSQL, userID, formationID).Scan(&result); err != nil {
		return nil, fmt.Errorf("tokens: use_token_for_formation: %w", err)
	}

	return json.RawMessage(result), nil
}
