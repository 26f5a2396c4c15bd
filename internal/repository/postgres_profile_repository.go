package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachly/backend-auth/internal/domain"
)

const profileColumns = `id, account_id, headline, bio, is_published, created_at, updated_at`

// PostgresProfileRepository implements ProfileRepository on pgx.
type PostgresProfileRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresProfileRepository creates a repository backed by the given pool.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool, timeout: defaultQueryTimeout}
}

func (r *PostgresProfileRepository) db(ctx context.Context) querier {
	return queryEngine(ctx, r.pool)
}

func scanProfile(row pgx.Row) (*domain.TrainerProfile, error) {
	p := &domain.TrainerProfile{}
	err := row.Scan(
		&p.ID, &p.AccountID, &p.Headline, &p.Bio,
		&p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return p, nil
}

// Create inserts a new trainer profile.
func (r *PostgresProfileRepository) Create(ctx context.Context, profile *domain.TrainerProfile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO trainer_profiles (id, account_id, headline, bio, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db(ctx).Exec(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.Headline,
		profile.Bio,
		profile.IsPublished,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// GetByID retrieves a profile by id.
func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.TrainerProfile, error) {
	if !isUUID(id) {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + profileColumns + ` FROM trainer_profiles WHERE id = $1`
	return scanProfile(r.db(ctx).QueryRow(ctx, query, id))
}

// GetByAccountID retrieves the profile owned by an account.
func (r *PostgresProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.TrainerProfile, error) {
	if !isUUID(accountID) {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + profileColumns + ` FROM trainer_profiles WHERE account_id = $1`
	return scanProfile(r.db(ctx).QueryRow(ctx, query, accountID))
}

// Update rewrites the editable fields in one statement and returns the
// stored row. (nil, nil) when the profile no longer exists.
func (r *PostgresProfileRepository) Update(ctx context.Context, profile *domain.TrainerProfile) (*domain.TrainerProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE trainer_profiles
		SET headline = $2, bio = $3, is_published = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns
	return scanProfile(r.db(ctx).QueryRow(ctx, query,
		profile.ID, profile.Headline, profile.Bio, profile.IsPublished))
}
