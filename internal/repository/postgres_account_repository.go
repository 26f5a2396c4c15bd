package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachly/backend-auth/internal/domain"
)

const (
	// Per-statement deadline; lookups and writes must fail fast with
	// StoreUnavailable instead of hanging on a sick database.
	defaultQueryTimeout = 3 * time.Second

	uniqueViolationCode = "23505"
)

// accountColumns excludes password_hash. The secret only travels on the
// explicit *WithSecret lookups.
const accountColumns = `id, email, name, role, is_active, is_approved, is_deleted, password_changed_at, created_at, updated_at`

const accountColumnsWithSecret = `id, email, password_hash, name, role, is_active, is_approved, is_deleted, password_changed_at, created_at, updated_at`

// PostgresAccountRepository implements AccountRepository on pgx.
type PostgresAccountRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresAccountRepository creates a repository backed by the given pool.
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool, timeout: defaultQueryTimeout}
}

// storeErr classifies a driver failure. Lookup misses are handled by the
// callers via pgx.ErrNoRows before reaching here.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// isUUID screens path-supplied ids before they reach a uuid column. A
// malformed id can never match a row, so it reads as a lookup miss instead
// of a driver syntax error.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func (r *PostgresAccountRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresAccountRepository) db(ctx context.Context) querier {
	return queryEngine(ctx, r.pool)
}

// Create inserts a new account. Email uniqueness is enforced by the
// database's unique index, not by a racy pre-check.
func (r *PostgresAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO accounts (id, email, password_hash, name, role, is_active, is_approved, is_deleted, password_changed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db(ctx).Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Role,
		account.IsActive,
		account.IsApproved,
		account.IsDeleted,
		account.PasswordChangedAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return storeErr(err)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.Role,
		&a.IsActive, &a.IsApproved, &a.IsDeleted,
		&a.PasswordChangedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return a, nil
}

func scanAccountWithSecret(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Role,
		&a.IsActive, &a.IsApproved, &a.IsDeleted,
		&a.PasswordChangedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(err)
	}
	return a, nil
}

// GetByID retrieves an account by id, excluding the password hash.
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if !isUUID(id) {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND is_deleted = false`
	return scanAccount(r.db(ctx).QueryRow(ctx, query, id))
}

// GetByIDWithSecret retrieves an account by id including the password hash.
func (r *PostgresAccountRepository) GetByIDWithSecret(ctx context.Context, id string) (*domain.Account, error) {
	if !isUUID(id) {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumnsWithSecret + ` FROM accounts WHERE id = $1 AND is_deleted = false`
	return scanAccountWithSecret(r.db(ctx).QueryRow(ctx, query, id))
}

// GetByEmailWithSecret retrieves an account by email including the password
// hash. The email is matched case-insensitively.
func (r *PostgresAccountRepository) GetByEmailWithSecret(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + accountColumnsWithSecret + ` FROM accounts WHERE email = lower($1) AND is_deleted = false`
	return scanAccountWithSecret(r.db(ctx).QueryRow(ctx, query, email))
}

// UpdateName rewrites the display name in place.
func (r *PostgresAccountRepository) UpdateName(ctx context.Context, id, name string) (*domain.Account, error) {
	if !isUUID(id) {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET name = $2, updated_at = now()
		WHERE id = $1 AND is_deleted = false
		RETURNING ` + accountColumns
	return scanAccount(r.db(ctx).QueryRow(ctx, query, id, name))
}

// SetPassword swaps the stored hash and stamps password_changed_at, which
// invalidates every token issued before changedAt.
func (r *PostgresAccountRepository) SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	if !isUUID(id) {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET password_hash = $2, password_changed_at = $3, updated_at = now()
		WHERE id = $1 AND is_deleted = false
	`
	tag, err := r.db(ctx).Exec(ctx, query, id, hash, changedAt)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Deactivate soft-disables the account.
func (r *PostgresAccountRepository) Deactivate(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET is_active = false, updated_at = now()
		WHERE id = $1 AND is_deleted = false
	`
	tag, err := r.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Approve flips is_approved on a trainer account in one statement. Matching
// rows that are already approved are updated again to the same value, so two
// admins approving concurrently both see success and the flag ends up true.
func (r *PostgresAccountRepository) Approve(ctx context.Context, id string) (*domain.Account, error) {
	if !isUUID(id) {
		return nil, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET is_approved = true, updated_at = now()
		WHERE id = $1 AND role = 'trainer' AND is_deleted = false
		RETURNING ` + accountColumns
	return scanAccount(r.db(ctx).QueryRow(ctx, query, id))
}

// ApproveByEmail is Approve keyed by (case-insensitive) email.
func (r *PostgresAccountRepository) ApproveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE accounts
		SET is_approved = true, updated_at = now()
		WHERE email = lower($1) AND role = 'trainer' AND is_deleted = false
		RETURNING ` + accountColumns
	return scanAccount(r.db(ctx).QueryRow(ctx, query, email))
}

// ListPendingTrainers returns trainer accounts awaiting approval, oldest
// registration first.
func (r *PostgresAccountRepository) ListPendingTrainers(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE role = 'trainer' AND is_approved = false AND is_deleted = false
		ORDER BY created_at
	`
	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a := &domain.Account{}
		if err := rows.Scan(
			&a.ID, &a.Email, &a.Name, &a.Role,
			&a.IsActive, &a.IsApproved, &a.IsDeleted,
			&a.PasswordChangedAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, storeErr(err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return accounts, nil
}
