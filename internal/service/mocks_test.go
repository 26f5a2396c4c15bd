package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/coachly/backend-auth/internal/domain"
)

// txMarker tags contexts handed out by mockTransactor so the repository
// mocks can record whether a call ran inside a transaction.
type txMarker struct{}

func inTransaction(ctx context.Context) bool {
	return ctx.Value(txMarker{}) != nil
}

// mockTransactor runs the function inline with a marked context. It
// mirrors the rollback contract: an error from fn is returned as-is.
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(context.WithValue(ctx, txMarker{}, true))
}

// mockAccountRepository is an in-memory AccountRepository. It mirrors the
// postgres contract: lookups return (nil, nil) on no match, GetByID strips
// the password hash, and mutations are atomic under a mutex.
type mockAccountRepository struct {
	mu          sync.Mutex
	accounts    map[string]*domain.Account
	emailIndex  map[string]*domain.Account
	createErr   error
	failErr     error
	createdInTx bool
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{
		accounts:   make(map[string]*domain.Account),
		emailIndex: make(map[string]*domain.Account),
	}
}

func (r *mockAccountRepository) put(account *domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = account
	r.emailIndex[strings.ToLower(account.Email)] = account
}

func (r *mockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.createdInTx = inTransaction(ctx)
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.emailIndex[strings.ToLower(account.Email)]; exists {
		return domain.ErrEmailTaken
	}
	r.accounts[account.ID] = account
	r.emailIndex[strings.ToLower(account.Email)] = account
	return nil
}

func (r *mockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[id]
	if account == nil || account.IsDeleted {
		return nil, nil
	}
	copied := *account
	copied.PasswordHash = ""
	return &copied, nil
}

func (r *mockAccountRepository) GetByIDWithSecret(ctx context.Context, id string) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[id]
	if account == nil || account.IsDeleted {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *mockAccountRepository) GetByEmailWithSecret(ctx context.Context, email string) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.emailIndex[strings.ToLower(email)]
	if account == nil || account.IsDeleted {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *mockAccountRepository) UpdateName(ctx context.Context, id, name string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[id]
	if account == nil || account.IsDeleted {
		return nil, domain.ErrAccountNotFound
	}
	account.Name = name
	account.UpdatedAt = time.Now()
	copied := *account
	copied.PasswordHash = ""
	return &copied, nil
}

func (r *mockAccountRepository) SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[id]
	if account == nil || account.IsDeleted {
		return domain.ErrAccountNotFound
	}
	account.PasswordHash = hash
	account.PasswordChangedAt = changedAt
	account.UpdatedAt = time.Now()
	return nil
}

func (r *mockAccountRepository) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[id]
	if account == nil || account.IsDeleted {
		return domain.ErrAccountNotFound
	}
	account.IsActive = false
	account.UpdatedAt = time.Now()
	return nil
}

func (r *mockAccountRepository) Approve(ctx context.Context, id string) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.accounts[id]
	if account == nil || account.IsDeleted || account.Role != domain.RoleTrainer {
		return nil, nil
	}
	account.IsApproved = true
	account.UpdatedAt = time.Now()
	copied := *account
	copied.PasswordHash = ""
	return &copied, nil
}

func (r *mockAccountRepository) ApproveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.emailIndex[strings.ToLower(email)]
	if account == nil || account.IsDeleted || account.Role != domain.RoleTrainer {
		return nil, nil
	}
	account.IsApproved = true
	account.UpdatedAt = time.Now()
	copied := *account
	copied.PasswordHash = ""
	return &copied, nil
}

func (r *mockAccountRepository) ListPendingTrainers(ctx context.Context) ([]*domain.Account, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*domain.Account
	for _, account := range r.accounts {
		if account.Role == domain.RoleTrainer && !account.IsApproved && !account.IsDeleted {
			copied := *account
			copied.PasswordHash = ""
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

// mockProfileRepository is an in-memory ProfileRepository.
type mockProfileRepository struct {
	mu          sync.Mutex
	profiles    map[string]*domain.TrainerProfile
	createErr   error
	createdInTx bool
}

func newMockProfileRepository() *mockProfileRepository {
	return &mockProfileRepository{
		profiles: make(map[string]*domain.TrainerProfile),
	}
}

func (r *mockProfileRepository) put(profile *domain.TrainerProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
}

func (r *mockProfileRepository) Create(ctx context.Context, profile *domain.TrainerProfile) error {
	r.createdInTx = inTransaction(ctx)
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *mockProfileRepository) GetByID(ctx context.Context, id string) (*domain.TrainerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := r.profiles[id]
	if profile == nil {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (r *mockProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.TrainerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.AccountID == accountID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *mockProfileRepository) Update(ctx context.Context, profile *domain.TrainerProfile) (*domain.TrainerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.profiles[profile.ID]; !exists {
		return nil, nil
	}
	copied := *profile
	copied.UpdatedAt = time.Now()
	r.profiles[profile.ID] = &copied
	result := copied
	return &result, nil
}
