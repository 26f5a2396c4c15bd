package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/dto"
	"github.com/coachly/backend-auth/internal/repository"
	"github.com/coachly/backend-auth/internal/security"
	"github.com/coachly/backend-auth/internal/token"
	"github.com/coachly/backend-auth/pkg/telemetry"
)

// AuthService defines account registration, login and token resolution.
type AuthService interface {
	// Register creates an account with the requested role and returns a
	// fresh session token. Trainer accounts start unapproved and get an
	// empty, unpublished marketplace profile.
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates credentials and issues a session token.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Authenticate resolves a bearer token to a live identity, enforcing
	// active state and the stale-token rule. This is the access gate's
	// resolution step; middleware maps the error kinds onto HTTP statuses.
	Authenticate(ctx context.Context, tokenString string) (*domain.Identity, error)
	// GetAccount retrieves an account by id, without the password hash.
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	// UpdateName changes the display name of the authenticated account.
	UpdateName(ctx context.Context, accountID, name string) (*domain.Account, error)
	// ChangePassword verifies the current password, stores a new hash and
	// stamps the change time so earlier tokens go stale.
	ChangePassword(ctx context.Context, accountID string, req *dto.ChangePasswordRequest) error
	// Deactivate soft-disables the authenticated account.
	Deactivate(ctx context.Context, accountID string) error
}

type authService struct {
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	tx       repository.Transactor
	hasher   *security.PasswordHasher
	issuer   *token.Issuer
}

// NewAuthService creates an AuthService.
func NewAuthService(
	accounts repository.AccountRepository,
	profiles repository.ProfileRepository,
	tx repository.Transactor,
	hasher *security.PasswordHasher,
	issuer *token.Issuer,
) AuthService {
	return &authService{
		accounts: accounts,
		profiles: profiles,
		tx:       tx,
		hasher:   hasher,
		issuer:   issuer,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	role, ok := req.ValidateRole()
	if !ok {
		span.SetStatus(codes.Error, "invalid role")
		return nil, domain.ErrForbidden
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New().String(),
		Email:        req.NormalizedEmail(),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
		// Members are approved by default; trainers wait for an admin.
		IsApproved:        role != domain.RoleTrainer,
		PasswordChangedAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// A trainer account and its profile are created together or not at
	// all; a profile-insert failure must not leave an orphaned account.
	if role == domain.RoleTrainer {
		profile := &domain.TrainerProfile{
			ID:        uuid.New().String(),
			AccountID: account.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.accounts.Create(ctx, account); err != nil {
				return err
			}
			return s.profiles.Create(ctx, profile)
		})
	} else {
		err = s.accounts.Create(ctx, account)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	signed, err := s.issuer.Issue(account, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AuthResponse{
		Token:     signed,
		ExpiresIn: int64(s.issuer.TTL(false).Seconds()),
		Account:   dto.NewAccountResponse(account),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	account, err := s.accounts.GetByEmailWithSecret(ctx, req.NormalizedEmail())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if !account.IsActive {
		span.SetStatus(codes.Error, "account deactivated")
		return nil, domain.ErrAccountDeactivated
	}

	if err := s.hasher.Verify(req.Password, account.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			span.SetStatus(codes.Error, "password mismatch")
			return nil, domain.ErrInvalidCredentials
		}
		// Corrupt hash or bcrypt failure is an internal error, not a
		// wrong password.
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	signed, err := s.issuer.Issue(account, req.RememberMe)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AuthResponse{
		Token:     signed,
		ExpiresIn: int64(s.issuer.TTL(req.RememberMe).Seconds()),
		Account:   dto.NewAccountResponse(account),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*domain.Identity, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.authenticate")
	defer span.End()

	claims, err := s.issuer.Verify(tokenString)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, domain.ErrAccountNotFound
	}
	if !account.IsActive {
		span.SetStatus(codes.Error, "account deactivated")
		return nil, domain.ErrAccountDeactivated
	}

	// JWT iat has second precision; compare at the same granularity so a
	// token issued in the same second as the change is still accepted.
	if account.PasswordChangedAt.Truncate(time.Second).After(claims.IssuedAt.Truncate(time.Second)) {
		span.SetStatus(codes.Error, "stale token")
		return nil, domain.ErrStaleToken
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	span.SetStatus(codes.Ok, "")

	return &domain.Identity{
		AccountID: account.ID,
		Role:      account.Role,
		Approved:  account.IsApproved,
	}, nil
}

func (s *authService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_account")
	defer span.End()

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, domain.ErrAccountNotFound
	}

	span.SetStatus(codes.Ok, "")
	return account, nil
}

func (s *authService) UpdateName(ctx context.Context, accountID, name string) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.update_name")
	defer span.End()

	account, err := s.accounts.UpdateName(ctx, accountID, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "account not found")
		return nil, domain.ErrAccountNotFound
	}

	span.SetStatus(codes.Ok, "")
	return account, nil
}

func (s *authService) ChangePassword(ctx context.Context, accountID string, req *dto.ChangePasswordRequest) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.change_password")
	defer span.End()

	account, err := s.accounts.GetByIDWithSecret(ctx, accountID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if account == nil {
		span.SetStatus(codes.Error, "account not found")
		return domain.ErrAccountNotFound
	}

	if err := s.hasher.Verify(req.CurrentPassword, account.PasswordHash); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			span.SetStatus(codes.Error, "password mismatch")
			return domain.ErrInvalidCredentials
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// The new plaintext is hashed exactly here; the stored value is only
	// ever a hash, so a later save cannot re-hash it.
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.accounts.SetPassword(ctx, accountID, hash, time.Now()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *authService) Deactivate(ctx context.Context, accountID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.deactivate")
	defer span.End()

	if err := s.accounts.Deactivate(ctx, accountID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
