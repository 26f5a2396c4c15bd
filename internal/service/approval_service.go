package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/coachly/backend-auth/internal/domain"
	"github.com/coachly/backend-auth/internal/repository"
	"github.com/coachly/backend-auth/pkg/telemetry"
)

// ApprovalService is the admin workflow that moves trainer accounts from
// pending to approved. There is no reverse transition.
type ApprovalService interface {
	// ApproveByID approves the trainer with the given account id. Fails
	// with domain.ErrNotFound when no trainer matches. Approving an
	// already-approved trainer succeeds without side effects.
	ApproveByID(ctx context.Context, id string) (*domain.Account, error)
	// ApproveByEmail is ApproveByID keyed by email.
	ApproveByEmail(ctx context.Context, email string) (*domain.Account, error)
	// ListPending returns trainers awaiting approval.
	ListPending(ctx context.Context) ([]*domain.Account, error)
}

type approvalService struct {
	accounts repository.AccountRepository
}

// NewApprovalService creates an ApprovalService.
func NewApprovalService(accounts repository.AccountRepository) ApprovalService {
	return &approvalService{accounts: accounts}
}

func (s *approvalService) ApproveByID(ctx context.Context, id string) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.approval.approve_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("account_id", id))

	account, err := s.accounts.Approve(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "no matching trainer")
		return nil, domain.ErrNotFound
	}

	span.SetStatus(codes.Ok, "")
	return account, nil
}

func (s *approvalService) ApproveByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.approval.approve_by_email")
	defer span.End()

	account, err := s.accounts.ApproveByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if account == nil {
		span.SetStatus(codes.Error, "no matching trainer")
		return nil, domain.ErrNotFound
	}

	span.SetAttributes(attribute.String("account_id", account.ID))
	span.SetStatus(codes.Ok, "")
	return account, nil
}

func (s *approvalService) ListPending(ctx context.Context) ([]*domain.Account, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.approval.list_pending")
	defer span.End()

	accounts, err := s.accounts.ListPendingTrainers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("pending", len(accounts)))
	span.SetStatus(codes.Ok, "")
	return accounts, nil
}
