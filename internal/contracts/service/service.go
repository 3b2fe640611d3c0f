// Package service orchestrates contract lifecycle operations. Transition
// rules live in the domain package; this layer loads state, runs the
// validator, persists accepted changes, and records the audit trail.
package service

import (
	"context"
	"errors"
	"time"

	"msp_core_backend/internal/contracts/domain"
	"msp_core_backend/internal/contracts/repository"
	"msp_core_backend/internal/contracts/transport"
	"msp_core_backend/internal/events"
	"msp_core_backend/platform/apperr"
	"msp_core_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository is the data access interface needed by the contract service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Contract, error)
	List(ctx context.Context, companyID uuid.UUID, status domain.Status) ([]domain.Contract, error)
	Create(ctx context.Context, params repository.CreateContractParams) (domain.Contract, error)
	UpdateStatus(ctx context.Context, contract domain.Contract, params repository.UpdateStatusParams) (domain.Contract, error)
	UpdateSignature(ctx context.Context, id uuid.UUID, companyID uuid.UUID, signature domain.SignatureStatus, signedAt *time.Time) (domain.Contract, error)
	RecordStatusChange(ctx context.Context, change domain.StatusChange) error
	ListStatusHistory(ctx context.Context, contractID uuid.UUID, companyID uuid.UUID) ([]domain.StatusChange, error)
}

// Service handles contract operations.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a contract service.
func New(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create creates a draft contract.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req transport.CreateContractRequest) (transport.ContractResponse, error) {
	cycle := domain.BillingCycle(req.BillingCycle)
	if req.BillingCycle == "" {
		cycle = domain.BillingMonthly
	}

	contract, err := s.repo.Create(ctx, repository.CreateContractParams{
		CompanyID:     companyID,
		ClientID:      req.ClientID,
		LeadID:        req.LeadID,
		Title:         req.Title,
		ContractValue: req.ContractValue,
		BillingCycle:  cycle,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		return transport.ContractResponse{}, err
	}
	return transport.ToContractResponse(contract), nil
}

// GetByID retrieves a contract.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (transport.ContractResponse, error) {
	contract, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ContractResponse{}, apperr.NotFound("contract not found")
		}
		return transport.ContractResponse{}, err
	}
	return transport.ToContractResponse(contract), nil
}

// List returns the tenant's contracts, optionally filtered by status.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, status string) ([]transport.ContractResponse, error) {
	if status != "" && !domain.IsKnownStatus(domain.Status(status)) {
		return nil, apperr.BadRequest("unknown contract status")
	}
	contracts, err := s.repo.List(ctx, companyID, domain.Status(status))
	if err != nil {
		return nil, err
	}
	return transport.ToContractResponses(contracts), nil
}

// ChangeStatus validates and applies a status transition. A rejected
// transition returns a validation error carrying every violated rule, not
// just the first.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, companyID uuid.UUID, actorID uuid.UUID, req transport.ChangeStatusRequest) (transport.ContractResponse, error) {
	target := domain.Status(req.Status)
	if !domain.IsKnownStatus(target) {
		return transport.ContractResponse{}, apperr.BadRequest("unknown contract status")
	}

	contract, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ContractResponse{}, apperr.NotFound("contract not found")
		}
		return transport.ContractResponse{}, err
	}

	now := time.Now()
	violations := domain.Validate(contract.Status, target, domain.TransitionContext{
		Reason:          req.Reason,
		EffectiveDate:   req.EffectiveDate,
		SignatureStatus: contract.Signature,
		Now:             now,
	})
	if len(violations) > 0 {
		s.log.StatusRejected(contract.ID.String(), string(contract.Status), string(target), violations)
		return transport.ContractResponse{}, apperr.Validation("status change rejected").WithDetails(violations)
	}

	if contract.Status == target {
		// Accepted no-op; nothing to persist or audit.
		return transport.ToContractResponse(contract), nil
	}

	params := repository.UpdateStatusParams{
		Status:        target,
		EffectiveDate: req.EffectiveDate,
	}
	switch target {
	case domain.StatusSigned:
		params.SignedAt = &now
	case domain.StatusActive:
		params.ActivatedAt = &now
	case domain.StatusTerminated:
		params.TerminatedAt = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, contract, params)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return transport.ContractResponse{}, apperr.Conflict("contract was modified concurrently, retry")
		}
		return transport.ContractResponse{}, err
	}

	change := domain.StatusChange{
		ContractID: contract.ID,
		CompanyID:  companyID,
		FromStatus: contract.Status,
		ToStatus:   target,
		ChangedBy:  actorID,
	}
	if req.Reason != "" {
		change.Reason = &req.Reason
	}
	if err := s.repo.RecordStatusChange(ctx, change); err != nil {
		s.log.Error("failed to record contract status history", "contractId", contract.ID, "error", err)
	}

	s.bus.Publish(ctx, events.ContractStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		ContractID: contract.ID,
		TenantID:   companyID,
		FromStatus: string(contract.Status),
		ToStatus:   string(target),
		Reason:     req.Reason,
		ChangedBy:  actorID,
	})

	return transport.ToContractResponse(updated), nil
}

// UpdateSignature advances the signature workflow. A fully executed
// signature stamps signedAt.
func (s *Service) UpdateSignature(ctx context.Context, id uuid.UUID, companyID uuid.UUID, req transport.UpdateSignatureRequest) (transport.ContractResponse, error) {
	signature := domain.SignatureStatus(req.Signature)

	var signedAt *time.Time
	if signature == domain.SignatureFullyExecuted {
		now := time.Now()
		signedAt = &now
	}

	contract, err := s.repo.UpdateSignature(ctx, id, companyID, signature, signedAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ContractResponse{}, apperr.NotFound("contract not found")
		}
		return transport.ContractResponse{}, err
	}
	return transport.ToContractResponse(contract), nil
}

// StatusHistory returns a contract's audit trail.
func (s *Service) StatusHistory(ctx context.Context, id uuid.UUID, companyID uuid.UUID) ([]transport.StatusChangeResponse, error) {
	if _, err := s.repo.GetByID(ctx, id, companyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("contract not found")
		}
		return nil, err
	}

	history, err := s.repo.ListStatusHistory(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	return transport.ToStatusChangeResponses(history), nil
}

// AllowedTargets reports which statuses a contract may move to next.
func (s *Service) AllowedTargets(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (transport.AllowedTargetsResponse, error) {
	contract, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.AllowedTargetsResponse{}, apperr.NotFound("contract not found")
		}
		return transport.AllowedTargetsResponse{}, err
	}

	targets := domain.AllowedTargets(contract.Status)
	allowed := make([]string, 0, len(targets))
	for _, t := range targets {
		allowed = append(allowed, string(t))
	}
	return transport.AllowedTargetsResponse{Current: string(contract.Status), Allowed: allowed}, nil
}
