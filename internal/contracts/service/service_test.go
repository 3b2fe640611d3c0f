package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"msp_core_backend/internal/contracts/domain"
	"msp_core_backend/internal/contracts/repository"
	"msp_core_backend/internal/contracts/transport"
	"msp_core_backend/internal/events"
	"msp_core_backend/platform/apperr"
	"msp_core_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	contracts map[uuid.UUID]domain.Contract
	history   []domain.StatusChange
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{contracts: make(map[uuid.UUID]domain.Contract)}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Contract, error) {
	c, ok := f.contracts[id]
	if !ok || c.CompanyID != companyID {
		return domain.Contract{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepo) List(_ context.Context, companyID uuid.UUID, status domain.Status) ([]domain.Contract, error) {
	out := make([]domain.Contract, 0)
	for _, c := range f.contracts {
		if c.CompanyID == companyID && (status == "" || c.Status == status) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateContractParams) (domain.Contract, error) {
	c := domain.Contract{
		ID:            uuid.New(),
		CompanyID:     params.CompanyID,
		ClientID:      params.ClientID,
		LeadID:        params.LeadID,
		Title:         params.Title,
		Status:        domain.StatusDraft,
		Signature:     domain.SignatureNotSent,
		ContractValue: params.ContractValue,
		BillingCycle:  params.BillingCycle,
		ExpiresAt:     params.ExpiresAt,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.contracts[c.ID] = c
	return c, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, contract domain.Contract, params repository.UpdateStatusParams) (domain.Contract, error) {
	c, ok := f.contracts[contract.ID]
	if !ok {
		return domain.Contract{}, repository.ErrNotFound
	}
	if c.Version != contract.Version {
		return domain.Contract{}, repository.ErrVersionConflict
	}
	c.Status = params.Status
	if params.EffectiveDate != nil {
		c.EffectiveDate = params.EffectiveDate
	}
	if c.SignedAt == nil {
		c.SignedAt = params.SignedAt
	}
	if c.ActivatedAt == nil {
		c.ActivatedAt = params.ActivatedAt
	}
	if c.TerminatedAt == nil {
		c.TerminatedAt = params.TerminatedAt
	}
	c.Version++
	f.contracts[c.ID] = c
	return c, nil
}

func (f *fakeRepo) UpdateSignature(_ context.Context, id uuid.UUID, companyID uuid.UUID, signature domain.SignatureStatus, signedAt *time.Time) (domain.Contract, error) {
	c, ok := f.contracts[id]
	if !ok || c.CompanyID != companyID {
		return domain.Contract{}, repository.ErrNotFound
	}
	c.Signature = signature
	if c.SignedAt == nil {
		c.SignedAt = signedAt
	}
	f.contracts[id] = c
	return c, nil
}

func (f *fakeRepo) RecordStatusChange(_ context.Context, change domain.StatusChange) error {
	f.history = append(f.history, change)
	return nil
}

func (f *fakeRepo) ListStatusHistory(_ context.Context, contractID uuid.UUID, _ uuid.UUID) ([]domain.StatusChange, error) {
	out := make([]domain.StatusChange, 0)
	for _, change := range f.history {
		if change.ContractID == contractID {
			out = append(out, change)
		}
	}
	return out, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) { f.published = append(f.published, event) }
func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}
func (f *fakeBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *fakeRepo, *fakeBus) {
	repo := newFakeRepo()
	bus := &fakeBus{}
	return New(repo, bus, logger.New("development")), repo, bus
}

func seedContract(repo *fakeRepo, companyID uuid.UUID, status domain.Status, signature domain.SignatureStatus) domain.Contract {
	c := domain.Contract{
		ID:        uuid.New(),
		CompanyID: companyID,
		ClientID:  uuid.New(),
		Title:     "Managed Services Agreement",
		Status:    status,
		Signature: signature,
	}
	repo.contracts[c.ID] = c
	return c
}

func TestChangeStatusHappyPath(t *testing.T) {
	svc, repo, bus := newTestService()
	companyID := uuid.New()
	actorID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusSigned, domain.SignatureFullyExecuted)

	resp, err := svc.ChangeStatus(context.Background(), contract.ID, companyID, actorID, transport.ChangeStatusRequest{
		Status: "active",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "active" {
		t.Errorf("status: got %s", resp.Status)
	}
	if resp.ActivatedAt == nil {
		t.Error("activation must stamp activatedAt")
	}

	if len(repo.history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(repo.history))
	}
	entry := repo.history[0]
	if entry.FromStatus != domain.StatusSigned || entry.ToStatus != domain.StatusActive || entry.ChangedBy != actorID {
		t.Errorf("history entry wrong: %+v", entry)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.ContractStatusChanged)
	if !ok {
		t.Fatalf("expected ContractStatusChanged, got %T", bus.published[0])
	}
	if evt.FromStatus != "signed" || evt.ToStatus != "active" {
		t.Errorf("event payload wrong: %+v", evt)
	}
}

func TestChangeStatusRejectionCarriesAllViolations(t *testing.T) {
	svc, repo, bus := newTestService()
	companyID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusTerminated, domain.SignatureFullyExecuted)

	_, err := svc.ChangeStatus(context.Background(), contract.ID, companyID, uuid.New(), transport.ChangeStatusRequest{
		Status: "active",
	})
	if err == nil {
		t.Fatal("expected rejection")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", apperr.GetKind(err))
	}

	var appError *apperr.Error
	if !errors.As(err, &appError) {
		t.Fatalf("expected *apperr.Error, got %T", err)
	}
	violations, ok := appError.Details.([]string)
	if !ok || len(violations) != 2 {
		t.Fatalf("expected both violation messages in details, got %v", appError.Details)
	}

	if got := repo.contracts[contract.ID].Status; got != domain.StatusTerminated {
		t.Errorf("rejected transition must not persist, status is %s", got)
	}
	if len(repo.history) != 0 || len(bus.published) != 0 {
		t.Error("rejected transition must not audit or publish")
	}
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	svc, repo, bus := newTestService()
	companyID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusActive, domain.SignatureFullyExecuted)

	resp, err := svc.ChangeStatus(context.Background(), contract.ID, companyID, uuid.New(), transport.ChangeStatusRequest{
		Status: "active",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "active" {
		t.Errorf("status: got %s", resp.Status)
	}
	if len(repo.history) != 0 || len(bus.published) != 0 {
		t.Error("same-status request must not audit or publish")
	}
	if repo.contracts[contract.ID].Version != 0 {
		t.Error("same-status request must not bump the version")
	}
}

func TestChangeStatusRequiresKnownStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	companyID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusDraft, domain.SignatureNotSent)

	_, err := svc.ChangeStatus(context.Background(), contract.ID, companyID, uuid.New(), transport.ChangeStatusRequest{
		Status: "launched",
	})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestChangeStatusTenantIsolation(t *testing.T) {
	svc, repo, _ := newTestService()
	contract := seedContract(repo, uuid.New(), domain.StatusDraft, domain.SignatureNotSent)

	_, err := svc.ChangeStatus(context.Background(), contract.ID, uuid.New(), uuid.New(), transport.ChangeStatusRequest{
		Status: "pending_review",
	})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("other tenants must not see the contract, got %v", err)
	}
}

func TestChangeStatusTerminationRecordsReason(t *testing.T) {
	svc, repo, _ := newTestService()
	companyID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusActive, domain.SignatureFullyExecuted)

	resp, err := svc.ChangeStatus(context.Background(), contract.ID, companyID, uuid.New(), transport.ChangeStatusRequest{
		Status: "terminated",
		Reason: "client moved to in-house IT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TerminatedAt == nil {
		t.Error("termination must stamp terminatedAt")
	}
	if repo.history[0].Reason == nil || *repo.history[0].Reason != "client moved to in-house IT" {
		t.Errorf("reason must be audited, got %+v", repo.history[0].Reason)
	}
}

func TestUpdateSignatureFullyExecutedStampsSignedAt(t *testing.T) {
	svc, repo, _ := newTestService()
	companyID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusPendingSignature, domain.SignaturePending)

	resp, err := svc.UpdateSignature(context.Background(), contract.ID, companyID, transport.UpdateSignatureRequest{
		Signature: "fully_executed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Signature != "fully_executed" || resp.SignedAt == nil {
		t.Errorf("signature update wrong: %+v", resp)
	}
}

func TestAllowedTargets(t *testing.T) {
	svc, repo, _ := newTestService()
	companyID := uuid.New()
	contract := seedContract(repo, companyID, domain.StatusActive, domain.SignatureFullyExecuted)

	resp, err := svc.AllowedTargets(context.Background(), contract.ID, companyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Current != "active" || len(resp.Allowed) != 3 {
		t.Errorf("allowed targets wrong: %+v", resp)
	}
}
