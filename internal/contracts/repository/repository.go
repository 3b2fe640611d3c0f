package repository

import (
	"context"
	"errors"
	"time"

	"msp_core_backend/internal/contracts/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("contract not found")
	ErrVersionConflict = errors.New("contract was modified concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const contractColumns = `id, company_id, client_id, lead_id, title, status, signature_status,
	contract_value, billing_cycle, effective_date, expires_at,
	signed_at, activated_at, terminated_at, version, created_at, updated_at`

func scanContract(row pgx.Row) (domain.Contract, error) {
	var c domain.Contract
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.ClientID, &c.LeadID, &c.Title, &c.Status, &c.Signature,
		&c.ContractValue, &c.BillingCycle, &c.EffectiveDate, &c.ExpiresAt,
		&c.SignedAt, &c.ActivatedAt, &c.TerminatedAt, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contract{}, ErrNotFound
	}
	if err != nil {
		return domain.Contract{}, err
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Contract, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanContract(row)
}

func (r *Repository) List(ctx context.Context, companyID uuid.UUID, status domain.Status) ([]domain.Contract, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+contractColumns+`
		FROM contracts
		WHERE company_id = $1 AND ($2::text = '' OR status = $2)
		ORDER BY created_at DESC
	`, companyID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := make([]domain.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return contracts, nil
}

// CreateContractParams creates a new draft contract.
type CreateContractParams struct {
	CompanyID     uuid.UUID
	ClientID      uuid.UUID
	LeadID        *uuid.UUID
	Title         string
	ContractValue float64
	BillingCycle  domain.BillingCycle
	ExpiresAt     *time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateContractParams) (domain.Contract, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contracts (company_id, client_id, lead_id, title, status, signature_status, contract_value, billing_cycle, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+contractColumns+`
	`,
		params.CompanyID, params.ClientID, params.LeadID, params.Title,
		domain.StatusDraft, domain.SignatureNotSent, params.ContractValue, params.BillingCycle, params.ExpiresAt,
	)
	return scanContract(row)
}

// UpdateStatusParams persists a validated transition. Lifecycle timestamps
// are only set on their first transition into the matching state.
type UpdateStatusParams struct {
	Status        domain.Status
	EffectiveDate *time.Time
	SignedAt      *time.Time
	ActivatedAt   *time.Time
	TerminatedAt  *time.Time
}

func (r *Repository) UpdateStatus(ctx context.Context, contract domain.Contract, params UpdateStatusParams) (domain.Contract, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE contracts
		SET status = $1,
			effective_date = COALESCE($2, effective_date),
			signed_at = COALESCE(signed_at, $3),
			activated_at = COALESCE(activated_at, $4),
			terminated_at = COALESCE(terminated_at, $5),
			version = version + 1,
			updated_at = now()
		WHERE id = $6 AND company_id = $7 AND version = $8
		RETURNING `+contractColumns+`
	`,
		params.Status, params.EffectiveDate, params.SignedAt, params.ActivatedAt, params.TerminatedAt,
		contract.ID, contract.CompanyID, contract.Version,
	)
	updated, err := scanContract(row)
	if errors.Is(err, ErrNotFound) {
		if _, getErr := r.GetByID(ctx, contract.ID, contract.CompanyID); getErr == nil {
			return domain.Contract{}, ErrVersionConflict
		}
		return domain.Contract{}, ErrNotFound
	}
	return updated, err
}

// UpdateSignature moves the signature workflow forward independently of the
// contract status.
func (r *Repository) UpdateSignature(ctx context.Context, id uuid.UUID, companyID uuid.UUID, signature domain.SignatureStatus, signedAt *time.Time) (domain.Contract, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE contracts
		SET signature_status = $1, signed_at = COALESCE(signed_at, $2), version = version + 1, updated_at = now()
		WHERE id = $3 AND company_id = $4
		RETURNING `+contractColumns+`
	`, signature, signedAt, id, companyID)
	return scanContract(row)
}

// RecordStatusChange appends one audit entry to the contract's history.
func (r *Repository) RecordStatusChange(ctx context.Context, change domain.StatusChange) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contract_status_history (contract_id, company_id, from_status, to_status, reason, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, change.ContractID, change.CompanyID, change.FromStatus, change.ToStatus, change.Reason, change.ChangedBy)
	return err
}

// ListStatusHistory returns a contract's transitions, newest first.
func (r *Repository) ListStatusHistory(ctx context.Context, contractID uuid.UUID, companyID uuid.UUID) ([]domain.StatusChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, contract_id, company_id, from_status, to_status, reason, changed_by, changed_at
		FROM contract_status_history
		WHERE contract_id = $1 AND company_id = $2
		ORDER BY changed_at DESC
	`, contractID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]domain.StatusChange, 0)
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(
			&change.ID, &change.ContractID, &change.CompanyID, &change.FromStatus, &change.ToStatus,
			&change.Reason, &change.ChangedBy, &change.ChangedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, change)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return history, nil
}
