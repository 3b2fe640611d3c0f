package repository

import (
	"context"
	"errors"
	"time"

	"msp_core_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("lead not found")
	ErrVersionConflict = errors.New("lead was modified concurrently")
	ErrSourceNotFound  = errors.New("lead source not found")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, company_id, source_id, first_name, last_name, email, phone,
	company_name, title, website, industry, company_size, country, notes,
	estimated_value, interest_level,
	demographic_score, behavioral_score, fit_score, urgency_score, total_score, last_scored_at,
	status, qualified_at, converted_at, client_id, version, created_at, updated_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.CompanyID, &lead.SourceID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone,
		&lead.CompanyName, &lead.Title, &lead.Website, &lead.Industry, &lead.CompanySize, &lead.Country, &lead.Notes,
		&lead.EstimatedValue, &lead.InterestLevel,
		&lead.DemographicScore, &lead.BehavioralScore, &lead.FitScore, &lead.UrgencyScore, &lead.TotalScore, &lead.LastScoredAt,
		&lead.Status, &lead.QualifiedAt, &lead.ConvertedAt, &lead.ClientID, &lead.Version, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanLead(row)
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Status   domain.LeadStatus
	SourceID *uuid.UUID
	MinScore int
	Limit    int
	Offset   int
}

func (r *Repository) List(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]domain.Lead, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE company_id = $1
			AND ($2::text = '' OR status = $2)
			AND ($3::uuid IS NULL OR source_id = $3)
			AND total_score >= $4
		ORDER BY total_score DESC, created_at DESC
		LIMIT $5 OFFSET $6
	`, companyID, string(filter.Status), filter.SourceID, filter.MinScore, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

// ListAll returns every lead in the tenant, used by the bulk rescore and
// qualification passes. Bounded tenants keep this tractable without paging.
func (r *Repository) ListAll(ctx context.Context, companyID uuid.UUID) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE company_id = $1
		ORDER BY created_at ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeads(rows)
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

func (r *Repository) Create(ctx context.Context, params domain.CreateLead) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			company_id, source_id, first_name, last_name, email, phone,
			company_name, title, website, industry, company_size, country, notes,
			estimated_value, interest_level, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+leadColumns+`
	`,
		params.CompanyID, params.SourceID, params.FirstName, params.LastName, params.Email, params.Phone,
		params.CompanyName, params.Title, params.Website, params.Industry, params.CompanySize, params.Country, params.Notes,
		params.EstimatedValue, params.InterestLevel, params.Status,
	)
	return scanLead(row)
}

// UpdateScores persists a freshly computed score set. The version check
// rejects writes against a lead that changed since it was read.
func (r *Repository) UpdateScores(ctx context.Context, lead domain.Lead, scoredAt time.Time) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET demographic_score = $1, behavioral_score = $2, fit_score = $3, urgency_score = $4,
			total_score = $5, last_scored_at = $6, version = version + 1, updated_at = now()
		WHERE id = $7 AND company_id = $8 AND version = $9
		RETURNING `+leadColumns+`
	`,
		lead.DemographicScore, lead.BehavioralScore, lead.FitScore, lead.UrgencyScore,
		lead.TotalScore, scoredAt,
		lead.ID, lead.CompanyID, lead.Version,
	)
	updated, err := scanLead(row)
	if errors.Is(err, ErrNotFound) {
		// Distinguish a missing lead from a stale version.
		if _, getErr := r.GetByID(ctx, lead.ID, lead.CompanyID); getErr == nil {
			return domain.Lead{}, ErrVersionConflict
		}
		return domain.Lead{}, ErrNotFound
	}
	return updated, err
}

// MarkQualified transitions a lead to qualified, preserving an existing
// qualification timestamp.
func (r *Repository) MarkQualified(ctx context.Context, id uuid.UUID, companyID uuid.UUID, qualifiedAt time.Time) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $1, qualified_at = COALESCE(qualified_at, $2), version = version + 1, updated_at = now()
		WHERE id = $3 AND company_id = $4
		RETURNING `+leadColumns+`
	`, domain.StatusQualified, qualifiedAt, id, companyID)
	return scanLead(row)
}

func (r *Repository) EmailExists(ctx context.Context, companyID uuid.UUID, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leads WHERE company_id = $1 AND lower(email) = lower($2)
		)
	`, companyID, email).Scan(&exists)
	return exists, err
}
