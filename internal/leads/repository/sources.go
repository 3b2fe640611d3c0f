package repository

import (
	"context"
	"errors"

	"msp_core_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetSource(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Source, error) {
	var source domain.Source
	err := r.pool.QueryRow(ctx, `
		SELECT id, company_id, name, source_type, is_active, created_at
		FROM lead_sources
		WHERE id = $1 AND company_id = $2
	`, id, companyID).Scan(
		&source.ID, &source.CompanyID, &source.Name, &source.Type, &source.IsActive, &source.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Source{}, ErrSourceNotFound
	}
	if err != nil {
		return domain.Source{}, err
	}
	return source, nil
}

func (r *Repository) ListSources(ctx context.Context, companyID uuid.UUID) ([]domain.Source, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, name, source_type, is_active, created_at
		FROM lead_sources
		WHERE company_id = $1
		ORDER BY name ASC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := make([]domain.Source, 0)
	for rows.Next() {
		var source domain.Source
		if err := rows.Scan(
			&source.ID, &source.CompanyID, &source.Name, &source.Type, &source.IsActive, &source.CreatedAt,
		); err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return sources, nil
}

// EnsureImportSource returns the tenant's import source, creating it on
// first use so CSV imports never fail for lack of setup.
func (r *Repository) EnsureImportSource(ctx context.Context, companyID uuid.UUID) (domain.Source, error) {
	var source domain.Source
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_sources (company_id, name, source_type, is_active)
		VALUES ($1, 'CSV Import', $2, true)
		ON CONFLICT (company_id, name) DO UPDATE SET is_active = true
		RETURNING id, company_id, name, source_type, is_active, created_at
	`, companyID, domain.SourceImport).Scan(
		&source.ID, &source.CompanyID, &source.Name, &source.Type, &source.IsActive, &source.CreatedAt,
	)
	if err != nil {
		return domain.Source{}, err
	}
	return source, nil
}
