package repository

import (
	"context"
	"time"

	"msp_core_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]domain.Lead, error)
	ListAll(ctx context.Context, companyID uuid.UUID) ([]domain.Lead, error)
	EmailExists(ctx context.Context, companyID uuid.UUID, email string) (bool, error)
}

// LeadWriter provides write operations for lead records.
type LeadWriter interface {
	Create(ctx context.Context, params domain.CreateLead) (domain.Lead, error)
	UpdateScores(ctx context.Context, lead domain.Lead, scoredAt time.Time) (domain.Lead, error)
	MarkQualified(ctx context.Context, id uuid.UUID, companyID uuid.UUID, qualifiedAt time.Time) (domain.Lead, error)
}

// ActivityStore records and reads engagement touchpoints.
type ActivityStore interface {
	CreateActivity(ctx context.Context, params CreateActivityParams) (domain.Activity, error)
	ListActivitiesSince(ctx context.Context, leadID uuid.UUID, companyID uuid.UUID, since time.Time) ([]domain.Activity, error)
}

// SourceReader provides access to acquisition channels.
type SourceReader interface {
	GetSource(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (domain.Source, error)
	ListSources(ctx context.Context, companyID uuid.UUID) ([]domain.Source, error)
	EnsureImportSource(ctx context.Context, companyID uuid.UUID) (domain.Source, error)
}
