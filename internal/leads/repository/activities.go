package repository

import (
	"context"
	"time"

	"msp_core_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CreateActivityParams records one engagement touchpoint against a lead.
type CreateActivityParams struct {
	LeadID       uuid.UUID
	CompanyID    uuid.UUID
	Type         domain.ActivityType
	ActivityDate time.Time
	Metadata     map[string]string
}

func (r *Repository) CreateActivity(ctx context.Context, params CreateActivityParams) (domain.Activity, error) {
	var activity domain.Activity
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_activities (lead_id, company_id, activity_type, activity_date, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, company_id, activity_type, activity_date, metadata, created_at
	`, params.LeadID, params.CompanyID, params.Type, params.ActivityDate, params.Metadata).Scan(
		&activity.ID, &activity.LeadID, &activity.CompanyID, &activity.Type,
		&activity.ActivityDate, &activity.Metadata, &activity.CreatedAt,
	)
	if err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// ListActivitiesSince returns a lead's activities on or after the cutoff,
// newest first. Scoring passes the start of its engagement window here so
// stale history never leaves the database.
func (r *Repository) ListActivitiesSince(ctx context.Context, leadID uuid.UUID, companyID uuid.UUID, since time.Time) ([]domain.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, company_id, activity_type, activity_date, metadata, created_at
		FROM lead_activities
		WHERE lead_id = $1 AND company_id = $2 AND activity_date >= $3
		ORDER BY activity_date DESC
	`, leadID, companyID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var activity domain.Activity
		if err := rows.Scan(
			&activity.ID, &activity.LeadID, &activity.CompanyID, &activity.Type,
			&activity.ActivityDate, &activity.Metadata, &activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return activities, nil
}
