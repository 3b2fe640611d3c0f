// Package transport defines the request and response shapes for the leads
// HTTP API. Handlers bind requests here; services return these responses.
package transport

import (
	"time"

	"msp_core_backend/internal/leads/domain"
	"msp_core_backend/internal/leads/importer"
	"msp_core_backend/internal/leads/qualification"
	"msp_core_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// CreateLeadRequest creates a single lead through the API.
type CreateLeadRequest struct {
	SourceID       uuid.UUID `json:"sourceId" binding:"required"`
	FirstName      string    `json:"firstName" binding:"required,max=100"`
	LastName       string    `json:"lastName" binding:"required,max=100"`
	Email          string    `json:"email" binding:"required,email"`
	Phone          string    `json:"phone" binding:"omitempty,max=32"`
	CompanyName    string    `json:"companyName" binding:"omitempty,max=200"`
	Title          string    `json:"title" binding:"omitempty,max=100"`
	Website        string    `json:"website" binding:"omitempty,max=200"`
	Industry       string    `json:"industry" binding:"omitempty,max=100"`
	CompanySize    *int      `json:"companySize" binding:"omitempty,min=0"`
	Country        string    `json:"country" binding:"omitempty,max=100"`
	Notes          string    `json:"notes" binding:"omitempty,max=5000"`
	EstimatedValue float64   `json:"estimatedValue" binding:"omitempty,min=0"`
	InterestLevel  string    `json:"interestLevel" binding:"omitempty,oneof=low medium high"`
}

// RecordActivityRequest appends an engagement touchpoint to a lead.
type RecordActivityRequest struct {
	Type         string            `json:"type" binding:"required"`
	ActivityDate *time.Time        `json:"activityDate"`
	Metadata     map[string]string `json:"metadata"`
}

// AutoQualifyRequest tunes the qualification pass threshold.
type AutoQualifyRequest struct {
	MinScore *int `json:"minScore" binding:"omitempty,min=0,max=100"`
}

// ListLeadsQuery filters the lead list endpoint.
type ListLeadsQuery struct {
	Status   string `form:"status" binding:"omitempty"`
	SourceID string `form:"sourceId" binding:"omitempty,uuid"`
	MinScore int    `form:"minScore" binding:"omitempty,min=0,max=100"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// LeadResponse is the canonical lead representation returned by the API.
type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	SourceID       *uuid.UUID `json:"sourceId,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          *string    `json:"phone,omitempty"`
	CompanyName    *string    `json:"companyName,omitempty"`
	Title          *string    `json:"title,omitempty"`
	Website        *string    `json:"website,omitempty"`
	Industry       *string    `json:"industry,omitempty"`
	CompanySize    *int       `json:"companySize,omitempty"`
	Country        *string    `json:"country,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	EstimatedValue float64    `json:"estimatedValue"`
	InterestLevel  string     `json:"interestLevel"`
	Scores         ScoresDTO  `json:"scores"`
	Status         string     `json:"status"`
	QualifiedAt    *time.Time `json:"qualifiedAt,omitempty"`
	ConvertedAt    *time.Time `json:"convertedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ScoresDTO carries the four category scores plus the capped total.
type ScoresDTO struct {
	Demographic  int        `json:"demographic"`
	Behavioral   int        `json:"behavioral"`
	Fit          int        `json:"fit"`
	Urgency      int        `json:"urgency"`
	Total        int        `json:"total"`
	LastScoredAt *time.Time `json:"lastScoredAt,omitempty"`
}

// ToLeadResponse maps a domain lead to its API shape.
func ToLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:             lead.ID,
		SourceID:       lead.SourceID,
		FirstName:      lead.FirstName,
		LastName:       lead.LastName,
		Email:          lead.Email,
		Phone:          lead.Phone,
		CompanyName:    lead.CompanyName,
		Title:          lead.Title,
		Website:        lead.Website,
		Industry:       lead.Industry,
		CompanySize:    lead.CompanySize,
		Country:        lead.Country,
		Notes:          lead.Notes,
		EstimatedValue: lead.EstimatedValue,
		InterestLevel:  string(lead.InterestLevel),
		Scores: ScoresDTO{
			Demographic:  lead.DemographicScore,
			Behavioral:   lead.BehavioralScore,
			Fit:          lead.FitScore,
			Urgency:      lead.UrgencyScore,
			Total:        lead.TotalScore,
			LastScoredAt: lead.LastScoredAt,
		},
		Status:      string(lead.Status),
		QualifiedAt: lead.QualifiedAt,
		ConvertedAt: lead.ConvertedAt,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
	}
}

// ToLeadResponses maps a slice of domain leads.
func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}

// ScoreResponse is returned by the single-lead rescore endpoint.
type ScoreResponse struct {
	Lead   LeadResponse `json:"lead"`
	Scores ScoresDTO    `json:"scores"`
}

// ToScoreResponse maps a rescored lead and its computed scores.
func ToScoreResponse(lead domain.Lead, scores scoring.Scores) ScoreResponse {
	return ScoreResponse{
		Lead: ToLeadResponse(lead),
		Scores: ScoresDTO{
			Demographic:  scores.Demographic,
			Behavioral:   scores.Behavioral,
			Fit:          scores.Fit,
			Urgency:      scores.Urgency,
			Total:        scores.Total,
			LastScoredAt: lead.LastScoredAt,
		},
	}
}

// BulkRescoreResponse summarizes a tenant-wide rescore pass.
type BulkRescoreResponse struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
}

// AutoQualifyResponse lists the leads promoted by the qualification pass.
type AutoQualifyResponse struct {
	Qualified []LeadResponse `json:"qualified"`
	Count     int            `json:"count"`
}

// DistributionResponse buckets the tenant's leads by score band.
type DistributionResponse struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
	Total     int `json:"total"`
}

// ToDistributionResponse maps the qualification distribution.
func ToDistributionResponse(d qualification.Distribution) DistributionResponse {
	return DistributionResponse{
		Excellent: d.Excellent,
		Good:      d.Good,
		Fair:      d.Fair,
		Poor:      d.Poor,
		Total:     d.Total,
	}
}

// SourcePerformanceResponse reports per-source conversion effectiveness.
type SourcePerformanceResponse struct {
	Sources []SourceStatsDTO `json:"sources"`
}

// SourceStatsDTO is one acquisition channel's aggregate numbers.
type SourceStatsDTO struct {
	SourceID          uuid.UUID `json:"sourceId"`
	SourceName        string    `json:"sourceName,omitempty"`
	TotalLeads        int       `json:"totalLeads"`
	QualifiedLeads    int       `json:"qualifiedLeads"`
	ConvertedLeads    int       `json:"convertedLeads"`
	QualificationRate float64   `json:"qualificationRate"`
	ConversionRate    float64   `json:"conversionRate"`
	AverageScore      float64   `json:"averageScore"`
}

// ToSourcePerformanceResponse joins per-channel stats with source names.
func ToSourcePerformanceResponse(stats []qualification.SourceStats, names map[uuid.UUID]string) SourcePerformanceResponse {
	out := make([]SourceStatsDTO, 0, len(stats))
	for _, s := range stats {
		out = append(out, SourceStatsDTO{
			SourceID:          s.SourceID,
			SourceName:        names[s.SourceID],
			TotalLeads:        s.Total,
			QualifiedLeads:    s.Qualified,
			ConvertedLeads:    s.Converted,
			QualificationRate: s.QualificationRate,
			ConversionRate:    s.ConversionRate,
			AverageScore:      s.AverageScore,
		})
	}
	return SourcePerformanceResponse{Sources: out}
}

// ImportResponse summarizes a CSV import run.
type ImportResponse struct {
	Success  int             `json:"success"`
	Errors   int             `json:"errors"`
	Skipped  int             `json:"skipped"`
	Messages []ImportMessage `json:"messages"`
}

// ImportMessage is one row's outcome in the import audit trail.
type ImportMessage struct {
	Row     int    `json:"row"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

// ToImportResponse maps an import result.
func ToImportResponse(result importer.Result) ImportResponse {
	messages := make([]ImportMessage, 0, len(result.Messages))
	for _, m := range result.Messages {
		messages = append(messages, ImportMessage{Row: m.Row, Outcome: string(m.Outcome), Message: m.Message})
	}
	return ImportResponse{
		Success:  result.Success,
		Errors:   result.Errors,
		Skipped:  result.Skipped,
		Messages: messages,
	}
}

// ActivityResponse is a recorded engagement touchpoint.
type ActivityResponse struct {
	ID           uuid.UUID         `json:"id"`
	LeadID       uuid.UUID         `json:"leadId"`
	Type         string            `json:"type"`
	ActivityDate time.Time         `json:"activityDate"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ToActivityResponse maps a domain activity.
func ToActivityResponse(a domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		LeadID:       a.LeadID,
		Type:         string(a.Type),
		ActivityDate: a.ActivityDate,
		Metadata:     a.Metadata,
		CreatedAt:    a.CreatedAt,
	}
}

// SourceResponse is an acquisition channel.
type SourceResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToSourceResponse maps a domain source.
func ToSourceResponse(s domain.Source) SourceResponse {
	return SourceResponse{
		ID:        s.ID,
		Name:      s.Name,
		Type:      string(s.Type),
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}
