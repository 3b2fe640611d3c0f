// Package service orchestrates lead scoring, qualification, and analytics.
// The pure engines live in scoring and qualification; this package loads
// state, invokes them, persists outcomes, and publishes domain events.
package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"msp_core_backend/internal/events"
	"msp_core_backend/internal/leads/domain"
	"msp_core_backend/internal/leads/qualification"
	"msp_core_backend/internal/leads/repository"
	"msp_core_backend/internal/leads/scoring"
	"msp_core_backend/internal/leads/transport"
	"msp_core_backend/platform/apperr"
	"msp_core_backend/platform/logger"
	"msp_core_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Repository is the consumer-driven data access interface for this service.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.ActivityStore
	repository.SourceReader
}

// Service handles lead lifecycle operations.
type Service struct {
	repo               Repository
	engine             *scoring.Engine
	bus                events.Bus
	log                *logger.Logger
	autoQualifyScore   int
	rescoreConcurrency int
}

// Options tunes service behavior beyond its dependencies.
type Options struct {
	// AutoQualifyMinScore is the default threshold for the qualification
	// pass. Zero falls back to 70.
	AutoQualifyMinScore int
	// RescoreConcurrency bounds parallel workers in BulkRescore. Zero
	// falls back to 8.
	RescoreConcurrency int
}

// New creates a lead service.
func New(repo Repository, engine *scoring.Engine, bus events.Bus, log *logger.Logger, opts Options) *Service {
	if opts.AutoQualifyMinScore <= 0 {
		opts.AutoQualifyMinScore = 70
	}
	if opts.RescoreConcurrency <= 0 {
		opts.RescoreConcurrency = 8
	}
	return &Service{
		repo:               repo,
		engine:             engine,
		bus:                bus,
		log:                log,
		autoQualifyScore:   opts.AutoQualifyMinScore,
		rescoreConcurrency: opts.RescoreConcurrency,
	}
}

// Create creates a single lead from an API request.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if _, err := s.repo.GetSource(ctx, req.SourceID, companyID); err != nil {
		if errors.Is(err, repository.ErrSourceNotFound) {
			return transport.LeadResponse{}, apperr.BadRequest("lead source not found")
		}
		return transport.LeadResponse{}, err
	}

	exists, err := s.repo.EmailExists(ctx, companyID, req.Email)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if exists {
		return transport.LeadResponse{}, apperr.Conflict("a lead with this email already exists")
	}

	interest := domain.InterestLevel(req.InterestLevel)
	if req.InterestLevel == "" {
		interest = domain.InterestMedium
	}

	params := domain.CreateLead{
		CompanyID:      companyID,
		SourceID:       req.SourceID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		EstimatedValue: req.EstimatedValue,
		Status:         domain.StatusNew,
		InterestLevel:  interest,
	}
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		params.Phone = &normalized
	}
	params.CompanyName = optional(req.CompanyName)
	params.Title = optional(req.Title)
	params.Website = optional(req.Website)
	params.Industry = optional(req.Industry)
	params.Country = optional(req.Country)
	params.Notes = optional(req.Notes)
	params.CompanySize = req.CompanySize

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return transport.ToLeadResponse(lead), nil
}

// GetByID retrieves a lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, companyID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// List returns leads matching the filter.
func (s *Service) List(ctx context.Context, companyID uuid.UUID, query transport.ListLeadsQuery) ([]transport.LeadResponse, error) {
	filter := repository.ListFilter{
		Status:   domain.LeadStatus(query.Status),
		MinScore: query.MinScore,
		Limit:    query.Limit,
		Offset:   query.Offset,
	}
	if query.Status != "" && !domain.IsKnownLeadStatus(filter.Status) {
		return nil, apperr.BadRequest("unknown lead status")
	}
	if query.SourceID != "" {
		sourceID, err := uuid.Parse(query.SourceID)
		if err != nil {
			return nil, apperr.BadRequest("invalid source id")
		}
		filter.SourceID = &sourceID
	}

	leads, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return transport.ToLeadResponses(leads), nil
}

// RecordActivity appends an engagement touchpoint and rescores the lead so
// behavioral signals take effect immediately.
func (s *Service) RecordActivity(ctx context.Context, leadID uuid.UUID, companyID uuid.UUID, req transport.RecordActivityRequest) (transport.ActivityResponse, error) {
	activityType := domain.ActivityType(req.Type)
	if !domain.IsKnownActivityType(activityType) {
		return transport.ActivityResponse{}, apperr.BadRequest("unknown activity type")
	}

	if _, err := s.repo.GetByID(ctx, leadID, companyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ActivityResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ActivityResponse{}, err
	}

	activityDate := time.Now()
	if req.ActivityDate != nil {
		activityDate = *req.ActivityDate
	}

	activity, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
		LeadID:       leadID,
		CompanyID:    companyID,
		Type:         activityType,
		ActivityDate: activityDate,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return transport.ActivityResponse{}, err
	}

	if _, err := s.ScoreLead(ctx, leadID, companyID); err != nil {
		s.log.Error("rescore after activity failed", "leadId", leadID, "error", err)
	}

	return transport.ToActivityResponse(activity), nil
}

// ScoreLead recomputes and persists one lead's scores.
func (s *Service) ScoreLead(ctx context.Context, leadID uuid.UUID, companyID uuid.UUID) (transport.ScoreResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ScoreResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ScoreResponse{}, err
	}

	updated, scores, err := s.rescore(ctx, lead)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	return transport.ToScoreResponse(updated, scores), nil
}

// rescore runs the engine for one lead and saves the result, publishing
// LeadScored when the total changed.
func (s *Service) rescore(ctx context.Context, lead domain.Lead) (domain.Lead, scoring.Scores, error) {
	now := time.Now()
	activities, err := s.repo.ListActivitiesSince(ctx, lead.ID, lead.CompanyID, now.Add(-scoring.ActivityWindow))
	if err != nil {
		return domain.Lead{}, scoring.Scores{}, err
	}

	scores := s.engine.Score(lead, activities, now)
	previousTotal := lead.TotalScore

	lead.DemographicScore = scores.Demographic
	lead.BehavioralScore = scores.Behavioral
	lead.FitScore = scores.Fit
	lead.UrgencyScore = scores.Urgency
	lead.TotalScore = scores.Total

	updated, err := s.repo.UpdateScores(ctx, lead, now)
	if err != nil {
		return domain.Lead{}, scoring.Scores{}, err
	}

	s.log.ScoreUpdate(lead.ID.String(), scores.Total, scores.Demographic, scores.Behavioral, scores.Fit, scores.Urgency)
	if scores.Total != previousTotal {
		// Audit entry on the lead's timeline. The engine ignores it:
		// score_updated carries no behavioral weight.
		if _, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
			LeadID:       lead.ID,
			CompanyID:    lead.CompanyID,
			Type:         domain.ActivityScoreUpdated,
			ActivityDate: now,
			Metadata: map[string]string{
				"previous_total": strconv.Itoa(previousTotal),
				"new_total":      strconv.Itoa(scores.Total),
			},
		}); err != nil {
			s.log.Error("failed to record score update activity", "leadId", lead.ID, "error", err)
		}

		s.bus.Publish(ctx, events.LeadScored{
			BaseEvent:        events.NewBaseEvent(),
			LeadID:           lead.ID,
			TenantID:         lead.CompanyID,
			DemographicScore: scores.Demographic,
			BehavioralScore:  scores.Behavioral,
			FitScore:         scores.Fit,
			UrgencyScore:     scores.Urgency,
			TotalScore:       scores.Total,
			PreviousTotal:    previousTotal,
		})
	}

	return updated, scores, nil
}

// BulkRescore recomputes scores for every lead in the tenant with bounded
// concurrency. Individual failures are counted, not fatal; a stale-version
// conflict means another writer got there first and the lead is skipped.
func (s *Service) BulkRescore(ctx context.Context, companyID uuid.UUID) (transport.BulkRescoreResponse, error) {
	leads, err := s.repo.ListAll(ctx, companyID)
	if err != nil {
		return transport.BulkRescoreResponse{}, err
	}

	var (
		mu      sync.Mutex
		updated int
		failed  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.rescoreConcurrency)

	for _, lead := range leads {
		g.Go(func() error {
			_, _, err := s.rescore(gctx, lead)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				updated++
			case errors.Is(err, repository.ErrVersionConflict):
				// Lost the race; the winner already rescored.
			default:
				failed++
				s.log.Error("bulk rescore failed for lead", "leadId", lead.ID, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return transport.BulkRescoreResponse{}, err
	}

	return transport.BulkRescoreResponse{
		Processed: len(leads),
		Updated:   updated,
		Failed:    failed,
	}, nil
}

// AutoQualifyHighScoring promotes every open lead at or above the threshold
// to qualified. minScore <= 0 uses the configured default.
func (s *Service) AutoQualifyHighScoring(ctx context.Context, companyID uuid.UUID, minScore int) (transport.AutoQualifyResponse, error) {
	if minScore <= 0 {
		minScore = s.autoQualifyScore
	}

	leads, err := s.repo.ListAll(ctx, companyID)
	if err != nil {
		return transport.AutoQualifyResponse{}, err
	}

	now := time.Now()
	candidates := qualification.Candidates(leads, minScore)
	mutations := qualification.AutoQualify(candidates, now)

	qualified := make([]transport.LeadResponse, 0, len(mutations))
	for _, m := range mutations {
		lead, err := s.repo.MarkQualified(ctx, m.LeadID, companyID, m.QualifiedAt)
		if err != nil {
			s.log.Error("auto-qualify failed for lead", "leadId", m.LeadID, "error", err)
			continue
		}

		if _, err := s.repo.CreateActivity(ctx, repository.CreateActivityParams{
			LeadID:       m.LeadID,
			CompanyID:    companyID,
			Type:         m.Activity,
			ActivityDate: now,
			Metadata:     map[string]string{"trigger": "auto_qualify"},
		}); err != nil {
			s.log.Error("failed to record qualification activity", "leadId", m.LeadID, "error", err)
		}

		s.bus.Publish(ctx, events.LeadQualified{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     lead.ID,
			TenantID:   companyID,
			TotalScore: lead.TotalScore,
			Auto:       true,
		})
		qualified = append(qualified, transport.ToLeadResponse(lead))
	}

	return transport.AutoQualifyResponse{Qualified: qualified, Count: len(qualified)}, nil
}

// ScoreDistribution buckets the tenant's leads by score band.
func (s *Service) ScoreDistribution(ctx context.Context, companyID uuid.UUID) (transport.DistributionResponse, error) {
	leads, err := s.repo.ListAll(ctx, companyID)
	if err != nil {
		return transport.DistributionResponse{}, err
	}
	return transport.ToDistributionResponse(qualification.Distribute(leads)), nil
}

// SourcePerformance reports per-channel qualification and conversion rates.
func (s *Service) SourcePerformance(ctx context.Context, companyID uuid.UUID) (transport.SourcePerformanceResponse, error) {
	leads, err := s.repo.ListAll(ctx, companyID)
	if err != nil {
		return transport.SourcePerformanceResponse{}, err
	}

	sources, err := s.repo.ListSources(ctx, companyID)
	if err != nil {
		return transport.SourcePerformanceResponse{}, err
	}
	names := make(map[uuid.UUID]string, len(sources))
	for _, src := range sources {
		names[src.ID] = src.Name
	}

	return transport.ToSourcePerformanceResponse(qualification.BySource(leads), names), nil
}

// ListSources returns the tenant's acquisition channels.
func (s *Service) ListSources(ctx context.Context, companyID uuid.UUID) ([]transport.SourceResponse, error) {
	sources, err := s.repo.ListSources(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.SourceResponse, 0, len(sources))
	for _, src := range sources {
		out = append(out, transport.ToSourceResponse(src))
	}
	return out, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
