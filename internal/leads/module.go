// Package leads provides the lead scoring and qualification bounded context.
// This file defines the module that encapsulates all leads setup and route
// registration.
package leads

import (
	"msp_core_backend/internal/events"
	apphttp "msp_core_backend/internal/http"
	"msp_core_backend/internal/leads/handler"
	"msp_core_backend/internal/leads/repository"
	"msp_core_backend/internal/leads/scoring"
	"msp_core_backend/internal/leads/service"
	"msp_core_backend/platform/config"
	"msp_core_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, cfg *config.Config, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	scoringCfg, err := scoring.LoadConfig(cfg.ScoringRulesPath)
	if err != nil {
		return nil, err
	}
	engine := scoring.NewEngine(scoringCfg)

	svc := service.New(repo, engine, eventBus, log, service.Options{
		AutoQualifyMinScore: cfg.AutoQualifyMinScore,
		RescoreConcurrency:  cfg.RescoreConcurrency,
	})

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for composition-root use (CLI tools).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
