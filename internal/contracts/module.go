// Package contracts provides the contract lifecycle bounded context.
package contracts

import (
	"msp_core_backend/internal/contracts/handler"
	"msp_core_backend/internal/contracts/repository"
	"msp_core_backend/internal/contracts/service"
	"msp_core_backend/internal/events"
	apphttp "msp_core_backend/internal/http"
	"msp_core_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contracts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the contracts module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contracts"
}

// Service returns the contract service for composition-root use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts contracts routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	contractsGroup := ctx.Protected.Group("/contracts")
	m.handler.RegisterRoutes(contractsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
