// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"msp_core_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadScored is published whenever a lead's scores are recomputed and saved.
type LeadScored struct {
	BaseEvent
	LeadID           uuid.UUID `json:"leadId"`
	TenantID         uuid.UUID `json:"tenantId"`
	DemographicScore int       `json:"demographicScore"`
	BehavioralScore  int       `json:"behavioralScore"`
	FitScore         int       `json:"fitScore"`
	UrgencyScore     int       `json:"urgencyScore"`
	TotalScore       int       `json:"totalScore"`
	PreviousTotal    int       `json:"previousTotal"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// LeadQualified is published when the auto-qualification pass promotes a lead.
type LeadQualified struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	TenantID   uuid.UUID `json:"tenantId"`
	TotalScore int       `json:"totalScore"`
	Auto       bool      `json:"auto"`
}

func (e LeadQualified) EventName() string { return "leads.lead.qualified" }

// LeadImported is published once per successful row in a CSV import.
type LeadImported struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	Email    string    `json:"email"`
	SourceID uuid.UUID `json:"sourceId"`
}

func (e LeadImported) EventName() string { return "leads.lead.imported" }

// LeadImportCompleted is published after an import run finishes, carrying the
// run counters for downstream reporting.
type LeadImportCompleted struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	Success  int       `json:"success"`
	Errors   int       `json:"errors"`
	Skipped  int       `json:"skipped"`
}

func (e LeadImportCompleted) EventName() string { return "leads.import.completed" }

// =============================================================================
// Contracts Domain Events
// =============================================================================

// ContractStatusChanged is published when a contract passes transition
// validation and its status is persisted.
type ContractStatusChanged struct {
	BaseEvent
	ContractID uuid.UUID `json:"contractId"`
	TenantID   uuid.UUID `json:"tenantId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Reason     string    `json:"reason,omitempty"`
	ChangedBy  uuid.UUID `json:"changedBy"`
}

func (e ContractStatusChanged) EventName() string { return "contracts.contract.status_changed" }
