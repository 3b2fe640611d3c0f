package domain

import (
	"time"

	"github.com/google/uuid"
)

// BillingCycle is how often an active contract invoices.
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "monthly"
	BillingQuarterly BillingCycle = "quarterly"
	BillingAnnually  BillingCycle = "annually"
)

// Contract is a service agreement between the tenant and a client.
type Contract struct {
	ID        uuid.UUID
	CompanyID uuid.UUID // tenant scope
	ClientID  uuid.UUID
	LeadID    *uuid.UUID // originating lead, when converted from one

	Title         string
	Status        Status
	Signature     SignatureStatus
	ContractValue float64
	BillingCycle  BillingCycle

	EffectiveDate *time.Time
	ExpiresAt     *time.Time
	SignedAt      *time.Time
	ActivatedAt   *time.Time
	TerminatedAt  *time.Time

	// Version supports optimistic concurrency at the persistence layer.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusChange is one entry in a contract's audit history.
type StatusChange struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	CompanyID  uuid.UUID
	FromStatus Status
	ToStatus   Status
	Reason     *string
	ChangedBy  uuid.UUID
	ChangedAt  time.Time
}
