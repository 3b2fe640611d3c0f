// Package transport defines the request and response shapes for the
// contracts HTTP API.
package transport

import (
	"time"

	"msp_core_backend/internal/contracts/domain"

	"github.com/google/uuid"
)

// CreateContractRequest creates a new draft contract.
type CreateContractRequest struct {
	ClientID      uuid.UUID  `json:"clientId" binding:"required"`
	LeadID        *uuid.UUID `json:"leadId"`
	Title         string     `json:"title" binding:"required,max=200"`
	ContractValue float64    `json:"contractValue" binding:"omitempty,min=0"`
	BillingCycle  string     `json:"billingCycle" binding:"omitempty,oneof=monthly quarterly annually"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// ChangeStatusRequest requests a status transition.
type ChangeStatusRequest struct {
	Status        string     `json:"status" binding:"required"`
	Reason        string     `json:"reason" binding:"omitempty,max=1000"`
	EffectiveDate *time.Time `json:"effectiveDate"`
}

// UpdateSignatureRequest advances the signature workflow.
type UpdateSignatureRequest struct {
	Signature string `json:"signature" binding:"required,oneof=not_sent pending partially_signed fully_executed declined"`
}

// ContractResponse is the canonical contract representation.
type ContractResponse struct {
	ID            uuid.UUID  `json:"id"`
	ClientID      uuid.UUID  `json:"clientId"`
	LeadID        *uuid.UUID `json:"leadId,omitempty"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	Signature     string     `json:"signature"`
	ContractValue float64    `json:"contractValue"`
	BillingCycle  string     `json:"billingCycle"`
	EffectiveDate *time.Time `json:"effectiveDate,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	SignedAt      *time.Time `json:"signedAt,omitempty"`
	ActivatedAt   *time.Time `json:"activatedAt,omitempty"`
	TerminatedAt  *time.Time `json:"terminatedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ToContractResponse maps a domain contract.
func ToContractResponse(c domain.Contract) ContractResponse {
	return ContractResponse{
		ID:            c.ID,
		ClientID:      c.ClientID,
		LeadID:        c.LeadID,
		Title:         c.Title,
		Status:        string(c.Status),
		Signature:     string(c.Signature),
		ContractValue: c.ContractValue,
		BillingCycle:  string(c.BillingCycle),
		EffectiveDate: c.EffectiveDate,
		ExpiresAt:     c.ExpiresAt,
		SignedAt:      c.SignedAt,
		ActivatedAt:   c.ActivatedAt,
		TerminatedAt:  c.TerminatedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ToContractResponses maps a slice of contracts.
func ToContractResponses(contracts []domain.Contract) []ContractResponse {
	out := make([]ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, ToContractResponse(c))
	}
	return out
}

// StatusChangeResponse is one audit history entry.
type StatusChangeResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Reason     *string   `json:"reason,omitempty"`
	ChangedBy  uuid.UUID `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
}

// ToStatusChangeResponses maps audit history.
func ToStatusChangeResponses(history []domain.StatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, 0, len(history))
	for _, change := range history {
		out = append(out, StatusChangeResponse{
			ID:         change.ID,
			FromStatus: string(change.FromStatus),
			ToStatus:   string(change.ToStatus),
			Reason:     change.Reason,
			ChangedBy:  change.ChangedBy,
			ChangedAt:  change.ChangedAt,
		})
	}
	return out
}

// AllowedTargetsResponse lists the statuses a contract may move to next.
type AllowedTargetsResponse struct {
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}
