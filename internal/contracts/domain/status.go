// Package domain provides core business rules for the contracts bounded
// context: the contract status state machine and its transition validator.
package domain

// Status is the contract lifecycle state.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusPendingReview    Status = "pending_review"
	StatusUnderNegotiation Status = "under_negotiation"
	StatusPendingSignature Status = "pending_signature"
	StatusSigned           Status = "signed"
	StatusActive           Status = "active"
	StatusSuspended        Status = "suspended"
	StatusTerminated       Status = "terminated"
	StatusExpired          Status = "expired"
	StatusCancelled        Status = "cancelled"
)

// SignatureStatus tracks signature collection on a contract. Only
// SignatureFullyExecuted gates activation; the intermediate states exist
// for display and reporting.
type SignatureStatus string

const (
	SignatureNotSent         SignatureStatus = "not_sent"
	SignaturePending         SignatureStatus = "pending"
	SignaturePartiallySigned SignatureStatus = "partially_signed"
	SignatureFullyExecuted   SignatureStatus = "fully_executed"
	SignatureDeclined        SignatureStatus = "declined"
)

// allowedTransitions is the full adjacency list of the contract state
// machine. terminated and cancelled are absorbing: no outgoing edges.
var allowedTransitions = map[Status][]Status{
	StatusDraft:            {StatusPendingReview, StatusCancelled},
	StatusPendingReview:    {StatusDraft, StatusUnderNegotiation, StatusPendingSignature, StatusCancelled},
	StatusUnderNegotiation: {StatusPendingReview, StatusPendingSignature, StatusCancelled},
	StatusPendingSignature: {StatusUnderNegotiation, StatusSigned, StatusCancelled},
	StatusSigned:           {StatusActive, StatusCancelled, StatusTerminated},
	StatusActive:           {StatusSuspended, StatusTerminated, StatusExpired},
	StatusSuspended:        {StatusActive, StatusTerminated},
	StatusTerminated:       {},
	StatusExpired:          {StatusTerminated},
	StatusCancelled:        {},
}

// IsKnownStatus reports whether the value is a recognized contract status.
func IsKnownStatus(status Status) bool {
	_, ok := allowedTransitions[status]
	return ok
}

// IsTerminal reports whether the status is absorbing.
func IsTerminal(status Status) bool {
	targets, ok := allowedTransitions[status]
	return ok && len(targets) == 0
}

// CanTransition reports whether the adjacency table permits from -> to.
func CanTransition(from, to Status) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses reachable from the given status.
// The returned slice is a copy; callers may not mutate the table.
func AllowedTargets(from Status) []Status {
	targets := allowedTransitions[from]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}
