// Package domain provides core business rules and value types for the leads
// bounded context. It has no framework or persistence dependencies: the
// scoring, qualification, and import packages operate on these types and
// return plain values.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the lead lifecycle state.
type LeadStatus string

const (
	StatusNew         LeadStatus = "new"
	StatusContacted   LeadStatus = "contacted"
	StatusQualified   LeadStatus = "qualified"
	StatusUnqualified LeadStatus = "unqualified"
	StatusNurturing   LeadStatus = "nurturing"
	StatusConverted   LeadStatus = "converted"
	StatusLost        LeadStatus = "lost"
)

var knownLeadStatuses = map[LeadStatus]struct{}{
	StatusNew:         {},
	StatusContacted:   {},
	StatusQualified:   {},
	StatusUnqualified: {},
	StatusNurturing:   {},
	StatusConverted:   {},
	StatusLost:        {},
}

// IsKnownLeadStatus reports whether the value is a recognized lifecycle state.
func IsKnownLeadStatus(status LeadStatus) bool {
	_, ok := knownLeadStatuses[status]
	return ok
}

// IsClosed reports whether the lead is past the funnel: qualified leads stay
// workable, converted and lost do not.
func (s LeadStatus) IsClosed() bool {
	return s == StatusConverted || s == StatusLost
}

// InterestLevel is the self-reported or agent-assessed buying interest.
type InterestLevel string

const (
	InterestLow    InterestLevel = "low"
	InterestMedium InterestLevel = "medium"
	InterestHigh   InterestLevel = "high"
)

// IsKnownInterestLevel reports whether the value is a recognized interest level.
func IsKnownInterestLevel(level InterestLevel) bool {
	return level == InterestLow || level == InterestMedium || level == InterestHigh
}

// Lead is an immutable snapshot of a prospective client record.
// Optional profile fields are pointers; absent values contribute zero to
// every scoring category.
type Lead struct {
	ID        uuid.UUID
	CompanyID uuid.UUID // tenant scope
	SourceID  *uuid.UUID

	FirstName   string
	LastName    string
	Email       string
	Phone       *string
	CompanyName *string
	Title       *string
	Website     *string
	Industry    *string
	CompanySize *int
	Country     *string
	Notes       *string

	EstimatedValue float64
	InterestLevel  InterestLevel

	DemographicScore int
	BehavioralScore  int
	FitScore         int
	UrgencyScore     int
	TotalScore       int
	LastScoredAt     *time.Time

	Status      LeadStatus
	QualifiedAt *time.Time
	ConvertedAt *time.Time
	ClientID    *uuid.UUID

	// Version supports optimistic concurrency at the persistence layer.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name for display and audit messages.
func (l Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	default:
		return l.FirstName + " " + l.LastName
	}
}

// CreateLead is the canonical lead-creation record produced by the import
// mapper and accepted by the repository.
type CreateLead struct {
	CompanyID      uuid.UUID
	SourceID       uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          *string
	CompanyName    *string
	Title          *string
	Website        *string
	Industry       *string
	CompanySize    *int
	Country        *string
	Notes          *string
	EstimatedValue float64
	Status         LeadStatus
	InterestLevel  InterestLevel
}
