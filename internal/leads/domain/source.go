package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceType classifies how a lead entered the funnel.
type SourceType string

const (
	SourceManual       SourceType = "manual"
	SourceWebsite      SourceType = "website"
	SourceReferral     SourceType = "referral"
	SourceCampaign     SourceType = "campaign"
	SourceImport       SourceType = "import"
	SourceSocial       SourceType = "social"
	SourceEvent        SourceType = "event"
	SourceColdOutreach SourceType = "cold_outreach"
)

var knownSourceTypes = map[SourceType]struct{}{
	SourceManual:       {},
	SourceWebsite:      {},
	SourceReferral:     {},
	SourceCampaign:     {},
	SourceImport:       {},
	SourceSocial:       {},
	SourceEvent:        {},
	SourceColdOutreach: {},
}

// IsKnownSourceType reports whether the value is a recognized source type.
func IsKnownSourceType(t SourceType) bool {
	_, ok := knownSourceTypes[t]
	return ok
}

// Source is a lead acquisition channel. Conversion and qualification rates
// are derived from the leads that reference it, never stored.
type Source struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
	Type      SourceType
	IsActive  bool
	CreatedAt time.Time
}
