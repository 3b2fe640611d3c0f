package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies a lead touchpoint. Activities are append-only;
// once recorded they are never mutated, and the canonical read order is
// activity_date descending.
type ActivityType string

const (
	ActivityLeadCreated        ActivityType = "lead_created"
	ActivityEmailSent          ActivityType = "email_sent"
	ActivityEmailOpened        ActivityType = "email_opened"
	ActivityEmailClicked       ActivityType = "email_clicked"
	ActivityEmailReplied       ActivityType = "email_replied"
	ActivityCallMade           ActivityType = "call_made"
	ActivityCallReceived       ActivityType = "call_received"
	ActivityMeetingScheduled   ActivityType = "meeting_scheduled"
	ActivityMeetingCompleted   ActivityType = "meeting_completed"
	ActivityNoteAdded          ActivityType = "note_added"
	ActivityStatusChanged      ActivityType = "status_changed"
	ActivityScoreUpdated       ActivityType = "score_updated"
	ActivityCampaignEnrolled   ActivityType = "campaign_enrolled"
	ActivityCampaignCompleted  ActivityType = "campaign_completed"
	ActivityFormSubmitted      ActivityType = "form_submitted"
	ActivityWebsiteVisit       ActivityType = "website_visit"
	ActivityDocumentDownloaded ActivityType = "document_downloaded"
	ActivityQualified          ActivityType = "qualified"
	ActivityConverted          ActivityType = "converted"
	ActivityLost               ActivityType = "lost"
)

var knownActivityTypes = map[ActivityType]struct{}{
	ActivityLeadCreated:        {},
	ActivityEmailSent:          {},
	ActivityEmailOpened:        {},
	ActivityEmailClicked:       {},
	ActivityEmailReplied:       {},
	ActivityCallMade:           {},
	ActivityCallReceived:       {},
	ActivityMeetingScheduled:   {},
	ActivityMeetingCompleted:   {},
	ActivityNoteAdded:          {},
	ActivityStatusChanged:      {},
	ActivityScoreUpdated:       {},
	ActivityCampaignEnrolled:   {},
	ActivityCampaignCompleted:  {},
	ActivityFormSubmitted:      {},
	ActivityWebsiteVisit:       {},
	ActivityDocumentDownloaded: {},
	ActivityQualified:          {},
	ActivityConverted:          {},
	ActivityLost:               {},
}

// IsKnownActivityType reports whether the value is a recognized activity type.
func IsKnownActivityType(t ActivityType) bool {
	_, ok := knownActivityTypes[t]
	return ok
}

// Activity is a single immutable touchpoint on a lead's timeline.
type Activity struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	CompanyID    uuid.UUID
	Type         ActivityType
	ActivityDate time.Time
	Metadata     map[string]string
	CreatedAt    time.Time
}

// Within reports whether the activity occurred inside the trailing window
// ending at now. Activities timestamped in the future relative to now are
// excluded to keep scoring deterministic.
func (a Activity) Within(window time.Duration, now time.Time) bool {
	if a.ActivityDate.After(now) {
		return false
	}
	return !a.ActivityDate.Before(now.Add(-window))
}
