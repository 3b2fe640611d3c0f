// Package scoring computes lead scores across four weighted categories:
// demographic, behavioral, fit, and urgency. The engine is a pure function
// over a lead snapshot and its recent activity history. Time enters only
// through the caller-supplied reference instant, so the same inputs always
// produce the same scores.
package scoring

import (
	"strings"
	"time"

	"msp_core_backend/internal/leads/domain"
)

const (
	// scoreVersion tracks the scoring model for debugging and analysis.
	// Bump this when changing scoring logic significantly.
	scoreVersion = "2026-v1"

	// categoryCeiling caps each of the four sub-scores before summation.
	categoryCeiling = 50

	// totalCeiling caps the summed total.
	totalCeiling = 100

	// ActivityWindow is the trailing window considered for behavioral
	// signals. Callers loading activities from storage only need history
	// this far back.
	ActivityWindow = 30 * 24 * time.Hour

	// recentWindow is the trailing window for the recency/touchpoint bonuses.
	recentWindow = 7 * 24 * time.Hour

	// hotWindow is the trailing window for high-engagement urgency signals.
	hotWindow = 3 * 24 * time.Hour
)

// Scores holds the four sub-scores and the capped total.
type Scores struct {
	Demographic int
	Behavioral  int
	Fit         int
	Urgency     int
	Total       int
	Version     string
}

// Engine scores leads against a fixed vocabulary configuration.
// It is safe for concurrent use: all state is read-only after construction.
type Engine struct {
	cfg Config

	industries map[string]struct{}
	countries  map[string]struct{}
}

// NewEngine creates an engine from the given configuration. Set-membership
// vocabularies are precomputed as lowercase lookup maps.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		industries: toSet(cfg.HighValueIndustries),
		countries:  toSet(cfg.PreferredCountries),
	}
}

// Score computes all four sub-scores and the total for a lead snapshot.
// activities may contain entries outside the 30-day window; they are
// filtered here so callers can pass whatever history they have loaded.
// now is the reference instant for every window and the quarter bonus.
func (e *Engine) Score(lead domain.Lead, activities []domain.Activity, now time.Time) Scores {
	recent := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Within(ActivityWindow, now) {
			recent = append(recent, a)
		}
	}

	s := Scores{
		Demographic: e.scoreDemographic(lead),
		Behavioral:  e.scoreBehavioral(recent, now),
		Fit:         e.scoreFit(lead),
		Urgency:     e.scoreUrgency(lead, recent, now),
		Version:     scoreVersion,
	}

	s.Total = capValue(s.Demographic+s.Behavioral+s.Fit+s.Urgency, totalCeiling)
	return s
}

// scoreDemographic evaluates WHO the lead is: company size, industry,
// geography, and how complete the contact profile is.
func (e *Engine) scoreDemographic(lead domain.Lead) int {
	score := 0

	// Company size tiers. Larger organizations carry larger contracts.
	if lead.CompanySize != nil {
		size := *lead.CompanySize
		switch {
		case size >= 500:
			score += 25
		case size >= 100:
			score += 20
		case size >= 50:
			score += 15
		case size >= 10:
			score += 10
		default:
			score += 5
		}
	}

	// Industry: regulated and technology-adjacent verticals buy managed
	// services at much higher rates; any stated industry beats none.
	if industry := normalizeToken(strPtr(lead.Industry)); industry != "" {
		if _, ok := e.industries[industry]; ok {
			score += 10
		} else {
			score += 5
		}
	}

	// Geography: primary service markets get the full bonus.
	if country := normalizeToken(strPtr(lead.Country)); country != "" {
		if _, ok := e.countries[country]; ok {
			score += 5
		} else {
			score += 2
		}
	}

	// Contact completeness, max 10.
	completeness := 0
	if present(lead.Phone) {
		completeness += 2
	}
	if present(lead.CompanyName) {
		completeness += 3
	}
	if present(lead.Title) {
		completeness += 2
	}
	if present(lead.Website) {
		completeness += 3
	}
	if completeness > 10 {
		completeness = 10
	}
	score += completeness

	return capValue(score, categoryCeiling)
}

// behavioralWeights maps an activity type to its per-occurrence score and
// the independent cap for that activity category.
var behavioralWeights = map[domain.ActivityType]struct {
	points int
	cap    int
}{
	domain.ActivityEmailOpened:        {points: 2, cap: 10},
	domain.ActivityEmailClicked:       {points: 5, cap: 15},
	domain.ActivityEmailReplied:       {points: 10, cap: 20},
	domain.ActivityWebsiteVisit:       {points: 1, cap: 5},
	domain.ActivityDocumentDownloaded: {points: 3, cap: 10},
	domain.ActivityFormSubmitted:      {points: 8, cap: 15},
	domain.ActivityCallReceived:       {points: 15, cap: 30},
	domain.ActivityMeetingCompleted:   {points: 20, cap: 40},
}

// scoreBehavioral evaluates ENGAGEMENT: weighted activity counts within the
// 30-day window, each category independently capped, plus a recency bonus
// for activity inside the last 7 days.
func (e *Engine) scoreBehavioral(recent []domain.Activity, now time.Time) int {
	counts := make(map[domain.ActivityType]int, len(behavioralWeights))
	recentCount := 0

	for _, a := range recent {
		// System-generated audit entries (score updates, status changes)
		// are not engagement and must not feed back into the score.
		if _, ok := behavioralWeights[a.Type]; !ok {
			continue
		}
		counts[a.Type]++
		if a.Within(recentWindow, now) {
			recentCount++
		}
	}

	score := 0
	for activityType, weight := range behavioralWeights {
		contribution := counts[activityType] * weight.points
		score += capValue(contribution, weight.cap)
	}

	// Recency bonus: anything in the last week keeps the lead warm.
	switch {
	case recentCount >= 5:
		score += 10
	case recentCount >= 3:
		score += 5
	case recentCount >= 1:
		score += 2
	}

	return capValue(score, categoryCeiling)
}

// scoreFit evaluates HOW WELL the lead matches the service offering:
// technology environment, stated pain points, deal size, and whether the
// contact can sign.
func (e *Engine) scoreFit(lead domain.Lead) int {
	score := 0

	text := strings.ToLower(strPtr(lead.Notes) + " " + strPtr(lead.Website))

	// Each technology term counts once regardless of repetitions.
	for _, keyword := range e.cfg.TechnologyKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += 3
		}
	}

	// Pain points outweigh generic technology mentions.
	for _, keyword := range e.cfg.PainPointKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			score += 4
		}
	}

	// Deal size tiers.
	switch {
	case lead.EstimatedValue >= 50000:
		score += 15
	case lead.EstimatedValue >= 25000:
		score += 10
	case lead.EstimatedValue >= 10000:
		score += 5
	}

	// Decision-maker title: first match wins, then stop scanning.
	title := strings.ToLower(strPtr(lead.Title))
	if title != "" {
		for _, keyword := range e.cfg.DecisionMakerTitles {
			if strings.Contains(title, keyword) {
				score += 10
				break
			}
		}
	}

	return capValue(score, categoryCeiling)
}

// highEngagementTypes are the activity types that signal an active buying
// conversation when they occur within the last 3 days.
var highEngagementTypes = map[domain.ActivityType]struct{}{
	domain.ActivityCallReceived:     {},
	domain.ActivityEmailReplied:     {},
	domain.ActivityMeetingScheduled: {},
	domain.ActivityFormSubmitted:    {},
}

// scoreUrgency evaluates WHEN the lead needs to buy: urgency language,
// very recent high-engagement activity, compliance pressure, quarter-end
// timing, and touchpoint volume.
func (e *Engine) scoreUrgency(lead domain.Lead, recent []domain.Activity, now time.Time) int {
	score := 0

	notes := strings.ToLower(strPtr(lead.Notes))

	// Every distinct urgency keyword counts.
	for _, keyword := range e.cfg.UrgencyKeywords {
		if strings.Contains(notes, strings.ToLower(keyword)) {
			score += 5
		}
	}

	// High-engagement activity in the last 3 days, capped.
	hot := 0
	weekly := 0
	for _, a := range recent {
		if _, ok := highEngagementTypes[a.Type]; ok && a.Within(hotWindow, now) {
			hot++
		}
		if _, ok := behavioralWeights[a.Type]; ok && a.Within(recentWindow, now) {
			weekly++
		}
	}
	score += capValue(hot*8, 24)

	// Compliance pressure: first match only.
	for _, keyword := range e.cfg.ComplianceKeywords {
		if strings.Contains(notes, strings.ToLower(keyword)) {
			score += 8
			break
		}
	}

	// Budget cycles: quarter-closing months see faster decisions, year-end
	// most of all.
	switch now.Month() {
	case time.October, time.November, time.December:
		score += 5
	case time.March, time.June, time.September:
		score += 3
	}

	// Touchpoint volume over the last week.
	switch {
	case weekly >= 5:
		score += 10
	case weekly >= 3:
		score += 5
	}

	return capValue(score, categoryCeiling)
}

func capValue(value, ceiling int) int {
	if value > ceiling {
		return ceiling
	}
	return value
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// normalizeToken lowercases and underscores a free-text classifier value so
// "Professional Services" matches "professional_services".
func normalizeToken(s string) string {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(trimmed, " ", "_")
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalizeToken(v)] = struct{}{}
	}
	return set
}
