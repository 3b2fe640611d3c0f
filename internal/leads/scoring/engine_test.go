package scoring

import (
	"testing"
	"time"

	"msp_core_backend/internal/leads/domain"
)

// testNow is mid-February: not a quarter-closing month, so no seasonal
// bonus skews expectations.
var testNow = time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig())
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func activityAt(t domain.ActivityType, daysAgo int) domain.Activity {
	return domain.Activity{
		Type:         t,
		ActivityDate: testNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}
}

func TestScoreEmptyLead(t *testing.T) {
	s := newTestEngine().Score(domain.Lead{}, nil, testNow)

	if s.Demographic != 0 || s.Behavioral != 0 || s.Fit != 0 || s.Urgency != 0 || s.Total != 0 {
		t.Fatalf("empty lead should score zero everywhere, got %+v", s)
	}
}

func TestScoreDemographicCompanySizeTiers(t *testing.T) {
	cases := []struct {
		name string
		size *int
		want int
	}{
		{"enterprise", intp(600), 25},
		{"boundary 500", intp(500), 25},
		{"mid-market", intp(150), 20},
		{"boundary 100", intp(100), 20},
		{"small", intp(60), 15},
		{"boundary 50", intp(50), 15},
		{"very small", intp(20), 10},
		{"boundary 10", intp(10), 10},
		{"micro", intp(3), 5},
		{"zero employees", intp(0), 5},
		{"unknown size", nil, 0},
	}

	e := newTestEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.scoreDemographic(domain.Lead{CompanySize: tc.size})
			if got != tc.want {
				t.Errorf("size %v: got %d, want %d", tc.size, got, tc.want)
			}
		})
	}
}

func TestScoreDemographicIndustryAndCountry(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name     string
		industry *string
		country  *string
		want     int
	}{
		{"high-value industry", strp("healthcare"), nil, 10},
		{"industry is case and space insensitive", strp("Professional Services"), nil, 10},
		{"other industry", strp("retail"), nil, 5},
		{"preferred country", nil, strp("US"), 5},
		{"other country", nil, strp("germany"), 2},
		{"both high value", strp("technology"), strp("canada"), 15},
		{"neither stated", nil, nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.scoreDemographic(domain.Lead{Industry: tc.industry, Country: tc.country})
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

// Full-profile lead: 25 (size 600) + 10 (technology) + 5 (US) + 10
// (complete contact info) = 50, exactly at the category ceiling.
func TestScoreDemographicFullProfileCapsAtFifty(t *testing.T) {
	lead := domain.Lead{
		CompanySize: intp(600),
		Industry:    strp("technology"),
		Country:     strp("US"),
		Phone:       strp("+15551234567"),
		CompanyName: strp("Acme Corp"),
		Title:       strp("CTO"),
		Website:     strp("https://acme.example"),
	}

	got := newTestEngine().scoreDemographic(lead)
	if got != 50 {
		t.Fatalf("got %d, want 50", got)
	}
}

func TestScoreBehavioralWeightsAndCaps(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name       string
		activities []domain.Activity
		want       int
	}{
		{
			// 3*2 + 2*5 + 1*15 = 31, all 10 days old so no recency bonus.
			name: "mixed engagement",
			activities: []domain.Activity{
				activityAt(domain.ActivityEmailOpened, 10),
				activityAt(domain.ActivityEmailOpened, 10),
				activityAt(domain.ActivityEmailOpened, 10),
				activityAt(domain.ActivityEmailClicked, 10),
				activityAt(domain.ActivityEmailClicked, 10),
				activityAt(domain.ActivityCallReceived, 10),
			},
			want: 31,
		},
		{
			// 10 opens would be 20 raw but the category caps at 10.
			name: "per-category cap",
			activities: func() []domain.Activity {
				var as []domain.Activity
				for i := 0; i < 10; i++ {
					as = append(as, activityAt(domain.ActivityEmailOpened, 10))
				}
				return as
			}(),
			want: 10,
		},
		{
			// Unweighted types contribute nothing.
			name: "unweighted activity types",
			activities: []domain.Activity{
				activityAt(domain.ActivityNoteAdded, 10),
				activityAt(domain.ActivityEmailSent, 10),
			},
			want: 0,
		},
		{
			// One visit in the last week: 1 point plus +2 recency.
			name:       "single recent touchpoint",
			activities: []domain.Activity{activityAt(domain.ActivityWebsiteVisit, 2)},
			want:       3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.scoreBehavioral(tc.activities, testNow)
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreBehavioralMonotonicity(t *testing.T) {
	e := newTestEngine()

	// Adding one more reply never lowers the behavioral score; once the
	// reply category caps out the score holds steady.
	var activities []domain.Activity
	previous := 0
	for i := 0; i < 5; i++ {
		activities = append(activities, activityAt(domain.ActivityEmailReplied, 10))
		got := e.scoreBehavioral(activities, testNow)
		if got < previous {
			t.Fatalf("behavioral score decreased from %d to %d after %d replies", previous, got, i+1)
		}
		previous = got
	}
	// 5 replies at 10 points each, category capped at 20.
	if previous != 20 {
		t.Fatalf("expected capped reply score 20, got %d", previous)
	}
}

func TestScoreFiltersStaleAndFutureActivities(t *testing.T) {
	activities := []domain.Activity{
		activityAt(domain.ActivityMeetingCompleted, 40), // outside the 30-day window
		activityAt(domain.ActivityCallReceived, -1),     // in the future
	}

	s := newTestEngine().Score(domain.Lead{}, activities, testNow)
	if s.Behavioral != 0 {
		t.Fatalf("stale and future activities must not score, got behavioral=%d", s.Behavioral)
	}
}

func TestScoreFit(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name string
		lead domain.Lead
		want int
	}{
		{
			name: "technology keywords from notes and website",
			lead: domain.Lead{Notes: strp("migrating to azure and aws")},
			want: 6,
		},
		{
			name: "keyword counted once despite repetition",
			lead: domain.Lead{Notes: strp("cloud cloud cloud")},
			want: 3,
		},
		{
			name: "pain points outweigh technology",
			lead: domain.Lead{Notes: strp("too much downtime and data loss")},
			want: 8,
		},
		{
			name: "deal value tiers",
			lead: domain.Lead{EstimatedValue: 60000},
			want: 15,
		},
		{
			name: "mid deal value",
			lead: domain.Lead{EstimatedValue: 30000},
			want: 10,
		},
		{
			name: "small deal value",
			lead: domain.Lead{EstimatedValue: 15000},
			want: 5,
		},
		{
			name: "below deal threshold",
			lead: domain.Lead{EstimatedValue: 5000},
			want: 0,
		},
		{
			name: "decision maker title matches once",
			lead: domain.Lead{Title: strp("VP of Operations")},
			want: 10,
		},
		{
			name: "non decision maker title",
			lead: domain.Lead{Title: strp("Junior Accountant")},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.scoreFit(tc.lead)
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreUrgency(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name       string
		lead       domain.Lead
		activities []domain.Activity
		now        time.Time
		want       int
	}{
		{
			name: "each urgency keyword counts",
			lead: domain.Lead{Notes: strp("urgent: need this asap")},
			now:  testNow,
			want: 10,
		},
		{
			name: "compliance matches only once",
			lead: domain.Lead{Notes: strp("hipaa and gdpr required")},
			now:  testNow,
			want: 8,
		},
		{
			name: "hot engagement capped at 24",
			activities: []domain.Activity{
				activityAt(domain.ActivityCallReceived, 1),
				activityAt(domain.ActivityCallReceived, 1),
				activityAt(domain.ActivityEmailReplied, 1),
				activityAt(domain.ActivityFormSubmitted, 1),
			},
			now: testNow,
			// 4 hot * 8 = 32 capped to 24, plus 4 weekly touchpoints = +5.
			want: 29,
		},
		{
			name: "weekly touchpoint volume",
			activities: []domain.Activity{
				activityAt(domain.ActivityWebsiteVisit, 2),
				activityAt(domain.ActivityWebsiteVisit, 2),
				activityAt(domain.ActivityWebsiteVisit, 2),
				activityAt(domain.ActivityWebsiteVisit, 2),
				activityAt(domain.ActivityWebsiteVisit, 2),
			},
			now:  testNow,
			want: 10,
		},
		{
			name: "year-end quarter bonus",
			now:  time.Date(2026, time.December, 15, 12, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "mid-year quarter bonus",
			now:  time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC),
			want: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.scoreUrgency(tc.lead, tc.activities, tc.now)
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScoreTotalCappedAtHundred(t *testing.T) {
	lead := domain.Lead{
		CompanySize:    intp(600),
		Industry:       strp("technology"),
		Country:        strp("US"),
		Phone:          strp("+15551234567"),
		CompanyName:    strp("Acme Corp"),
		Title:          strp("CEO"),
		Website:        strp("https://acme.example"),
		EstimatedValue: 60000,
		Notes:          strp("urgent asap critical emergency deadline ransomware downtime breach phishing cloud azure aws server firewall backup hipaa"),
	}
	activities := []domain.Activity{
		activityAt(domain.ActivityCallReceived, 1),
		activityAt(domain.ActivityCallReceived, 1),
		activityAt(domain.ActivityCallReceived, 1),
	}

	s := newTestEngine().Score(lead, activities, testNow)
	if s.Total != 100 {
		t.Fatalf("total must cap at 100, got %d (%+v)", s.Total, s)
	}
	for name, v := range map[string]int{
		"demographic": s.Demographic,
		"behavioral":  s.Behavioral,
		"fit":         s.Fit,
		"urgency":     s.Urgency,
	} {
		if v < 0 || v > 50 {
			t.Errorf("%s score out of range: %d", name, v)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	lead := domain.Lead{
		CompanySize: intp(120),
		Industry:    strp("finance"),
		Notes:       strp("looking for managed services, current provider is slow"),
	}
	activities := []domain.Activity{
		activityAt(domain.ActivityEmailOpened, 5),
		activityAt(domain.ActivityFormSubmitted, 2),
	}

	e := newTestEngine()
	first := e.Score(lead, activities, testNow)
	second := e.Score(lead, activities, testNow)
	if first != second {
		t.Fatalf("same inputs must produce same scores: %+v vs %+v", first, second)
	}
}

func TestLoadConfigMissingPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.HighValueIndustries) == 0 || len(cfg.UrgencyKeywords) == 0 {
		t.Fatal("default config must carry built-in vocabularies")
	}
}
