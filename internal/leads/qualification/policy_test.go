package qualification

import (
	"testing"
	"time"

	"msp_core_backend/internal/leads/domain"

	"github.com/google/uuid"
)

var qualNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func leadWith(id byte, score int, status domain.LeadStatus) domain.Lead {
	return domain.Lead{
		ID:         uuid.UUID{id},
		TotalScore: score,
		Status:     status,
	}
}

func TestCandidatesFiltersClosedAndLowScoring(t *testing.T) {
	leads := []domain.Lead{
		leadWith(1, 85, domain.StatusNew),
		leadWith(2, 90, domain.StatusQualified),   // already qualified
		leadWith(3, 95, domain.StatusConverted),   // closed won
		leadWith(4, 88, domain.StatusLost),        // closed lost
		leadWith(5, 60, domain.StatusNew),         // below threshold
		leadWith(6, 70, domain.StatusContacted),   // exactly at threshold
		leadWith(7, 72, domain.StatusNurturing),   // nurturing stays eligible
		leadWith(8, 75, domain.StatusUnqualified), // unqualified can re-enter
	}

	got := Candidates(leads, 70)

	wantIDs := []uuid.UUID{{1}, {8}, {7}, {6}}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d candidates, want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestCandidatesOrderByScoreThenID(t *testing.T) {
	leads := []domain.Lead{
		leadWith(9, 80, domain.StatusNew),
		leadWith(2, 80, domain.StatusNew),
		leadWith(5, 92, domain.StatusNew),
	}

	got := Candidates(leads, 70)

	wantIDs := []uuid.UUID{{5}, {2}, {9}}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestAutoQualifySetsTimestampOnce(t *testing.T) {
	earlier := qualNow.Add(-48 * time.Hour)
	alreadyStamped := leadWith(1, 90, domain.StatusNew)
	alreadyStamped.QualifiedAt = &earlier
	fresh := leadWith(2, 85, domain.StatusNew)

	mutations := AutoQualify([]domain.Lead{alreadyStamped, fresh}, qualNow)

	if len(mutations) != 2 {
		t.Fatalf("got %d mutations, want 2", len(mutations))
	}
	if !mutations[0].QualifiedAt.Equal(earlier) {
		t.Errorf("existing qualification timestamp must be preserved, got %v", mutations[0].QualifiedAt)
	}
	if !mutations[1].QualifiedAt.Equal(qualNow) {
		t.Errorf("fresh lead must be stamped now, got %v", mutations[1].QualifiedAt)
	}
	for _, m := range mutations {
		if m.Status != domain.StatusQualified {
			t.Errorf("mutation status must be qualified, got %s", m.Status)
		}
		if m.Activity != domain.ActivityQualified {
			t.Errorf("mutation activity must be qualified, got %s", m.Activity)
		}
	}
}

func TestDistributePartitionsEveryLead(t *testing.T) {
	leads := []domain.Lead{
		leadWith(1, 95, domain.StatusNew),  // excellent
		leadWith(2, 80, domain.StatusNew),  // excellent boundary
		leadWith(3, 79, domain.StatusNew),  // good
		leadWith(4, 60, domain.StatusNew),  // good boundary
		leadWith(5, 59, domain.StatusNew),  // fair
		leadWith(6, 40, domain.StatusNew),  // fair boundary
		leadWith(7, 39, domain.StatusNew),  // poor
		leadWith(8, 0, domain.StatusNew),   // poor
	}

	d := Distribute(leads)

	if d.Excellent != 2 || d.Good != 2 || d.Fair != 2 || d.Poor != 2 {
		t.Fatalf("unexpected buckets: %+v", d)
	}
	if d.Total != len(leads) {
		t.Fatalf("total %d, want %d", d.Total, len(leads))
	}
	if d.Excellent+d.Good+d.Fair+d.Poor != d.Total {
		t.Fatal("buckets must partition the population")
	}
}

func TestDistributeEmpty(t *testing.T) {
	d := Distribute(nil)
	if d != (Distribution{}) {
		t.Fatalf("empty population should be all zeros, got %+v", d)
	}
}

func TestBySourceRatesAndGrouping(t *testing.T) {
	sourceA := uuid.UUID{0xA}
	sourceB := uuid.UUID{0xB}

	withSource := func(id byte, source uuid.UUID, score int, status domain.LeadStatus) domain.Lead {
		lead := leadWith(id, score, status)
		lead.SourceID = &source
		return lead
	}

	leads := []domain.Lead{
		withSource(1, sourceA, 80, domain.StatusQualified),
		withSource(2, sourceA, 60, domain.StatusConverted),
		withSource(3, sourceA, 40, domain.StatusNew),
		withSource(4, sourceA, 20, domain.StatusLost),
		withSource(5, sourceB, 90, domain.StatusNew),
		leadWith(6, 99, domain.StatusNew), // no source, ignored
	}

	stats := BySource(leads)

	if len(stats) != 2 {
		t.Fatalf("got %d sources, want 2", len(stats))
	}

	a := stats[0]
	if a.SourceID != sourceA {
		t.Fatalf("expected source A first, got %s", a.SourceID)
	}
	if a.Total != 4 || a.Qualified != 2 || a.Converted != 1 {
		t.Errorf("source A counts wrong: %+v", a)
	}
	// Converted counts as qualified: 2/4 = 50%, converted 1/4 = 25%.
	if a.QualificationRate != 50 || a.ConversionRate != 25 {
		t.Errorf("source A rates wrong: %+v", a)
	}
	if a.AverageScore != 50 {
		t.Errorf("source A average score: got %v, want 50", a.AverageScore)
	}

	b := stats[1]
	if b.Total != 1 || b.Qualified != 0 || b.ConversionRate != 0 {
		t.Errorf("source B stats wrong: %+v", b)
	}
}
