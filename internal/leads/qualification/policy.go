// Package qualification decides which scored leads are sales-ready and
// summarizes score distributions. Like the scoring engine it is pure: it
// takes lead snapshots and returns decisions for the caller to apply.
package qualification

import (
	"sort"
	"time"

	"msp_core_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Candidates returns the leads eligible for qualification: total score at or
// above minScore and not already qualified, converted, or lost. Results are
// ordered by total score descending; ties are broken by ascending lead ID so
// the ordering is fully deterministic.
func Candidates(leads []domain.Lead, minScore int) []domain.Lead {
	candidates := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.TotalScore < minScore {
			continue
		}
		switch lead.Status {
		case domain.StatusQualified, domain.StatusConverted, domain.StatusLost:
			continue
		}
		candidates = append(candidates, lead)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TotalScore != candidates[j].TotalScore {
			return candidates[i].TotalScore > candidates[j].TotalScore
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	return candidates
}

// Mutation is one pending lead update produced by AutoQualify. The caller
// owns persistence: applying the status change, stamping qualified_at, and
// appending the activity record.
type Mutation struct {
	LeadID      uuid.UUID
	Status      domain.LeadStatus
	QualifiedAt time.Time
	Activity    domain.ActivityType
}

// AutoQualify promotes every candidate to qualified at the given instant.
// qualified_at is set once; leads that already carry a qualification
// timestamp keep it, so re-running the policy is idempotent.
func AutoQualify(candidates []domain.Lead, now time.Time) []Mutation {
	mutations := make([]Mutation, 0, len(candidates))
	for _, lead := range candidates {
		qualifiedAt := now
		if lead.QualifiedAt != nil {
			qualifiedAt = *lead.QualifiedAt
		}
		mutations = append(mutations, Mutation{
			LeadID:      lead.ID,
			Status:      domain.StatusQualified,
			QualifiedAt: qualifiedAt,
			Activity:    domain.ActivityQualified,
		})
	}
	return mutations
}

// Distribution buckets a lead population by total score. The four buckets
// partition the population: every lead lands in exactly one.
type Distribution struct {
	Excellent int `json:"excellent"` // score >= 80
	Good      int `json:"good"`      // 60 <= score < 80
	Fair      int `json:"fair"`      // 40 <= score < 60
	Poor      int `json:"poor"`      // score < 40
	Total     int `json:"total"`
}

// Distribute computes the score distribution for a set of leads.
func Distribute(leads []domain.Lead) Distribution {
	dist := Distribution{Total: len(leads)}
	for _, lead := range leads {
		switch {
		case lead.TotalScore >= 80:
			dist.Excellent++
		case lead.TotalScore >= 60:
			dist.Good++
		case lead.TotalScore >= 40:
			dist.Fair++
		default:
			dist.Poor++
		}
	}
	return dist
}

// SourceStats aggregates funnel performance for one acquisition channel.
// Rates are derived here, never stored (percentages, 0-100).
type SourceStats struct {
	SourceID          uuid.UUID `json:"sourceId"`
	Total             int       `json:"total"`
	Qualified         int       `json:"qualified"`
	Converted         int       `json:"converted"`
	AverageScore      float64   `json:"averageScore"`
	QualificationRate float64   `json:"qualificationRate"`
	ConversionRate    float64   `json:"conversionRate"`
}

// BySource groups leads by source and derives per-channel rates. Leads
// without a source are ignored; converted leads count as qualified for the
// qualification rate since conversion implies having passed qualification.
func BySource(leads []domain.Lead) []SourceStats {
	grouped := make(map[uuid.UUID]*SourceStats)
	scoreSums := make(map[uuid.UUID]int)

	for _, lead := range leads {
		if lead.SourceID == nil {
			continue
		}
		id := *lead.SourceID
		stats, ok := grouped[id]
		if !ok {
			stats = &SourceStats{SourceID: id}
			grouped[id] = stats
		}

		stats.Total++
		scoreSums[id] += lead.TotalScore

		switch lead.Status {
		case domain.StatusConverted:
			stats.Converted++
			stats.Qualified++
		case domain.StatusQualified:
			stats.Qualified++
		}
	}

	results := make([]SourceStats, 0, len(grouped))
	for id, stats := range grouped {
		if stats.Total > 0 {
			stats.AverageScore = float64(scoreSums[id]) / float64(stats.Total)
			stats.QualificationRate = float64(stats.Qualified) / float64(stats.Total) * 100
			stats.ConversionRate = float64(stats.Converted) / float64(stats.Total) * 100
		}
		results = append(results, *stats)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].SourceID.String() < results[j].SourceID.String()
	})

	return results
}
