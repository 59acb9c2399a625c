// internal/domain/lead/projection.go
package lead

import (
	"math"
	"strings"
	"time"
)

// The projections are pure functions over a lead collection so they behave
// identically whether the collection came from the live store, the snapshot
// cache, or the seed fixture.

// Filter applies the table projection predicate: free-text search against
// company name, contact full name and email (case-insensitive substring),
// stage equality, and tier equality, combined with AND.
func Filter(leads []Lead, f ListFilters) []Lead {
	query := strings.ToLower(strings.TrimSpace(f.Search))

	stageFilter, filterByStage := ParseStage(f.Stage)
	tierFilter, filterByTier := ParseTier(f.Tier)

	out := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if query != "" && !matchesSearch(&l, query) {
			continue
		}
		if filterByStage && l.Stage != stageFilter {
			continue
		}
		if filterByTier && Classify(l.Score).Tier != tierFilter {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesSearch(l *Lead, query string) bool {
	return strings.Contains(strings.ToLower(l.CompanyName), query) ||
		strings.Contains(strings.ToLower(l.ContactName()), query) ||
		strings.Contains(strings.ToLower(l.Email.String), query)
}

// Annotate builds the display views with derived tier and days-in-stage.
func Annotate(leads []Lead, now time.Time) []View {
	views := make([]View, 0, len(leads))
	for _, l := range leads {
		views = append(views, View{
			Lead:           l,
			Classification: Classify(l.Score),
			DaysInStage:    DaysInStage(&l, now),
		})
	}
	return views
}

// Board partitions leads into one bucket per canonical stage, in canonical
// order. Every lead lands in exactly the bucket matching its current stage.
func Board(leads []Lead, now time.Time) []BoardColumn {
	columns := make([]BoardColumn, 0, len(canonicalStages))
	for _, info := range canonicalStages {
		col := BoardColumn{Stage: info, Leads: []View{}}
		for _, l := range leads {
			if l.Stage == info.ID {
				col.Leads = append(col.Leads, View{
					Lead:           l,
					Classification: Classify(l.Score),
					DaysInStage:    DaysInStage(&l, now),
				})
			}
		}
		columns = append(columns, col)
	}
	return columns
}

// WholesaleBoard re-buckets the same collection into the 5-column wholesale
// view. This is a projection of the canonical stages, not a second state.
func WholesaleBoard(leads []Lead, now time.Time) []WholesaleColumn {
	columns := make([]WholesaleColumn, 0, 5)
	for _, bucket := range WholesaleBuckets() {
		col := WholesaleColumn{Bucket: bucket, Leads: []View{}}
		for _, l := range leads {
			if l.Stage.Wholesale() == bucket {
				col.Leads = append(col.Leads, View{
					Lead:           l,
					Classification: Classify(l.Score),
					DaysInStage:    DaysInStage(&l, now),
				})
			}
		}
		columns = append(columns, col)
	}
	return columns
}

// Aggregate computes the roll-up statistics. Month boundaries use loc, the
// single reporting timezone configured for the deployment.
func Aggregate(leads []Lead, now time.Time, loc *time.Location) PipelineStats {
	if loc == nil {
		loc = time.UTC
	}
	localNow := now.In(loc)
	monthStart := time.Date(localNow.Year(), localNow.Month(), 1, 0, 0, 0, 0, loc)

	var stats PipelineStats
	var won int

	for _, l := range leads {
		stats.Total++

		switch l.Stage {
		case StageQualified, StageDemo, StageProposal, StageNegotiation, StageClosedWon:
			stats.Qualified++
		case StageNew, StageContacted, StageClosedLost:
			// not counted as qualified
		}

		if l.Stage == StageClosedWon {
			won++
			if !l.UpdatedAt.In(loc).Before(monthStart) {
				stats.ThisMonthClosed++
			}
		}

		if l.Stage.Open() {
			stats.PipelineValue += l.EstimatedValue
		}

		if !l.CreatedAt.In(loc).Before(monthStart) {
			stats.ThisMonthNew++
		}
	}

	if stats.Total > 0 {
		stats.ConversionRate = int(math.Round(100 * float64(won) / float64(stats.Total)))
	}
	return stats
}
