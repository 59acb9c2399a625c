// internal/repository/seed/fixture.go
package seed

import (
	"database/sql"
	"time"

	"pipeline-service/internal/domain/lead"

	"github.com/lib/pq"
)

// Fixture is the fallback DataSource used when neither the record store nor
// the snapshot cache can serve a read. It keeps the pipeline views populated
// instead of blank; responses built from it are flagged with data_source=seed
// so staleness stays visible.
type Fixture struct{}

func New() *Fixture {
	return &Fixture{}
}

// Leads returns the seed dataset. Timestamps are anchored to the current time
// so day-in-stage and month roll-ups stay plausible whenever the fixture is
// served.
func (f *Fixture) Leads() []lead.Lead {
	now := time.Now()

	mk := func(id, number, company, first, last, email string, source lead.LeadSource,
		stage lead.Stage, score int, value float64, probability, ageDays, stageDays int) lead.Lead {
		created := now.AddDate(0, 0, -ageDays)
		return lead.Lead{
			ID:             id,
			LeadNumber:     number,
			CompanyName:    company,
			FirstName:      sql.NullString{String: first, Valid: first != ""},
			LastName:       sql.NullString{String: last, Valid: last != ""},
			Email:          sql.NullString{String: email, Valid: email != ""},
			Source:         source,
			Stage:          stage,
			StageEnteredAt: now.AddDate(0, 0, -stageDays),
			Score:          score,
			EstimatedValue: value,
			Probability:    probability,
			Tags:           pq.StringArray{"wholesale"},
			CreatedAt:      created,
			UpdatedAt:      now.AddDate(0, 0, -stageDays),
		}
	}

	return []lead.Lead{
		mk("seed-001", "L-001", "Harbor & Pine Mercantile", "Dana", "Whitfield",
			"dana@harborpine.example", lead.SourceTradeShow, lead.StageNew, 45, 12000, 20, 3, 3),
		mk("seed-002", "L-002", "Bluestone Outfitters", "Marcus", "Lee",
			"marcus@bluestone.example", lead.SourceWebsite, lead.StageContacted, 58, 18500, 30, 9, 5),
		mk("seed-003", "L-003", "Foxglove Home Goods", "Priya", "Raman",
			"priya@foxglove.example", lead.SourceReferral, lead.StageQualified, 72, 32000, 50, 21, 8),
		mk("seed-004", "L-004", "Cedar Ridge Trading Co", "Tom", "Alvarez",
			"tom@cedarridge.example", lead.SourceLinkedIn, lead.StageDemo, 66, 24000, 55, 28, 6),
		mk("seed-005", "L-005", "Northlight Provisions", "Elena", "Brooks",
			"elena@northlight.example", lead.SourceEmailCampaign, lead.StageProposal, 81, 45000, 70, 35, 4),
		mk("seed-006", "L-006", "Summit & Vale Supply", "Jordan", "Okafor",
			"jordan@summitvale.example", lead.SourceColdOutreach, lead.StageNegotiation, 88, 60000, 80, 42, 2),
		mk("seed-007", "L-007", "Wrenfield Collective", "Sofia", "Marsh",
			"sofia@wrenfield.example", lead.SourceReferral, lead.StageClosedWon, 92, 38000, 100, 60, 12),
		mk("seed-008", "L-008", "Oak Hollow Goods", "", "",
			"orders@oakhollow.example", lead.SourceOther, lead.StageClosedLost, 25, 9000, 0, 75, 20),
	}
}
