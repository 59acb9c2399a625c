// internal/domain/lead/entity.go
package lead

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
)

// LeadSource is the acquisition channel a lead came in through.
type LeadSource string

const (
	SourceWebsite       LeadSource = "website"
	SourceReferral      LeadSource = "referral"
	SourceColdOutreach  LeadSource = "cold_outreach"
	SourceTradeShow     LeadSource = "trade_show"
	SourceLinkedIn      LeadSource = "linkedin"
	SourceEmailCampaign LeadSource = "email_campaign"
	SourceOther         LeadSource = "other"
)

// ParseSource maps a raw string to a known source, falling back to "other".
func ParseSource(s string) LeadSource {
	switch LeadSource(strings.ToLower(strings.TrimSpace(s))) {
	case SourceWebsite:
		return SourceWebsite
	case SourceReferral:
		return SourceReferral
	case SourceColdOutreach:
		return SourceColdOutreach
	case SourceTradeShow:
		return SourceTradeShow
	case SourceLinkedIn:
		return SourceLinkedIn
	case SourceEmailCampaign:
		return SourceEmailCampaign
	default:
		return SourceOther
	}
}

// DataSource tells a consumer where a lead collection was read from, so a
// degraded (cached or seeded) view is distinguishable from a live one.
type DataSource string

const (
	DataSourceLive  DataSource = "live"
	DataSourceCache DataSource = "cache"
	DataSourceSeed  DataSource = "seed"
)

// DefaultScore is the seed score assigned at creation when none is supplied.
const DefaultScore = 50

type Lead struct {
	ID         string `json:"id" db:"id"`
	LeadNumber string `json:"lead_number" db:"lead_number"`

	// Contact
	CompanyName string         `json:"company_name" db:"company_name"`
	FirstName   sql.NullString `json:"first_name,omitempty" db:"first_name"`
	LastName    sql.NullString `json:"last_name,omitempty" db:"last_name"`
	Email       sql.NullString `json:"email,omitempty" db:"email"`
	Phone       sql.NullString `json:"phone,omitempty" db:"phone"`

	// Acquisition
	Source LeadSource `json:"source" db:"source"`

	// Pipeline placement. StageEnteredAt tracks the most recent transition so
	// dwell time does not have to be approximated from CreatedAt.
	Stage          Stage     `json:"pipeline_stage" db:"pipeline_stage"`
	StageEnteredAt time.Time `json:"stage_entered_at" db:"stage_entered_at"`

	// Scoring
	Score int `json:"score" db:"score"`

	// Deal economics
	EstimatedValue    float64      `json:"estimated_value" db:"estimated_value"`
	Probability       int          `json:"probability" db:"probability"`
	ExpectedCloseDate sql.NullTime `json:"expected_close_date,omitempty" db:"expected_close_date"`

	// Additional info
	Notes sql.NullString `json:"notes,omitempty" db:"notes"`
	Tags  pq.StringArray `json:"tags,omitempty" db:"tags"`

	// Timestamps
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
	LastContactedAt sql.NullTime `json:"last_contacted_at,omitempty" db:"last_contacted_at"`
}

// ContactName returns the lead's contact full name, or "" when no name is set.
func (l *Lead) ContactName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName.String) + " " + strings.TrimSpace(l.LastName.String))
}

// StageTransition is one append-only entry in a lead's stage history.
type StageTransition struct {
	ID        int64     `json:"id" db:"id"`
	LeadID    string    `json:"lead_id" db:"lead_id"`
	FromStage Stage     `json:"from_stage" db:"from_stage"`
	ToStage   Stage     `json:"to_stage" db:"to_stage"`
	At        time.Time `json:"at" db:"at"`
}

// PipelineStats is the roll-up summary over a lead collection.
type PipelineStats struct {
	Total           int     `json:"total"`
	Qualified       int     `json:"qualified"`
	ConversionRate  int     `json:"conversion_rate"`
	PipelineValue   float64 `json:"pipeline_value"`
	ThisMonthNew    int     `json:"this_month_new"`
	ThisMonthClosed int     `json:"this_month_closed"`
}
