// internal/domain/lead/dto.go
package lead

import "time"

type CreateLeadRequest struct {
	CompanyName       string     `json:"company_name" binding:"required,max=255"`
	FirstName         string     `json:"first_name" binding:"max=100"`
	LastName          string     `json:"last_name" binding:"max=100"`
	Email             string     `json:"email" binding:"omitempty,email,max=255"`
	Phone             string     `json:"phone" binding:"max=20"`
	Source            string     `json:"source"`
	Score             *int       `json:"score" binding:"omitempty,min=0,max=100"`
	EstimatedValue    float64    `json:"estimated_value" binding:"min=0"`
	Probability       int        `json:"probability" binding:"min=0,max=100"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             string     `json:"notes"`
	Tags              []string   `json:"tags"`
}

type UpdateLeadRequest struct {
	CompanyName       *string    `json:"company_name" binding:"omitempty,max=255"`
	FirstName         *string    `json:"first_name" binding:"omitempty,max=100"`
	LastName          *string    `json:"last_name" binding:"omitempty,max=100"`
	Email             *string    `json:"email" binding:"omitempty,email,max=255"`
	Phone             *string    `json:"phone" binding:"omitempty,max=20"`
	Source            *string    `json:"source"`
	Score             *int       `json:"score" binding:"omitempty,min=0,max=100"`
	EstimatedValue    *float64   `json:"estimated_value" binding:"omitempty,min=0"`
	Probability       *int       `json:"probability" binding:"omitempty,min=0,max=100"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Notes             *string    `json:"notes"`
	Tags              []string   `json:"tags"`
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// ListFilters is the table projection filter set. All three combine with AND;
// an empty search matches everything, and "all" (or empty) disables a filter.
type ListFilters struct {
	Search string `form:"search"`
	Stage  string `form:"stage"`
	Tier   string `form:"tier"`
}

// View annotates a lead with its derived reads for display.
type View struct {
	Lead
	Classification Classification `json:"classification"`
	DaysInStage    int            `json:"days_in_stage"`
}

type ListResponse struct {
	Leads      []View     `json:"leads"`
	Total      int        `json:"total"`
	DataSource DataSource `json:"data_source"`
}

// BoardColumn is one stage bucket of the kanban projection.
type BoardColumn struct {
	Stage StageInfo `json:"stage"`
	Leads []View    `json:"leads"`
}

type BoardResponse struct {
	Columns    []BoardColumn `json:"columns"`
	DataSource DataSource    `json:"data_source"`
}

// WholesaleColumn is one bucket of the simplified 5-column wholesale board.
type WholesaleColumn struct {
	Bucket WholesaleBucket `json:"bucket"`
	Leads  []View          `json:"leads"`
}

type WholesaleBoardResponse struct {
	Columns    []WholesaleColumn `json:"columns"`
	DataSource DataSource        `json:"data_source"`
}

type StatsResponse struct {
	Stats      PipelineStats `json:"stats"`
	DataSource DataSource    `json:"data_source"`
}
