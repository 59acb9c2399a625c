// internal/domain/activity/dto.go
package activity

type LogActivityRequest struct {
	Type        string `json:"activity_type" binding:"required"`
	Subject     string `json:"subject" binding:"required,max=255"`
	Description string `json:"description"`
	Outcome     string `json:"outcome"`
}

type ListResponse struct {
	Activities []Activity `json:"activities"`
	Count      int        `json:"count"`
}
