// internal/handlers/activity/activity_handler.go
package activity

import (
	"net/http"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/pkg/response"
	service "pipeline-service/internal/service/activity"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *service.Service
}

func NewActivityHandler(activityService *service.Service) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// LogActivity appends an interaction to a lead's timeline
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	leadID := c.Param("id")
	if leadID == "" {
		response.Error(c, http.StatusBadRequest, "lead ID is required", nil)
		return
	}

	var req activity.LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.activityService.LogActivity(c.Request.Context(), leadID, &req)
	if err != nil {
		response.FromError(c, "failed to log activity", err)
		return
	}

	response.Success(c, http.StatusCreated, "activity logged successfully", result)
}

// ListActivities returns a lead's timeline, newest first
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	leadID := c.Param("id")
	if leadID == "" {
		response.Error(c, http.StatusBadRequest, "lead ID is required", nil)
		return
	}

	activities, err := h.activityService.ListActivities(c.Request.Context(), leadID)
	if err != nil {
		response.FromError(c, "failed to list activities", err)
		return
	}

	response.Success(c, http.StatusOK, "activities retrieved", activity.ListResponse{
		Activities: activities,
		Count:      len(activities),
	})
}
