// internal/handlers/lead/lead_handler.go
package lead

import (
	"net/http"

	"pipeline-service/internal/domain/lead"
	"pipeline-service/internal/pkg/response"
	service "pipeline-service/internal/service/pipeline"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	pipelineService *service.Service
}

func NewLeadHandler(pipelineService *service.Service) *LeadHandler {
	return &LeadHandler{
		pipelineService: pipelineService,
	}
}

// CreateLead creates a new lead in the first pipeline stage
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var req lead.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.pipelineService.CreateLead(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create lead", err)
		return
	}

	response.Success(c, http.StatusCreated, "lead created successfully", result)
}

// GetLead retrieves a lead by ID with derived tier and days-in-stage
func (h *LeadHandler) GetLead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, "lead ID is required", nil)
		return
	}

	result, err := h.pipelineService.GetLead(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "lead not found", err)
		return
	}

	response.Success(c, http.StatusOK, "lead retrieved", result)
}

// ListLeads returns the filtered, searchable table projection
func (h *LeadHandler) ListLeads(c *gin.Context) {
	var filters lead.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.pipelineService.ListLeads(c.Request.Context(), filters)
	if err != nil {
		response.FromError(c, "failed to list leads", err)
		return
	}

	response.Success(c, http.StatusOK, "leads retrieved", result)
}

// UpdateLead edits contact and deal-economics fields
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	id := c.Param("id")

	var req lead.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.pipelineService.UpdateLead(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, "failed to update lead", err)
		return
	}

	response.Success(c, http.StatusOK, "lead updated successfully", result)
}

// UpdateStage moves a lead to another canonical stage
func (h *LeadHandler) UpdateStage(c *gin.Context) {
	id := c.Param("id")

	var req lead.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.pipelineService.SetStage(c.Request.Context(), id, req.Stage); err != nil {
		response.FromError(c, "failed to update stage", err)
		return
	}

	response.Success(c, http.StatusOK, "stage updated successfully", nil)
}

// DeleteLead removes a lead; deleting an already-deleted lead succeeds
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id := c.Param("id")

	if err := h.pipelineService.DeleteLead(c.Request.Context(), id); err != nil {
		response.FromError(c, "failed to delete lead", err)
		return
	}

	response.Success(c, http.StatusOK, "lead deleted successfully", nil)
}

// GetStageHistory returns a lead's stage transition log
func (h *LeadHandler) GetStageHistory(c *gin.Context) {
	id := c.Param("id")

	history, err := h.pipelineService.StageHistory(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "failed to get stage history", err)
		return
	}

	response.Success(c, http.StatusOK, "stage history retrieved", gin.H{
		"transitions": history,
		"count":       len(history),
	})
}

// ListStages returns the canonical ordered stage metadata
func (h *LeadHandler) ListStages(c *gin.Context) {
	response.Success(c, http.StatusOK, "stages retrieved", gin.H{
		"stages": h.pipelineService.Stages(),
	})
}

// GetBoard returns the stage-partitioned kanban projection
func (h *LeadHandler) GetBoard(c *gin.Context) {
	result, err := h.pipelineService.Board(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to build board", err)
		return
	}

	response.Success(c, http.StatusOK, "board retrieved", result)
}

// GetWholesaleBoard returns the simplified 5-column board projection
func (h *LeadHandler) GetWholesaleBoard(c *gin.Context) {
	result, err := h.pipelineService.WholesaleBoard(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to build wholesale board", err)
		return
	}

	response.Success(c, http.StatusOK, "wholesale board retrieved", result)
}

// GetStats returns the pipeline roll-up statistics
func (h *LeadHandler) GetStats(c *gin.Context) {
	result, err := h.pipelineService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to get pipeline stats", err)
		return
	}

	response.Success(c, http.StatusOK, "pipeline stats retrieved", result)
}
