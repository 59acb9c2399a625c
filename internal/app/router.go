// internal/app/router.go
package app

import (
	activityHandler "pipeline-service/internal/handlers/activity"
	leadHandler "pipeline-service/internal/handlers/lead"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	LeadHandler     *leadHandler.LeadHandler
	ActivityHandler *activityHandler.ActivityHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health & Metrics ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== Leads ====================
	leads := api.Group("/leads")
	{
		leads.POST("", h.LeadHandler.CreateLead)
		leads.GET("", h.LeadHandler.ListLeads)
		leads.GET("/:id", h.LeadHandler.GetLead)
		leads.PUT("/:id", h.LeadHandler.UpdateLead)
		leads.DELETE("/:id", h.LeadHandler.DeleteLead)
		leads.PUT("/:id/stage", h.LeadHandler.UpdateStage)
		leads.GET("/:id/history", h.LeadHandler.GetStageHistory)
		leads.POST("/:id/activities", h.ActivityHandler.LogActivity)
		leads.GET("/:id/activities", h.ActivityHandler.ListActivities)
	}

	// ==================== Pipeline projections ====================
	pipeline := api.Group("/pipeline")
	{
		pipeline.GET("/stages", h.LeadHandler.ListStages)
		pipeline.GET("/board", h.LeadHandler.GetBoard)
		pipeline.GET("/board/wholesale", h.LeadHandler.GetWholesaleBoard)
		pipeline.GET("/stats", h.LeadHandler.GetStats)
	}
}
