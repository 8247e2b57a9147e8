package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/services"
)

type DashboardController struct {
	dashboard *services.DashboardService
	log       logger.Logger
}

func NewDashboardController(dashboard *services.DashboardService, log logger.Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, log: log.WithComponent("DashboardController")}
}

func (h *DashboardController) Get(c *gin.Context) {
	dashboard, err := h.dashboard.Load(c.Request.Context())
	if err != nil {
		h.log.Error("Dashboard load error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
