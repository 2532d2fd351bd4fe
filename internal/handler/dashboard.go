package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/service"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Register(r *gin.RouterGroup) {
	r.GET("/dashboard", h.get)
}

func (h *DashboardHandler) get(c *gin.Context) {
	aggregate(c, "dashboard", h.svc.GetDashboard)
}
