package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
)

type InsightHandler struct {
	svc service.InsightService
}

func NewInsightHandler(svc service.InsightService) *InsightHandler { return &InsightHandler{svc: svc} }

func (h *InsightHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/insights")
	{
		g.POST("", h.save)
		g.GET("", h.list)
		g.DELETE("/:id", h.delete)
	}
}

type saveInsightRequest struct {
	Text string `json:"text"`
}

func (h *InsightHandler) save(c *gin.Context) {
	var req saveInsightRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := h.svc.SaveInsight(c.Request.Context(), req.Text)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, in)
}

func (h *InsightHandler) list(c *gin.Context) {
	items, err := h.svc.ListInsights(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, items)
}

func (h *InsightHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteInsight(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
