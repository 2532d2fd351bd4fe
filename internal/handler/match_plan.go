package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
)

type MatchPlanHandler struct {
	svc service.MatchPlanService
}

func NewMatchPlanHandler(svc service.MatchPlanService) *MatchPlanHandler {
	return &MatchPlanHandler{svc: svc}
}

func (h *MatchPlanHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/match-plans")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.DELETE("/:id", h.delete)
		g.GET("/:id/suggestions", h.suggestions)
	}
}

func (h *MatchPlanHandler) create(c *gin.Context) {
	var req service.MatchPlanInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.CreatePlan(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, p)
}

func (h *MatchPlanHandler) list(c *gin.Context) {
	res, err := h.svc.ListPlans(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchPlanHandler) getByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.svc.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, p)
}

func (h *MatchPlanHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePlan(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MatchPlanHandler) suggestions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	aggregate(c, "plan suggestions", func(ctx context.Context) (model.PlanSuggestions, error) {
		return h.svc.Suggestions(ctx, id)
	})
}
