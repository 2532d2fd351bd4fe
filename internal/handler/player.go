package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/model"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.DELETE("/:id", h.delete)
		g.GET("/:id/stats", h.stats)
		g.GET("/:id/performance", h.performance)
	}
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req service.PlayerInput
	if !bindJSON(c, &req) {
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	res, err := h.svc.ListPlayers(c.Request.Context(), c.Query("q"), pageFromQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	player, err := h.svc.GetPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePlayer(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// stats derives the player's aggregate from the match log on every call.
func (h *PlayerHandler) stats(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	aggregate(c, "player stats", func(ctx context.Context) (model.PlayerAggregate, error) {
		return h.svc.GetPlayerStats(ctx, id)
	})
}

func (h *PlayerHandler) performance(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	aggregate(c, "player performance", func(ctx context.Context) (model.PerformanceSplit, error) {
		return h.svc.GetPlayerPerformance(ctx, id)
	})
}
