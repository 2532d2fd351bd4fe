package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.record)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.DELETE("/:id", h.delete)
	}
}

// record appends a result; player, formation and rival aggregates are rewritten in the same
// unit of work.
func (h *MatchHandler) record(c *gin.Context) {
	var req service.MatchInput
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.RecordMatch(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

func (h *MatchHandler) list(c *gin.Context) {
	res, err := h.svc.ListMatches(c.Request.Context(), c.Query("q"), pageFromQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) getByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	m, err := h.svc.GetMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteMatch(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
