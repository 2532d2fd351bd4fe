package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
)

type FormationHandler struct {
	svc service.FormationService
}

func NewFormationHandler(svc service.FormationService) *FormationHandler {
	return &FormationHandler{svc: svc}
}

func (h *FormationHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/formations")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.DELETE("/:id", h.delete)
	}
}

func (h *FormationHandler) create(c *gin.Context) {
	var req service.FormationInput
	if !bindJSON(c, &req) {
		return
	}
	f, err := h.svc.CreateFormation(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, f)
}

func (h *FormationHandler) list(c *gin.Context) {
	res, err := h.svc.ListFormations(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *FormationHandler) getByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.svc.GetFormation(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, f)
}

func (h *FormationHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteFormation(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
