package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/maxviazov/squad-manager-service/pkg/response"
)

type RivalHandler struct {
	svc service.RivalService
}

func NewRivalHandler(svc service.RivalService) *RivalHandler { return &RivalHandler{svc: svc} }

func (h *RivalHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/rivals")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.DELETE("/:id", h.delete)
		g.POST("/:id/notes", h.addNote)
	}
}

type addNoteRequest struct {
	Note string `json:"note"`
}

func (h *RivalHandler) create(c *gin.Context) {
	var req service.RivalInput
	if !bindJSON(c, &req) {
		return
	}
	rival, err := h.svc.CreateRival(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, rival)
}

func (h *RivalHandler) list(c *gin.Context) {
	res, err := h.svc.ListRivals(c.Request.Context(), c.Query("q"), pageFromQuery(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

// getByID returns the rival with its head-to-head record re-derived from the match log.
func (h *RivalHandler) getByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rival, err := h.svc.GetRival(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, rival)
}

func (h *RivalHandler) addNote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req addNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	rival, err := h.svc.AddNote(c.Request.Context(), id, req.Note)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, rival)
}

func (h *RivalHandler) delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteRival(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
