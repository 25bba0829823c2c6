package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/service"
)

type createProjectRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	PropertyID  string `json:"property_id" binding:"required"`
	Landlord    string `json:"landlord" binding:"required"`
	Description string `json:"description"`
	StartDate   int64  `json:"start_date"`
	EndDate     int64  `json:"end_date"`
}

type addModificationRequest struct {
	ModificationID string `json:"modification_id" binding:"required"`
	Description    string `json:"description"`
}

func (h *Handler) createProject(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req createProjectRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Projects.Create(c.Request.Context(), service.CreateProjectInput{
		ProjectID:   req.ProjectID,
		PropertyID:  req.PropertyID,
		Landlord:    model.Principal(req.Landlord),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Caller:      caller,
	})
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) approveProject(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entry, err := h.services.Projects.Approve(c.Request.Context(), c.Param("id"), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) addModification(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req addModificationRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Projects.AddModification(c.Request.Context(), service.AddModificationInput{
		ProjectID:      c.Param("id"),
		ModificationID: req.ModificationID,
		Description:    req.Description,
		Caller:         caller,
	})
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) approveModification(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entry, err := h.services.Projects.ApproveModification(c.Request.Context(), modificationKey(c), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) completeModification(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entry, err := h.services.Projects.CompleteModification(c.Request.Context(), modificationKey(c), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) getProject(c *gin.Context) {
	project, err := h.services.Projects.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, project, err)
}

func (h *Handler) getModification(c *gin.Context) {
	modification, err := h.services.Projects.GetModification(c.Request.Context(), modificationKey(c))
	h.respond(c, modification, err)
}

func modificationKey(c *gin.Context) model.ModificationKey {
	return model.ModificationKey{ProjectID: c.Param("id"), ModificationID: c.Param("modId")}
}
