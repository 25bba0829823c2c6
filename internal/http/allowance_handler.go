package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/service"
)

type createAllowanceRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	Tenant      string `json:"tenant" binding:"required"`
	TotalAmount *int64 `json:"total_amount" binding:"required"`
}

type addMilestoneRequest struct {
	MilestoneID string `json:"milestone_id" binding:"required"`
	Description string `json:"description"`
	Amount      *int64 `json:"amount" binding:"required"`
}

func (h *Handler) createAllowance(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req createAllowanceRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Allowances.Create(c.Request.Context(), service.CreateAllowanceInput{
		ProjectID:   req.ProjectID,
		Tenant:      model.Principal(req.Tenant),
		TotalAmount: *req.TotalAmount,
		Caller:      caller,
	})
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) addMilestone(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req addMilestoneRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Allowances.AddMilestone(c.Request.Context(), service.AddMilestoneInput{
		ProjectID:   c.Param("projectId"),
		MilestoneID: req.MilestoneID,
		Description: req.Description,
		Amount:      *req.Amount,
		Caller:      caller,
	})
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) completeMilestone(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entry, err := h.services.Allowances.CompleteMilestone(c.Request.Context(), milestoneKey(c), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) releaseFunds(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entry, err := h.services.Allowances.ReleaseFunds(c.Request.Context(), milestoneKey(c), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) closeAllowance(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	entry, err := h.services.Allowances.Close(c.Request.Context(), c.Param("projectId"), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) getAllowance(c *gin.Context) {
	allowance, err := h.services.Allowances.Get(c.Request.Context(), c.Param("projectId"))
	h.respond(c, allowance, err)
}

func (h *Handler) getMilestone(c *gin.Context) {
	milestone, err := h.services.Allowances.GetMilestone(c.Request.Context(), milestoneKey(c))
	h.respond(c, milestone, err)
}

func (h *Handler) listMilestones(c *gin.Context) {
	milestones, err := h.services.Allowances.ListMilestones(c.Request.Context(), c.Param("projectId"))
	h.respond(c, gin.H{"milestones": milestones}, err)
}

func (h *Handler) exportStatement(format service.StatementFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := h.caller(c)
		if !ok {
			return
		}

		result, err := h.services.Statements.Export(c.Request.Context(), c.Param("projectId"), format, caller)
		if err != nil {
			h.handleError(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
		c.Data(http.StatusOK, result.ContentType, result.Content)
	}
}

func milestoneKey(c *gin.Context) model.MilestoneKey {
	return model.MilestoneKey{ProjectID: c.Param("projectId"), MilestoneID: c.Param("milestoneId")}
}
