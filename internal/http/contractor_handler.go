package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/service"
)

type registerContractorRequest struct {
	ContractorID  string   `json:"contractor_id" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Specialties   []string `json:"specialties"`
	LicenseNumber string   `json:"license_number" binding:"required"`
}

type verifyContractorRequest struct {
	InsuranceVerified *bool `json:"insurance_verified" binding:"required"`
}

type assignContractorRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

type completeAssignmentRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

func (h *Handler) registerContractor(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req registerContractorRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Contractors.Register(c.Request.Context(), service.RegisterContractorInput{
		ContractorID:  req.ContractorID,
		Name:          req.Name,
		Specialties:   req.Specialties,
		LicenseNumber: req.LicenseNumber,
		Caller:        caller,
	})
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) verifyContractor(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req verifyContractorRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Contractors.Verify(c.Request.Context(), c.Param("id"), *req.InsuranceVerified, caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) assignContractor(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req assignContractorRequest
	if !h.bind(c, &req) {
		return
	}

	key := model.AssignmentKey{ContractorID: c.Param("id"), ProjectID: req.ProjectID}
	entry, err := h.services.Contractors.Assign(c.Request.Context(), key, caller)
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) completeAssignment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req completeAssignmentRequest
	if !h.bind(c, &req) {
		return
	}

	key := model.AssignmentKey{ContractorID: c.Param("id"), ProjectID: c.Param("projectId")}
	entry, err := h.services.Contractors.CompleteAssignment(c.Request.Context(), key, *req.Rating, caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) getContractor(c *gin.Context) {
	contractor, err := h.services.Contractors.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, contractor, err)
}

func (h *Handler) isContractorVerified(c *gin.Context) {
	verified, err := h.services.Contractors.IsVerified(c.Request.Context(), c.Param("id"))
	h.respond(c, gin.H{"verified": verified}, err)
}

func (h *Handler) getAssignment(c *gin.Context) {
	key := model.AssignmentKey{ContractorID: c.Param("id"), ProjectID: c.Param("projectId")}
	assignment, err := h.services.Contractors.GetAssignment(c.Request.Context(), key)
	h.respond(c, assignment, err)
}
