package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/service"
)

type registerPropertyRequest struct {
	PropertyID      string `json:"property_id" binding:"required"`
	PhysicalAddress string `json:"physical_address" binding:"required"`
}

type transferPropertyRequest struct {
	NewOwner string `json:"new_owner" binding:"required"`
}

type updateConditionRequest struct {
	Condition string `json:"condition" binding:"required"`
}

func (h *Handler) registerProperty(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req registerPropertyRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Properties.Register(c.Request.Context(), service.RegisterPropertyInput{
		PropertyID:      req.PropertyID,
		PhysicalAddress: req.PhysicalAddress,
		Caller:          caller,
	})
	h.respondReceipt(c, http.StatusCreated, entry, err)
}

func (h *Handler) transferProperty(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req transferPropertyRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Properties.TransferOwnership(c.Request.Context(), c.Param("id"), model.Principal(req.NewOwner), caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) updatePropertyCondition(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req updateConditionRequest
	if !h.bind(c, &req) {
		return
	}

	entry, err := h.services.Properties.UpdateCondition(c.Request.Context(), c.Param("id"), req.Condition, caller)
	h.respondReceipt(c, http.StatusOK, entry, err)
}

func (h *Handler) getProperty(c *gin.Context) {
	property, err := h.services.Properties.Get(c.Request.Context(), c.Param("id"))
	h.respond(c, property, err)
}

func (h *Handler) isPropertyVerified(c *gin.Context) {
	verified, err := h.services.Properties.IsVerified(c.Request.Context(), c.Param("id"))
	h.respond(c, gin.H{"verified": verified}, err)
}
