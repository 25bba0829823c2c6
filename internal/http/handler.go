package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/tenant-improvements/internal/http/middleware"
	"github.com/nurpe/tenant-improvements/internal/model"
	"github.com/nurpe/tenant-improvements/internal/service"
)

type Services struct {
	Properties  *service.PropertyService
	Contractors *service.ContractorService
	Projects    *service.ProjectService
	Allowances  *service.AllowanceService
	Statements  *service.StatementService
	Ledger      *service.LedgerService
}

type Handler struct {
	services Services
	log      zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{services: services, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/properties", h.registerProperty)
	protected.GET("/properties/:id", h.getProperty)
	protected.GET("/properties/:id/verified", h.isPropertyVerified)
	protected.POST("/properties/:id/transfer", h.transferProperty)
	protected.POST("/properties/:id/condition", h.updatePropertyCondition)

	protected.POST("/contractors", h.registerContractor)
	protected.GET("/contractors/:id", h.getContractor)
	protected.GET("/contractors/:id/verified", h.isContractorVerified)
	protected.POST("/contractors/:id/verify", h.verifyContractor)
	protected.POST("/contractors/:id/assignments", h.assignContractor)
	protected.GET("/contractors/:id/assignments/:projectId", h.getAssignment)
	protected.POST("/contractors/:id/assignments/:projectId/complete", h.completeAssignment)

	protected.POST("/projects", h.createProject)
	protected.GET("/projects/:id", h.getProject)
	protected.POST("/projects/:id/approve", h.approveProject)
	protected.POST("/projects/:id/modifications", h.addModification)
	protected.GET("/projects/:id/modifications/:modId", h.getModification)
	protected.POST("/projects/:id/modifications/:modId/approve", h.approveModification)
	protected.POST("/projects/:id/modifications/:modId/complete", h.completeModification)

	protected.POST("/allowances", h.createAllowance)
	protected.GET("/allowances/:projectId", h.getAllowance)
	protected.POST("/allowances/:projectId/close", h.closeAllowance)
	protected.GET("/allowances/:projectId/milestones", h.listMilestones)
	protected.POST("/allowances/:projectId/milestones", h.addMilestone)
	protected.GET("/allowances/:projectId/milestones/:milestoneId", h.getMilestone)
	protected.POST("/allowances/:projectId/milestones/:milestoneId/complete", h.completeMilestone)
	protected.POST("/allowances/:projectId/milestones/:milestoneId/release", h.releaseFunds)
	protected.GET("/allowances/:projectId/statement.xlsx", h.exportStatement(service.StatementFormatXLSX))
	protected.GET("/allowances/:projectId/statement.pdf", h.exportStatement(service.StatementFormatPDF))

	protected.GET("/ledger", h.listLedger)
}

// caller aborts the request when the auth middleware left no principal.
func (h *Handler) caller(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return "", false
	}
	return principal, true
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) respondReceipt(c *gin.Context, status int, entry *model.LedgerEntry, err error) {
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"ok":     true,
		"height": entry.Height,
		"tx_id":  entry.TxID,
	})
}

func (h *Handler) respond(c *gin.Context, value any, err error) {
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, value)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if code, ok := service.CodeOf(err); ok {
		body["code"] = code
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, body)
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, body)
	case errors.Is(err, service.ErrAlreadyExists), errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, service.ErrInvalidInput):
		if _, coded := body["code"]; coded {
			c.JSON(http.StatusUnprocessableEntity, body)
			return
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) listLedger(c *gin.Context) {
	after, err := parseInt64Query(c, "after", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid after"})
		return
	}
	limit, err := parseInt64Query(c, "limit", 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	entries, err := h.services.Ledger.List(c.Request.Context(), after, int(limit))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func parseInt64Query(c *gin.Context, name string, fallback int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
