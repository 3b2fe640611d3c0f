package handler

import (
	"net/http"

	"msp_core_backend/internal/contracts/service"
	"msp_core_backend/internal/contracts/transport"
	"msp_core_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

const (
	msgInvalidRequest = "invalid request"
	msgTenantRequired = "tenant scope required"
)

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.ChangeStatus)
	rg.PATCH("/:id/signature", h.UpdateSignature)
	rg.GET("/:id/history", h.StatusHistory)
	rg.GET("/:id/allowed-transitions", h.AllowedTargets)
}

func (h *Handler) Create(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	var req transport.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	contract, err := h.svc.Create(c.Request.Context(), companyID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, contract)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	contract, err := h.svc.GetByID(c.Request.Context(), id, companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, contract)
}

func (h *Handler) List(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	contracts, err := h.svc.List(c.Request.Context(), companyID, c.Query("status"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"contracts": contracts, "count": len(contracts)})
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}
	actorID, _ := httpkit.UserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	contract, err := h.svc.ChangeStatus(c.Request.Context(), id, companyID, actorID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, contract)
}

func (h *Handler) UpdateSignature(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	contract, err := h.svc.UpdateSignature(c.Request.Context(), id, companyID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, contract)
}

func (h *Handler) StatusHistory(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	history, err := h.svc.StatusHistory(c.Request.Context(), id, companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"history": history})
}

func (h *Handler) AllowedTargets(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	targets, err := h.svc.AllowedTargets(c.Request.Context(), id, companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, targets)
}
