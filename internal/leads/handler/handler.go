package handler

import (
	"io"
	"net/http"

	"msp_core_backend/internal/leads/service"
	"msp_core_backend/internal/leads/transport"
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
	rg.POST("/:id/activities", h.RecordActivity)
	rg.POST("/:id/score", h.ScoreLead)
	rg.POST("/bulk-rescore", h.BulkRescore)
	rg.POST("/auto-qualify", h.AutoQualify)
	rg.GET("/score-distribution", h.ScoreDistribution)
	rg.GET("/source-performance", h.SourcePerformance)
	rg.POST("/import", h.ImportCSV)
	rg.GET("/sources", h.ListSources)
}

func (h *Handler) Create(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), companyID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
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

	lead, err := h.svc.GetByID(c.Request.Context(), id, companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) List(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	var query transport.ListLeadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	leads, err := h.svc.List(c.Request.Context(), companyID, query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leads": leads, "count": len(leads)})
}

func (h *Handler) RecordActivity(c *gin.Context) {
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

	var req transport.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	activity, err := h.svc.RecordActivity(c.Request.Context(), id, companyID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, activity)
}

func (h *Handler) ScoreLead(c *gin.Context) {
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

	result, err := h.svc.ScoreLead(c.Request.Context(), id, companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) BulkRescore(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	result, err := h.svc.BulkRescore(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) AutoQualify(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	var req transport.AutoQualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	minScore := 0
	if req.MinScore != nil {
		minScore = *req.MinScore
	}

	result, err := h.svc.AutoQualifyHighScoring(c.Request.Context(), companyID, minScore)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ScoreDistribution(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	result, err := h.svc.ScoreDistribution(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) SourcePerformance(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	result, err := h.svc.SourcePerformance(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ImportCSV accepts a multipart upload with the file under "file", or a raw
// CSV body when the form field is absent.
func (h *Handler) ImportCSV(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	opts := service.ImportOptions{
		FailOnDuplicate: c.Query("failOnDuplicate") == "true",
	}
	if raw := c.Query("sourceId"); raw != "" {
		sourceID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid source id", nil)
			return
		}
		opts.SourceID = &sourceID
	}

	var reader io.Reader = c.Request.Body
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
	}

	result, err := h.svc.ImportCSV(c.Request.Context(), companyID, reader, opts)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ListSources(c *gin.Context) {
	companyID, ok := httpkit.MustTenantID(c)
	if !ok {
		httpkit.Error(c, http.StatusForbidden, msgTenantRequired, nil)
		return
	}

	sources, err := h.svc.ListSources(c.Request.Context(), companyID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"sources": sources})
}
