package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/forecast"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
	"github.com/IrrisMag/HealthTech-sub000/internal/service"
)

type OptimizationHandler struct {
	service *service.OptimizationService
}

func NewOptimizationHandler(service *service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

type optimizeRequest struct {
	OptimizationMethod  string `json:"optimization_method"`
	ForecastHorizonDays int    `json:"forecast_horizon_days"`
}

// Optimize runs one optimization pass and returns the report.
func (h *OptimizationHandler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	method, ok := domain.ParseOptimizationMethod(req.OptimizationMethod)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unknown optimization_method",
			"allowed": []string{"constrained", "heuristic", "hybrid"},
		})
		return
	}

	horizon := req.ForecastHorizonDays
	if horizon == 0 {
		horizon = 7
	}

	report, err := h.service.OptimizeInventory(c.Request.Context(), method, horizon)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidHorizon) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "optimization failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListReports returns the most recent persisted reports.
func (h *OptimizationHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}

	reports, err := h.service.ListReports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

// GetReport returns one persisted report by id.
func (h *OptimizationHandler) GetReport(c *gin.Context) {
	report, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
