package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IrrisMag/HealthTech-sub000/internal/forecast"
	"github.com/IrrisMag/HealthTech-sub000/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// Forecast serves a single-type forecast with diagnostics and summary stats.
func (h *ForecastHandler) Forecast(c *gin.Context) {
	bloodType := c.Param("blood_type")

	periods, err := strconv.Atoi(c.DefaultQuery("periods", "7"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periods must be an integer"})
		return
	}

	confidence, err := strconv.ParseFloat(c.DefaultQuery("confidence_level", "0.95"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confidence_level must be a number"})
		return
	}

	includeHistory := c.DefaultQuery("include_history", "false") == "true"

	result, err := h.service.Forecast(c.Request.Context(), bloodType, periods, confidence, includeHistory)
	if err != nil {
		h.renderForecastError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type batchForecastRequest struct {
	BloodTypes      []string `json:"blood_types"`
	Periods         int      `json:"periods"`
	ConfidenceLevel float64  `json:"confidence_level"`
}

// ForecastBatch forecasts several types; failures for individual types are
// reported in the errors list, not as a request failure.
func (h *ForecastHandler) ForecastBatch(c *gin.Context) {
	var req batchForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if len(req.BloodTypes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blood_types must not be empty"})
		return
	}
	if req.Periods == 0 {
		req.Periods = 7
	}
	if req.ConfidenceLevel == 0 {
		req.ConfidenceLevel = 0.95
	}

	c.JSON(http.StatusOK, h.service.ForecastBatch(req.BloodTypes, req.Periods, req.ConfidenceLevel))
}

// Models lists fit diagnostics for every registered model.
func (h *ForecastHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":  h.service.Models(),
		"version": h.service.Version(),
	})
}

// Reload refits the registry from the demand history store.
func (h *ForecastHandler) Reload(c *gin.Context) {
	if err := h.service.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registry reload failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "version": h.service.Version()})
}

func (h *ForecastHandler) renderForecastError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forecast.ErrInvalidBloodType),
		errors.Is(err, forecast.ErrInvalidHorizon),
		errors.Is(err, forecast.ErrInvalidConfidence):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, forecast.ErrModelUnavailable):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     err.Error(),
			"available": h.service.AvailableTypes(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "forecast failed", "details": err.Error()})
	}
}
