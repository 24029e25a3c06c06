package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Skufu/riskscope/internal/assessment"
	"github.com/Skufu/riskscope/internal/history"
	"github.com/Skufu/riskscope/internal/measure"
	"github.com/Skufu/riskscope/internal/risk"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type handlers struct {
	svc *assessment.Service
}

type assessRequest struct {
	Measurements measure.Measurements `json:"measurements" binding:"required"`
}

type recommendRequest struct {
	Condition    string               `json:"condition" binding:"required"`
	Tier         string               `json:"tier" binding:"required"`
	Measurements measure.Measurements `json:"measurements"`
}

type matchRequest struct {
	Symptoms []string `json:"symptoms"`
}

type bmiRequest struct {
	WeightKg float64 `json:"weightKg" binding:"required,gt=0"`
	HeightCm float64 `json:"heightCm" binding:"required,gt=0"`
}

func (h *handlers) listConditions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conditions": h.svc.Conditions()})
}

func (h *handlers) getCondition(c *gin.Context) {
	cond, err := h.svc.Condition(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cond)
}

func (h *handlers) assess(c *gin.Context) {
	var req assessRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.svc.Assess(c.Request.Context(), c.Param("id"), req.Measurements)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) recommend(c *gin.Context) {
	var req recommendRequest
	if !bind(c, &req) {
		return
	}
	tier, err := risk.ParseTier(req.Tier)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	recs, err := h.svc.Recommendations(req.Condition, tier, req.Measurements)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (h *handlers) listSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symptoms": h.svc.Symptoms()})
}

func (h *handlers) matchSymptoms(c *gin.Context) {
	var req matchRequest
	if !bind(c, &req) {
		return
	}

	matches, err := h.svc.MatchSymptoms(req.Symptoms)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *handlers) bmi(c *gin.Context) {
	var req bmiRequest
	if !bind(c, &req) {
		return
	}

	bmi, err := measure.BMI(req.WeightKg, req.HeightCm)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bmi": bmi, "category": measure.BMICategory(bmi)})
}

func (h *handlers) history(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.svc.History(c.Request.Context(), limit)
	if errors.Is(err, history.ErrNotReadable) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "history_unavailable", "message": err.Error()})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// bind decodes the JSON body into dst, answering 400 for malformed JSON and
// 422 for payloads that fail binding rules.
func bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "message": verrs.Error()})
		return false
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload_too_large"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
	return false
}

func writeError(c *gin.Context, err error) {
	kind := assessment.Kind(err)
	status := http.StatusInternalServerError
	switch kind {
	case assessment.KindUnknownCondition:
		status = http.StatusNotFound
	case assessment.KindMissingFactor, assessment.KindInvalidValue, assessment.KindEmptySelection:
		status = http.StatusUnprocessableEntity
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": kind, "message": msg})
}
