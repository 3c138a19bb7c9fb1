package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/verification"
)

type VerificationHandler struct {
	log     *zap.Logger
	service *verification.Service
}

func NewVerificationHandler(log *zap.Logger, service *verification.Service) *VerificationHandler {
	return &VerificationHandler{log: log, service: service}
}

type submitRequest struct {
	PressureData  []models.PressureSample `json:"pressureData" binding:"required"`
	MotionData    []models.MotionSample   `json:"motionData"`
	DeviceContext *models.DeviceContext   `json:"deviceContext"`
}

// verificationResponse deliberately omits the raw sample excerpt and the full
// analysis record; relying parties get the decision, the token and the
// per-feature scores, nothing biometric.
type verificationResponse struct {
	ID          string                 `json:"id"`
	ChallengeID string                 `json:"challengeId"`
	IsHuman     bool                   `json:"isHuman"`
	Confidence  float64                `json:"confidence"`
	Method      models.DetectionMethod `json:"detectionMethod"`
	Scores      map[string]float64     `json:"scores"`
	Token       string                 `json:"token"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}

func (h *VerificationHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("Failed to bind submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.service.SubmitVerification(c.Request.Context(), c.Param("id"), verification.Submission{
		PressureSamples: req.PressureData,
		MotionSamples:   req.MotionData,
		DeviceContext:   req.DeviceContext,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, verificationResponse{
		ID:          result.ID,
		ChallengeID: result.ChallengeID,
		IsHuman:     result.IsHuman,
		Confidence:  result.Confidence,
		Method:      result.DetectionMethod,
		Scores:      result.AnalysisDetails.Scores,
		Token:       result.Token,
		ExpiresAt:   result.ExpiresAt,
	})
}

type validateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateToken always answers 200. An invalid token is a decidable answer,
// not an error, and the response never says which check failed.
func (h *VerificationHandler) ValidateToken(c *gin.Context) {
	var req validateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	validation, err := h.service.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, validation)
}
