package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kcns008/WeightCha/internal/models"
	"github.com/kcns008/WeightCha/internal/verification"
)

type ChallengeHandler struct {
	log     *zap.Logger
	service *verification.Service
}

func NewChallengeHandler(log *zap.Logger, service *verification.Service) *ChallengeHandler {
	return &ChallengeHandler{log: log, service: service}
}

type createChallengeRequest struct {
	Type       string `json:"type" binding:"required"`
	Difficulty string `json:"difficulty"`
	Duration   int    `json:"duration"`
}

// challengeResponse is the client view of a challenge. The stored status is
// replaced by the effective one so expired challenges read as expired.
type challengeResponse struct {
	ID           string                 `json:"id"`
	Type         models.ChallengeType   `json:"type"`
	Difficulty   models.Difficulty      `json:"difficulty"`
	Duration     int                    `json:"duration"`
	Instructions string                 `json:"instructions"`
	Status       models.ChallengeStatus `json:"status"`
	CreatedAt    time.Time              `json:"createdAt"`
	ExpiresAt    time.Time              `json:"expiresAt"`
}

func toChallengeResponse(challenge *models.Challenge, now time.Time) challengeResponse {
	return challengeResponse{
		ID:           challenge.ID,
		Type:         challenge.Type,
		Difficulty:   challenge.Difficulty,
		Duration:     challenge.DurationSeconds,
		Instructions: challenge.Instructions,
		Status:       challenge.EffectiveStatus(now),
		CreatedAt:    challenge.CreatedAt,
		ExpiresAt:    challenge.ExpiresAt,
	}
}

func (h *ChallengeHandler) Create(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("Failed to bind challenge request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	challenge, err := h.service.CreateChallenge(c.Request.Context(), req.Type, req.Difficulty, req.Duration)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toChallengeResponse(challenge, time.Now()))
}

func (h *ChallengeHandler) Get(c *gin.Context) {
	challenge, err := h.service.GetChallenge(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge, time.Now()))
}

func (h *ChallengeHandler) Cancel(c *gin.Context) {
	if err := h.service.CancelChallenge(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(models.StatusCancelled)})
}
