package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kcns008/WeightCha/internal/apperrors"
)

// respondError maps a service error onto the HTTP surface. Only the coded
// message is exposed; wrapped causes stay in the logs.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeValidation:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeInvalidState:
		status = http.StatusConflict
	case apperrors.CodeExpired:
		status = http.StatusGone
	case apperrors.CodeTokenInvalid:
		status = http.StatusUnauthorized
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message, "code": string(code)})
}
