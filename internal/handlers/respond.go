package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nrsport/console-backend/internal/apperrors"
)

// respondError maps the error taxonomy onto HTTP statuses. Unknown
// errors become 500s with a generic message so internals never leak.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)

	var status int
	switch code {
	case apperrors.CodeInvalidCredentials, apperrors.CodeSessionExpired:
		status = http.StatusUnauthorized
	case apperrors.CodeForbidden:
		status = http.StatusForbidden
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeReasonTooShort, apperrors.CodeRequiredFieldMissing, apperrors.CodeInsufficientPool:
		status = http.StatusBadRequest
	case apperrors.CodeNoEventSelected, apperrors.CodePoolChanged,
		apperrors.CodeStatusTransitionInvalid, apperrors.CodeConcurrentMutation:
		status = http.StatusConflict
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
