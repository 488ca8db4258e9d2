package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/nrsport/console-backend/internal/apperrors"
)

// MinReasonLength is the minimum length for audited mutation reasons.
const MinReasonLength = 10

// ValidateReason trims and checks a reason string for reason-bearing
// mutations (opt-out, delete, reset). Validation happens locally,
// before any store call.
func ValidateReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "", apperrors.ErrRequiredFieldMissing
	}
	if len([]rune(trimmed)) < MinReasonLength {
		return "", apperrors.ErrReasonTooShort
	}
	return trimmed, nil
}

// GenerateSeed produces the audit seed recorded with every draw:
// a hash over the current time, fresh randomness and the prize id.
func GenerateSeed(prizeID string) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	combined := fmt.Sprintf("%s_%x_%s", time.Now().Format(time.RFC3339Nano), buf, prizeID)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// MaskName shortens a participant name for logging.
func MaskName(name string) string {
	runes := []rune(name)
	if len(runes) <= 2 {
		return "**"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
