package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/nrsport/console-backend/internal/apperrors"
)

func TestValidateReason(t *testing.T) {
	t.Run("Test empty reason is a missing field", func(t *testing.T) {
		_, err := ValidateReason("   ")
		if !errors.Is(err, apperrors.ErrRequiredFieldMissing) {
			t.Errorf("Expected required field error, got %v", err)
		}
	})

	t.Run("Test nine characters is too short", func(t *testing.T) {
		_, err := ValidateReason("123456789")
		if !errors.Is(err, apperrors.ErrReasonTooShort) {
			t.Errorf("Expected reason too short error, got %v", err)
		}
	})

	t.Run("Test ten characters passes", func(t *testing.T) {
		reason, err := ValidateReason("1234567890")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if reason != "1234567890" {
			t.Errorf("Expected trimmed reason back, got %q", reason)
		}
	})

	t.Run("Test length is counted in runes", func(t *testing.T) {
		// Ten multi-byte characters must pass even though the byte
		// count is much larger.
		if _, err := ValidateReason(strings.Repeat("é", 10)); err != nil {
			t.Errorf("Expected no error for ten runes, got %v", err)
		}
	})

	t.Run("Test surrounding whitespace does not count", func(t *testing.T) {
		_, err := ValidateReason("  12345678  ")
		if !errors.Is(err, apperrors.ErrReasonTooShort) {
			t.Errorf("Expected reason too short after trimming, got %v", err)
		}
	})
}

func TestGenerateSeed(t *testing.T) {
	a := GenerateSeed("prize-1")
	b := GenerateSeed("prize-1")

	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
	if a == b {
		t.Error("Expected two seeds for the same prize to differ")
	}
}

func TestMaskName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"short name fully masked", "Al", "**"},
		{"long name keeps edges", "Alice", "A***e"},
		{"multi-byte name", "張小明", "張*明"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MaskName(tc.in); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}
