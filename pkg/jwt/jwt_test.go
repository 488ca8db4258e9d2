package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidate(t *testing.T) {
	const secret = "test-secret"

	t.Run("Test round trip preserves the identity", func(t *testing.T) {
		token, err := Generate(secret, "user-1", "alice", "staff", "org-1", true, time.Hour)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		claims, err := Validate(secret, token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if claims.UserID != "user-1" || claims.Username != "alice" || claims.Role != "staff" {
			t.Errorf("Expected identity claims back, got %+v", claims)
		}
		if claims.OrgID != "org-1" {
			t.Errorf("Expected org claim, got %q", claims.OrgID)
		}
		if !claims.IsJudge {
			t.Error("Expected judge claim to survive")
		}
	})

	t.Run("Test judge and org claims are omitted when unset", func(t *testing.T) {
		token, err := Generate(secret, "user-2", "bob", "viewer", "", false, time.Hour)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		claims, err := Validate(secret, token)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if claims.OrgID != "" || claims.IsJudge {
			t.Errorf("Expected empty optional claims, got %+v", claims)
		}
	})

	t.Run("Test the wrong secret is rejected", func(t *testing.T) {
		token, _ := Generate(secret, "user-1", "alice", "staff", "", false, time.Hour)
		if _, err := Validate("other-secret", token); err == nil {
			t.Error("Expected validation to fail with the wrong secret")
		}
	})

	t.Run("Test an expired token reports expiry", func(t *testing.T) {
		token, _ := Generate(secret, "user-1", "alice", "staff", "", false, -time.Minute)
		_, err := Validate(secret, token)
		if !errors.Is(err, ErrExpired) {
			t.Errorf("Expected expired error, got %v", err)
		}
	})

	t.Run("Test garbage input is rejected", func(t *testing.T) {
		if _, err := Validate(secret, "not.a.token"); err == nil {
			t.Error("Expected validation to fail for garbage input")
		}
	})
}
