package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the console embeds in its HMAC tokens.
type Claims struct {
	UserID   string `json:"sub"`
	Username string `json:"username"`
	Role     string `json:"role"`
	OrgID    string `json:"org,omitempty"`
	IsJudge  bool   `json:"judge,omitempty"`
	Expiry   time.Time
}

// Generate signs a token for the given identity with the configured
// HMAC secret and lifetime.
func Generate(secret string, userID, username, role, orgID string, isJudge bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	if orgID != "" {
		claims["org"] = orgID
	}
	if isJudge {
		claims["judge"] = true
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ErrExpired is returned by Validate for structurally valid but expired
// tokens so callers can distinguish expiry from tampering.
var ErrExpired = errors.New("token expired")

// Validate parses and verifies a token string, returning the embedded
// claims.
func Validate(secret, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	claims := &Claims{}
	if sub, ok := mapClaims["sub"].(string); ok {
		claims.UserID = sub
	}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = role
	}
	if org, ok := mapClaims["org"].(string); ok {
		claims.OrgID = org
	}
	if judge, ok := mapClaims["judge"].(bool); ok {
		claims.IsJudge = judge
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.Expiry = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
