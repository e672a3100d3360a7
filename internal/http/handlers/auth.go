package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the calling user. Issued by the account service; this
// layer only verifies and reads them.
type Claims struct {
	UserID int64 `json:"userid"`
	jwt.RegisteredClaims
}

// userID extracts the user id from a Bearer token, 0 when absent or invalid.
func userID(c *fiber.Ctx, secret string) int64 {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return 0
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0
	}
	return claims.UserID
}
