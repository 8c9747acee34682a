package auth

import (
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 30 * 24 * time.Hour

var signingKey []byte

// InitSigningKey establishes the process-wide HMAC key used by every
// issuance and verification. JWT_SECRET takes precedence; without it a
// random key is generated, which invalidates outstanding tokens on restart.
func InitSigningKey() error {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		signingKey = []byte(secret)
		return nil
	}

	key := make([]byte, 32)

	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}

	signingKey = key
	return nil
}

// GenerateJWT mints a token over the public user projection, expiring 30
// days from issuance.
func GenerateJWT(userID uint, username, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"email":    email,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// VerifyJWT validates a token minted by this process against the same key.
func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return signingKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	return token, nil
}
