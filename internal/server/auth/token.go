package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gmpi-project/gmpi/internal/common"
)

// Claims carries the opaque session ID inside the signed bearer token.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string
}

// GenerateToken signs the session ID into an HS256 bearer token. The
// token's own expiry is only a transport bound; the authoritative check
// is always the server-side sliding session.
func GenerateToken(sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SessionIDFromToken verifies the token signature and returns the session
// ID it carries.
func SessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidSession
	}

	return claims.SessionID, nil
}
