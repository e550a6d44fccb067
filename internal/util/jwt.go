package util

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 会话令牌，只允许访问签发它的那个会话
type SessionClaims struct {
	SessionID string `json:"session_id"`
	AttemptID string `json:"attempt_id"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(sessionID, attemptID, secret string, expiration time.Duration) (string, time.Time, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &SessionClaims{
		SessionID: sessionID,
		AttemptID: attemptID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, expirationTime, err
}

func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid session token")
}

func GetSessionFromContext(c *gin.Context) *SessionClaims {
	v, exists := c.Get(ContextSessionClaims)
	if !exists {
		return nil
	}
	claims, ok := v.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
