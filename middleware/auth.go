package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken issues a signed JWT carrying the user's id.
func GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("token missing user_id")
	}
	return userID, nil
}

// JWT_decoder extracts the authenticated user's id from the Authorization
// header. Writes the 401 response itself so handlers can just return.
func JWT_decoder(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed Authorization header"})
		return "", errors.New("missing bearer token")
	}
	userID, err := parseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return "", err
	}
	return userID, nil
}

// Socketio_JWT_decoder validates the JWT sent in a socket.io handshake
// auth payload and returns the user's id.
func Socketio_JWT_decoder(authData map[string]interface{}) (string, error) {
	raw, ok := authData["authorization"].(string)
	if !ok {
		return "", errors.New("missing authorization in handshake auth")
	}
	return parseToken(strings.TrimPrefix(raw, "Bearer "))
}

// AuthRequired guards the /auth route group. On success the user id is
// stored in the context under "user_id".
func AuthRequired(c *gin.Context) {
	userID, err := JWT_decoder(c)
	if err != nil {
		c.Abort()
		return
	}
	c.Set("user_id", userID)
	c.Next()
}
