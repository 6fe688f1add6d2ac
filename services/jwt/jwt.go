package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// AccessTokenValidity is how long issued access tokens live
	AccessTokenValidity = time.Hour * 24
	// ResetTokenValidity bounds password-reset links
	ResetTokenValidity = time.Minute * 20
)

// GenerateToken mints an access token for a user id and email
func GenerateToken(userID uint, email string, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty jwt secret")
	}

	claims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"type":  "access",
		"exp":   time.Now().Add(AccessTokenValidity).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GeneratePasswordResetToken mints a short-lived token embedded in reset links
func GeneratePasswordResetToken(userID uint, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty jwt secret")
	}

	claims := jwt.MapClaims{
		"id":   userID,
		"type": "password_reset",
		"exp":  time.Now().Add(ResetTokenValidity).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims verifies a token signature and returns its claims
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
