package models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWT = struct {
	ACCESS_COOKIE_NAME string
	SCOPE              string
}{
	ACCESS_COOKIE_NAME: "access_token",
	SCOPE:              "authentication",
}

type JWTClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 access token for user valid for ttl.
func NewAccessToken(user User, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiry := now.Add(ttl)
	claims := JWTClaims{
		UserID: user.UserID,
		Email:  user.Email,
		Scope:  JWT.SCOPE,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

func ValidateJWTToken(tokenString string, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.Scope != JWT.SCOPE {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
