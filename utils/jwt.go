package utils

import (
	"errors"

	"mechanio/config"
	"mechanio/models"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "mechanio-dev"
	}
	return []byte(secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Token issuance happens outside this service; we only verify HMAC here.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractActorFromToken returns the subject (actor id) and role claims from a
// valid token string.
func ExtractActorFromToken(tokenString string) (string, models.Role, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", errors.New("token does not contain a valid 'role' claim")
	}

	role := models.Role(roleStr)
	switch role {
	case models.RoleCustomer, models.RoleWorkshop, models.RoleAdmin:
	default:
		return "", "", errors.New("unknown role claim")
	}
	return sub, role, nil
}
