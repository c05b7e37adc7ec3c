package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/callclub/models"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

// JWT claim names shared with the token issuer in handlers.
const (
	JWTClaimUsername = "username"
	JWTClaimRole     = "role"
)

var errNoClaims = errors.New("user claims not found in context or invalid type")

// WithClaims returns a copy of ctx carrying claims, as Authenticate does.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetUsernameFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errNoClaims
	}

	usernameClaim, ok := claims[JWTClaimUsername]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", JWTClaimUsername)
	}
	username, ok := usernameClaim.(string)
	if !ok || username == "" {
		return "", fmt.Errorf("invalid '%s' claim: %v", JWTClaimUsername, usernameClaim)
	}
	return username, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errNoClaims
	}

	roleClaim, ok := claims[JWTClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", JWTClaimRole)
	}
	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", JWTClaimRole, roleClaim)
	}

	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RolePlayer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
