package auth

import (
	"strings"

	"society-backend/internal/apperr"
	"society-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxSubjectIDKey = "subject_id"
	CtxRoleKey      = "role"
)

// JWTMiddleware resolves the caller token into {subjectId, role} and puts
// both into locals. The token comes from the Authorization header, or
// from ?token= for clients that cannot set headers (SSE streams).
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenStr string

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			return apperr.New(apperr.Unauthenticated, "not authenticated!")
		}

		claims, err := ParseToken(cfg.JWT.Secret, tokenStr)
		if err != nil {
			return apperr.New(apperr.Unauthenticated, "invalid or expired token!")
		}

		c.Locals(CtxSubjectIDKey, claims.SubjectID)
		c.Locals(CtxRoleKey, claims.Role)

		return c.Next()
	}
}

// RequireRole guards a route group with an exact role match.
func RequireRole(allowed ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(CtxRoleKey).(Role)
		if !ok {
			return apperr.New(apperr.Unauthenticated, "not authenticated!")
		}
		for _, r := range allowed {
			if r == role {
				return c.Next()
			}
		}
		return apperr.New(apperr.Unauthorized, "you are not allowed to perform this operation!")
	}
}

// SubjectID returns the authenticated caller id from locals.
func SubjectID(c *fiber.Ctx) uint {
	id, _ := c.Locals(CtxSubjectIDKey).(uint)
	return id
}
