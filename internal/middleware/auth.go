package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/avrorin/blog-platform/internal/auth"
)

// UserIDKey is the context key under which RequireAuth stores the
// authenticated subject's user id.
const UserIDKey = "user_id"

// RequireAuth returns an Echo middleware that guards protected routes with
// a bearer token check. The gate is read-only and rejects in three distinct
// steps, all with the same 401 body so callers learn nothing about which
// check failed:
//
//  1. no Authorization: Bearer header -> 401
//  2. token fails signature/structure verification -> 401
//  3. decoded claims are stale or incomplete -> 401
//
// On success the subject id from the claims is exposed to handlers via
// c.Get(UserIDKey).
func RequireAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            header := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(header, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
            }
            raw := strings.TrimPrefix(header, "Bearer ")

            claims, err := auth.Decode(raw, secret)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
            }
            if !auth.IsValid(claims) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
            }

            c.Set(UserIDKey, claims.ID)
            return next(c)
        }
    }
}
