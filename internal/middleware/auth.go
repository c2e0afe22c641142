package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/socialchef/snapchef/internal/config"
	apperrors "github.com/socialchef/snapchef/internal/errors"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware validates HS256 bearer tokens signed with API_JWT_SECRET and
// issued by this service. With no secret configured every request passes.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.APIJWTSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Missing Authorization header", "AUTH_MISSING")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Invalid Authorization header format", "AUTH_MALFORMED")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.APIJWTSecret), nil
			}, jwt.WithIssuer(cfg.ServiceName), jwt.WithExpirationRequired())

			if err != nil || !token.Valid {
				unauthorized(w, "Invalid token", "AUTH_INVALID_TOKEN")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w, "Invalid claims", "AUTH_INVALID_CLAIMS")
				return
			}

			userID, ok := claims["sub"].(string)
			if !ok || userID == "" {
				unauthorized(w, "Missing sub claim", "AUTH_MISSING_SUBJECT")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg, code string) {
	apperrors.WriteJSON(w, apperrors.NewUnauthorizedError("Unauthorized: "+msg, code))
}

// GetUserID extracts the user ID from request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
