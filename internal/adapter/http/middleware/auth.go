package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/adapter/http/session"
	"github.com/wanderstay/listing-service/internal/platform/logger"
)

// Claims is the token payload issued by the login flow.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Authenticator resolves the request identity and stores it on the
// context. The session cookie is the primary credential (browser flows);
// a Bearer token is accepted as an alternative for API clients. An
// unauthenticated request passes through anonymously — RequireAuth gates
// the protected routes.
func Authenticator(sm *session.Manager, jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := sm.CurrentUserID(r); userID != "" {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDCtxKey, userID)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				userID, err := userIDFromBearer(authHeader, jwtSecret)
				if err != nil {
					log.Warn("Authenticator: bearer token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				} else {
					next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDCtxKey, userID)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userIDFromBearer(authHeader, jwtSecret string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("authorization header format is invalid, expected 'Bearer <token>'")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("token is not valid")
	}
	if claims.UserID == "" {
		return "", errors.New("user_id not found in token claims")
	}
	return claims.UserID, nil
}

// RequireAuth redirects anonymous requests to the login page with a
// flash notice. It assumes Authenticator already ran.
func RequireAuth(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserID(r.Context()); !ok {
				sm.AddFlash(w, r, session.FlashError, "You must be logged in first!")
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
