package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orgelect/orgelect/internal/core/domain"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

// Authenticate validates the caller's access token, from the access_token
// cookie or an Authorization bearer header, and stores the actor identity in
// the request context. Token issuance happens outside this service.
func Authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				respondMessage(w, http.StatusUnauthorized, "missing access token")
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				respondMessage(w, http.StatusUnauthorized, "invalid access token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				respondMessage(w, http.StatusUnauthorized, "invalid access token")
				return
			}
			sub, err := claims.GetSubject()
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, "invalid access token")
				return
			}
			userID, err := uuid.Parse(sub)
			if err != nil {
				respondMessage(w, http.StatusUnauthorized, "invalid access token")
				return
			}

			role, _ := claims["role"].(string)

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// actorFrom rebuilds the acting identity placed in the context by
// Authenticate. The second return is false when the request is unauthenticated.
func actorFrom(r *http.Request) (domain.Actor, bool) {
	userID, ok := r.Context().Value(UserIDKey).(uuid.UUID)
	if !ok {
		return domain.Actor{}, false
	}
	role, _ := r.Context().Value(RoleKey).(string)
	return domain.Actor{ID: userID, Role: role}, true
}
