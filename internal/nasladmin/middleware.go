package nasladmin

import (
	"context"
	"net/http"
	"strings"
)

type operatorKey struct{}

// RequireAuth gates next behind a valid Bearer token, adding the
// operator's subject claim to the request context.
func RequireAuth(auth *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				http.Error(w, "invalid authorization format", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			sub, _ := claims["sub"].(string)
			ctx := context.WithValue(r.Context(), operatorKey{}, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Operator extracts the authenticated operator's subject from ctx, or
// "" if unauthenticated.
func Operator(ctx context.Context) string {
	sub, _ := ctx.Value(operatorKey{}).(string)
	return sub
}
