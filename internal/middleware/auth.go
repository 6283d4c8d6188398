package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mtlprog/taskpulse/internal/domain"
	"github.com/mtlprog/taskpulse/internal/repository"
)

type contextKey string

const (
	// ContextKeyUser is the key for storing the authenticated user in the
	// request context.
	ContextKeyUser contextKey = "user"
)

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	userRepo *repository.UserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(userRepo *repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
	}
}

// Authenticate validates the Bearer token and adds the user to the request
// context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		user, err := m.userRepo.GetByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !user.IsActive {
			http.Error(w, "user inactive", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(ctx context.Context) (*domain.User, error) {
	user, ok := ctx.Value(ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
