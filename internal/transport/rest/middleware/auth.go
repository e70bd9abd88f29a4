package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"heartquiz/internal/model"
)

type contextKey string

const SessionIDKey contextKey = "sessionId"

// TokenValidator checks a session token and returns its claims
type TokenValidator interface {
	ValidateSessionToken(token string) (*model.SessionClaims, error)
}

// tokenExtractor pulls a raw token out of a request, or returns ""
type tokenExtractor func(r *http.Request) string

// AuthMiddleware guards session scoped routes
type AuthMiddleware struct {
	validator  TokenValidator
	extractors []tokenExtractor
}

// NewAuthMiddleware accepts a bearer header first, then a token query param
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator:  validator,
		extractors: []tokenExtractor{bearerToken, queryToken},
	}
}

// RequireSession rejects the request with 401 unless it carries a valid
// session token, and stores the session ID in the request context
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.token(r)
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.validator.ValidateSessionToken(token)
		if err != nil || claims.SessionID == "" {
			unauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.SessionID)))
	})
}

func (m *AuthMiddleware) token(r *http.Request) string {
	for _, extract := range m.extractors {
		if t := extract(r); t != "" {
			return t
		}
	}
	return ""
}

// WithSessionID stores a session ID in ctx
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// GetSessionID extracts session ID from context
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="session"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func queryToken(r *http.Request) string {
	return r.URL.Query().Get("token")
}
