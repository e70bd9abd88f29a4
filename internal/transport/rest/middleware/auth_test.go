package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heartquiz/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSession(t *testing.T) {
	auth := service.NewAuthService("mw-secret", time.Hour)
	token, err := auth.GenerateSessionToken("s-42")
	require.NoError(t, err)

	var seen string
	h := NewAuthMiddleware(auth).RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		query  string
		status int
		id     string
	}{
		{name: "bearer header", header: "Bearer " + token, status: http.StatusOK, id: "s-42"},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusOK, id: "s-42"},
		{name: "query param", query: "?token=" + token, status: http.StatusOK, id: "s-42"},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/session"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.id, seen)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}
