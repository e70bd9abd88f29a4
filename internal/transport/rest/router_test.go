package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heartquiz/internal/cache"
	"heartquiz/internal/config"
	"heartquiz/internal/model"
	"heartquiz/internal/service"
	"heartquiz/internal/transport/ws"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendQuestions = `[` +
	`{"id":7,"type":"scene","text":"A friend cancels plans","options":[{"id":"7a","text":"Relief"},{"id":"7b","text":"Hurt"}]},` +
	`{"id":2,"type":"likert","text":"I stay calm under pressure","options":[{"id":1,"text":"1"},{"id":2,"text":"2"},{"id":3,"text":"3"},{"id":4,"text":"4"},{"id":5,"text":"5"}]}` +
	`]`

const backendResult = `{"primary_emotion":"Patience_Calm","secondary_emotion":"Serenity","core_triad":{"pleasure":0.6,"arousal":-0.4,"dominance":0.3},"top_emotions":[{"name":"Patience_Calm","score":95}]}`

type testAPI struct {
	handler  http.Handler
	analyzed []string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/questions":
			w.Write([]byte(backendQuestions))
		case "/analyze":
			var buf bytes.Buffer
			buf.ReadFrom(r.Body)
			api.analyzed = append(api.analyzed, buf.String())
			w.Write([]byte(backendResult))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(backend.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	client := service.NewBackendClient(config.BackendConfig{BaseURL: backend.URL, Timeout: 5 * time.Second, MaxRetries: 1}, nil)
	authSvc := service.NewAuthService("router-secret", time.Hour)
	sessionSvc := service.NewSessionService(
		cache.NewSessionCache(rdb, time.Hour),
		cache.NewHandoffCache(rdb, time.Hour),
		client, client, authSvc, 5, nil,
	)

	api.handler = NewRouter(&Container{
		AuthService:    authSvc,
		Backend:        client,
		SessionService: sessionSvc,
		WSHub:          ws.NewHub(nil),
		CORS:           config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET, POST, PUT, OPTIONS", AllowedHeaders: "Content-Type, Authorization"},
	})
	return api
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) *model.SessionView {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view model.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return &view
}

func TestRouter_HealthAndCORS(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = api.do(t, http.MethodOptions, "/api/session/start", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ProxyQuestions(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/questions", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, backendQuestions, rec.Body.String())
}

func TestRouter_SessionRequiresToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/session", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid or expired token"}`, rec.Body.String())
}

func TestRouter_HostedSession(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.SessionStartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	token := created.Token
	assert.Equal(t, model.SessionIdle, created.Session.State)

	rec = api.do(t, http.MethodGet, "/api/session/results", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no results found"}`, rec.Body.String())

	view := decodeView(t, api.do(t, http.MethodPost, "/api/session/start", token, nil))
	assert.Equal(t, model.SessionAnswering, view.State)

	rec = api.do(t, http.MethodPut, "/api/session/slider", token, map[string]int{"index": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/session/select", token, map[string]string{"optionId": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	view = decodeView(t, api.do(t, http.MethodPost, "/api/session/select", token, map[string]string{"optionId": "7b"}))
	assert.Equal(t, 1, view.Current)
	assert.True(t, view.Slider)
	assert.Equal(t, 2, view.SliderIndex)

	view = decodeView(t, api.do(t, http.MethodPost, "/api/session/previous", token, nil))
	assert.Equal(t, 0, view.Current)
	view = decodeView(t, api.do(t, http.MethodPost, "/api/session/next", token, nil))
	assert.Equal(t, 1, view.Current)

	view = decodeView(t, api.do(t, http.MethodPut, "/api/session/slider", token, map[string]int{"index": 0}))
	assert.Equal(t, 0, view.SliderIndex)

	rec = api.do(t, http.MethodPut, "/api/session/profile", token, map[string]string{
		"name": "Sam", "dob": "1995-07-19", "phone": "0123456789", "gender": "other",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"route":"/sun"`)

	rec = api.do(t, http.MethodPost, "/api/session/submit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, backendResult, rec.Body.String())

	require.Len(t, api.analyzed, 1)
	assert.JSONEq(t, `{"answers":[{"question_id":7,"answer":"7b"},{"question_id":2,"answer":1}]}`, api.analyzed[0])

	rec = api.do(t, http.MethodGet, "/api/session/results", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, backendResult, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/session/profile", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Sam"`)

	rec = api.do(t, http.MethodGet, "/api/session", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ProfileValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.SessionStartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodPut, "/api/session/profile", created.Token, map[string]string{"name": "Sam"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"please select your date of birth"}`, rec.Body.String())
}
