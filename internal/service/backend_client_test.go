package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"heartquiz/internal/config"
	"heartquiz/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionsBody = `[{"id":21,"type":"likert","text":"I enjoy surprises","options":[{"id":1,"text":"1"},{"id":2,"text":"2"}]},` +
	`{"id":3,"type":"scene","text":"Rainy day","options":[{"id":"3a","text":"Stay in"},{"id":"3b","text":"Walk"}]}]`

func newTestClient(t *testing.T, h http.Handler, retries int) *BackendClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewBackendClient(config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second, MaxRetries: retries}, nil)
}

func TestBackendClient_Questions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(questionsBody))
	}), 1)

	raw, err := c.RawQuestions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, questionsBody, string(raw))

	qs, err := c.Questions(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, model.IntID(2), qs[0].Options[1].ID)
	assert.Equal(t, model.StringID("3b"), qs[1].Options[1].ID)
}

func TestBackendClient_AnalyzeForwardsAnswers(t *testing.T) {
	var got string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.Write([]byte(`{"primary_emotion":"Joy"}`))
	}), 1)

	sub := &model.Submission{Answers: []*model.Answer{{QuestionID: 21, Answer: model.IntID(2)}, nil}}
	res, err := c.Analyze(context.Background(), sub)
	require.NoError(t, err)
	assert.JSONEq(t, `{"answers":[{"question_id":21,"answer":2},null]}`, got)
	assert.Equal(t, `{"primary_emotion":"Joy"}`, string(res))
}

func TestBackendClient_ErrorStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"No questions available"}`, http.StatusInternalServerError)
	}), 1)

	_, err := c.Questions(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestBackendClient_InvalidJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}), 1)

	_, err := c.RawAnalyze(context.Background(), []byte(`{"answers":[]}`))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestBackendClient_SingleAttemptByDefault(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}), 0)

	_, err := c.RawQuestions(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBackendClient_RetriesRateLimit(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}), 2)

	qs, err := c.Questions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, qs)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
