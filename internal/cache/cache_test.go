package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"heartquiz/internal/handoff"
	"heartquiz/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionCache_CreateGetDelete(t *testing.T) {
	mr, client := newRedis(t)
	c := NewSessionCache(client, 10*time.Minute)
	ctx := context.Background()

	s := &model.QuizSession{ID: "abc", State: model.SessionIdle, Answers: []*model.Answer{nil}}
	require.NoError(t, c.Create(ctx, s))
	assert.ErrorIs(t, c.Create(ctx, s), ErrSessionConflict)
	assert.Equal(t, 10*time.Minute, mr.TTL("session:abc"))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, model.SessionIdle, got.State)
	assert.Len(t, got.Answers, 1)

	require.NoError(t, c.Delete(ctx, "abc"))
	_, err = c.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionCache_Update(t *testing.T) {
	_, client := newRedis(t)
	c := NewSessionCache(client, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Create(ctx, &model.QuizSession{ID: "s1", State: model.SessionIdle}))

	updated, err := c.Update(ctx, "s1", func(s *model.QuizSession) error {
		s.State = model.SessionAnswering
		s.Current = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Current)

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.SessionAnswering, got.State)

	boom := errors.New("boom")
	_, err = c.Update(ctx, "s1", func(s *model.QuizSession) error {
		s.Current = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)
	got, err = c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Current)

	_, err = c.Update(ctx, "missing", func(*model.QuizSession) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestHandoffCache_ScopedPerSession(t *testing.T) {
	mr, client := newRedis(t)
	hc := NewHandoffCache(client, time.Hour)
	ctx := context.Background()

	a := handoff.New(hc.For("a"))
	b := handoff.New(hc.For("b"))

	res := model.AnalysisResult(`{"primary_emotion":"Serenity"}`)
	require.NoError(t, a.SaveAnalysis(ctx, res))
	assert.True(t, mr.Exists("handoff:a:pad_analysis"))
	assert.Equal(t, time.Hour, mr.TTL("handoff:a:pad_analysis"))

	got, err := a.Analysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(res), string(got))

	other, err := b.Analysis(ctx)
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, a.Clear(ctx))
	got, err = a.Analysis(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
