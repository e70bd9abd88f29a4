package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"heartquiz/internal/model"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session was modified concurrently")
)

// maxTxRetries bounds optimistic transaction retries in Update
const maxTxRetries = 5

// SessionCache handles Redis operations for hosted questionnaire sessions
type SessionCache interface {
	Create(ctx context.Context, session *model.QuizSession) error
	Get(ctx context.Context, id string) (*model.QuizSession, error)
	// Update applies fn to the stored session inside a WATCH transaction and
	// writes the result back. An error from fn aborts without writing.
	Update(ctx context.Context, id string, fn func(*model.QuizSession) error) (*model.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(id string) string {
	return "session:" + id
}

func (c *sessionCache) Create(ctx context.Context, session *model.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ok, err := c.client.SetNX(ctx, c.key(session.ID), data, c.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionConflict
	}
	return nil
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.QuizSession, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var session model.QuizSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Update(ctx context.Context, id string, fn func(*model.QuizSession) error) (*model.QuizSession, error) {
	key := c.key(id)
	for i := 0; i < maxTxRetries; i++ {
		var updated *model.QuizSession
		err := c.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err == redis.Nil {
				return ErrSessionNotFound
			}
			if err != nil {
				return err
			}

			var session model.QuizSession
			if err := json.Unmarshal(data, &session); err != nil {
				return err
			}
			if err := fn(&session); err != nil {
				return err
			}
			payload, err := json.Marshal(&session)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, c.ttl)
				return nil
			})
			if err == nil {
				updated = &session
			}
			return err
		}, key)

		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrSessionConflict
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
