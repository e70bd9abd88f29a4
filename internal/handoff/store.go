// Package handoff carries state from the questionnaire to the pages that
// follow it. Values live under fixed key names in a key/value backend.
package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"heartquiz/internal/model"
)

// Key names shared with every consumer of the hand-off.
const (
	ProfileKey  = "profileData"
	AnalysisKey = "pad_analysis"
)

// ErrNotFound is returned by a KV when the key is absent
var ErrNotFound = errors.New("handoff: key not found")

// KV is the storage backend of a Store
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store reads and writes the hand-off values. A missing or undecodable value
// is reported as nil with no error.
type Store struct {
	kv KV
}

// New creates a store over kv
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// SaveProfile stores the profile under ProfileKey
func (s *Store) SaveProfile(ctx context.Context, p *model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, ProfileKey, data); err != nil {
		return fmt.Errorf("save %s: %w", ProfileKey, err)
	}
	return nil
}

// Profile loads the stored profile
func (s *Store) Profile(ctx context.Context) (*model.Profile, error) {
	data, err := s.get(ctx, ProfileKey)
	if err != nil || data == nil {
		return nil, err
	}
	var p model.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

// SaveAnalysis stores the analysis result under AnalysisKey
func (s *Store) SaveAnalysis(ctx context.Context, r model.AnalysisResult) error {
	if err := s.kv.Set(ctx, AnalysisKey, r); err != nil {
		return fmt.Errorf("save %s: %w", AnalysisKey, err)
	}
	return nil
}

// Analysis loads the stored analysis result
func (s *Store) Analysis(ctx context.Context) (model.AnalysisResult, error) {
	data, err := s.get(ctx, AnalysisKey)
	if err != nil || data == nil {
		return nil, err
	}
	r, err := model.ParseAnalysisResult(data)
	if err != nil {
		return nil, nil
	}
	return r, nil
}

// Clear removes both values
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range []string{ProfileKey, AnalysisKey} {
		if err := s.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}
