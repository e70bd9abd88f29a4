package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"heartquiz/internal/config"
	"heartquiz/internal/model"

	"go.uber.org/zap"
)

// ErrBackendUnavailable wraps every failure to reach or understand the
// analysis backend.
var ErrBackendUnavailable = errors.New("analysis backend unavailable")

// BackendClient talks to the analysis backend. It serves both as the
// question source and the analysis service of a questionnaire.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

// NewBackendClient creates a client for the backend at cfg.BaseURL
func NewBackendClient(cfg config.BackendConfig, logger *zap.Logger) *BackendClient {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries: cfg.MaxRetries,
		logger:     logger.Named("backend"),
	}
}

// doRequest performs an HTTP request, retrying transport errors and 429s up
// to maxRetries attempts. The response must be a 2xx with a JSON body.
func (c *BackendClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := c.baseURL + path
	log := c.logger.With(zap.String("method", method), zap.String("path", path))

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			log.Info("retrying backend request", zap.Int("attempt", attempt+1), zap.Int("max", c.maxRetries))
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Warn("backend request failed", zap.Int("attempt", attempt+1), zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		log.Debug("backend response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(respBody)))

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited")
			if attempt+1 < c.maxRetries {
				backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				log.Warn("backend rate limited", zap.Duration("backoff", backoff))
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, ctx.Err())
				}
			}
			continue
		}

		if resp.StatusCode >= 400 {
			log.Warn("backend returned error status", zap.Int("status", resp.StatusCode), zap.ByteString("body", truncate(respBody, 512)))
			return nil, fmt.Errorf("%w: status %d", ErrBackendUnavailable, resp.StatusCode)
		}

		if !json.Valid(respBody) {
			return nil, fmt.Errorf("%w: response is not valid JSON", ErrBackendUnavailable)
		}
		return respBody, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, lastErr)
}

// RawQuestions returns the question list body exactly as the backend sent it
func (c *BackendClient) RawQuestions(ctx context.Context) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, "/questions", nil)
}

// Questions fetches and decodes the question list
func (c *BackendClient) Questions(ctx context.Context) ([]model.Question, error) {
	body, err := c.RawQuestions(ctx)
	if err != nil {
		return nil, err
	}
	var questions []model.Question
	if err := json.Unmarshal(body, &questions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse questions: %v", ErrBackendUnavailable, err)
	}
	return questions, nil
}

// RawAnalyze forwards a submission body verbatim and returns the result body
func (c *BackendClient) RawAnalyze(ctx context.Context, body []byte) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPost, "/analyze", body)
}

// Analyze sends the answers and returns the opaque analysis result
func (c *BackendClient) Analyze(ctx context.Context, sub *model.Submission) (model.AnalysisResult, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	resp, err := c.RawAnalyze(ctx, body)
	if err != nil {
		return nil, err
	}
	return model.ParseAnalysisResult(resp)
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
