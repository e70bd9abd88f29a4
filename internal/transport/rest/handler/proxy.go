package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxAnalyzeBody caps the size of a forwarded answers payload
const maxAnalyzeBody = 1 << 20

// Backend is the analysis backend as seen by the proxy endpoints
type Backend interface {
	RawQuestions(ctx context.Context) ([]byte, error)
	RawAnalyze(ctx context.Context, body []byte) ([]byte, error)
}

// ProxyHandler forwards the question and analysis calls to the backend
type ProxyHandler struct {
	backend Backend
	logger  *zap.Logger
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(backend Backend, logger *zap.Logger) *ProxyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProxyHandler{backend: backend, logger: logger.Named("proxy")}
}

// Questions handles GET /api/questions
func (h *ProxyHandler) Questions(w http.ResponseWriter, r *http.Request) {
	body, err := h.backend.RawQuestions(r.Context())
	if err != nil {
		h.logger.Error("Error fetching questions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// Analyze handles POST /api/analyze
func (h *ProxyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAnalyzeBody))
	if err != nil || !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.backend.RawAnalyze(r.Context(), body)
	if err != nil {
		h.logger.Error("Error analyzing answers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to analyze answers")
		return
	}
	writeRaw(w, http.StatusOK, result)
}
