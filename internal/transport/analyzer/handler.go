// Package analyzer is the HTTP surface of the reference analysis backend.
package analyzer

import (
	"encoding/json"
	"errors"
	"net/http"

	"heartquiz/internal/model"
	"heartquiz/internal/pad"
	"heartquiz/internal/questionbank"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler serves questions and scores answers
type Handler struct {
	bank        *questionbank.Bank
	engine      *pad.Engine
	sampleSize  int
	topEmotions int
	logger      *zap.Logger
}

// NewHandler creates a new analyzer handler
func NewHandler(bank *questionbank.Bank, engine *pad.Engine, sampleSize, topEmotions int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		bank:        bank,
		engine:      engine,
		sampleSize:  sampleSize,
		topEmotions: topEmotions,
		logger:      logger.Named("analyzer"),
	}
}

// NewRouter wires the analyzer endpoints
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/questions", h.Questions).Methods("GET")
	r.HandleFunc("/analyze", h.Analyze).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	return r
}

// Questions handles GET /questions
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.bank.Sample(h.sampleSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Analyze handles POST /analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var sub model.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deltas := h.bank.Deltas(sub.Answers)
	res, err := h.engine.Analyze(deltas)
	if errors.Is(err, pad.ErrNoDeltas) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("analysis failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	h.logger.Info("answers analysed",
		zap.Int("answers", len(sub.Answers)),
		zap.String("primary", res.PrimaryEmotion))
	writeJSON(w, http.StatusOK, pad.NewReport(res, h.topEmotions))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
