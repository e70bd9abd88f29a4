package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"heartquiz/internal/cache"
	"heartquiz/internal/model"
	"heartquiz/internal/questionnaire"
	"heartquiz/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeRaw sends an already encoded JSON body unchanged
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// statusFor maps service and controller errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, cache.ErrSessionNotFound), errors.Is(err, service.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, questionnaire.ErrUnknownOption),
		errors.Is(err, questionnaire.ErrOptionIndex),
		errors.Is(err, model.ErrMissingDOB),
		errors.Is(err, model.ErrInvalidDOB),
		errors.Is(err, model.ErrMissingName),
		errors.Is(err, model.ErrInvalidPhone),
		errors.Is(err, model.ErrMissingGender):
		return http.StatusBadRequest
	case errors.Is(err, questionnaire.ErrNotLoaded),
		errors.Is(err, questionnaire.ErrAlreadyLoaded),
		errors.Is(err, questionnaire.ErrNoQuestions),
		errors.Is(err, questionnaire.ErrNotAnswering),
		errors.Is(err, questionnaire.ErrSliderQuestion),
		errors.Is(err, questionnaire.ErrDiscreteQuestion),
		errors.Is(err, questionnaire.ErrNotLastQuestion),
		errors.Is(err, questionnaire.ErrSubmitInFlight),
		errors.Is(err, cache.ErrSessionConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrBackendUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
