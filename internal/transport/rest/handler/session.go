package handler

import (
	"encoding/json"
	"net/http"

	"heartquiz/internal/model"
	"heartquiz/internal/service"
	"heartquiz/internal/transport/rest/middleware"

	"go.uber.org/zap"
)

// SessionHandler exposes hosted questionnaire sessions
type SessionHandler struct {
	sessionSvc *service.SessionService
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessionSvc: sessionSvc, logger: logger.Named("session")}
}

// SelectRequest is the request body for a button answer
type SelectRequest struct {
	OptionID model.OptionID `json:"optionId"`
}

// SliderRequest is the request body for a slider move
type SliderRequest struct {
	Index *int `json:"index"`
}

// ProfileResponse is returned after the profile is stored
type ProfileResponse struct {
	Profile *model.Profile `json:"profile"`
	Route   string         `json:"route"`
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionSvc.Create(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionSvc.View(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, view, err)
}

// Start handles POST /api/session/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionSvc.Start(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, view, err)
}

// Select handles POST /api/session/select
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OptionID.IsZero() {
		writeError(w, http.StatusBadRequest, "optionId is required")
		return
	}
	view, err := h.sessionSvc.Select(r.Context(), middleware.GetSessionID(r.Context()), req.OptionID)
	h.respond(w, view, err)
}

// Slider handles PUT /api/session/slider
func (h *SessionHandler) Slider(w http.ResponseWriter, r *http.Request) {
	var req SliderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	view, err := h.sessionSvc.SetSlider(r.Context(), middleware.GetSessionID(r.Context()), *req.Index)
	h.respond(w, view, err)
}

// Next handles POST /api/session/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionSvc.Next(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, view, err)
}

// Previous handles POST /api/session/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionSvc.Previous(r.Context(), middleware.GetSessionID(r.Context()))
	h.respond(w, view, err)
}

// Submit handles POST /api/session/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessionSvc.Submit(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeRaw(w, http.StatusOK, result)
}

// SaveProfile handles PUT /api/session/profile
func (h *SessionHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p model.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	route, err := h.sessionSvc.SaveProfile(r.Context(), middleware.GetSessionID(r.Context()), &p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &ProfileResponse{Profile: &p, Route: route})
}

// Profile handles GET /api/session/profile
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.sessionSvc.Profile(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "no profile found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Results handles GET /api/session/results
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessionSvc.Results(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeRaw(w, http.StatusOK, result)
}

func (h *SessionHandler) respond(w http.ResponseWriter, view *model.SessionView, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("session request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}
