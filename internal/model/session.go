package model

import "time"

// SessionState is the questionnaire lifecycle state
type SessionState string

const (
	SessionLoading    SessionState = "loading"
	SessionIdle       SessionState = "idle"
	SessionAnswering  SessionState = "answering"
	SessionSubmitting SessionState = "submitting"
	SessionDone       SessionState = "done"
	SessionError      SessionState = "error"
)

// QuizSession is the full questionnaire state. Answers is pre-sized to the
// question count; nil entries are unanswered.
type QuizSession struct {
	ID        string       `json:"id"`
	Questions []Question   `json:"questions"`
	Answers   []*Answer    `json:"answers"`
	Current   int          `json:"current"`
	Started   bool         `json:"started"`
	State     SessionState `json:"state"`
	LastError string       `json:"lastError,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// SessionView is what clients see of a hosted session
type SessionView struct {
	ID          string       `json:"id"`
	State       SessionState `json:"state"`
	Current     int          `json:"current"`
	Total       int          `json:"total"`
	Question    *Question    `json:"question,omitempty"`
	Slider      bool         `json:"slider"`
	SliderIndex int          `json:"sliderIndex"`
	IsLast      bool         `json:"isLast"`
	Answers     []*Answer    `json:"answers"`
	LastError   string       `json:"lastError,omitempty"`
}

// SessionStartResponse is returned when a hosted session is created
type SessionStartResponse struct {
	Token   string       `json:"token"`
	Session *SessionView `json:"session"`
}
