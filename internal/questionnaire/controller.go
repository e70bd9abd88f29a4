// Package questionnaire drives a user through an ordered list of questions,
// capturing one answer per question, and hands the assembled answers to an
// analysis service.
//
// Questions with fewer options than the slider threshold are answered with
// buttons: choosing one records it and moves on. Questions at or above the
// threshold are answered with a slider that writes through to the answer
// slot on every move and waits for an explicit Next.
package questionnaire

import (
	"context"
	"fmt"
	"time"

	"heartquiz/internal/handoff"
	"heartquiz/internal/model"
)

// DefaultSliderThreshold is the option count from which a question uses the slider
const DefaultSliderThreshold = 5

// QuestionSource returns the ordered question list
type QuestionSource interface {
	Questions(ctx context.Context) ([]model.Question, error)
}

// AnalysisService turns a submission into an analysis result
type AnalysisService interface {
	Analyze(ctx context.Context, sub *model.Submission) (model.AnalysisResult, error)
}

// Option configures a Controller
type Option func(*Controller)

// WithSliderThreshold overrides DefaultSliderThreshold. Values below 1 are ignored.
func WithSliderThreshold(n int) Option {
	return func(c *Controller) {
		if n >= 1 {
			c.threshold = n
		}
	}
}

// WithClock sets the time source used for session timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller is the questionnaire state machine:
//
//	loading -> idle -> answering -> submitting -> done
//	                       ^             |
//	                       +--- error <--+
//
// A Controller is not safe for concurrent use.
type Controller struct {
	session   *model.QuizSession
	threshold int
	now       func() time.Time
}

// New creates a controller for a fresh session in the loading state
func New(opts ...Option) *Controller {
	c := newController(opts)
	now := c.now()
	c.session = &model.QuizSession{
		State:     model.SessionLoading,
		Answers:   []*model.Answer{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return c
}

// Resume wraps an existing session, e.g. one read back from a cache.
// The controller mutates s in place.
func Resume(s *model.QuizSession, opts ...Option) *Controller {
	c := newController(opts)
	if len(s.Answers) != len(s.Questions) {
		answers := make([]*model.Answer, len(s.Questions))
		copy(answers, s.Answers)
		s.Answers = answers
	}
	if s.Current >= len(s.Questions) {
		s.Current = len(s.Questions) - 1
	}
	if s.Current < 0 {
		s.Current = 0
	}
	c.session = s
	return c
}

func newController(opts []Option) *Controller {
	c := &Controller{threshold: DefaultSliderThreshold, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the underlying session state
func (c *Controller) Session() *model.QuizSession {
	return c.session
}

// State returns the lifecycle state
func (c *Controller) State() model.SessionState {
	return c.session.State
}

// Threshold returns the slider threshold in effect
func (c *Controller) Threshold() int {
	return c.threshold
}

// Load fetches the questions and pre-sizes the answers, one empty slot per
// question. On failure the controller stays in loading; nothing is retried.
func (c *Controller) Load(ctx context.Context, src QuestionSource) error {
	if c.session.State != model.SessionLoading {
		return ErrAlreadyLoaded
	}
	questions, err := src.Questions(ctx)
	if err != nil {
		c.session.LastError = err.Error()
		c.touch()
		return fmt.Errorf("load questions: %w", err)
	}

	c.session.Questions = append([]model.Question(nil), questions...)
	c.session.Answers = make([]*model.Answer, len(questions))
	c.session.Current = 0
	c.session.State = model.SessionIdle
	c.session.LastError = ""
	c.touch()
	return nil
}

// Start begins answering at the first question. With no questions the
// session stays idle.
func (c *Controller) Start() error {
	if c.session.State == model.SessionLoading {
		return ErrNotLoaded
	}
	if c.session.Started {
		return nil
	}
	c.session.Started = true
	if len(c.session.Questions) > 0 {
		c.session.State = model.SessionAnswering
		c.enterCurrent()
	}
	c.touch()
	return nil
}

// Len returns the number of questions
func (c *Controller) Len() int {
	return len(c.session.Questions)
}

// Current returns the question under the cursor
func (c *Controller) Current() (*model.Question, bool) {
	if len(c.session.Questions) == 0 {
		return nil, false
	}
	return &c.session.Questions[c.session.Current], true
}

// IsSlider reports whether q is answered with the slider
func (c *Controller) IsSlider(q *model.Question) bool {
	return len(q.Options) >= c.threshold
}

// IsLast reports whether the cursor is on the last question
func (c *Controller) IsLast() bool {
	return len(c.session.Questions) > 0 && c.session.Current == len(c.session.Questions)-1
}

// SliderIndex returns the slider position of the current question, derived
// from its answer. It is -1 when the current question uses buttons.
func (c *Controller) SliderIndex() int {
	q, ok := c.Current()
	if !ok || !c.IsSlider(q) {
		return -1
	}
	if a := c.session.Answers[c.session.Current]; a != nil {
		if i := q.IndexOf(a.Answer); i >= 0 {
			return i
		}
	}
	return len(q.Options) / 2
}

// Select records a button answer and advances, unless already on the last
// question.
func (c *Controller) Select(id model.OptionID) error {
	if err := c.answering(); err != nil {
		return err
	}
	q, _ := c.Current()
	if c.IsSlider(q) {
		return ErrSliderQuestion
	}
	if q.IndexOf(id) < 0 {
		return ErrUnknownOption
	}
	c.record(q, id)
	c.move(1)
	c.resumeAnswering()
	return nil
}

// SetSlider records the option at index as the current answer without
// moving the cursor.
func (c *Controller) SetSlider(index int) error {
	if err := c.answering(); err != nil {
		return err
	}
	q, _ := c.Current()
	if !c.IsSlider(q) {
		return ErrDiscreteQuestion
	}
	if index < 0 || index >= len(q.Options) {
		return ErrOptionIndex
	}
	c.record(q, q.Options[index].ID)
	c.resumeAnswering()
	return nil
}

// Next moves the cursor forward; a no-op on the last question
func (c *Controller) Next() error {
	if err := c.answering(); err != nil {
		return err
	}
	c.move(1)
	c.resumeAnswering()
	return nil
}

// Previous moves the cursor back; a no-op on the first question
func (c *Controller) Previous() error {
	if err := c.answering(); err != nil {
		return err
	}
	c.move(-1)
	c.resumeAnswering()
	return nil
}

// Submission returns a copy of the answers as a submission payload
func (c *Controller) Submission() *model.Submission {
	answers := make([]*model.Answer, len(c.session.Answers))
	for i, a := range c.session.Answers {
		if a != nil {
			cp := *a
			answers[i] = &cp
		}
	}
	return &model.Submission{Answers: answers}
}

// BeginSubmit moves to submitting and returns the payload to send
func (c *Controller) BeginSubmit() (*model.Submission, error) {
	if c.session.State == model.SessionSubmitting {
		return nil, ErrSubmitInFlight
	}
	if err := c.answering(); err != nil {
		return nil, err
	}
	if !c.IsLast() {
		return nil, ErrNotLastQuestion
	}
	c.session.State = model.SessionSubmitting
	c.session.LastError = ""
	c.touch()
	return c.Submission(), nil
}

// CompleteSubmit persists the result for the pages that follow and marks
// the session done. If persisting fails the submission counts as failed.
func (c *Controller) CompleteSubmit(ctx context.Context, result model.AnalysisResult, store *handoff.Store) error {
	if c.session.State != model.SessionSubmitting {
		return ErrNotAnswering
	}
	if store != nil {
		if err := store.SaveAnalysis(ctx, result); err != nil {
			c.FailSubmit(err)
			return err
		}
	}
	c.session.State = model.SessionDone
	c.touch()
	return nil
}

// FailSubmit returns a submitting session to the error state. Answers and
// cursor are kept so the user can retry.
func (c *Controller) FailSubmit(err error) {
	if c.session.State != model.SessionSubmitting {
		return
	}
	c.session.State = model.SessionError
	if err != nil {
		c.session.LastError = err.Error()
	}
	c.touch()
}

// Submit sends the answers to svc and stores the result in store
func (c *Controller) Submit(ctx context.Context, svc AnalysisService, store *handoff.Store) (model.AnalysisResult, error) {
	sub, err := c.BeginSubmit()
	if err != nil {
		return nil, err
	}
	result, err := svc.Analyze(ctx, sub)
	if err != nil {
		c.FailSubmit(err)
		return nil, fmt.Errorf("submit answers: %w", err)
	}
	if err := c.CompleteSubmit(ctx, result, store); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}
	return result, nil
}

// answering checks that answers are accepted, including after a failed
// submit. It does not change the state.
func (c *Controller) answering() error {
	switch c.session.State {
	case model.SessionAnswering, model.SessionError:
		return nil
	case model.SessionSubmitting:
		return ErrSubmitInFlight
	case model.SessionLoading:
		return ErrNotLoaded
	}
	if len(c.session.Questions) == 0 {
		return ErrNoQuestions
	}
	return ErrNotAnswering
}

func (c *Controller) record(q *model.Question, id model.OptionID) {
	c.session.Answers[c.session.Current] = &model.Answer{QuestionID: q.ID, Answer: id}
}

// move shifts the cursor by delta, clamped, and applies the slider default
// when the cursor lands on a new question.
func (c *Controller) move(delta int) {
	next := c.session.Current + delta
	if next < 0 || next >= len(c.session.Questions) {
		return
	}
	c.session.Current = next
	c.enterCurrent()
}

// enterCurrent writes the slider midpoint as the provisional answer
func (c *Controller) enterCurrent() {
	q, ok := c.Current()
	if !ok || !c.IsSlider(q) {
		return
	}
	c.record(q, q.Options[len(q.Options)/2].ID)
}

// resumeAnswering leaves the error state once an interaction succeeded
func (c *Controller) resumeAnswering() {
	if c.session.State == model.SessionError {
		c.session.State = model.SessionAnswering
	}
	c.touch()
}

func (c *Controller) touch() {
	c.session.UpdatedAt = c.now()
}
