package service

import (
	"context"
	"errors"
	"fmt"

	"heartquiz/internal/cache"
	"heartquiz/internal/handoff"
	"heartquiz/internal/model"
	"heartquiz/internal/questionnaire"
	"heartquiz/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoResults = errors.New("no results found")

// SessionService hosts questionnaire sessions for clients that do not run
// the controller themselves. Sessions live in Redis; every mutation runs the
// controller inside an optimistic transaction.
type SessionService struct {
	sessions    cache.SessionCache
	handoffs    cache.HandoffCache
	submissions repository.SubmissionRepo
	questions   questionnaire.QuestionSource
	analysis    questionnaire.AnalysisService
	authSvc     *AuthService
	publisher   Publisher
	threshold   int
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions cache.SessionCache,
	handoffs cache.HandoffCache,
	questions questionnaire.QuestionSource,
	analysis questionnaire.AnalysisService,
	authSvc *AuthService,
	threshold int,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions:  sessions,
		handoffs:  handoffs,
		questions: questions,
		analysis:  analysis,
		authSvc:   authSvc,
		publisher: nopPublisher{},
		threshold: threshold,
		logger:    logger.Named("sessions"),
	}
}

// SetPublisher sets where session events go
func (s *SessionService) SetPublisher(p Publisher) {
	if p != nil {
		s.publisher = p
	}
}

// SetSubmissionRepo enables archiving of completed submissions
func (s *SessionService) SetSubmissionRepo(repo repository.SubmissionRepo) {
	s.submissions = repo
}

func (s *SessionService) controller(session *model.QuizSession) *questionnaire.Controller {
	return questionnaire.Resume(session, questionnaire.WithSliderThreshold(s.threshold))
}

// Create loads the questions into a new session and issues its token
func (s *SessionService) Create(ctx context.Context) (*model.SessionStartResponse, error) {
	c := questionnaire.New(questionnaire.WithSliderThreshold(s.threshold))
	c.Session().ID = uuid.NewString()

	if err := c.Load(ctx, s.questions); err != nil {
		s.logger.Warn("question load failed", zap.Error(err))
		return nil, err
	}
	if err := s.sessions.Create(ctx, c.Session()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := s.authSvc.GenerateSessionToken(c.Session().ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session created",
		zap.String("sessionId", c.Session().ID),
		zap.Int("questions", c.Len()))

	return &model.SessionStartResponse{
		Token:   token,
		Session: BuildView(c),
	}, nil
}

// View returns the client view of a session
func (s *SessionService) View(ctx context.Context, id string) (*model.SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildView(s.controller(session)), nil
}

// Start begins answering
func (s *SessionService) Start(ctx context.Context, id string) (*model.SessionView, error) {
	view, err := s.mutate(ctx, id, func(c *questionnaire.Controller) error {
		return c.Start()
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(id, EventSessionStarted, view)
	return view, nil
}

// Select records a button answer
func (s *SessionService) Select(ctx context.Context, id string, option model.OptionID) (*model.SessionView, error) {
	view, err := s.mutate(ctx, id, func(c *questionnaire.Controller) error {
		return c.Select(option)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(id, EventSessionAnswered, view)
	return view, nil
}

// SetSlider records the slider position of the current question
func (s *SessionService) SetSlider(ctx context.Context, id string, index int) (*model.SessionView, error) {
	view, err := s.mutate(ctx, id, func(c *questionnaire.Controller) error {
		return c.SetSlider(index)
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(id, EventSessionAnswered, view)
	return view, nil
}

// Next moves to the following question
func (s *SessionService) Next(ctx context.Context, id string) (*model.SessionView, error) {
	return s.mutate(ctx, id, func(c *questionnaire.Controller) error {
		return c.Next()
	})
}

// Previous moves to the preceding question
func (s *SessionService) Previous(ctx context.Context, id string) (*model.SessionView, error) {
	return s.mutate(ctx, id, func(c *questionnaire.Controller) error {
		return c.Previous()
	})
}

// Submit sends the answers for analysis. The session is marked submitting
// before the backend call so a concurrent submit is rejected. On success the
// result goes to the hand-off, the submission is archived and the session is
// removed. On failure the session is kept in the error state.
func (s *SessionService) Submit(ctx context.Context, id string) (model.AnalysisResult, error) {
	var sub *model.Submission
	_, err := s.sessions.Update(ctx, id, func(session *model.QuizSession) error {
		var err error
		sub, err = s.controller(session).BeginSubmit()
		return err
	})
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("sessionId", id))
	store := handoff.New(s.handoffs.For(id))

	result, err := s.analysis.Analyze(ctx, sub)

	// The session must leave submitting even if the caller went away
	ctx = context.WithoutCancel(ctx)
	if err == nil {
		err = store.SaveAnalysis(ctx, result)
	}
	if err != nil {
		log.Warn("submission failed", zap.Error(err))
		s.failSubmit(ctx, id, err)
		s.publisher.Publish(id, EventAnalysisFailed, map[string]string{"error": err.Error()})
		return nil, fmt.Errorf("submit answers: %w", err)
	}

	if _, err := s.sessions.Update(ctx, id, func(session *model.QuizSession) error {
		return s.controller(session).CompleteSubmit(ctx, result, nil)
	}); err != nil {
		log.Warn("mark session done", zap.Error(err))
	}

	s.archive(ctx, id, sub, result, store)

	if summary, err := result.Summary(); err == nil {
		s.publisher.Publish(id, EventAnalysisCompleted, summary)
	} else {
		s.publisher.Publish(id, EventAnalysisCompleted, nil)
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		log.Warn("delete session", zap.Error(err))
	}
	log.Info("submission analysed", zap.Int("answers", len(sub.Answers)))
	return result, nil
}

func (s *SessionService) failSubmit(ctx context.Context, id string, cause error) {
	_, err := s.sessions.Update(ctx, id, func(session *model.QuizSession) error {
		s.controller(session).FailSubmit(cause)
		return nil
	})
	if err != nil {
		s.logger.Error("record submit failure", zap.String("sessionId", id), zap.Error(err))
	}
}

func (s *SessionService) archive(ctx context.Context, id string, sub *model.Submission, result model.AnalysisResult, store *handoff.Store) {
	if s.submissions == nil {
		return
	}
	doc, err := result.Document()
	if err != nil {
		s.logger.Warn("analysis result is not an object", zap.String("sessionId", id), zap.Error(err))
	}
	profile, _ := store.Profile(ctx)

	record := &model.SubmissionRecord{
		SessionID: id,
		Answers:   model.ArchiveAnswers(sub),
		Result:    doc,
		Profile:   profile,
	}
	if _, err := s.submissions.Create(ctx, record); err != nil {
		s.logger.Error("archive submission", zap.String("sessionId", id), zap.Error(err))
	}
}

// SaveProfile validates and stores the profile, returning the route of the
// page that shows it
func (s *SessionService) SaveProfile(ctx context.Context, id string, p *model.Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := handoff.New(s.handoffs.For(id)).SaveProfile(ctx, p); err != nil {
		return "", err
	}
	return p.PlanetRoute(), nil
}

// Profile returns the stored profile, or nil
func (s *SessionService) Profile(ctx context.Context, id string) (*model.Profile, error) {
	return handoff.New(s.handoffs.For(id)).Profile(ctx)
}

// Results returns the stored analysis result
func (s *SessionService) Results(ctx context.Context, id string) (model.AnalysisResult, error) {
	result, err := handoff.New(s.handoffs.For(id)).Analysis(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoResults
	}
	return result, nil
}

func (s *SessionService) mutate(ctx context.Context, id string, fn func(*questionnaire.Controller) error) (*model.SessionView, error) {
	var view *model.SessionView
	_, err := s.sessions.Update(ctx, id, func(session *model.QuizSession) error {
		c := s.controller(session)
		if err := fn(c); err != nil {
			return err
		}
		view = BuildView(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// BuildView projects a controller onto what clients render
func BuildView(c *questionnaire.Controller) *model.SessionView {
	session := c.Session()
	view := &model.SessionView{
		ID:          session.ID,
		State:       session.State,
		Current:     session.Current,
		Total:       c.Len(),
		SliderIndex: -1,
		IsLast:      c.IsLast(),
		Answers:     session.Answers,
		LastError:   session.LastError,
	}
	if q, ok := c.Current(); ok {
		view.Question = q
		view.Slider = c.IsSlider(q)
		view.SliderIndex = c.SliderIndex()
	}
	return view
}
