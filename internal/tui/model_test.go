package tui

import (
	"context"
	"errors"
	"testing"

	"heartquiz/internal/handoff"
	"heartquiz/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	questions []model.Question
	err       error
}

func (s stubSource) Questions(context.Context) ([]model.Question, error) {
	return s.questions, s.err
}

type stubAnalysis struct {
	result model.AnalysisResult
	err    error
}

func (s stubAnalysis) Analyze(context.Context, *model.Submission) (model.AnalysisResult, error) {
	return s.result, s.err
}

func quizQuestions() []model.Question {
	likert := make([]model.Option, 5)
	for i := range likert {
		likert[i] = model.Option{ID: model.IntID(i + 1), Text: "score"}
	}
	return []model.Question{
		{ID: 1, Type: model.QuestionTypeScene, Text: "Scene", Options: []model.Option{
			{ID: model.StringID("1a"), Text: "A"},
			{ID: model.StringID("1b"), Text: "B"},
		}},
		{ID: 2, Type: model.QuestionTypeLikert, Text: "Likert", Options: likert},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func loaded(t *testing.T, analysis stubAnalysis, store *handoff.Store) Model {
	t.Helper()
	src := stubSource{questions: quizQuestions()}
	m := New(context.Background(), src, analysis, store)
	qs, err := src.Questions(context.Background())
	m, _ = send(t, m, questionsMsg{questions: qs, err: err})
	require.Equal(t, model.SessionAnswering, m.Controller().State())
	return m
}

func TestModel_LoadFailure(t *testing.T) {
	m := New(context.Background(), stubSource{}, stubAnalysis{}, nil)
	m, _ = send(t, m, questionsMsg{err: errors.New("down")})

	assert.Equal(t, model.SessionLoading, m.Controller().State())
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "Failed to fetch questions")
}

func TestModel_ButtonsThenSlider(t *testing.T) {
	m := loaded(t, stubAnalysis{}, nil)
	assert.Contains(t, m.View(), "1. A")

	m, _ = send(t, m, key("down"))
	m, _ = send(t, m, key("enter"))

	s := m.Controller().Session()
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, model.StringID("1b"), s.Answers[0].Answer)
	assert.Equal(t, 2, m.Controller().SliderIndex())
	assert.Contains(t, m.View(), "●")

	m, _ = send(t, m, key("right"))
	m, _ = send(t, m, key("right"))
	m, _ = send(t, m, key("right"))
	assert.Equal(t, 4, m.Controller().SliderIndex())
	assert.Equal(t, model.IntID(5), s.Answers[1].Answer)

	m, _ = send(t, m, key("p"))
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 1, m.focus)
}

func TestModel_DigitSelects(t *testing.T) {
	m := loaded(t, stubAnalysis{}, nil)
	m, _ = send(t, m, key("1"))
	assert.Equal(t, model.StringID("1a"), m.Controller().Session().Answers[0].Answer)
	assert.Equal(t, 1, m.Controller().Session().Current)
}

func TestModel_MouseMovesSlider(t *testing.T) {
	m := loaded(t, stubAnalysis{}, nil)
	m, _ = send(t, m, key("n"))

	m, _ = send(t, m, tea.MouseMsg{X: trackIndent, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 0, m.Controller().SliderIndex())

	m, _ = send(t, m, tea.MouseMsg{X: trackIndent + trackWidth, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 4, m.Controller().SliderIndex())
}

func TestModel_SubmitSuccess(t *testing.T) {
	result, err := model.ParseAnalysisResult([]byte(`{"primary_emotion":"Joy"}`))
	require.NoError(t, err)
	store := handoff.New(handoff.NewMemoryKV())

	m := loaded(t, stubAnalysis{result: result}, store)
	m, _ = send(t, m, key("n"))

	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, model.SessionSubmitting, m.Controller().State())
	assert.Contains(t, m.View(), "Analyzing")

	m, _ = send(t, m, analysisMsg{result: result})
	assert.Equal(t, model.SessionDone, m.Controller().State())

	stored, err := store.Analysis(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"primary_emotion":"Joy"}`, string(stored))
}

func TestModel_SubmitFailureShowsError(t *testing.T) {
	m := loaded(t, stubAnalysis{}, nil)
	m, _ = send(t, m, key("n"))
	m, _ = send(t, m, key("s"))

	m, _ = send(t, m, analysisMsg{err: errors.New("timeout")})
	assert.Equal(t, model.SessionError, m.Controller().State())
	assert.Contains(t, m.View(), "failed to analyze answers: timeout")
	assert.Equal(t, 1, m.Controller().Session().Current)

	m, _ = send(t, m, key("left"))
	assert.Equal(t, model.SessionAnswering, m.Controller().State())
	assert.NoError(t, m.Err())
}

func TestModel_SubmitOnlyOnLast(t *testing.T) {
	m := loaded(t, stubAnalysis{}, nil)
	m, cmd := send(t, m, key("s"))
	assert.Nil(t, cmd)
	assert.Error(t, m.Err())
}

func TestModel_QuestionWithoutOptions(t *testing.T) {
	qs := []model.Question{
		{ID: 1, Type: model.QuestionTypeScene, Text: "Empty"},
		quizQuestions()[0],
	}
	m := New(context.Background(), stubSource{questions: qs}, stubAnalysis{}, nil)
	m, _ = send(t, m, questionsMsg{questions: qs})
	require.Equal(t, model.SessionAnswering, m.Controller().State())

	require.NotPanics(t, func() {
		m, _ = send(t, m, key("enter"))
		m, _ = send(t, m, key("1"))
		m, _ = send(t, m, key("down"))
		_ = m.View()
	})
	assert.Equal(t, 0, m.Controller().Session().Current)
	assert.Nil(t, m.Controller().Session().Answers[0])

	m, _ = send(t, m, key("n"))
	assert.Equal(t, 1, m.Controller().Session().Current)
}
