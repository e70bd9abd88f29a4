// Package tui renders a questionnaire in the terminal: option buttons for
// short questions, a slider for long ones.
package tui

import (
	"context"
	"fmt"
	"strings"

	"heartquiz/internal/handoff"
	"heartquiz/internal/model"
	"heartquiz/internal/questionnaire"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	trackWidth  = 40
	trackIndent = 2 // columns before the slider track
)

type questionsMsg struct {
	questions []model.Question
	err       error
}

type analysisMsg struct {
	result model.AnalysisResult
	err    error
}

// fetched replays a completed fetch into Controller.Load
type fetched questionsMsg

func (f fetched) Questions(context.Context) ([]model.Question, error) {
	return f.questions, f.err
}

// Model is the bubbletea model of a questionnaire run. The controller is
// only touched from Update; network calls run in commands.
type Model struct {
	ctx      context.Context
	ctrl     *questionnaire.Controller
	source   questionnaire.QuestionSource
	analysis questionnaire.AnalysisService
	store    *handoff.Store
	spinner  spinner.Model
	styles   Styles

	focus    int // highlighted option on button questions
	lastSeen int
	err      error
	quitting bool
}

// New creates the model. store may be nil.
func New(ctx context.Context, source questionnaire.QuestionSource, analysis questionnaire.AnalysisService, store *handoff.Store, opts ...questionnaire.Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles().Handle
	return Model{
		ctx:      ctx,
		ctrl:     questionnaire.New(opts...),
		source:   source,
		analysis: analysis,
		store:    store,
		spinner:  sp,
		styles:   DefaultStyles(),
		lastSeen: -1,
	}
}

// Controller exposes the questionnaire state
func (m Model) Controller() *questionnaire.Controller {
	return m.ctrl
}

// Err returns the last error shown to the user
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchQuestions())
}

func (m Model) fetchQuestions() tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		qs, err := source.Questions(ctx)
		return questionsMsg{questions: qs, err: err}
	}
}

func (m Model) analyze(sub *model.Submission) tea.Cmd {
	analysis, ctx := m.analysis, m.ctx
	return func() tea.Msg {
		result, err := analysis.Analyze(ctx, sub)
		return analysisMsg{result: result, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		if err := m.ctrl.Load(m.ctx, fetched(msg)); err != nil {
			m.err = err
			return m, nil
		}
		m.err = m.ctrl.Start()
		m.syncFocus()
		return m, nil

	case analysisMsg:
		if msg.err != nil {
			m.ctrl.FailSubmit(msg.err)
			m.err = fmt.Errorf("failed to analyze answers: %w", msg.err)
			return m, nil
		}
		if err := m.ctrl.CompleteSubmit(m.ctx, msg.result, m.store); err != nil {
			m.err = err
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" || key == "esc" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.ctrl.State() {
	case model.SessionAnswering, model.SessionError:
	case model.SessionDone, model.SessionIdle:
		if key == "enter" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}

	q, ok := m.ctrl.Current()
	if !ok {
		return m, nil
	}
	slider := m.ctrl.IsSlider(q)

	var err error
	switch key {
	case "n", "tab":
		err = m.ctrl.Next()
	case "p", "shift+tab":
		err = m.ctrl.Previous()
	case "s":
		return m.submit()
	case "left", "h":
		if slider {
			err = m.moveSlider(-1)
		} else {
			err = m.ctrl.Previous()
		}
	case "right", "l":
		if slider {
			err = m.moveSlider(1)
		} else {
			err = m.ctrl.Next()
		}
	case "up", "k":
		if !slider && m.focus > 0 {
			m.focus--
		}
	case "down", "j":
		if !slider && m.focus < len(q.Options)-1 {
			m.focus++
		}
	case "enter", " ":
		switch {
		case slider && m.ctrl.IsLast():
			return m.submit()
		case slider:
			err = m.ctrl.Next()
		case m.focus < len(q.Options):
			err = m.ctrl.Select(q.Options[m.focus].ID)
		}
	default:
		if n := digit(key); n > 0 && !slider && n <= len(q.Options) {
			m.focus = n - 1
			err = m.ctrl.Select(q.Options[n-1].ID)
		}
	}

	m.err = err
	m.syncFocus()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	q, ok := m.ctrl.Current()
	if !ok || !m.ctrl.IsSlider(q) {
		return m, nil
	}
	idx := questionnaire.SliderIndexAt(float64(msg.X-trackIndent), trackWidth-1, len(q.Options))
	m.err = m.ctrl.SetSlider(idx)
	return m, nil
}

func (m Model) moveSlider(delta int) error {
	q, _ := m.ctrl.Current()
	idx := m.ctrl.SliderIndex() + delta
	if idx < 0 || idx >= len(q.Options) {
		return nil
	}
	return m.ctrl.SetSlider(idx)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, err := m.ctrl.BeginSubmit()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.analyze(sub))
}

// syncFocus moves the button highlight to the recorded answer whenever the
// cursor lands on a new question
func (m *Model) syncFocus() {
	cur := m.ctrl.Session().Current
	if cur == m.lastSeen {
		return
	}
	m.lastSeen = cur
	m.focus = 0
	q, ok := m.ctrl.Current()
	if !ok {
		return
	}
	if a := m.ctrl.Session().Answers[cur]; a != nil {
		if i := q.IndexOf(a.Answer); i >= 0 {
			m.focus = i
		}
	}
}

func digit(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '0')
	}
	return 0
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Compatibility Quiz"))
	b.WriteString("\n\n")

	switch m.ctrl.State() {
	case model.SessionLoading:
		if m.err != nil {
			b.WriteString(m.styles.Error.Render("Failed to fetch questions: " + m.err.Error()))
			b.WriteString(m.styles.Help.Render("\nq quit"))
			return b.String()
		}
		b.WriteString(m.spinner.View() + " Loading questions...")
		return b.String()
	case model.SessionIdle:
		b.WriteString("No questions available.")
		b.WriteString(m.styles.Help.Render("\nq quit"))
		return b.String()
	case model.SessionSubmitting:
		b.WriteString(m.spinner.View() + " Analyzing your answers...")
		return b.String()
	case model.SessionDone:
		b.WriteString(m.styles.Success.Render("Your answers have been analyzed."))
		b.WriteString("\n")
		b.WriteString("Run `quiz results` to see them.")
		b.WriteString(m.styles.Help.Render("\nenter quit"))
		return b.String()
	}

	q, _ := m.ctrl.Current()
	b.WriteString(m.styles.Progress.Render(fmt.Sprintf("Question %d of %d", m.ctrl.Session().Current+1, m.ctrl.Len())))
	b.WriteString("\n")
	b.WriteString(m.styles.Question.Render(q.Text))
	b.WriteString("\n")

	if m.ctrl.IsSlider(q) {
		b.WriteString(m.renderSlider(q))
	} else {
		b.WriteString(m.renderButtons(q))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err.Error()))
	}

	b.WriteString(m.styles.Help.Render(m.help(q)))
	return b.String()
}

func (m Model) renderButtons(q *model.Question) string {
	var chosen model.OptionID
	if a := m.ctrl.Session().Answers[m.ctrl.Session().Current]; a != nil {
		chosen = a.Answer
	}

	var b strings.Builder
	for i, opt := range q.Options {
		label := fmt.Sprintf("%d. %s", i+1, opt.Text)
		switch {
		case i == m.focus:
			b.WriteString(m.styles.Focused.Render("> " + label))
		case opt.ID == chosen:
			b.WriteString(m.styles.Chosen.Render("* " + label))
		default:
			b.WriteString(m.styles.Option.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderSlider(q *model.Question) string {
	idx := m.ctrl.SliderIndex()
	pos := int(questionnaire.SliderPosition(idx, trackWidth-1, len(q.Options)) + 0.5)

	track := []rune(strings.Repeat("─", trackWidth))
	left := string(track[:pos])
	right := string(track[pos+1:])

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", trackIndent))
	b.WriteString(m.styles.Track.Render(left))
	b.WriteString(m.styles.Handle.Render("●"))
	b.WriteString(m.styles.Track.Render(right))
	b.WriteString("\n")
	b.WriteString(m.styles.Focused.Render(q.Options[idx].Text))
	b.WriteString("\n")
	return b.String()
}

func (m Model) help(q *model.Question) string {
	parts := []string{}
	if m.ctrl.IsSlider(q) {
		parts = append(parts, "←/→ adjust")
		if m.ctrl.IsLast() {
			parts = append(parts, "enter submit")
		} else {
			parts = append(parts, "enter next")
		}
	} else {
		parts = append(parts, "↑/↓ move", "enter/1-9 choose")
	}
	parts = append(parts, "n/p next/prev")
	if m.ctrl.IsLast() {
		parts = append(parts, "s submit")
	}
	parts = append(parts, "q quit")
	return "\n" + strings.Join(parts, " • ")
}
