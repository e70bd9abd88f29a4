// Package questionbank holds the likert and scene questionnaires the
// reference analyzer serves, and maps answers back to PAD deltas.
package questionbank

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"heartquiz/internal/model"
	"heartquiz/internal/pad"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when the bank has no questions to serve
var ErrEmpty = errors.New("no questions available")

// LikertMapping is one score of a likert question
type LikertMapping struct {
	Score   int     `yaml:"score" json:"score"`
	Emotion string  `yaml:"emotion" json:"emotion"`
	DP      float64 `yaml:"dP" json:"dP"`
	DA      float64 `yaml:"dA" json:"dA"`
	DD      float64 `yaml:"dD" json:"dD"`
}

// LikertQuestion is an agreement-scale question
type LikertQuestion struct {
	ID      int             `yaml:"id" json:"id"`
	Text    string          `yaml:"text" json:"text"`
	Mapping []LikertMapping `yaml:"mapping" json:"mapping"`
}

// SceneOption is one choice of a scene question. ID may be a string or a number.
type SceneOption struct {
	ID   interface{} `yaml:"id" json:"id"`
	Text string      `yaml:"text" json:"text"`
	DP   float64     `yaml:"dP" json:"dP"`
	DA   float64     `yaml:"dA" json:"dA"`
	DD   float64     `yaml:"dD" json:"dD"`
}

// SceneQuestion is a scenario question
type SceneQuestion struct {
	ID      int           `yaml:"id" json:"id"`
	Text    string        `yaml:"text" json:"text"`
	Options []SceneOption `yaml:"options" json:"options"`
}

type likertFile struct {
	Questionnaire []LikertQuestion `yaml:"questionnaire"`
}

type sceneFile struct {
	Questionnaire []SceneQuestion `yaml:"questionnaire"`
}

type sceneChoice struct {
	id  model.OptionID
	opt SceneOption
}

// Bank is an immutable set of questions
type Bank struct {
	likert       []LikertQuestion
	scene        []SceneQuestion
	likertByID   map[int]*LikertQuestion
	sceneByID    map[int][]sceneChoice
	standardized []model.Question
}

// LoadFiles reads both questionnaires. The files are YAML; JSON works too.
func LoadFiles(likertPath, scenePath string) (*Bank, error) {
	var lf likertFile
	if err := readFile(likertPath, &lf); err != nil {
		return nil, err
	}
	var sf sceneFile
	if err := readFile(scenePath, &sf); err != nil {
		return nil, err
	}
	return New(lf.Questionnaire, sf.Questionnaire)
}

func readFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// New builds a bank from parsed questionnaires
func New(likert []LikertQuestion, scene []SceneQuestion) (*Bank, error) {
	b := &Bank{
		likert:     likert,
		scene:      scene,
		likertByID: make(map[int]*LikertQuestion, len(likert)),
		sceneByID:  make(map[int][]sceneChoice, len(scene)),
	}

	for i := range likert {
		q := &likert[i]
		b.likertByID[q.ID] = q

		opts := make([]model.Option, len(q.Mapping))
		for j, m := range q.Mapping {
			opts[j] = model.Option{
				ID:   model.IntID(m.Score),
				Text: fmt.Sprintf("%d — %s", m.Score, m.Emotion),
			}
		}
		b.standardized = append(b.standardized, model.Question{
			ID: q.ID, Type: model.QuestionTypeLikert, Text: q.Text, Options: opts,
		})
	}

	for _, q := range scene {
		choices := make([]sceneChoice, len(q.Options))
		opts := make([]model.Option, len(q.Options))
		for j, o := range q.Options {
			id, err := optionID(o.ID)
			if err != nil {
				return nil, fmt.Errorf("scene question %d option %d: %w", q.ID, j, err)
			}
			choices[j] = sceneChoice{id: id, opt: o}
			opts[j] = model.Option{ID: id, Text: o.Text}
		}
		b.sceneByID[q.ID] = choices
		b.standardized = append(b.standardized, model.Question{
			ID: q.ID, Type: model.QuestionTypeScene, Text: q.Text, Options: opts,
		})
	}
	return b, nil
}

// optionID converts a decoded YAML scalar into an option id
func optionID(v interface{}) (model.OptionID, error) {
	var id model.OptionID
	if v == nil {
		return id, errors.New("option id is required")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return id, err
	}
	err = id.UnmarshalJSON(data)
	return id, err
}

// Len returns the number of questions
func (b *Bank) Len() int {
	return len(b.standardized)
}

// Questions returns every question, likert first
func (b *Bank) Questions() []model.Question {
	return append([]model.Question(nil), b.standardized...)
}

// Sample returns up to n questions in random order
func (b *Bank) Sample(n int) ([]model.Question, error) {
	if len(b.standardized) == 0 {
		return nil, ErrEmpty
	}
	if n <= 0 || n > len(b.standardized) {
		n = len(b.standardized)
	}
	out := b.Questions()
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:n], nil
}

// Deltas maps each answer to its PAD delta. An answer with no value or an
// unmapped value counts as a zero delta. A null slot carries no question id
// and is skipped, so it does not widen the normalisation range.
func (b *Bank) Deltas(answers []*model.Answer) []pad.Delta {
	deltas := make([]pad.Delta, 0, len(answers))
	for _, a := range answers {
		if a == nil {
			continue
		}
		d := pad.Delta{QuestionID: strconv.Itoa(a.QuestionID)}
		if t, ok := b.lookup(a); ok {
			d.Triad = t
		}
		deltas = append(deltas, d)
	}
	return deltas
}

func (b *Bank) lookup(a *model.Answer) (pad.Triad, bool) {
	if a.Answer.IsZero() {
		return pad.Triad{}, false
	}

	if q, ok := b.likertByID[a.QuestionID]; ok {
		if score, ok := scoreOf(a.Answer); ok {
			for _, m := range q.Mapping {
				if m.Score == score {
					return pad.Triad{Pleasure: m.DP, Arousal: m.DA, Dominance: m.DD}, true
				}
			}
		}
	}

	for _, c := range b.sceneByID[a.QuestionID] {
		if sceneMatch(c, a.Answer) {
			return pad.Triad{Pleasure: c.opt.DP, Arousal: c.opt.DA, Dominance: c.opt.DD}, true
		}
	}
	return pad.Triad{}, false
}

// scoreOf reads a likert answer as an integer score. Numbers are truncated;
// strings must hold an integer.
func scoreOf(id model.OptionID) (int, bool) {
	if id.IsNumber() {
		f, err := strconv.ParseFloat(id.String(), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	n, err := strconv.Atoi(strings.TrimSpace(id.String()))
	return n, err == nil
}

// sceneMatch compares an answer to a scene option by id, by the answer's
// string form against a string id, or by option text.
func sceneMatch(c sceneChoice, answer model.OptionID) bool {
	if c.id == answer {
		return true
	}
	if c.id.IsNumber() && answer.IsNumber() {
		x, errx := strconv.ParseFloat(c.id.String(), 64)
		y, erry := strconv.ParseFloat(answer.String(), 64)
		return errx == nil && erry == nil && x == y
	}
	if !c.id.IsNumber() && c.id.String() == answer.String() {
		return true
	}
	return !answer.IsNumber() && c.opt.Text == answer.String()
}
