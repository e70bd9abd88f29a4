package questionbank

import (
	"os"
	"path/filepath"
	"testing"

	"heartquiz/internal/model"
	"heartquiz/internal/pad"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const likertYAML = `
questionnaire:
  - id: 21
    text: I enjoy surprises
    mapping:
      - {score: 1, emotion: Fear, dP: -0.3, dA: 0.4, dD: -0.3}
      - {score: 4, emotion: Joy, dP: 0.4, dA: 0.5, dD: 0.3}
`

// JSON is valid YAML, so the original JSON files load too
const sceneJSON = `{"questionnaire": [
  {"id": 3, "text": "Rainy day", "options": [
    {"id": "3a", "text": "Stay in", "dP": 0.2, "dA": -0.3, "dD": 0.1},
    {"id": "3b", "text": "Go for a walk", "dP": 0.3, "dA": 0.2, "dD": 0.2}
  ]},
  {"id": 8, "text": "Numbered", "options": [
    {"id": 1, "text": "One", "dP": 0.1, "dA": 0.1, "dD": 0.1},
    {"id": "2", "text": "Two", "dP": -0.1, "dA": -0.1, "dD": -0.1}
  ]}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadBank(t *testing.T) *Bank {
	t.Helper()
	b, err := LoadFiles(writeFile(t, "likert.yaml", likertYAML), writeFile(t, "scene.json", sceneJSON))
	require.NoError(t, err)
	return b
}

func TestLoadFiles_Standardizes(t *testing.T) {
	b := loadBank(t)
	qs := b.Questions()
	require.Len(t, qs, 3)

	assert.Equal(t, model.Question{
		ID:   21,
		Type: model.QuestionTypeLikert,
		Text: "I enjoy surprises",
		Options: []model.Option{
			{ID: model.IntID(1), Text: "1 — Fear"},
			{ID: model.IntID(4), Text: "4 — Joy"},
		},
	}, qs[0])

	assert.Equal(t, model.QuestionTypeScene, qs[1].Type)
	assert.Equal(t, model.StringID("3b"), qs[1].Options[1].ID)
	assert.Equal(t, model.IntID(1), qs[2].Options[0].ID)
	assert.Equal(t, model.StringID("2"), qs[2].Options[1].ID)
}

func TestLoadFiles_Missing(t *testing.T) {
	_, err := LoadFiles(filepath.Join(t.TempDir(), "nope.yaml"), "nope.yaml")
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	b := loadBank(t)

	qs, err := b.Sample(2)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
	assert.NotEqual(t, qs[0].ID, qs[1].ID)

	qs, err = b.Sample(10)
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	empty, err := New(nil, nil)
	require.NoError(t, err)
	_, err = empty.Sample(10)
	assert.ErrorIs(t, err, ErrEmpty)
}

func triad(p, a, d float64) pad.Triad {
	return pad.Triad{Pleasure: p, Arousal: a, Dominance: d}
}

func TestDeltas(t *testing.T) {
	b := loadBank(t)

	tests := []struct {
		name   string
		answer *model.Answer
		want   pad.Triad
	}{
		{"likert by number", &model.Answer{QuestionID: 21, Answer: model.IntID(4)}, triad(0.4, 0.5, 0.3)},
		{"likert by numeric string", &model.Answer{QuestionID: 21, Answer: model.StringID("1")}, triad(-0.3, 0.4, -0.3)},
		{"likert unknown score", &model.Answer{QuestionID: 21, Answer: model.IntID(3)}, pad.Triad{}},
		{"scene by id", &model.Answer{QuestionID: 3, Answer: model.StringID("3a")}, triad(0.2, -0.3, 0.1)},
		{"scene by text", &model.Answer{QuestionID: 3, Answer: model.StringID("Go for a walk")}, triad(0.3, 0.2, 0.2)},
		{"scene numeric id", &model.Answer{QuestionID: 8, Answer: model.IntID(1)}, triad(0.1, 0.1, 0.1)},
		{"scene number matches string id", &model.Answer{QuestionID: 8, Answer: model.IntID(2)}, triad(-0.1, -0.1, -0.1)},
		{"scene string does not match numeric id", &model.Answer{QuestionID: 8, Answer: model.StringID("1")}, pad.Triad{}},
		{"unanswered", &model.Answer{QuestionID: 3}, pad.Triad{}},
		{"unknown question", &model.Answer{QuestionID: 99, Answer: model.StringID("x")}, pad.Triad{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas := b.Deltas([]*model.Answer{tt.answer})
			require.Len(t, deltas, 1)
			assert.Equal(t, tt.want, deltas[0].Triad)
		})
	}
}

func TestDeltas_SkipsNullSlots(t *testing.T) {
	b := loadBank(t)

	deltas := b.Deltas([]*model.Answer{nil, {QuestionID: 21, Answer: model.IntID(4)}, nil})
	require.Len(t, deltas, 1)
	assert.Equal(t, "21", deltas[0].QuestionID)
	assert.Empty(t, b.Deltas([]*model.Answer{nil, nil}))
}

func TestDataFiles(t *testing.T) {
	b, err := LoadFiles("../../data/question_likert.yaml", "../../data/question_scene.yaml")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.Len(), 10)

	for _, q := range b.Questions() {
		assert.NotEmpty(t, q.Options, "question %d", q.ID)
	}
}
