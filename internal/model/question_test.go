package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionID_PreservesJSONKind(t *testing.T) {
	var q Question
	raw := `{"id":7,"type":"scene","text":"Pick one","options":[{"id":"3b","text":"Walk"},{"id":4,"text":"4 — Calm"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &q))

	assert.Equal(t, StringID("3b"), q.Options[0].ID)
	assert.Equal(t, IntID(4), q.Options[1].ID)
	assert.False(t, q.Options[0].ID.IsNumber())
	assert.True(t, q.Options[1].ID.IsNumber())

	n, ok := q.Options[1].ID.Int()
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3b", q.Options[0].ID.String())
	assert.Equal(t, 1, q.IndexOf(IntID(4)))
	assert.Equal(t, -1, q.IndexOf(StringID("4")))

	out, err := json.Marshal(Submission{Answers: []*Answer{
		{QuestionID: 7, Answer: q.Options[0].ID},
		{QuestionID: 8, Answer: q.Options[1].ID},
		nil,
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answers":[{"question_id":7,"answer":"3b"},{"question_id":8,"answer":4},null]}`, string(out))
}

func TestOptionID_RejectsNonScalars(t *testing.T) {
	var id OptionID
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &id))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &id))
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.True(t, id.IsZero())
}

func TestOptionID_Value(t *testing.T) {
	assert.Equal(t, "a2", StringID("a2").Value())
	assert.Equal(t, 3, IntID(3).Value())
	assert.Nil(t, OptionID{}.Value())

	var f OptionID
	require.NoError(t, json.Unmarshal([]byte(`2.5`), &f))
	assert.Equal(t, 2.5, f.Value())
}

func TestSubmission_Complete(t *testing.T) {
	s := &Submission{Answers: []*Answer{{QuestionID: 1, Answer: IntID(1)}, nil}}
	assert.False(t, s.Complete())
	s.Answers[1] = &Answer{QuestionID: 2, Answer: StringID("x")}
	assert.True(t, s.Complete())

	archived := ArchiveAnswers(s)
	assert.Equal(t, []ArchivedAnswer{{QuestionID: 1, Answer: 1}, {QuestionID: 2, Answer: "x"}}, archived)
}
