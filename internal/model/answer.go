package model

import "time"

// Answer records the option chosen for one question
type Answer struct {
	QuestionID int      `json:"question_id"`
	Answer     OptionID `json:"answer"`
}

// Submission is the payload sent to the analysis service. Unanswered slots
// are nil and encode as null.
type Submission struct {
	Answers []*Answer `json:"answers"`
}

// Complete reports whether every slot holds an answer
func (s *Submission) Complete() bool {
	for _, a := range s.Answers {
		if a == nil || a.Answer.IsZero() {
			return false
		}
	}
	return true
}

// ArchivedAnswer is the Mongo form of an answer
type ArchivedAnswer struct {
	QuestionID int         `json:"questionId" bson:"questionId"`
	Answer     interface{} `json:"answer" bson:"answer"`
}

// SubmissionRecord is a completed questionnaire kept for later review
type SubmissionRecord struct {
	ID          string                 `json:"id" bson:"_id,omitempty"`
	SessionID   string                 `json:"sessionId" bson:"sessionId"`
	Answers     []ArchivedAnswer       `json:"answers" bson:"answers"`
	Result      map[string]interface{} `json:"result" bson:"result"`
	Profile     *Profile               `json:"profile,omitempty" bson:"profile,omitempty"`
	SubmittedAt time.Time              `json:"submittedAt" bson:"submittedAt"`
}

// ArchiveAnswers converts a submission into its Mongo form
func ArchiveAnswers(s *Submission) []ArchivedAnswer {
	out := make([]ArchivedAnswer, len(s.Answers))
	for i, a := range s.Answers {
		if a == nil {
			continue
		}
		out[i] = ArchivedAnswer{QuestionID: a.QuestionID, Answer: a.Answer.Value()}
	}
	return out
}
