package model

import (
	"encoding/json"
	"errors"
)

// AnalysisResult is the analysis service response, kept byte-for-byte.
// The questionnaire never interprets it; use Summary for display.
type AnalysisResult json.RawMessage

// ParseAnalysisResult validates and copies a raw response body
func ParseAnalysisResult(data []byte) (AnalysisResult, error) {
	if !json.Valid(data) {
		return nil, errors.New("analysis result is not valid JSON")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return AnalysisResult(out), nil
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// CoreTriad is the normalised pleasure/arousal/dominance position
type CoreTriad struct {
	Pleasure  float64 `json:"pleasure"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// TopEmotion is a condensed emotion entry
type TopEmotion struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// EmotionScore is a full emotion prevalence entry
type EmotionScore struct {
	EmotionName     string `json:"emotion_name"`
	PrevalenceScore int    `json:"prevalence_score"`
}

// AnalysisSummary is a read-only view of the fields the results pages show
type AnalysisSummary struct {
	PrimaryEmotion   string                 `json:"primary_emotion"`
	SecondaryEmotion string                 `json:"secondary_emotion"`
	CoreTriad        CoreTriad              `json:"core_triad"`
	TopEmotions      []TopEmotion           `json:"top_emotions"`
	EmotionScores    []EmotionScore         `json:"emotion_scores,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// Summary decodes the display fields
func (r AnalysisResult) Summary() (*AnalysisSummary, error) {
	var s AnalysisSummary
	if err := json.Unmarshal(r, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Document decodes the result into a generic map for archiving
func (r AnalysisResult) Document() (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(r, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
