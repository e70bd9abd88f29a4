package pad

// TopEmotion is a condensed score entry
type TopEmotion struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// EmotionScore is a full score entry without the geometry
type EmotionScore struct {
	EmotionName     string `json:"emotion_name"`
	PrevalenceScore int    `json:"prevalence_score"`
}

// Metadata describes how a report was produced
type Metadata struct {
	TotalQuestions      int             `json:"total_questions"`
	NormalizationMethod Method          `json:"normalization_method"`
	MaxDistance         float64         `json:"max_distance"`
	TriadMagnitude      float64         `json:"triad_magnitude"`
	Top3Emotions        [][]interface{} `json:"top_3_emotions"`
	AnalysisTimestamp   *string         `json:"analysis_timestamp"`
}

// Report is the analysis response body
type Report struct {
	PrimaryEmotion   string         `json:"primary_emotion"`
	SecondaryEmotion string         `json:"secondary_emotion"`
	CoreTriad        Triad          `json:"core_triad"`
	TopEmotions      []TopEmotion   `json:"top_emotions"`
	EmotionScores    []EmotionScore `json:"emotion_scores"`
	Metadata         Metadata       `json:"metadata"`
}

// NewReport condenses a result, keeping topN emotions in top_emotions
func NewReport(res *Result, topN int) *Report {
	if topN <= 0 || topN > len(res.Scores) {
		topN = len(res.Scores)
	}

	r := &Report{
		PrimaryEmotion:   res.PrimaryEmotion,
		SecondaryEmotion: res.SecondaryEmotion,
		CoreTriad:        res.Core,
		TopEmotions:      make([]TopEmotion, 0, topN),
		EmotionScores:    make([]EmotionScore, 0, len(res.Scores)),
		Metadata: Metadata{
			TotalQuestions:      res.Raw.NumQuestions,
			NormalizationMethod: res.Method,
			MaxDistance:         MaxDistance,
			TriadMagnitude:      res.Core.Magnitude(),
			Top3Emotions:        [][]interface{}{},
		},
	}

	for i, s := range res.Scores {
		if i < topN {
			r.TopEmotions = append(r.TopEmotions, TopEmotion{Name: s.EmotionName, Score: s.PrevalenceScore})
		}
		if i < 3 {
			r.Metadata.Top3Emotions = append(r.Metadata.Top3Emotions, []interface{}{s.EmotionName, s.PrevalenceScore})
		}
		r.EmotionScores = append(r.EmotionScores, EmotionScore{EmotionName: s.EmotionName, PrevalenceScore: s.PrevalenceScore})
	}
	return r
}
