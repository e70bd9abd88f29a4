// Package pad scores a set of answer deltas in pleasure/arousal/dominance
// space against a fixed table of emotions.
package pad

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
)

// ErrNoDeltas is returned when there is nothing to analyse
var ErrNoDeltas = errors.New("input deltas cannot be empty")

// Method selects how raw sums are scaled to [-1, 1]
type Method string

const (
	QuestionBased    Method = "question_based"
	TheoreticalRange Method = "theoretical_range"
)

const (
	// perQuestionRange is how far one question may move a dimension under QuestionBased
	perQuestionRange = 0.5
	// theoreticalRange bounds raw sums under TheoreticalRange
	theoreticalRange = 20.0
)

// MaxDistance is the diagonal of the [-1, 1] cube
var MaxDistance = math.Sqrt(8)

// Triad is a point in PAD space
type Triad struct {
	Pleasure  float64 `json:"pleasure"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// Magnitude is the length of the triad vector
func (t Triad) Magnitude() float64 {
	return math.Sqrt(t.Pleasure*t.Pleasure + t.Arousal*t.Arousal + t.Dominance*t.Dominance)
}

// Distance is the Euclidean distance between two triads
func (t Triad) Distance(o Triad) float64 {
	dp, da, dd := t.Pleasure-o.Pleasure, t.Arousal-o.Arousal, t.Dominance-o.Dominance
	return math.Sqrt(dp*dp + da*da + dd*dd)
}

// Delta is the contribution of one answered question
type Delta struct {
	Triad
	QuestionID string
}

// Emotion is a named reference point
type Emotion struct {
	Name        string
	Coordinates Triad
}

// Emotions is the reference table, in tie-break order
var Emotions = []Emotion{
	{"Anger", Triad{-0.7, 0.8, 0.6}},
	{"Happy", Triad{0.9, 0.6, 0.7}},
	{"Joy", Triad{0.9, 0.8, 0.9}},
	{"Empathy", Triad{0.7, 0.4, 0.3}},
	{"Trust", Triad{0.8, 0.3, 0.5}},
	{"Grief_Loss", Triad{-0.8, -0.6, -0.7}},
	{"Sadness", Triad{-0.6, -0.4, -0.5}},
	{"Regret_Guilt", Triad{-0.6, -0.2, -0.5}},
	{"Anxiety", Triad{-0.4, 0.7, -0.6}},
	{"Fear", Triad{-0.5, 0.8, -0.7}},
	{"Greed", Triad{-0.3, 0.6, 0.8}},
	{"Patience_Calm", Triad{0.6, -0.4, 0.4}},
	{"Serenity", Triad{0.7, -0.7, 0.2}},
	{"Excitement", Triad{0.8, 0.9, 0.6}},
	{"Contempt", Triad{-0.2, 0.3, 0.9}},
	{"Disgust", Triad{-0.8, 0.2, 0.4}},
}

// Score is the prevalence of one emotion for a triad
type Score struct {
	EmotionName     string  `json:"emotion_name"`
	PrevalenceScore int     `json:"prevalence_score"`
	Distance        float64 `json:"euclidean_distance"`
	Coordinates     Triad   `json:"emotion_coordinates"`
}

// RawScores are the summed deltas
type RawScores struct {
	Triad
	NumQuestions int `json:"num_questions"`
}

// Result is a complete analysis
type Result struct {
	Raw              RawScores
	Core             Triad
	Range            [2]float64
	Scores           []Score
	PrimaryEmotion   string
	SecondaryEmotion string
	Method           Method
}

// Engine runs the analysis pipeline
type Engine struct {
	method Method
	logger *zap.Logger
}

// NewEngine creates an engine. An unknown method is an error.
func NewEngine(method Method, logger *zap.Logger) (*Engine, error) {
	switch method {
	case "":
		method = QuestionBased
	case QuestionBased, TheoreticalRange:
	default:
		return nil, fmt.Errorf("unsupported normalization method: %q", method)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{method: method, logger: logger.Named("pad")}, nil
}

// Method returns the normalization in use
func (e *Engine) Method() Method {
	return e.method
}

// Analyze sums deltas, normalizes them and ranks every emotion by proximity
func (e *Engine) Analyze(deltas []Delta) (*Result, error) {
	if len(deltas) == 0 {
		return nil, ErrNoDeltas
	}

	raw := Sum(deltas)
	core, bounds := e.Normalize(raw)
	scores := Rank(core)

	res := &Result{
		Raw:            raw,
		Core:           core,
		Range:          bounds,
		Scores:         scores,
		PrimaryEmotion: scores[0].EmotionName,
		Method:         e.method,
	}
	res.SecondaryEmotion = "None"
	if len(scores) > 1 {
		res.SecondaryEmotion = scores[1].EmotionName
	}

	e.logger.Debug("analysis complete",
		zap.Int("questions", raw.NumQuestions),
		zap.Float64("pleasure", core.Pleasure),
		zap.Float64("arousal", core.Arousal),
		zap.Float64("dominance", core.Dominance),
		zap.String("primary", res.PrimaryEmotion))
	return res, nil
}

// Sum adds up the deltas
func Sum(deltas []Delta) RawScores {
	var raw RawScores
	for _, d := range deltas {
		raw.Pleasure += d.Pleasure
		raw.Arousal += d.Arousal
		raw.Dominance += d.Dominance
	}
	raw.NumQuestions = len(deltas)
	return raw
}

// Normalize scales raw sums into [-1, 1] and returns the range used
func (e *Engine) Normalize(raw RawScores) (Triad, [2]float64) {
	var hi float64
	var scale func(float64) float64

	switch e.method {
	case TheoreticalRange:
		hi = theoreticalRange
		scale = func(v float64) float64 {
			return clamp(v, -hi, hi) / hi
		}
	default:
		hi = float64(raw.NumQuestions) * perQuestionRange
		lo := -hi
		scale = func(v float64) float64 {
			if hi == lo {
				return 0
			}
			v = clamp(v, lo, hi)
			return (v-lo)/(hi-lo)*2 - 1
		}
	}

	return Triad{
		Pleasure:  scale(raw.Pleasure),
		Arousal:   scale(raw.Arousal),
		Dominance: scale(raw.Dominance),
	}, [2]float64{-hi, hi}
}

// Rank scores every emotion against core, highest prevalence first. Ties
// keep table order.
func Rank(core Triad) []Score {
	scores := make([]Score, len(Emotions))
	for i, em := range Emotions {
		d := core.Distance(em.Coordinates)
		scores[i] = Score{
			EmotionName:     em.Name,
			PrevalenceScore: Prevalence(d),
			Distance:        d,
			Coordinates:     em.Coordinates,
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].PrevalenceScore > scores[j].PrevalenceScore
	})
	return scores
}

// Prevalence maps a distance to a 0..100 score, rounding half to even
func Prevalence(distance float64) int {
	p := int(math.RoundToEven((1 - distance/MaxDistance) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
