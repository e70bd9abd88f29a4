package config

// NormalizationMethod selects how raw PAD sums are scaled to [-1, 1]
type NormalizationMethod string

const (
	NormalizeQuestionBased    NormalizationMethod = "question_based"
	NormalizeTheoreticalRange NormalizationMethod = "theoretical_range"
)

// AnalyzerConfig holds the reference analysis backend settings
type AnalyzerConfig struct {
	HTTPPort      string
	LikertFile    string
	SceneFile     string
	SampleSize    int
	Normalization NormalizationMethod
	TopEmotions   int
	LogLevel      string
}

// LoadAnalyzer reads the analyzer configuration from the environment
func LoadAnalyzer() *AnalyzerConfig {
	return &AnalyzerConfig{
		HTTPPort:      getEnv("ANALYZER_PORT", "8000"),
		LikertFile:    getEnv("QUESTION_LIKERT_FILE", "data/question_likert.yaml"),
		SceneFile:     getEnv("QUESTION_SCENE_FILE", "data/question_scene.yaml"),
		SampleSize:    getEnvInt("QUESTION_SAMPLE_SIZE", 10),
		Normalization: NormalizationMethod(getEnv("PAD_NORMALIZATION", string(NormalizeQuestionBased))),
		TopEmotions:   getEnvInt("PAD_TOP_EMOTIONS", 6),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// ClientConfig holds the terminal client settings
type ClientConfig struct {
	APIURL          string
	StorePath       string // empty means the default local store
	SliderThreshold int
}

// LoadClient reads the terminal client configuration from the environment
func LoadClient() *ClientConfig {
	return &ClientConfig{
		APIURL:          getEnv("QUIZ_API_URL", "http://localhost:3000/api"),
		StorePath:       getEnv("QUIZ_STORE", ""),
		SliderThreshold: getEnvInt("QUIZ_SLIDER_THRESHOLD", 5),
	}
}
