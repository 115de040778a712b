package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed greetings.yaml
var greetingsYAML []byte

type Config struct {
	Recognition RecognitionConfig
	Database    DatabaseConfig
	Descriptor  DescriptorConfig
	Greeter     GreeterConfig
	Greetings   GreetingsConfig
}

type RecognitionConfig struct {
	EmbeddingDim   int     // length of face descriptors (default 128)
	MinSamples     int     // minimum valid samples per enrollment (default 3)
	MatchThreshold float64 // default maximum L2 distance for a match (default 0.6)
}

type DatabaseConfig struct {
	URL           string // PostgreSQL connection URL
	MaxOpenConns  int    // Maximum open connections (default 25)
	MaxIdleConns  int    // Maximum idle connections (default 5)
	HNSWIndexPath string // Path to persist the profile HNSW index (optional, rebuilt on startup if empty)
}

type DescriptorConfig struct {
	URL          string // face descriptor service base URL (defaults to http://localhost:8000)
	MaxFrameSize int    // maximum frame dimension before upload (default 1280)
}

type GreeterConfig struct {
	Provider    string // "template" (default), "openai" or "gemini"
	OpenAIToken string
	GeminiKey   string
}

// GreetingsConfig holds the time-of-day greeting templates embedded in the binary.
type GreetingsConfig struct {
	Morning   []string `yaml:"morning"`
	Afternoon []string `yaml:"afternoon"`
	Evening   []string `yaml:"evening"`
	Unknown   []string `yaml:"unknown"` // shown when nobody was recognized
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

func Load() *Config {
	var greetings GreetingsConfig
	if err := yaml.Unmarshal(greetingsYAML, &greetings); err != nil {
		// Embedded file, so this cannot fail on a correct build.
		panic("failed to unmarshal embedded greetings.yaml: " + err.Error())
	}

	return &Config{
		Recognition: RecognitionConfig{
			EmbeddingDim:   envInt("EMBEDDING_DIM", 128),
			MinSamples:     envInt("MIN_ENROLLMENT_SAMPLES", 3),
			MatchThreshold: envFloat("MATCH_THRESHOLD", 0.6),
		},
		Database: DatabaseConfig{
			URL:           os.Getenv("DATABASE_URL"),
			MaxOpenConns:  envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  envInt("DATABASE_MAX_IDLE_CONNS", 5),
			HNSWIndexPath: os.Getenv("HNSW_INDEX_PATH"),
		},
		Descriptor: DescriptorConfig{
			URL:          os.Getenv("DESCRIPTOR_URL"),
			MaxFrameSize: envInt("DESCRIPTOR_MAX_FRAME_SIZE", 1280),
		},
		Greeter: GreeterConfig{
			Provider:    os.Getenv("GREETER_PROVIDER"),
			OpenAIToken: os.Getenv("OPENAI_TOKEN"),
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		},
		Greetings: greetings,
	}
}
