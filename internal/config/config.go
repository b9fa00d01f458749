package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	VoiceAPI   VoiceAPIConfig   `yaml:"voice_api"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	SyncQueue  SyncQueueConfig  `yaml:"sync_queue"`
	LogLevel   string           `yaml:"log_level"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
	// FetchLimit caps how many recent calls each source contributes to a
	// dashboard computation.
	FetchLimit int `yaml:"fetch_limit"`
}

type VoiceAPIConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Mock    bool          `yaml:"mock"`
	Timeout time.Duration `yaml:"timeout"`
}

// ExtractionConfig carries the trust constants and the transcript pattern
// set. Patterns are ordered; the first match per field wins.
type ExtractionConfig struct {
	FunctionCallConfidence float64        `yaml:"function_call_confidence"`
	TranscriptConfidence   float64        `yaml:"transcript_confidence"`
	Patterns               []FieldPattern `yaml:"patterns"`
}

type FieldPattern struct {
	Field   string `yaml:"field"`
	Pattern string `yaml:"pattern"`
}

// ScoringConfig holds the factor weights for the lead scoring engine.
type ScoringConfig struct {
	ContactWeight       int `yaml:"contact_weight"`
	IntentWeight        int `yaml:"intent_weight"`
	EngagementWeight    int `yaml:"engagement_weight"`
	QualificationWeight int `yaml:"qualification_weight"`
	UrgencyWeight       int `yaml:"urgency_weight"`
}

type SyncQueueConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	MaxAttempts   int           `yaml:"max_attempts"`
	DrainInterval time.Duration `yaml:"drain_interval"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Storage: StorageConfig{
			DBPath:     "data/voice-leads.db",
			FetchLimit: 100,
		},
		VoiceAPI: VoiceAPIConfig{
			BaseURL: "https://api.vapi.ai",
			Timeout: 15 * time.Second,
		},
		Extraction: ExtractionConfig{
			FunctionCallConfidence: 0.95,
			TranscriptConfidence:   0.75,
		},
		Scoring: ScoringConfig{
			ContactWeight:       25,
			IntentWeight:        30,
			EngagementWeight:    20,
			QualificationWeight: 15,
			UrgencyWeight:       10,
		},
		SyncQueue: SyncQueueConfig{
			BatchSize:     10,
			MaxAttempts:   3,
			DrainInterval: time.Minute,
		},
		LogLevel: "info",
	}

	// Load from YAML if present
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// Override from environment
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("VOICE_API_URL"); v != "" {
		cfg.VoiceAPI.BaseURL = v
	}
	if v := os.Getenv("VOICE_API_KEY"); v != "" {
		cfg.VoiceAPI.APIKey = v
	}
	if os.Getenv("VOICE_MOCK") == "true" {
		cfg.VoiceAPI.Mock = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
