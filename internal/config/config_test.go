package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Extraction.FunctionCallConfidence != 0.95 || cfg.Extraction.TranscriptConfidence != 0.75 {
		t.Errorf("confidence defaults = %+v", cfg.Extraction)
	}
	total := cfg.Scoring.ContactWeight + cfg.Scoring.IntentWeight + cfg.Scoring.EngagementWeight +
		cfg.Scoring.QualificationWeight + cfg.Scoring.UrgencyWeight
	if total != 100 {
		t.Errorf("default weights sum = %d, want 100", total)
	}
	if cfg.SyncQueue.MaxAttempts != 3 {
		t.Errorf("max attempts = %d", cfg.SyncQueue.MaxAttempts)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: \"9000\"\nextraction:\n  transcript_confidence: 0.6\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7777")
	t.Setenv("VOICE_MOCK", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7777" {
		t.Errorf("env should override yaml, port = %q", cfg.Server.Port)
	}
	if cfg.Extraction.TranscriptConfidence != 0.6 {
		t.Errorf("yaml value not applied: %v", cfg.Extraction.TranscriptConfidence)
	}
	if !cfg.VoiceAPI.Mock {
		t.Error("VOICE_MOCK=true not applied")
	}
	// untouched defaults survive partial yaml
	if cfg.Extraction.FunctionCallConfidence != 0.95 {
		t.Errorf("default lost: %v", cfg.Extraction.FunctionCallConfidence)
	}
}
