package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Consensus.Threshold != 0.7 {
		t.Errorf("default consensus threshold = %v, want 0.7", cfg.Consensus.Threshold)
	}
	if cfg.Consensus.MaxResolutionAttempts != 3 {
		t.Errorf("default max resolution attempts = %d, want 3", cfg.Consensus.MaxResolutionAttempts)
	}
	if !cfg.Consensus.EnableVeto {
		t.Error("veto should be enabled by default")
	}
	if cfg.Panel.RoundTimeout != 30*time.Second {
		t.Errorf("default round timeout = %v, want 30s", cfg.Panel.RoundTimeout)
	}
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "consilium.yaml")
	yaml := `
server:
  port: "9090"
consensus:
  threshold: 0.8
  max_resolution_attempts: 5
panel:
  round_timeout: 10s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Consensus.Threshold != 0.8 {
		t.Errorf("threshold = %v, want 0.8", cfg.Consensus.Threshold)
	}
	if cfg.Consensus.MaxResolutionAttempts != 5 {
		t.Errorf("max attempts = %d, want 5", cfg.Consensus.MaxResolutionAttempts)
	}
	if cfg.Panel.RoundTimeout != 10*time.Second {
		t.Errorf("round timeout = %v, want 10s", cfg.Panel.RoundTimeout)
	}
	// Untouched values keep defaults.
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("nats url = %q, want default", cfg.NATS.URL)
	}
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	t.Setenv("CONSILIUM_CONSENSUS_THRESHOLD", "0.9")
	t.Setenv("CONSILIUM_ENABLE_VETO", "false")
	t.Setenv("CONSILIUM_ROUND_TIMEOUT", "5s")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if cfg.Consensus.Threshold != 0.9 {
		t.Errorf("threshold = %v, want 0.9 from env", cfg.Consensus.Threshold)
	}
	if cfg.Consensus.EnableVeto {
		t.Error("veto should be disabled by env")
	}
	if cfg.Panel.RoundTimeout != 5*time.Second {
		t.Errorf("round timeout = %v, want 5s from env", cfg.Panel.RoundTimeout)
	}
}

func TestLoadFrom_ValidationRejectsBadKnobs(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"threshold above one", map[string]string{"CONSILIUM_CONSENSUS_THRESHOLD": "1.5"}},
		{"negative escalation threshold", map[string]string{"CONSILIUM_ESCALATION_THRESHOLD": "-0.1"}},
		{"zero max attempts", map[string]string{"CONSILIUM_MAX_RESOLUTION_ATTEMPTS": "0"}},
		{"zero max parallel", map[string]string{"CONSILIUM_MAX_PARALLEL": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error, got nil")
	}
}
