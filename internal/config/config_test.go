package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.TimeoutSeconds != 120 || cfg.RemoteDir != "/sdcard" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Vision.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("unexpected vision defaults: %+v", cfg.Vision)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `adb_path: /opt/platform-tools/adb
timeout_seconds: 30
vision:
  endpoint: http://localhost:8080/v1/chat/completions
  model: local-model
  api_key_env: LOCAL_KEY
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ADBPath != "/opt/platform-tools/adb" {
		t.Errorf("adb_path not applied: %q", cfg.ADBPath)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout not applied: %s", cfg.Timeout())
	}
	if cfg.Vision.Model != "local-model" || cfg.Vision.APIKeyEnv != "LOCAL_KEY" {
		t.Errorf("vision overrides not applied: %+v", cfg.Vision)
	}
	// Unset keys keep their defaults.
	if cfg.RemoteDir != "/sdcard" {
		t.Errorf("remote_dir default lost: %q", cfg.RemoteDir)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timeout_seconds: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
