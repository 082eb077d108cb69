package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadFailsWithoutRequiredFields(t *testing.T) {
	for _, k := range []string{"CONF_DIR", "SONARR_URL", "SONARR_API", "SONARR_IN_PATH"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected an error when required fields are missing")
	}
}

func TestLoadAppliesDefaultsAndEnv(t *testing.T) {
	withEnv(t, map[string]string{
		"SONARR_URL":      "http://sonarr.local:8989",
		"SONARR_API":      "abc123",
		"SONARR_IN_PATH":  "/mnt/sonarr-drop",
		"WAI_OUT_PATH":    "/mnt/downloads",
		"AGING_RIPENESS_PER_DAY": "7",
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sonarr.URL != "http://sonarr.local:8989" {
		t.Errorf("unexpected Sonarr URL: %q", cfg.Sonarr.URL)
	}
	if cfg.Aging.RipenessPerDay != 7 {
		t.Errorf("expected ripeness-per-day override 7, got %d", cfg.Aging.RipenessPerDay)
	}
	wantTemp := filepath.Join("/mnt/downloads", "incomplete")
	if cfg.Paths.WAIOutTemp != wantTemp {
		t.Errorf("expected derived temp path %q, got %q", wantTemp, cfg.Paths.WAIOutTemp)
	}
	if !cfg.Workflow.RunDecisionQueue || !cfg.Workflow.RunAgingQueue || !cfg.Workflow.RunDownloadQueue {
		t.Error("expected all three stages to run by default")
	}
}

func TestTOMLOverlayAppliedBeforeEnv(t *testing.T) {
	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf")
	if err := os.Mkdir(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	toml := `
[sonarr]
url = "http://from-toml:8989"
api_key = "toml-key"

[paths]
sonarr_in_path = "/from/toml"

[aging]
ripeness_per_day = 9
`
	if err := os.WriteFile(filepath.Join(confDir, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}

	withEnv(t, map[string]string{
		"CONF_DIR":   confDir,
		"SONARR_URL": "http://from-env:8989",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sonarr.URL != "http://from-env:8989" {
		t.Errorf("expected env var to win over TOML overlay, got %q", cfg.Sonarr.URL)
	}
	if cfg.Sonarr.API != "toml-key" {
		t.Errorf("expected TOML-provided API key to survive, got %q", cfg.Sonarr.API)
	}
	if cfg.Aging.RipenessPerDay != 9 {
		t.Errorf("expected TOML ripeness override 9, got %d", cfg.Aging.RipenessPerDay)
	}
}
