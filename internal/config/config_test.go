package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ActiveParserPath != "active_parser.go" {
		t.Errorf("ActiveParserPath: got %q", cfg.ActiveParserPath)
	}
	if cfg.AmountTolerance != 1 || cfg.BalanceTolerance != 1 {
		t.Errorf("tolerances: got %v/%v, want 1/1", cfg.AmountTolerance, cfg.BalanceTolerance)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr: got %q", cfg.ListenAddr)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "llm_model: test-model\namount_tolerance: 0\nactive_parser_path: /tmp/override.go\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLMModel != "env-model" {
		t.Errorf("LLMModel: got %q, want env override", cfg.LLMModel)
	}
	if cfg.AmountTolerance != 0 {
		t.Errorf("AmountTolerance: got %v, want 0 from file", cfg.AmountTolerance)
	}
	if cfg.ActiveParserPath != "/tmp/override.go" {
		t.Errorf("ActiveParserPath: got %q", cfg.ActiveParserPath)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed config")
	}
}
