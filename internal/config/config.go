// Package config loads service configuration from config.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the reconciliation service. Decision
// thresholds are fixed by the workflow and deliberately not configurable.
type Config struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	LLMModel        string `yaml:"llm_model"`
	LLMMaxTokens    int64  `yaml:"llm_max_tokens"`

	// ActiveParserPath is the file whose presence marks a promoted override.
	ActiveParserPath string `yaml:"active_parser_path"`

	// Comparison tolerances; 0 means exact equality, >0 means absolute
	// difference strictly under the value.
	AmountTolerance  float64 `yaml:"amount_tolerance"`
	BalanceTolerance float64 `yaml:"balance_tolerance"`

	ListenAddr string `yaml:"listen_addr"`
}

// Load reads config.yaml (or $CONFIG_PATH) if present, applies environment
// overrides and fills defaults. A missing file is fine; a malformed one is
// not.
func Load() (Config, error) {
	cfg := Config{
		ActiveParserPath: "active_parser.go",
		AmountTolerance:  1,
		BalanceTolerance: 1,
		ListenAddr:       ":8080",
	}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.ActiveParserPath, "ACTIVE_PARSER_PATH")
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.LLMMaxTokens = n
		}
	}

	return cfg, nil
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
