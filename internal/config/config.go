package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds process-wide settings for the assistant. Values come from
// a config.yaml (when present) with SALESPILOT_* environment overrides.
type Config struct {
	DatabasePath  string `mapstructure:"database_path"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	Model         string `mapstructure:"model"`
	JudgeModel    string `mapstructure:"judge_model"`
	MaxIterations int    `mapstructure:"max_iterations"`
	DefaultAgent  string `mapstructure:"default_agent"`
	EvalOutputDir string `mapstructure:"eval_output_dir"`
	Debug         bool   `mapstructure:"debug"`
}

// SetDefaults registers the default values on the shared viper instance.
// Called before ReadInConfig so file and env values override them.
func SetDefaults() {
	viper.SetDefault("database_path", "sales.db")
	viper.SetDefault("model", "gpt-4o-mini")
	viper.SetDefault("judge_model", "gpt-4o-mini")
	viper.SetDefault("max_iterations", 5)
	viper.SetDefault("default_agent", "Anna Snelling")
	viper.SetDefault("eval_output_dir", "eval_results")
	viper.SetDefault("debug", false)
}

// Load materializes the current viper state into a Config struct.
func Load() (*Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("max_iterations must be positive, got %d", cfg.MaxIterations)
	}

	// Fall back to the conventional variable the OpenAI SDK also honors.
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}
