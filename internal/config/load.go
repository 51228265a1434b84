package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at path, applies environment overrides
// (optionally from a .env file next to the process) and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// envOverrides lists the environment variables that win over the YAML file.
type envOverrides struct {
	WhisperDevice  string   `envconfig:"WHISPER_DEVICE"`
	WhisperCompute string   `envconfig:"WHISPER_COMPUTE"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
	DatabaseDSN    string   `envconfig:"DATABASE_DSN"`
	RedisAddr      string   `envconfig:"REDIS_ADDR"`
	GeminiAPIKeys  []string `envconfig:"GEMINI_API_KEYS"`
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}

	if env.WhisperDevice != "" {
		c.Whisper.Device = strings.ToLower(env.WhisperDevice)
	}
	if env.WhisperCompute != "" {
		c.Whisper.Compute = strings.ToLower(env.WhisperCompute)
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.DatabaseDSN != "" {
		c.Database.DSN = env.DatabaseDSN
	}
	if env.RedisAddr != "" {
		c.Redis.Addr = env.RedisAddr
	}

	var keys []string
	for _, k := range env.GeminiAPIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		c.Gemini.APIKeys = keys
	}
	return nil
}
