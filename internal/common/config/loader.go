// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like PROVIDERS_OPENAI_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "triage-service")
	v.SetDefault("app.environment", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10)
	v.SetDefault("providers.default", "vendor-a")
	v.SetDefault("providers.openai.router_model", "gpt-4o-mini")
	v.SetDefault("providers.openai.answer_model", "gpt-4o")
	v.SetDefault("providers.anthropic.router_model", "claude-3-5-haiku-latest")
	v.SetDefault("providers.anthropic.answer_model", "claude-sonnet-4-5")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.default_ttl", 15*time.Minute)
	v.SetDefault("cache.sweep_interval", time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// overrideFromEnv applies the conventional credential variables directly, since
// operators set OPENAI_API_KEY rather than the viper-mapped key path.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Providers.OpenAI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.Providers.Anthropic.APIKey = key
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		cfg.Cache.Redis.Address = addr
	}
}

// loadEnvFile tries .env from likely locations so tests and the binary behave
// the same regardless of working directory.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
