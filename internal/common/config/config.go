// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// ProvidersConfig holds credentials and model selection for both vendors.
// Each purpose (router, answer) maps to its own configured model name.
type ProvidersConfig struct {
	Default   string         `mapstructure:"default"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
}

type ProviderConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	RouterModel string `mapstructure:"router_model"`
	AnswerModel string `mapstructure:"answer_model"`
}

type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DefaultTTL    time.Duration `mapstructure:"default_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Redis         RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate reports configuration problems without failing startup. The health
// endpoint surfaces the result so operators can see a misconfigured instance.
func (c *Config) Validate() (bool, []string) {
	var errs []string

	if c.Providers.OpenAI.APIKey == "" && c.Providers.Anthropic.APIKey == "" {
		errs = append(errs, "no provider credential configured")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, "server port out of range")
	}

	return len(errs) == 0, errs
}
