package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	AppName    string `envconfig:"APP_NAME" default:"weather-viz"`
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0"`
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	Port       string `envconfig:"PORT" default:"8080"`
	SentryDSN  string `envconfig:"SENTRY_DSN"`

	// Path to the trained atmospheric pattern artifact. The model is loaded
	// lazily; a missing file only disables the pattern endpoints.
	ModelPath string `envconfig:"MODEL_PATH" default:"models/atmospheric_patterns.json"`

	ProviderTimeoutSeconds int `envconfig:"PROVIDER_TIMEOUT_SECONDS" default:"30"`

	SMHI      SMHIConfig      `yaml:"smhi"`
	Nominatim NominatimConfig `yaml:"nominatim"`
}

type SMHIConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"SMHI_BASE_URL"`
}

type NominatimConfig struct {
	BaseURL           string  `yaml:"base_url" envconfig:"NOMINATIM_BASE_URL"`
	UserAgent         string  `yaml:"user_agent" envconfig:"NOMINATIM_USER_AGENT"`
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"NOMINATIM_RPS"`
	CandidateLimit    int     `yaml:"candidate_limit" envconfig:"NOMINATIM_CANDIDATE_LIMIT"`
}

func NewConfig() *Config {
	return NewConfigFromFile(defaultConfigPath)
}

// NewConfigFromFile reads the YAML file first (a missing file is fine, the
// defaults and environment cover everything) and then lets environment
// variables override it.
func NewConfigFromFile(path string) *Config {
	var cnf Config

	if yamlData, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			panic(fmt.Sprintf("failed to parse YAML config %s: %v", path, err))
		}
	}

	if err := envconfig.Process("", &cnf); err != nil {
		panic(fmt.Errorf("error environment variable parsing: %w", err))
	}

	return &cnf
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
