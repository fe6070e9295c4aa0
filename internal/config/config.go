// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - The config file is declarative data (YAML or TOML); it is never executed.
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Problems the operator must fix are reported as *model.ConfigError.
package config

import (
	"github.com/okian/secretsanta/internal/domain/model"
)

// Default configuration values.
const (
	DefaultConfigFile     = "config.yaml"
	DefaultEnvFile        = ".env.secret"
	DefaultRecordFile     = "secret-santa-record-file.txt"
	DefaultTestRecordFile = "secret-santa-test-email.txt"
)

// Template is the letter every santa receives. {santa} and {recipient} are
// substituted in every field.
type Template struct {
	FromName  string `koanf:"from_name" validate:"required"`
	FromEmail string `koanf:"from_email" validate:"required,email"`
	Subject   string `koanf:"subject" validate:"required"`
	Body      string `koanf:"body" validate:"required"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// RecordFile receives every rendered letter. It reveals all pairings.
	RecordFile string `koanf:"record_file" validate:"required"`

	// TestRecordFile receives the letter sent by --send-test-email.
	TestRecordFile string `koanf:"test_record_file" validate:"required"`

	// MaxAttempts bounds the random draw; 0 retries forever.
	MaxAttempts int `koanf:"max_attempts" validate:"min=0"`

	// MetricsFile, when set, receives Prometheus metrics in textfile format.
	MetricsFile string `koanf:"metrics_file"`

	// Template is the letter sent to each santa.
	Template Template `koanf:"template"`

	// Exclusions lists, per santa, the recipients that santa must not draw.
	// Decoded separately so scalar values are rejected instead of coerced.
	Exclusions model.Exclusions `koanf:"-"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		RecordFile:     DefaultRecordFile,
		TestRecordFile: DefaultTestRecordFile,
		Template: Template{
			FromName: "Santa Claus",
			Subject:  "Secret Santa",
			Body:     "Ho Ho Ho!\n\nHi {santa}, you are the Secret Santa of... {recipient}!\n\nKeep it secret!\n",
		},
		Exclusions: model.Exclusions{},
	}
}

// ApplySecrets fills values that default to secrets, such as the sender address.
func (c *Config) ApplySecrets(s *Secrets) {
	if s == nil {
		return
	}
	if c.Template.FromEmail == "" {
		c.Template.FromEmail = s.SMTP.From
	}
}
