// Package config loads and watches the YAML configuration file for the
// cipher service.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/duustin25/vigenere-cipher-system/pkg/cipher"
)

// Defaults applied when the file or a field is absent.
const (
	DefaultListenAddr      = ":8090"
	DefaultLogLevel        = "info"
	DefaultModulus         = 26
	DefaultMaxTextLength   = 4096
	DefaultMaxKeyLength    = 256
	DefaultShutdownTimeout = 10 * time.Second

	// The modulus field is bounded before the engine narrows it to the
	// supported alphabet set.
	MinModulus = 1
	MaxModulus = 200
)

// Config is the root configuration document.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Cipher    CipherConfig    `yaml:"cipher"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig controls the HTTP adapter.
type ServerConfig struct {
	Listen          string        `yaml:"listen"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// CipherConfig controls engine-facing request handling.
type CipherConfig struct {
	// DefaultModulus is used when a request omits the mod field.
	DefaultModulus int `yaml:"default_modulus"`
	// MaxTextLength and MaxKeyLength bound request sizes before the
	// engine sees them.
	MaxTextLength int `yaml:"max_text_length"`
	MaxKeyLength  int `yaml:"max_key_length"`
	// IncludeTrace controls whether responses carry the per-character
	// arithmetic trace.
	IncludeTrace bool `yaml:"include_trace"`
}

// TelemetryConfig controls the OTLP trace exporter.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Insecure    bool   `yaml:"insecure"`
}

// Default returns a fully-populated configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:          DefaultListenAddr,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
		Cipher: CipherConfig{
			DefaultModulus: DefaultModulus,
			MaxTextLength:  DefaultMaxTextLength,
			MaxKeyLength:   DefaultMaxKeyLength,
			IncludeTrace:   true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "vigenere-cipher-system",
			Environment: "development",
		},
	}
}

// Load reads and validates the configuration file at path. Missing
// fields keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator at startup
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}

	if _, ok := cipher.AlphabetFor(c.Cipher.DefaultModulus); !ok {
		return fmt.Errorf("cipher.default_modulus %d is not a supported alphabet (26, 27 or 37)", c.Cipher.DefaultModulus)
	}

	if c.Cipher.MaxTextLength < 1 {
		return fmt.Errorf("cipher.max_text_length must be positive, got %d", c.Cipher.MaxTextLength)
	}

	if c.Cipher.MaxKeyLength < 1 {
		return fmt.Errorf("cipher.max_key_length must be positive, got %d", c.Cipher.MaxKeyLength)
	}

	return nil
}
